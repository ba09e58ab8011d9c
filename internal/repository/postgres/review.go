package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/shopworks/ecommerce-api/internal/domain"
	"github.com/shopworks/ecommerce-api/pkg/database"
	apperrors "github.com/shopworks/ecommerce-api/pkg/errors"
)

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// Upsert inserts the review or updates the user's existing review for the
// product in place. The row id is stable across updates. The xmax check
// distinguishes an update from a fresh insert.
func (r *ReviewRepository) Upsert(ctx context.Context, rev *domain.Review) (bool, error) {
	query := `
		INSERT INTO reviews (product_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET rating = EXCLUDED.rating, comment = EXCLUDED.comment, updated_at = NOW()
		RETURNING id, created_at, updated_at, (xmax <> 0) AS updated`

	var updated bool
	err := r.pool.QueryRow(ctx, query,
		rev.ProductID,
		rev.UserID,
		rev.Rating,
		rev.Comment,
	).Scan(&rev.ID, &rev.CreatedAt, &rev.UpdatedAt, &updated)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, apperrors.NotFound("product", fmt.Sprint(rev.ProductID))
		}
		return false, fmt.Errorf("upsert review: %w", err)
	}

	return updated, nil
}

// GetByID retrieves a review by its ID.
func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	query := `
		SELECT rv.id, rv.product_id, rv.user_id, u.first_name || ' ' || u.last_name AS user_name, rv.rating, rv.comment, rv.created_at, rv.updated_at
		FROM reviews rv
		JOIN users u ON u.id = rv.user_id
		WHERE rv.id = $1`

	var rev domain.Review
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rev.ID,
		&rev.ProductID,
		&rev.UserID,
		&rev.UserName,
		&rev.Rating,
		&rev.Comment,
		&rev.CreatedAt,
		&rev.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan review: %w", err)
	}

	return &rev, nil
}

// ListByProduct returns reviews for a product, newest first, with the total count.
func (r *ReviewRepository) ListByProduct(ctx context.Context, productID int64, page, perPage int) ([]domain.Review, int, error) {
	if perPage <= 0 {
		perPage = 20
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * perPage
	}

	query := `
		SELECT rv.id, rv.product_id, rv.user_id, u.first_name || ' ' || u.last_name AS user_name, rv.rating, rv.comment, rv.created_at, rv.updated_at,
		       count(*) OVER() AS total_count
		FROM reviews rv
		JOIN users u ON u.id = rv.user_id
		WHERE rv.product_id = $1
		ORDER BY rv.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, productID, perPage, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var totalCount int
	reviews := make([]domain.Review, 0)

	for rows.Next() {
		var rev domain.Review
		if err := rows.Scan(
			&rev.ID,
			&rev.ProductID,
			&rev.UserID,
			&rev.UserName,
			&rev.Rating,
			&rev.Comment,
			&rev.CreatedAt,
			&rev.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rev)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, totalCount, nil
}

// Summary returns the aggregate rating for a product. A product with no
// reviews yields a zero average and count rather than an error.
func (r *ReviewRepository) Summary(ctx context.Context, productID int64) (*domain.ReviewSummary, error) {
	query := `
		SELECT COALESCE(ROUND(AVG(rating)::numeric, 1), 0)::float8, COUNT(*)
		FROM reviews
		WHERE product_id = $1`

	summary := &domain.ReviewSummary{ProductID: productID}
	err := r.pool.QueryRow(ctx, query, productID).Scan(
		&summary.AverageRating,
		&summary.ReviewCount,
	)
	if err != nil {
		return nil, fmt.Errorf("summarize reviews: %w", err)
	}

	return summary, nil
}

// Delete removes a review.
func (r *ReviewRepository) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("review", fmt.Sprint(id))
	}

	return nil
}
