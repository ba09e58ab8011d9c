package postgres

import (
	"context"
	"fmt"

	"github.com/shopworks/ecommerce-api/internal/domain"
	"github.com/shopworks/ecommerce-api/pkg/database"
	apperrors "github.com/shopworks/ecommerce-api/pkg/errors"
)

// WishlistRepository implements repository.WishlistRepository using PostgreSQL.
type WishlistRepository struct {
	pool database.DBTX
}

// NewWishlistRepository creates a new PostgreSQL-backed wishlist repository.
func NewWishlistRepository(pool database.DBTX) *WishlistRepository {
	return &WishlistRepository{pool: pool}
}

// GetOrCreate returns the user's wishlist with items, creating an empty
// wishlist on first access.
func (r *WishlistRepository) GetOrCreate(ctx context.Context, userID string) (*domain.Wishlist, error) {
	upsert := `
		INSERT INTO wishlists (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, user_id, created_at`

	var wl domain.Wishlist
	err := r.pool.QueryRow(ctx, upsert, userID).Scan(&wl.ID, &wl.UserID, &wl.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get or create wishlist: %w", err)
	}

	query := `
		SELECT wi.id, wi.product_id, p.name, p.price_cents, p.image_url, wi.created_at
		FROM wishlist_items wi
		JOIN products p ON p.id = wi.product_id
		WHERE wi.wishlist_id = $1
		ORDER BY wi.created_at DESC`

	rows, err := r.pool.Query(ctx, query, wl.ID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.WishlistItem, 0)
	for rows.Next() {
		var item domain.WishlistItem
		if err := rows.Scan(
			&item.ID,
			&item.ProductID,
			&item.ProductName,
			&item.PriceCents,
			&item.ImageURL,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan wishlist item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wishlist rows: %w", err)
	}

	wl.Items = items
	return &wl, nil
}

// AddItem inserts a product into the wishlist. ON CONFLICT DO NOTHING makes
// repeated adds idempotent; RowsAffected distinguishes a fresh insert from an
// already-present product.
func (r *WishlistRepository) AddItem(ctx context.Context, wishlistID, productID int64) (bool, error) {
	query := `
		INSERT INTO wishlist_items (wishlist_id, product_id)
		VALUES ($1, $2)
		ON CONFLICT (wishlist_id, product_id) DO NOTHING`

	ct, err := r.pool.Exec(ctx, query, wishlistID, productID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, apperrors.NotFound("product", fmt.Sprint(productID))
		}
		return false, fmt.Errorf("add wishlist item: %w", err)
	}

	return ct.RowsAffected() > 0, nil
}

// RemoveItem deletes a product from the wishlist.
func (r *WishlistRepository) RemoveItem(ctx context.Context, wishlistID, productID int64) error {
	query := `DELETE FROM wishlist_items WHERE wishlist_id = $1 AND product_id = $2`

	ct, err := r.pool.Exec(ctx, query, wishlistID, productID)
	if err != nil {
		return fmt.Errorf("remove wishlist item: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("wishlist item", fmt.Sprint(productID))
	}

	return nil
}
