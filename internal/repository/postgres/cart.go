package postgres

import (
	"context"
	"fmt"

	"github.com/shopworks/ecommerce-api/internal/domain"
	"github.com/shopworks/ecommerce-api/pkg/database"
	apperrors "github.com/shopworks/ecommerce-api/pkg/errors"
)

// CartRepository implements repository.CartRepository using PostgreSQL.
type CartRepository struct {
	pool database.DBTX
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool database.DBTX) *CartRepository {
	return &CartRepository{pool: pool}
}

// GetOrCreate returns the user's cart with items, creating an empty cart on
// first access. The ON CONFLICT clause makes concurrent first accesses safe:
// both requests land on the same row.
func (r *CartRepository) GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error) {
	upsert := `
		INSERT INTO carts (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = carts.updated_at
		RETURNING id, user_id, created_at, updated_at`

	var cart domain.Cart
	err := r.pool.QueryRow(ctx, upsert, userID).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get or create cart: %w", err)
	}

	items, err := r.loadItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items

	return &cart, nil
}

// AddItem adds a product line to the cart, merging quantities when the
// product is already present.
func (r *CartRepository) AddItem(ctx context.Context, cartID, productID int64, quantity int) error {
	query := `
		INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()`

	_, err := r.pool.Exec(ctx, query, cartID, productID, quantity)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NotFound("product", fmt.Sprint(productID))
		}
		return fmt.Errorf("add cart item: %w", err)
	}

	return nil
}

// RemoveItem deletes a product line from the cart.
func (r *CartRepository) RemoveItem(ctx context.Context, cartID, productID int64) error {
	query := `DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`

	ct, err := r.pool.Exec(ctx, query, cartID, productID)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("cart item", fmt.Sprint(productID))
	}

	return nil
}

// Clear removes all lines from the cart.
func (r *CartRepository) Clear(ctx context.Context, cartID int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	return nil
}

// loadItems fetches cart lines joined with current product details. The
// price shown here is the live product price; checkout snapshots it.
func (r *CartRepository) loadItems(ctx context.Context, cartID int64) ([]domain.CartItem, error) {
	query := `
		SELECT ci.id, ci.product_id, p.name, p.price_cents, ci.quantity, p.image_url
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at`

	rows, err := r.pool.Query(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.CartItem, 0)
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(
			&item.ID,
			&item.ProductID,
			&item.ProductName,
			&item.PriceCents,
			&item.Quantity,
			&item.ImageURL,
		); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart item rows: %w", err)
	}

	return items, nil
}
