package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopworks/ecommerce-api/internal/domain"
)

// ErrEmptyCart is returned by CreateFromCart when the user's cart holds no
// items at conversion time.
var ErrEmptyCart = errors.New("cart is empty")

// UserRepository defines the interface for user persistence operations.
// Role assignments ride along with the user row.
type UserRepository interface {
	// Create inserts a new user and their role assignments.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user with roles by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user with roles by their email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update modifies an existing user and replaces their role assignments.
	Update(ctx context.Context, user *domain.User) error
}

// CategoryRepository defines the interface for category persistence operations.
type CategoryRepository interface {
	// Create inserts a new category.
	Create(ctx context.Context, category *domain.Category) error

	// GetByID retrieves a category by its identifier.
	GetByID(ctx context.Context, id int64) (*domain.Category, error)

	// List returns all categories ordered by name.
	List(ctx context.Context) ([]domain.Category, error)

	// Update modifies an existing category.
	Update(ctx context.Context, category *domain.Category) error

	// Delete removes a category. Products referencing it are detached, not deleted.
	Delete(ctx context.Context, id int64) error
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	CategoryID *int64
	Search     string
	Page       int
	PerPage    int
}

// ProductRepository defines the interface for product persistence operations.
type ProductRepository interface {
	// Create inserts a new product.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by its identifier.
	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// List returns products matching the filter and the total count.
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)

	// Update modifies an existing product.
	Update(ctx context.Context, product *domain.Product) error

	// Delete removes a product.
	Delete(ctx context.Context, id int64) error
}

// CartRepository defines the interface for cart persistence operations.
type CartRepository interface {
	// GetOrCreate returns the user's cart with items, creating an empty cart
	// on first access.
	GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error)

	// AddItem adds a product line to the cart. If the product is already in
	// the cart, the quantities are merged into the existing line.
	AddItem(ctx context.Context, cartID, productID int64, quantity int) error

	// RemoveItem deletes a product line from the cart.
	RemoveItem(ctx context.Context, cartID, productID int64) error

	// Clear removes all lines from the cart.
	Clear(ctx context.Context, cartID int64) error
}

// WishlistRepository defines the interface for wishlist persistence operations.
type WishlistRepository interface {
	// GetOrCreate returns the user's wishlist with items, creating an empty
	// wishlist on first access.
	GetOrCreate(ctx context.Context, userID string) (*domain.Wishlist, error)

	// AddItem inserts a product into the wishlist. Returns false when the
	// product was already present (idempotent).
	AddItem(ctx context.Context, wishlistID, productID int64) (bool, error)

	// RemoveItem deletes a product from the wishlist.
	RemoveItem(ctx context.Context, wishlistID, productID int64) error
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	UserID  *string
	Status  *string
	Page    int
	PerPage int
}

// OrderRepository defines the interface for order persistence operations.
type OrderRepository interface {
	// CreateFromCart converts the user's cart into an order inside a single
	// transaction: unit prices are snapshotted from the current product
	// prices, the order and its items are inserted, and the cart is cleared.
	// Returns ErrEmptyCart when the cart holds no items.
	CreateFromCart(ctx context.Context, userID string) (*domain.Order, error)

	// GetByID retrieves an order by its identifier, eagerly loading its items.
	GetByID(ctx context.Context, id int64) (*domain.Order, error)

	// List returns orders matching the given filter with the total count.
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, int, error)

	// UpdateStatus sets the order status and returns the updated order.
	UpdateStatus(ctx context.Context, id int64, status string) (*domain.Order, error)
}

// ReviewRepository defines the interface for review persistence operations.
type ReviewRepository interface {
	// Upsert inserts the review or, when the user already reviewed the
	// product, updates the existing row in place keeping its identifier.
	// Returns true when an existing review was updated.
	Upsert(ctx context.Context, review *domain.Review) (bool, error)

	// GetByID retrieves a review by its identifier.
	GetByID(ctx context.Context, id int64) (*domain.Review, error)

	// ListByProduct returns reviews for a product, newest first, with the
	// total count.
	ListByProduct(ctx context.Context, productID int64, page, perPage int) ([]domain.Review, int, error)

	// Summary returns the aggregate rating for a product. Zero values, not
	// an error, for a product without reviews.
	Summary(ctx context.Context, productID int64) (*domain.ReviewSummary, error)

	// Delete removes a review.
	Delete(ctx context.Context, id int64) error
}

// LockoutStore tracks failed login attempts per account within a rolling
// window, backing the account lockout check.
type LockoutStore interface {
	// RecordFailure increments the failure counter for the email and returns
	// the new count. The counter expires after the window elapses.
	RecordFailure(ctx context.Context, email string, window time.Duration) (int, error)

	// Failures returns the current failure count for the email.
	Failures(ctx context.Context, email string) (int, error)

	// Reset clears the failure counter after a successful login.
	Reset(ctx context.Context, email string) error
}
