package domain

import "time"

// Wishlist represents a user's saved products. Like carts, wishlists are
// created lazily on first access.
type Wishlist struct {
	ID        int64          `json:"id"`
	UserID    string         `json:"user_id"`
	Items     []WishlistItem `json:"items"`
	CreatedAt time.Time      `json:"created_at"`
}

// WishlistItem is a product saved in a wishlist.
type WishlistItem struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	PriceCents  int64     `json:"price_cents"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
