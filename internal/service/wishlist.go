package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopworks/ecommerce-api/internal/domain"
	"github.com/shopworks/ecommerce-api/internal/repository"
	apperrors "github.com/shopworks/ecommerce-api/pkg/errors"
)

// WishlistService implements wishlist business logic.
type WishlistService struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
	logger       *slog.Logger
}

// NewWishlistService creates a new wishlist service.
func NewWishlistService(
	wishlistRepo repository.WishlistRepository,
	productRepo repository.ProductRepository,
	logger *slog.Logger,
) *WishlistService {
	return &WishlistService{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
		logger:       logger,
	}
}

// AddResult reports the outcome of an idempotent wishlist add.
type AddResult struct {
	Wishlist          *domain.Wishlist `json:"wishlist"`
	AlreadyInWishlist bool             `json:"already_in_wishlist"`
}

// GetWishlist returns the user's wishlist, creating it lazily on first access.
func (s *WishlistService) GetWishlist(ctx context.Context, userID string) (*domain.Wishlist, error) {
	wl, err := s.wishlistRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get wishlist for user %s: %w", userID, err)
	}
	return wl, nil
}

// AddItem adds a product to the user's wishlist. Adding a product that is
// already present is not an error; the result flags it instead.
func (s *WishlistService) AddItem(ctx context.Context, userID string, productID int64) (*AddResult, error) {
	if productID <= 0 {
		return nil, apperrors.InvalidInput("product id must be positive")
	}

	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, fmt.Errorf("get product %d: %w", productID, err)
	}

	wl, err := s.wishlistRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get wishlist for user %s: %w", userID, err)
	}

	added, err := s.wishlistRepo.AddItem(ctx, wl.ID, productID)
	if err != nil {
		return nil, fmt.Errorf("add item to wishlist %d: %w", wl.ID, err)
	}

	if added {
		s.logger.InfoContext(ctx, "wishlist item added",
			slog.String("user_id", userID),
			slog.Int64("product_id", productID),
		)
	}

	wl, err = s.wishlistRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reload wishlist for user %s: %w", userID, err)
	}

	return &AddResult{Wishlist: wl, AlreadyInWishlist: !added}, nil
}

// RemoveItem removes a product from the user's wishlist and returns the
// updated wishlist.
func (s *WishlistService) RemoveItem(ctx context.Context, userID string, productID int64) (*domain.Wishlist, error) {
	wl, err := s.wishlistRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get wishlist for user %s: %w", userID, err)
	}

	if err := s.wishlistRepo.RemoveItem(ctx, wl.ID, productID); err != nil {
		return nil, fmt.Errorf("remove item from wishlist %d: %w", wl.ID, err)
	}

	s.logger.InfoContext(ctx, "wishlist item removed",
		slog.String("user_id", userID),
		slog.Int64("product_id", productID),
	)

	return s.wishlistRepo.GetOrCreate(ctx, userID)
}
