package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopworks/ecommerce-api/internal/domain"
	"github.com/shopworks/ecommerce-api/internal/repository"
	apperrors "github.com/shopworks/ecommerce-api/pkg/errors"
)

// CartService implements shopping cart business logic. Every operation is
// scoped to the authenticated user's own cart.
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	logger *slog.Logger,
) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// GetCart returns the user's cart, creating it lazily on first access.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart for user %s: %w", userID, err)
	}
	return cart, nil
}

// AddItem adds a product to the user's cart, merging quantities when the
// product is already present, and returns the updated cart.
func (s *CartService) AddItem(ctx context.Context, userID string, productID int64, quantity int) (*domain.Cart, error) {
	if productID <= 0 {
		return nil, apperrors.InvalidInput("product id must be positive")
	}
	if quantity <= 0 {
		return nil, apperrors.InvalidInput("quantity must be positive")
	}

	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, fmt.Errorf("get product %d: %w", productID, err)
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart for user %s: %w", userID, err)
	}

	if err := s.cartRepo.AddItem(ctx, cart.ID, productID, quantity); err != nil {
		return nil, fmt.Errorf("add item to cart %d: %w", cart.ID, err)
	}

	s.logger.InfoContext(ctx, "cart item added",
		slog.String("user_id", userID),
		slog.Int64("product_id", productID),
		slog.Int("quantity", quantity),
	)

	return s.cartRepo.GetOrCreate(ctx, userID)
}

// RemoveItem removes a product from the user's cart and returns the updated cart.
func (s *CartService) RemoveItem(ctx context.Context, userID string, productID int64) (*domain.Cart, error) {
	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart for user %s: %w", userID, err)
	}

	if err := s.cartRepo.RemoveItem(ctx, cart.ID, productID); err != nil {
		return nil, fmt.Errorf("remove item from cart %d: %w", cart.ID, err)
	}

	s.logger.InfoContext(ctx, "cart item removed",
		slog.String("user_id", userID),
		slog.Int64("product_id", productID),
	)

	return s.cartRepo.GetOrCreate(ctx, userID)
}
