package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shopworks/ecommerce-api/internal/domain"
	apperrors "github.com/shopworks/ecommerce-api/pkg/errors"
)

func newTestCartService(cartRepo *mockCartRepository, productRepo *mockProductRepository) *CartService {
	return NewCartService(cartRepo, productRepo, newTestLogger())
}

func TestCartService_GetCart_LazyCreation(t *testing.T) {
	cartRepo := new(mockCartRepository)
	svc := newTestCartService(cartRepo, new(mockProductRepository))
	ctx := context.Background()

	cartRepo.On("GetOrCreate", ctx, "fresh-user").
		Return(&domain.Cart{ID: 1, UserID: "fresh-user", Items: []domain.CartItem{}}, nil)

	cart, err := svc.GetCart(ctx, "fresh-user")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestCartService_AddItem_Success(t *testing.T) {
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	svc := newTestCartService(cartRepo, productRepo)
	ctx := context.Background()

	productRepo.On("GetByID", ctx, int64(7)).Return(&domain.Product{ID: 7, Name: "Keyboard", PriceCents: 4999}, nil)

	empty := &domain.Cart{ID: 3, UserID: "user-1", Items: []domain.CartItem{}}
	loaded := &domain.Cart{ID: 3, UserID: "user-1", Items: []domain.CartItem{
		{ProductID: 7, ProductName: "Keyboard", PriceCents: 4999, Quantity: 2},
	}}
	cartRepo.On("GetOrCreate", ctx, "user-1").Return(empty, nil).Once()
	cartRepo.On("AddItem", ctx, int64(3), int64(7), 2).Return(nil)
	cartRepo.On("GetOrCreate", ctx, "user-1").Return(loaded, nil).Once()

	cart, err := svc.AddItem(ctx, "user-1", 7, 2)

	require.NoError(t, err)
	assert.Equal(t, int64(9998), cart.TotalCents())
	assert.Equal(t, 2, cart.ItemCount())
	cartRepo.AssertExpectations(t)
}

func TestCartService_AddItem_UnknownProduct(t *testing.T) {
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	svc := newTestCartService(cartRepo, productRepo)
	ctx := context.Background()

	productRepo.On("GetByID", ctx, int64(99)).Return(nil, apperrors.ErrNotFound)

	cart, err := svc.AddItem(ctx, "user-1", 99, 1)

	assert.Nil(t, cart)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	cartRepo.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCartService_AddItem_InvalidInput(t *testing.T) {
	svc := newTestCartService(new(mockCartRepository), new(mockProductRepository))
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", 0, 1)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.AddItem(ctx, "user-1", 7, 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.AddItem(ctx, "user-1", 7, -2)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCartService_RemoveItem_Success(t *testing.T) {
	cartRepo := new(mockCartRepository)
	svc := newTestCartService(cartRepo, new(mockProductRepository))
	ctx := context.Background()

	cart := &domain.Cart{ID: 3, UserID: "user-1", Items: []domain.CartItem{}}
	cartRepo.On("GetOrCreate", ctx, "user-1").Return(cart, nil)
	cartRepo.On("RemoveItem", ctx, int64(3), int64(7)).Return(nil)

	got, err := svc.RemoveItem(ctx, "user-1", 7)
	require.NoError(t, err)
	assert.NotNil(t, got)
	cartRepo.AssertExpectations(t)
}

func TestCartService_RemoveItem_NotInCart(t *testing.T) {
	cartRepo := new(mockCartRepository)
	svc := newTestCartService(cartRepo, new(mockProductRepository))
	ctx := context.Background()

	cart := &domain.Cart{ID: 3, UserID: "user-1", Items: []domain.CartItem{}}
	cartRepo.On("GetOrCreate", ctx, "user-1").Return(cart, nil)
	cartRepo.On("RemoveItem", ctx, int64(3), int64(7)).Return(apperrors.NotFound("cart item", "7"))

	_, err := svc.RemoveItem(ctx, "user-1", 7)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
