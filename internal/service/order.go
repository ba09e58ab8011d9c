package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/shopworks/ecommerce-api/internal/domain"
	"github.com/shopworks/ecommerce-api/internal/event"
	"github.com/shopworks/ecommerce-api/internal/repository"
	apperrors "github.com/shopworks/ecommerce-api/pkg/errors"
)

// OrderService implements checkout and order management.
type OrderService struct {
	orderRepo repository.OrderRepository
	producer  *event.Producer
	logger    *slog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		producer:  producer,
		logger:    logger,
	}
}

// Checkout converts the user's cart into a Pending order. Prices are
// snapshotted and the cart cleared atomically by the repository; an empty
// cart is rejected.
func (s *OrderService) Checkout(ctx context.Context, userID string) (*domain.Order, error) {
	order, err := s.orderRepo.CreateFromCart(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrEmptyCart) {
			return nil, &apperrors.AppError{
				Code:    "EMPTY_CART",
				Message: "cart is empty",
				Status:  http.StatusBadRequest,
				Err:     apperrors.ErrInvalidInput,
			}
		}
		return nil, fmt.Errorf("checkout for user %s: %w", userID, err)
	}

	// Publish order event (non-blocking on failure).
	if err := s.producer.PublishOrderCreated(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.created event",
			slog.Int64("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order created",
		slog.Int64("order_id", order.ID),
		slog.String("user_id", userID),
		slog.Int64("total_cents", order.TotalCents),
	)

	return order, nil
}

// GetOrder returns an order. An order is visible to its owner and to admins;
// anyone else gets a forbidden error.
func (s *OrderService) GetOrder(ctx context.Context, id int64, requesterID string, isAdmin bool) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}

	if !isAdmin && order.UserID != requesterID {
		return nil, apperrors.Forbidden("you may only view your own orders")
	}

	return order, nil
}

// ListOrders returns the user's own orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, userID string, page, perPage int) ([]domain.Order, int, error) {
	orders, total, err := s.orderRepo.List(ctx, repository.OrderFilter{
		UserID:  &userID,
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list orders for user %s: %w", userID, err)
	}
	return orders, total, nil
}

// ListAllOrders returns orders across all users, optionally filtered by status.
func (s *OrderService) ListAllOrders(ctx context.Context, status *string, page, perPage int) ([]domain.Order, int, error) {
	if status != nil && !domain.IsValidStatus(*status) {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("invalid order status %q", *status))
	}

	orders, total, err := s.orderRepo.List(ctx, repository.OrderFilter{
		Status:  status,
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list all orders: %w", err)
	}
	return orders, total, nil
}

// UpdateStatus moves an order to a new status. Only transitions allowed by
// the status machine go through; anything else is a conflict.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Order, error) {
	if !domain.IsValidStatus(status) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid order status %q", status))
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}

	if !order.CanTransitionTo(status) {
		return nil, apperrors.Conflict("INVALID_TRANSITION",
			fmt.Sprintf("cannot transition order from %s to %s", order.Status, status))
	}

	oldStatus := order.Status
	updated, err := s.orderRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("update order %d status: %w", id, err)
	}

	// Publish status change event (non-blocking on failure).
	if err := s.producer.PublishOrderStatusChanged(ctx, updated, oldStatus); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.status_changed event",
			slog.Int64("order_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order status updated",
		slog.Int64("order_id", id),
		slog.String("old_status", oldStatus),
		slog.String("new_status", status),
	)

	return updated, nil
}
