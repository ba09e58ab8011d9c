package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopworks/ecommerce-api/internal/domain"
	"github.com/shopworks/ecommerce-api/internal/repository"
	apperrors "github.com/shopworks/ecommerce-api/pkg/errors"
)

// ReviewService implements product review business logic.
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	logger      *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	productRepo repository.ProductRepository,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// ReviewInput holds the parameters for submitting a review.
type ReviewInput struct {
	ProductID int64
	Rating    int
	Comment   string
}

// SubmitResult reports whether the submission updated an existing review.
type SubmitResult struct {
	Review  *domain.Review `json:"review"`
	Updated bool           `json:"updated"`
}

// Submit creates the user's review for a product, or updates their existing
// one in place. The review keeps its original ID across updates.
func (s *ReviewService) Submit(ctx context.Context, userID string, input ReviewInput) (*SubmitResult, error) {
	if input.ProductID <= 0 {
		return nil, apperrors.InvalidInput("product id must be positive")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperrors.InvalidInput("rating must be between 1 and 5")
	}

	if _, err := s.productRepo.GetByID(ctx, input.ProductID); err != nil {
		return nil, fmt.Errorf("get product %d: %w", input.ProductID, err)
	}

	review := &domain.Review{
		ProductID: input.ProductID,
		UserID:    userID,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}

	updated, err := s.reviewRepo.Upsert(ctx, review)
	if err != nil {
		return nil, fmt.Errorf("upsert review: %w", err)
	}

	s.logger.InfoContext(ctx, "review submitted",
		slog.Int64("review_id", review.ID),
		slog.Int64("product_id", input.ProductID),
		slog.String("user_id", userID),
		slog.Bool("updated", updated),
	)

	return &SubmitResult{Review: review, Updated: updated}, nil
}

// ListByProduct returns reviews for a product, newest first. An unknown
// product is an error, not an empty list.
func (s *ReviewService) ListByProduct(ctx context.Context, productID int64, page, perPage int) ([]domain.Review, int, error) {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, 0, fmt.Errorf("get product %d: %w", productID, err)
	}

	reviews, total, err := s.reviewRepo.ListByProduct(ctx, productID, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews for product %d: %w", productID, err)
	}
	return reviews, total, nil
}

// Summary returns the average rating and review count for a product.
func (s *ReviewService) Summary(ctx context.Context, productID int64) (*domain.ReviewSummary, error) {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, fmt.Errorf("get product %d: %w", productID, err)
	}

	summary, err := s.reviewRepo.Summary(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("summarize reviews for product %d: %w", productID, err)
	}
	return summary, nil
}

// Delete removes a review. Only the review's author or an admin may delete it.
func (s *ReviewService) Delete(ctx context.Context, id int64, requesterID string, isAdmin bool) error {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get review %d: %w", id, err)
	}

	if !isAdmin && review.UserID != requesterID {
		return apperrors.Forbidden("you may only delete your own reviews")
	}

	if err := s.reviewRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete review %d: %w", id, err)
	}

	s.logger.InfoContext(ctx, "review deleted",
		slog.Int64("review_id", id),
		slog.String("requester_id", requesterID),
	)

	return nil
}
