package review

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nepalmeatshop/backend/internal/domain/catalog"
	"github.com/nepalmeatshop/backend/internal/domain/review"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

// productPageReviewLimit caps how many reviews a product page shows.
const productPageReviewLimit = 50

// ReviewService handles review submission and moderation. New and
// revised reviews wait for moderation; product pages only show
// approved ones.
type ReviewService struct {
	reviewRepo     review.ReviewRepository
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(reviewRepo review.ReviewRepository, productRepo catalog.ProductRepository, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *ReviewService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Submit creates a review, or revises the user's existing review of
// the product. Either way the review enters moderation.
func (s *ReviewService) Submit(ctx context.Context, userID, productID uuid.UUID, req SubmitReviewRequest) (*ReviewResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	r, err := s.reviewRepo.FindByProductAndUser(ctx, productID, userID)
	switch {
	case err == nil:
		if err := r.Revise(req.Rating, req.Comment); err != nil {
			return nil, err
		}
	case errors.Is(err, shared.ErrNotFound):
		r, err = review.NewReview(productID, userID, req.Rating, req.Comment)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.reviewRepo.Save(ctx, r); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, r)

	s.logger.Info("Review submitted",
		zap.String("review_id", r.ID.String()),
		zap.String("product_id", productID.String()),
		zap.Int("rating", r.Rating))

	return ToReviewResponse(r), nil
}

// ListForProduct returns a product's approved reviews with its rating
// summary
func (s *ReviewService) ListForProduct(ctx context.Context, productID uuid.UUID) (*ProductReviewsResponse, error) {
	reviews, err := s.reviewRepo.FindApprovedByProduct(ctx, productID, productPageReviewLimit)
	if err != nil {
		return nil, err
	}
	summary, err := s.reviewRepo.RatingSummary(ctx, productID)
	if err != nil {
		return nil, err
	}

	items := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		items = append(items, *ToReviewResponse(r))
	}
	return &ProductReviewsResponse{
		Reviews:       items,
		AverageRating: summary.Average,
		ReviewCount:   summary.Count,
	}, nil
}

// List returns reviews matching the filter for the moderation queue
func (s *ReviewService) List(ctx context.Context, filter ReviewListFilter) (*ReviewListResult, error) {
	domainFilter := review.DefaultReviewFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.ProductID != nil {
		domainFilter = domainFilter.WithProduct(*filter.ProductID)
	}
	if filter.UserID != nil {
		domainFilter = domainFilter.WithUser(*filter.UserID)
	}
	if filter.Status != "" {
		status := review.ReviewStatus(filter.Status)
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Unknown review status: "+filter.Status)
		}
		domainFilter = domainFilter.WithStatus(status)
	}

	reviews, total, err := s.reviewRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		items = append(items, *ToReviewResponse(r))
	}
	return &ReviewListResult{Items: items, Total: total}, nil
}

// Approve publishes a review on the product page
func (s *ReviewService) Approve(ctx context.Context, id uuid.UUID) (*ReviewResponse, error) {
	return s.moderate(ctx, id, (*review.Review).Approve)
}

// Reject hides a review from the product page
func (s *ReviewService) Reject(ctx context.Context, id uuid.UUID) (*ReviewResponse, error) {
	return s.moderate(ctx, id, (*review.Review).Reject)
}

func (s *ReviewService) moderate(ctx context.Context, id uuid.UUID, transition func(*review.Review) error) (*ReviewResponse, error) {
	r, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := transition(r); err != nil {
		return nil, err
	}

	if err := s.reviewRepo.Save(ctx, r); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, r)

	s.logger.Info("Review moderated",
		zap.String("review_id", r.ID.String()),
		zap.String("status", r.Status.String()))

	return ToReviewResponse(r), nil
}

// Delete removes a review outright (back office)
func (s *ReviewService) Delete(ctx context.Context, id uuid.UUID) error {
	r, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.reviewRepo.Delete(ctx, r.ID); err != nil {
		return err
	}

	s.logger.Info("Review deleted",
		zap.String("review_id", r.ID.String()),
		zap.String("product_id", r.ProductID.String()))

	return nil
}

// publishEvents publishes domain events, logging failures without
// failing the operation
func (s *ReviewService) publishEvents(ctx context.Context, r *review.Review) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range r.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("Failed to publish review event",
				zap.String("event_type", event.EventType()),
				zap.Error(err))
		}
	}
	r.ClearDomainEvents()
}
