package review

import (
	"github.com/google/uuid"

	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeReview = "Review"

// Event type constants
const (
	EventTypeReviewSubmitted = "ReviewSubmitted"
	EventTypeReviewModerated = "ReviewModerated"
)

// ReviewSubmittedEvent is published when a review is created or revised
type ReviewSubmittedEvent struct {
	shared.BaseDomainEvent
	ReviewID  uuid.UUID `json:"review_id"`
	ProductID uuid.UUID `json:"product_id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
}

// NewReviewSubmittedEvent creates a new ReviewSubmittedEvent
func NewReviewSubmittedEvent(r *Review) *ReviewSubmittedEvent {
	return &ReviewSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReviewSubmitted, AggregateTypeReview, r.ID),
		ReviewID:        r.ID,
		ProductID:       r.ProductID,
		UserID:          r.UserID,
		Rating:          r.Rating,
	}
}

// ReviewModeratedEvent is published when an admin approves or rejects a review
type ReviewModeratedEvent struct {
	shared.BaseDomainEvent
	ReviewID  uuid.UUID    `json:"review_id"`
	ProductID uuid.UUID    `json:"product_id"`
	Status    ReviewStatus `json:"status"`
}

// NewReviewModeratedEvent creates a new ReviewModeratedEvent
func NewReviewModeratedEvent(r *Review) *ReviewModeratedEvent {
	return &ReviewModeratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReviewModerated, AggregateTypeReview, r.ID),
		ReviewID:        r.ID,
		ProductID:       r.ProductID,
		Status:          r.Status,
	}
}
