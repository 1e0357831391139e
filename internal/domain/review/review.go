package review

import (
	"time"

	"github.com/google/uuid"

	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

// ReviewStatus represents the moderation state of a review
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

// IsValid returns true if the status is valid
func (s ReviewStatus) IsValid() bool {
	switch s {
	case ReviewStatusPending, ReviewStatusApproved, ReviewStatusRejected:
		return true
	default:
		return false
	}
}

// String returns the string representation of ReviewStatus
func (s ReviewStatus) String() string {
	return string(s)
}

const maxCommentLength = 1000

// Review represents a customer rating of a product.
// A user holds at most one review per product; revising replaces the
// earlier rating and sends it back through moderation.
type Review struct {
	shared.BaseAggregateRoot
	ProductID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_product_user"`
	UserID    uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_product_user"`
	Rating    int          `gorm:"not null"`
	Comment   string       `gorm:"type:text"`
	Status    ReviewStatus `gorm:"type:varchar(20);not null;default:'pending'"`
}

// TableName returns the table name for GORM
func (Review) TableName() string {
	return "reviews"
}

// NewReview creates a review awaiting moderation
func NewReview(productID, userID uuid.UUID, rating int, comment string) (*Review, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID is required")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID is required")
	}
	if err := validateRating(rating); err != nil {
		return nil, err
	}
	if err := validateComment(comment); err != nil {
		return nil, err
	}

	review := &Review{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		UserID:            userID,
		Rating:            rating,
		Comment:           comment,
		Status:            ReviewStatusPending,
	}

	review.AddDomainEvent(NewReviewSubmittedEvent(review))

	return review, nil
}

// Revise replaces the rating and comment and re-enters moderation
func (r *Review) Revise(rating int, comment string) error {
	if err := validateRating(rating); err != nil {
		return err
	}
	if err := validateComment(comment); err != nil {
		return err
	}

	r.Rating = rating
	r.Comment = comment
	r.Status = ReviewStatusPending
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewReviewSubmittedEvent(r))

	return nil
}

// Approve publishes the review on the product page
func (r *Review) Approve() error {
	if r.Status == ReviewStatusApproved {
		return shared.NewDomainError("ALREADY_APPROVED", "Review is already approved")
	}

	r.Status = ReviewStatusApproved
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewReviewModeratedEvent(r))

	return nil
}

// Reject hides the review from the product page
func (r *Review) Reject() error {
	if r.Status == ReviewStatusRejected {
		return shared.NewDomainError("ALREADY_REJECTED", "Review is already rejected")
	}

	r.Status = ReviewStatusRejected
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewReviewModeratedEvent(r))

	return nil
}

// IsApproved returns true if the review is publicly visible
func (r *Review) IsApproved() bool {
	return r.Status == ReviewStatusApproved
}

// validateRating validates the star rating
func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}
	return nil
}

// validateComment validates the review comment
func validateComment(comment string) error {
	if len(comment) > maxCommentLength {
		return shared.NewDomainError("INVALID_COMMENT", "Comment cannot exceed 1000 characters")
	}
	return nil
}
