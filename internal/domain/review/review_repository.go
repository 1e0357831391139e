package review

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RatingSummary aggregates the approved ratings of one product
type RatingSummary struct {
	ProductID uuid.UUID
	Average   decimal.Decimal
	Count     int64
}

// ReviewRepository defines the interface for review persistence
type ReviewRepository interface {
	// FindByID finds a review by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Review, error)

	// FindByProductAndUser finds the single review a user holds on a product
	FindByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (*Review, error)

	// FindApprovedByProduct returns approved reviews for a product, newest first
	FindApprovedByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]*Review, error)

	// FindAll returns reviews matching the filter with a total count
	FindAll(ctx context.Context, filter ReviewFilter) ([]*Review, int64, error)

	// RatingSummary returns the approved-review average and count for a product
	RatingSummary(ctx context.Context, productID uuid.UUID) (*RatingSummary, error)

	// Save creates or updates a review
	Save(ctx context.Context, review *Review) error

	// Delete removes a review
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByStatus returns the number of reviews in a moderation state
	CountByStatus(ctx context.Context, status ReviewStatus) (int64, error)
}

// ReviewFilter describes the query parameters for listing reviews
type ReviewFilter struct {
	ProductID *uuid.UUID
	UserID    *uuid.UUID
	Status    *ReviewStatus
	Page      int
	PageSize  int
}

// DefaultReviewFilter returns a filter with sane pagination defaults
func DefaultReviewFilter() ReviewFilter {
	return ReviewFilter{
		Page:     1,
		PageSize: 20,
	}
}

// WithProduct restricts the filter to one product
func (f ReviewFilter) WithProduct(productID uuid.UUID) ReviewFilter {
	f.ProductID = &productID
	return f
}

// WithUser restricts the filter to one user
func (f ReviewFilter) WithUser(userID uuid.UUID) ReviewFilter {
	f.UserID = &userID
	return f
}

// WithStatus restricts the filter to one moderation state
func (f ReviewFilter) WithStatus(status ReviewStatus) ReviewFilter {
	f.Status = &status
	return f
}

// Offset returns the pagination offset
func (f ReviewFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit()
}

// Limit returns the pagination limit capped at 100
func (f ReviewFilter) Limit() int {
	if f.PageSize < 1 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}
