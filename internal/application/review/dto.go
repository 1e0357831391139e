package review

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nepalmeatshop/backend/internal/domain/review"
)

// SubmitReviewRequest submits or revises a product review
type SubmitReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"omitempty,max=1000"`
}

// ReviewResponse is the API representation of a review
type ReviewResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToReviewResponse converts a review to its API representation
func ToReviewResponse(r *review.Review) *ReviewResponse {
	return &ReviewResponse{
		ID:        r.ID,
		ProductID: r.ProductID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		Status:    r.Status.String(),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// ProductReviewsResponse carries a product's approved reviews and
// rating summary for the product page
type ProductReviewsResponse struct {
	Reviews       []ReviewResponse `json:"reviews"`
	AverageRating decimal.Decimal  `json:"average_rating"`
	ReviewCount   int64            `json:"review_count"`
}

// ReviewListFilter describes the admin moderation list query
type ReviewListFilter struct {
	ProductID *uuid.UUID `form:"product_id"`
	UserID    *uuid.UUID `form:"user_id"`
	Status    string     `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	Page      int        `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// ReviewListResult is a page of reviews with the total count
type ReviewListResult struct {
	Items []ReviewResponse `json:"items"`
	Total int64            `json:"total"`
}
