package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nepalmeatshop/backend/internal/domain/review"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

// GormReviewRepository is the GORM implementation of ReviewRepository
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// FindByID finds a review by ID
func (r *GormReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*review.Review, error) {
	var rev review.Review
	err := r.db.WithContext(ctx).First(&rev, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rev, nil
}

// FindByProductAndUser finds the single review a user holds on a product
func (r *GormReviewRepository) FindByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (*review.Review, error) {
	var rev review.Review
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND user_id = ?", productID, userID).
		First(&rev).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rev, nil
}

// FindApprovedByProduct returns approved reviews for a product, newest first
func (r *GormReviewRepository) FindApprovedByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]*review.Review, error) {
	var reviews []*review.Review
	query := r.db.WithContext(ctx).
		Where("product_id = ? AND status = ?", productID, review.ReviewStatusApproved).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// FindAll returns reviews matching the filter with a total count
func (r *GormReviewRepository) FindAll(ctx context.Context, filter review.ReviewFilter) ([]*review.Review, int64, error) {
	var reviews []*review.Review
	var total int64

	query := r.db.WithContext(ctx).Model(&review.Review{})
	query = r.applyFilter(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

// RatingSummary returns the approved-review average and count for a product
func (r *GormReviewRepository) RatingSummary(ctx context.Context, productID uuid.UUID) (*review.RatingSummary, error) {
	var row struct {
		Average decimal.Decimal
		Count   int64
	}
	err := r.db.WithContext(ctx).
		Model(&review.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("product_id = ? AND status = ?", productID, review.ReviewStatusApproved).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &review.RatingSummary{
		ProductID: productID,
		Average:   row.Average,
		Count:     row.Count,
	}, nil
}

// Save creates or updates a review
func (r *GormReviewRepository) Save(ctx context.Context, rev *review.Review) error {
	return r.db.WithContext(ctx).Save(rev).Error
}

// Delete removes a review by ID
func (r *GormReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&review.Review{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByStatus returns the number of reviews in a moderation state
func (r *GormReviewRepository) CountByStatus(ctx context.Context, status review.ReviewStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&review.Review{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// applyFilter applies filter options to the query
func (r *GormReviewRepository) applyFilter(query *gorm.DB, filter review.ReviewFilter) *gorm.DB {
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return query
}

// Ensure GormReviewRepository implements ReviewRepository
var _ review.ReviewRepository = (*GormReviewRepository)(nil)
