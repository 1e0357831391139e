package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nepalmeatshop/backend/internal/domain/catalog"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

// GormProductAttachmentRepository implements ProductAttachmentRepository using GORM
type GormProductAttachmentRepository struct {
	db *gorm.DB
}

// NewGormProductAttachmentRepository creates a new GormProductAttachmentRepository
func NewGormProductAttachmentRepository(db *gorm.DB) *GormProductAttachmentRepository {
	return &GormProductAttachmentRepository{db: db}
}

// FindByID finds an attachment by its ID
func (r *GormProductAttachmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductAttachment, error) {
	var attachment catalog.ProductAttachment
	if err := r.db.WithContext(ctx).First(&attachment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &attachment, nil
}

// FindByIDs finds multiple attachments by their IDs
func (r *GormProductAttachmentRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.ProductAttachment, error) {
	if len(ids) == 0 {
		return []catalog.ProductAttachment{}, nil
	}

	var attachments []catalog.ProductAttachment
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("sort_order ASC").
		Find(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}

// FindByProduct finds all attachments for a product
func (r *GormProductAttachmentRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]catalog.ProductAttachment, error) {
	var attachments []catalog.ProductAttachment
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&catalog.ProductAttachment{}).
			Where("product_id = ?", productID),
		filter,
	)

	if err := query.Find(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}

// FindByProductAndStatus finds attachments by product and status
func (r *GormProductAttachmentRepository) FindByProductAndStatus(ctx context.Context, productID uuid.UUID, status catalog.AttachmentStatus, filter shared.Filter) ([]catalog.ProductAttachment, error) {
	var attachments []catalog.ProductAttachment
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&catalog.ProductAttachment{}).
			Where("product_id = ? AND status = ?", productID, status),
		filter,
	)

	if err := query.Find(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}

// FindActiveByProduct finds all active attachments for a product
func (r *GormProductAttachmentRepository) FindActiveByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.ProductAttachment, error) {
	var attachments []catalog.ProductAttachment
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND status = ?", productID, catalog.AttachmentStatusActive).
		Order("sort_order ASC, created_at ASC").
		Find(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}

// FindMainImage finds the main image for a product (if any)
func (r *GormProductAttachmentRepository) FindMainImage(ctx context.Context, productID uuid.UUID) (*catalog.ProductAttachment, error) {
	var attachment catalog.ProductAttachment
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND type = ? AND status = ?",
			productID, catalog.AttachmentTypeMainImage, catalog.AttachmentStatusActive).
		First(&attachment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &attachment, nil
}

// FindByType finds active attachments of a type for a product
func (r *GormProductAttachmentRepository) FindByType(ctx context.Context, productID uuid.UUID, attachmentType catalog.AttachmentType) ([]catalog.ProductAttachment, error) {
	var attachments []catalog.ProductAttachment
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND type = ? AND status = ?",
			productID, attachmentType, catalog.AttachmentStatusActive).
		Order("sort_order ASC, created_at ASC").
		Find(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}

// FindPendingOlderThan finds pending attachments created before now minus the given age
func (r *GormProductAttachmentRepository) FindPendingOlderThan(ctx context.Context, age time.Duration) ([]catalog.ProductAttachment, error) {
	cutoff := time.Now().Add(-age)

	var attachments []catalog.ProductAttachment
	if err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", catalog.AttachmentStatusPending, cutoff).
		Order("created_at ASC").
		Find(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}

// CountActiveByProduct counts active attachments for a product
func (r *GormProductAttachmentRepository) CountActiveByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.ProductAttachment{}).
		Where("product_id = ? AND status = ?", productID, catalog.AttachmentStatusActive).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByStorageKey checks if an attachment with the given storage key exists
func (r *GormProductAttachmentRepository) ExistsByStorageKey(ctx context.Context, storageKey string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.ProductAttachment{}).
		Where("storage_key = ?", storageKey).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// MaxSortOrder returns the highest sort order among a product's active attachments
func (r *GormProductAttachmentRepository) MaxSortOrder(ctx context.Context, productID uuid.UUID) (int, error) {
	var maxOrder *int
	if err := r.db.WithContext(ctx).
		Model(&catalog.ProductAttachment{}).
		Where("product_id = ? AND status = ?", productID, catalog.AttachmentStatusActive).
		Select("MAX(sort_order)").
		Scan(&maxOrder).Error; err != nil {
		return 0, err
	}
	if maxOrder == nil {
		return -1, nil // No existing attachments
	}
	return *maxOrder, nil
}

// Save creates or updates an attachment
func (r *GormProductAttachmentRepository) Save(ctx context.Context, attachment *catalog.ProductAttachment) error {
	return r.db.WithContext(ctx).Save(attachment).Error
}

// SaveBatch creates or updates multiple attachments
func (r *GormProductAttachmentRepository) SaveBatch(ctx context.Context, attachments []*catalog.ProductAttachment) error {
	if len(attachments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(attachments).Error
}

// Delete permanently deletes an attachment
func (r *GormProductAttachmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.ProductAttachment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByProduct permanently deletes all attachments for a product
func (r *GormProductAttachmentRepository) DeleteByProduct(ctx context.Context, productID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.ProductAttachment{}, "product_id = ?", productID)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormProductAttachmentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering with whitelist validation to prevent SQL injection
	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, ProductAttachmentSortFields, "")
		if sortField != "" {
			sortOrder := ValidateSortOrder(filter.OrderDir)
			query = query.Order(sortField + " " + sortOrder)
		} else {
			query = query.Order("sort_order ASC, created_at ASC")
		}
	} else {
		query = query.Order("sort_order ASC, created_at ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormProductAttachmentRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply search (searches file name)
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("file_name ILIKE ?", searchPattern)
	}

	// Apply additional filters
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		case "content_type":
			query = query.Where("content_type = ?", value)
		case "content_type_prefix":
			// Filter by MIME type prefix (e.g., "image/" to get all images)
			if prefix, ok := value.(string); ok {
				query = query.Where("content_type LIKE ?", prefix+"%")
			}
		case "uploaded_by":
			if value == nil {
				query = query.Where("uploaded_by IS NULL")
			} else {
				query = query.Where("uploaded_by = ?", value)
			}
		}
	}

	return query
}

var _ catalog.ProductAttachmentRepository = (*GormProductAttachmentRepository)(nil)
var _ catalog.ProductAttachmentReader = (*GormProductAttachmentRepository)(nil)
var _ catalog.ProductAttachmentFinder = (*GormProductAttachmentRepository)(nil)
var _ catalog.ProductAttachmentWriter = (*GormProductAttachmentRepository)(nil)
