package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nepalmeatshop/backend/internal/domain/printing"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

// GormPrintTemplateRepository implements PrintTemplateRepository using GORM
type GormPrintTemplateRepository struct {
	db *gorm.DB
}

// NewGormPrintTemplateRepository creates a new GormPrintTemplateRepository
func NewGormPrintTemplateRepository(db *gorm.DB) *GormPrintTemplateRepository {
	return &GormPrintTemplateRepository{db: db}
}

// FindByID finds a template by ID
func (r *GormPrintTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*printing.PrintTemplate, error) {
	var template printing.PrintTemplate
	err := r.db.WithContext(ctx).First(&template, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &template, nil
}

// FindAll finds all templates with optional filtering
func (r *GormPrintTemplateRepository) FindAll(ctx context.Context, filter shared.Filter) ([]printing.PrintTemplate, error) {
	var templates []printing.PrintTemplate
	query := r.db.WithContext(ctx).Model(&printing.PrintTemplate{})
	query = r.applyFilter(query, filter)
	if err := query.Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// FindByDocType finds all templates for a document type
func (r *GormPrintTemplateRepository) FindByDocType(ctx context.Context, docType printing.DocType) ([]printing.PrintTemplate, error) {
	var templates []printing.PrintTemplate
	err := r.db.WithContext(ctx).
		Where("document_type = ?", docType).
		Order("is_default DESC, name ASC").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

// FindDefault finds the default template for a document type
func (r *GormPrintTemplateRepository) FindDefault(ctx context.Context, docType printing.DocType) (*printing.PrintTemplate, error) {
	var template printing.PrintTemplate
	err := r.db.WithContext(ctx).
		Where("document_type = ? AND is_default = ?", docType, true).
		First(&template).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &template, nil
}

// FindActiveByDocType finds all active templates for a document type
func (r *GormPrintTemplateRepository) FindActiveByDocType(ctx context.Context, docType printing.DocType) ([]printing.PrintTemplate, error) {
	var templates []printing.PrintTemplate
	err := r.db.WithContext(ctx).
		Where("document_type = ? AND status = ?", docType, printing.TemplateStatusActive).
		Order("is_default DESC, name ASC").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

// Save saves a template (insert or update)
func (r *GormPrintTemplateRepository) Save(ctx context.Context, template *printing.PrintTemplate) error {
	return r.db.WithContext(ctx).Save(template).Error
}

// Delete deletes a template by ID
func (r *GormPrintTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&printing.PrintTemplate{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count returns the total count of templates matching the filter
func (r *GormPrintTemplateRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&printing.PrintTemplate{})
	query = r.applyFilterWithoutPagination(query, filter)
	err := query.Count(&count).Error
	return count, err
}

// ExistsByName checks whether a template name is taken, excluding one ID
func (r *GormPrintTemplateRepository) ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&printing.PrintTemplate{}).
		Where("name = ?", name)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ClearDefaultForDocType clears the default flag for all templates of a document type
func (r *GormPrintTemplateRepository) ClearDefaultForDocType(ctx context.Context, docType printing.DocType) error {
	return r.db.WithContext(ctx).
		Model(&printing.PrintTemplate{}).
		Where("document_type = ? AND is_default = ?", docType, true).
		Update("is_default", false).Error
}

// applyFilter applies filtering, ordering and pagination to the query
func (r *GormPrintTemplateRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply ordering
	sortField := ValidateSortField(filter.OrderBy, PrintTemplateSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query
}

// applyFilterWithoutPagination applies search and field filters to the query
func (r *GormPrintTemplateRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply search
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", searchPattern, searchPattern)
	}

	// Apply filters
	for key, value := range filter.Filters {
		switch key {
		case "document_type":
			query = query.Where("document_type = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "is_default":
			query = query.Where("is_default = ?", value)
		}
	}

	return query
}

// Ensure GormPrintTemplateRepository implements PrintTemplateRepository
var _ printing.PrintTemplateRepository = (*GormPrintTemplateRepository)(nil)
