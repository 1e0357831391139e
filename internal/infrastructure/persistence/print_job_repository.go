package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nepalmeatshop/backend/internal/domain/printing"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

// GormPrintJobRepository implements PrintJobRepository using GORM
type GormPrintJobRepository struct {
	db *gorm.DB
}

// NewGormPrintJobRepository creates a new GormPrintJobRepository
func NewGormPrintJobRepository(db *gorm.DB) *GormPrintJobRepository {
	return &GormPrintJobRepository{db: db}
}

// FindByID finds a job by ID
func (r *GormPrintJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*printing.PrintJob, error) {
	var job printing.PrintJob
	err := r.db.WithContext(ctx).First(&job, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

// FindAll finds jobs matching the filter, newest first, with total count
func (r *GormPrintJobRepository) FindAll(ctx context.Context, filter printing.PrintJobFilter) ([]printing.PrintJob, int64, error) {
	var jobs []printing.PrintJob
	var total int64

	query := r.db.WithContext(ctx).Model(&printing.PrintJob{})
	query = r.applyFilter(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&jobs).Error
	if err != nil {
		return nil, 0, err
	}

	return jobs, total, nil
}

// FindByDocument finds all render jobs for a specific document
func (r *GormPrintJobRepository) FindByDocument(ctx context.Context, docType printing.DocType, documentID uuid.UUID) ([]printing.PrintJob, error) {
	var jobs []printing.PrintJob
	err := r.db.WithContext(ctx).
		Where("document_type = ? AND document_id = ?", docType, documentID).
		Order("created_at DESC").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// FindPending finds pending jobs for processing, oldest first
func (r *GormPrintJobRepository) FindPending(ctx context.Context, limit int) ([]printing.PrintJob, error) {
	if limit < 1 {
		limit = 10
	}
	var jobs []printing.PrintJob
	err := r.db.WithContext(ctx).
		Where("status = ?", printing.JobStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// Save saves a job (insert or update)
func (r *GormPrintJobRepository) Save(ctx context.Context, job *printing.PrintJob) error {
	return r.db.WithContext(ctx).Save(job).Error
}

// CountByStatus counts jobs in the given status
func (r *GormPrintJobRepository) CountByStatus(ctx context.Context, status printing.JobStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&printing.PrintJob{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// DeleteOlderThan deletes terminal jobs older than the given number of days
func (r *GormPrintJobRepository) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	if days < 1 {
		return 0, nil
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	result := r.db.WithContext(ctx).
		Where("status IN ? AND created_at < ?",
			[]printing.JobStatus{printing.JobStatusCompleted, printing.JobStatusFailed}, cutoff).
		Delete(&printing.PrintJob{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// applyFilter applies filter options to the query
func (r *GormPrintJobRepository) applyFilter(query *gorm.DB, filter printing.PrintJobFilter) *gorm.DB {
	if filter.DocumentType != nil {
		query = query.Where("document_type = ?", *filter.DocumentType)
	}
	if filter.DocumentID != nil {
		query = query.Where("document_id = ?", *filter.DocumentID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.TemplateID != nil {
		query = query.Where("template_id = ?", *filter.TemplateID)
	}
	if filter.RequestedBy != nil {
		query = query.Where("requested_by = ?", *filter.RequestedBy)
	}
	return query
}

// Ensure GormPrintJobRepository implements PrintJobRepository
var _ printing.PrintJobRepository = (*GormPrintJobRepository)(nil)
