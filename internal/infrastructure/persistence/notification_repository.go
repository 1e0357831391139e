package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nepalmeatshop/backend/internal/domain/notification"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

// GormNotificationTemplateRepository is the GORM implementation of TemplateRepository
type GormNotificationTemplateRepository struct {
	db *gorm.DB
}

// NewGormNotificationTemplateRepository creates a new GormNotificationTemplateRepository
func NewGormNotificationTemplateRepository(db *gorm.DB) *GormNotificationTemplateRepository {
	return &GormNotificationTemplateRepository{db: db}
}

// FindByID finds a template by ID
func (r *GormNotificationTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Template, error) {
	var tmpl notification.Template
	err := r.db.WithContext(ctx).First(&tmpl, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tmpl, nil
}

// FindByName finds a template by its unique name
func (r *GormNotificationTemplateRepository) FindByName(ctx context.Context, name string) (*notification.Template, error) {
	var tmpl notification.Template
	err := r.db.WithContext(ctx).First(&tmpl, "name = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tmpl, nil
}

// FindActiveByEvent returns active templates responding to an event
func (r *GormNotificationTemplateRepository) FindActiveByEvent(ctx context.Context, eventKey notification.EventKey) ([]*notification.Template, error) {
	var templates []*notification.Template
	err := r.db.WithContext(ctx).
		Where("event_key = ? AND active = ?", eventKey, true).
		Order("name ASC").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

// FindAll returns all templates
func (r *GormNotificationTemplateRepository) FindAll(ctx context.Context) ([]*notification.Template, error) {
	var templates []*notification.Template
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

// Save creates or updates a template
func (r *GormNotificationTemplateRepository) Save(ctx context.Context, tmpl *notification.Template) error {
	return r.db.WithContext(ctx).Save(tmpl).Error
}

// Delete removes a template by ID
func (r *GormNotificationTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&notification.Template{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsByName checks whether a template with the given name exists
func (r *GormNotificationTemplateRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&notification.Template{}).
		Where("name = ?", name).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormNotificationTemplateRepository implements TemplateRepository
var _ notification.TemplateRepository = (*GormNotificationTemplateRepository)(nil)

// GormNotificationLogRepository is the GORM implementation of the
// append-only notification log.
type GormNotificationLogRepository struct {
	db *gorm.DB
}

// NewGormNotificationLogRepository creates a new GormNotificationLogRepository
func NewGormNotificationLogRepository(db *gorm.DB) *GormNotificationLogRepository {
	return &GormNotificationLogRepository{db: db}
}

// Append records a log entry
func (r *GormNotificationLogRepository) Append(ctx context.Context, log *notification.Log) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// FindAll returns log entries matching the filter, newest first
func (r *GormNotificationLogRepository) FindAll(ctx context.Context, filter notification.LogFilter) ([]*notification.Log, int64, error) {
	var logs []*notification.Log
	var total int64

	query := r.db.WithContext(ctx).Model(&notification.Log{})
	query = r.applyFilter(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

// FindByOrder returns the notifications recorded against an order
func (r *GormNotificationLogRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*notification.Log, error) {
	var logs []*notification.Log
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

// CountByStatus returns the number of entries with a delivery outcome
func (r *GormNotificationLogRepository) CountByStatus(ctx context.Context, status notification.LogStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&notification.Log{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// applyFilter applies filter options to the query
func (r *GormNotificationLogRepository) applyFilter(query *gorm.DB, filter notification.LogFilter) *gorm.DB {
	if filter.Recipient != "" {
		query = query.Where("recipient ILIKE ?", "%"+filter.Recipient+"%")
	}
	if filter.Channel != nil {
		query = query.Where("channel = ?", *filter.Channel)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return query
}

// Ensure GormNotificationLogRepository implements LogRepository
var _ notification.LogRepository = (*GormNotificationLogRepository)(nil)
