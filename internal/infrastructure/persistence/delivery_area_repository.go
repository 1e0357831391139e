package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nepalmeatshop/backend/internal/domain/delivery"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

// GormDeliveryAreaRepository is the GORM implementation of AreaRepository
type GormDeliveryAreaRepository struct {
	db *gorm.DB
}

// NewGormDeliveryAreaRepository creates a new GormDeliveryAreaRepository
func NewGormDeliveryAreaRepository(db *gorm.DB) *GormDeliveryAreaRepository {
	return &GormDeliveryAreaRepository{db: db}
}

// FindByID finds a delivery area by ID
func (r *GormDeliveryAreaRepository) FindByID(ctx context.Context, id uuid.UUID) (*delivery.Area, error) {
	var area delivery.Area
	err := r.db.WithContext(ctx).First(&area, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &area, nil
}

// FindByName finds a delivery area by its English name
func (r *GormDeliveryAreaRepository) FindByName(ctx context.Context, name string) (*delivery.Area, error) {
	var area delivery.Area
	err := r.db.WithContext(ctx).First(&area, "name = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &area, nil
}

// FindAll returns all delivery areas ordered by name
func (r *GormDeliveryAreaRepository) FindAll(ctx context.Context) ([]*delivery.Area, error) {
	var areas []*delivery.Area
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&areas).Error
	if err != nil {
		return nil, err
	}
	return areas, nil
}

// FindActive returns active delivery areas ordered by name
func (r *GormDeliveryAreaRepository) FindActive(ctx context.Context) ([]*delivery.Area, error) {
	var areas []*delivery.Area
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&areas).Error
	if err != nil {
		return nil, err
	}
	return areas, nil
}

// Save creates or updates a delivery area
func (r *GormDeliveryAreaRepository) Save(ctx context.Context, area *delivery.Area) error {
	return r.db.WithContext(ctx).Save(area).Error
}

// Delete removes a delivery area by ID
func (r *GormDeliveryAreaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&delivery.Area{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsByName checks whether an area with the given name exists
func (r *GormDeliveryAreaRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&delivery.Area{}).
		Where("name = ?", name).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Count returns the total number of delivery areas
func (r *GormDeliveryAreaRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&delivery.Area{}).Count(&count).Error
	return count, err
}

// Ensure GormDeliveryAreaRepository implements AreaRepository
var _ delivery.AreaRepository = (*GormDeliveryAreaRepository)(nil)
