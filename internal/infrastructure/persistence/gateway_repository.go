package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nepalmeatshop/backend/internal/domain/payment"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

// GormGatewayRepository is the GORM implementation of GatewayRepository
type GormGatewayRepository struct {
	db *gorm.DB
}

// NewGormGatewayRepository creates a new GormGatewayRepository
func NewGormGatewayRepository(db *gorm.DB) *GormGatewayRepository {
	return &GormGatewayRepository{db: db}
}

// FindByID finds a payment gateway by ID
func (r *GormGatewayRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Gateway, error) {
	var gateway payment.Gateway
	err := r.db.WithContext(ctx).First(&gateway, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &gateway, nil
}

// FindByMethod finds the gateway configured for a payment method
func (r *GormGatewayRepository) FindByMethod(ctx context.Context, method payment.Method) (*payment.Gateway, error) {
	var gateway payment.Gateway
	err := r.db.WithContext(ctx).First(&gateway, "method = ?", method).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &gateway, nil
}

// FindAll returns all gateways ordered by sort order
func (r *GormGatewayRepository) FindAll(ctx context.Context) ([]*payment.Gateway, error) {
	var gateways []*payment.Gateway
	err := r.db.WithContext(ctx).
		Order("sort_order ASC, method ASC").
		Find(&gateways).Error
	if err != nil {
		return nil, err
	}
	return gateways, nil
}

// FindEnabled returns enabled gateways ordered by sort order
func (r *GormGatewayRepository) FindEnabled(ctx context.Context) ([]*payment.Gateway, error) {
	var gateways []*payment.Gateway
	err := r.db.WithContext(ctx).
		Where("enabled = ?", true).
		Order("sort_order ASC, method ASC").
		Find(&gateways).Error
	if err != nil {
		return nil, err
	}
	return gateways, nil
}

// Save creates or updates a gateway
func (r *GormGatewayRepository) Save(ctx context.Context, gateway *payment.Gateway) error {
	return r.db.WithContext(ctx).Save(gateway).Error
}

// Delete removes a gateway by ID
func (r *GormGatewayRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&payment.Gateway{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsByMethod checks whether a gateway exists for a method
func (r *GormGatewayRepository) ExistsByMethod(ctx context.Context, method payment.Method) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&payment.Gateway{}).
		Where("method = ?", method).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormGatewayRepository implements GatewayRepository
var _ payment.GatewayRepository = (*GormGatewayRepository)(nil)
