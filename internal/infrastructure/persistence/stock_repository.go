package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nepalmeatshop/backend/internal/domain/inventory"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

// GormStockAlertRepository is the GORM implementation of StockAlertRepository
type GormStockAlertRepository struct {
	db *gorm.DB
}

// NewGormStockAlertRepository creates a new GormStockAlertRepository
func NewGormStockAlertRepository(db *gorm.DB) *GormStockAlertRepository {
	return &GormStockAlertRepository{db: db}
}

// FindByID finds a stock alert by ID
func (r *GormStockAlertRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockAlert, error) {
	var alert inventory.StockAlert
	err := r.db.WithContext(ctx).First(&alert, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &alert, nil
}

// FindByProduct finds the alert configured for a product, if any
func (r *GormStockAlertRepository) FindByProduct(ctx context.Context, productID uuid.UUID) (*inventory.StockAlert, error) {
	var alert inventory.StockAlert
	err := r.db.WithContext(ctx).First(&alert, "product_id = ?", productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &alert, nil
}

// FindActive returns all active stock alerts
func (r *GormStockAlertRepository) FindActive(ctx context.Context) ([]*inventory.StockAlert, error) {
	var alerts []*inventory.StockAlert
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("created_at ASC").
		Find(&alerts).Error
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

// FindAll returns all stock alerts
func (r *GormStockAlertRepository) FindAll(ctx context.Context) ([]*inventory.StockAlert, error) {
	var alerts []*inventory.StockAlert
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&alerts).Error
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

// Save creates or updates a stock alert
func (r *GormStockAlertRepository) Save(ctx context.Context, alert *inventory.StockAlert) error {
	return r.db.WithContext(ctx).Save(alert).Error
}

// Delete removes a stock alert by ID
func (r *GormStockAlertRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&inventory.StockAlert{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormStockAlertRepository implements StockAlertRepository
var _ inventory.StockAlertRepository = (*GormStockAlertRepository)(nil)

// GormStockTransactionRepository is the GORM implementation of the
// append-only stock movement ledger.
type GormStockTransactionRepository struct {
	db *gorm.DB
}

// NewGormStockTransactionRepository creates a new GormStockTransactionRepository
func NewGormStockTransactionRepository(db *gorm.DB) *GormStockTransactionRepository {
	return &GormStockTransactionRepository{db: db}
}

// Append records a stock movement
func (r *GormStockTransactionRepository) Append(ctx context.Context, txn *inventory.StockTransaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

// AppendAll records several movements in one batch
func (r *GormStockTransactionRepository) AppendAll(ctx context.Context, txns []*inventory.StockTransaction) error {
	if len(txns) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&txns).Error
}

// FindByProduct returns a product's movements, newest first
func (r *GormStockTransactionRepository) FindByProduct(ctx context.Context, productID uuid.UUID, page, pageSize int) ([]*inventory.StockTransaction, int64, error) {
	var txns []*inventory.StockTransaction
	var total int64

	query := r.db.WithContext(ctx).
		Model(&inventory.StockTransaction{}).
		Where("product_id = ?", productID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&txns).Error
	if err != nil {
		return nil, 0, err
	}

	return txns, total, nil
}

// FindByOrder returns the movements linked to an order
func (r *GormStockTransactionRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*inventory.StockTransaction, error) {
	var txns []*inventory.StockTransaction
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}

// FindRecent returns the latest movements across every product
func (r *GormStockTransactionRepository) FindRecent(ctx context.Context, limit int) ([]*inventory.StockTransaction, error) {
	if limit < 1 {
		limit = 50
	}
	var txns []*inventory.StockTransaction
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}

// Ensure GormStockTransactionRepository implements StockTransactionRepository
var _ inventory.StockTransactionRepository = (*GormStockTransactionRepository)(nil)
