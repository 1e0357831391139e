// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"gorm.io/gorm"
)

// lowStockThresholdKg mirrors the catalog low-stock threshold. The value
// is duplicated here so the telemetry layer stays free of domain imports.
const lowStockThresholdKg = 5

// GormStockMetricsProvider implements StockMetricsProvider using GORM.
// It queries the products table directly for aggregated stock counts.
type GormStockMetricsProvider struct {
	db *gorm.DB
}

// NewGormStockMetricsProvider creates a new GormStockMetricsProvider.
func NewGormStockMetricsProvider(db *gorm.DB) *GormStockMetricsProvider {
	return &GormStockMetricsProvider{db: db}
}

// CountLowStock returns the number of active products at or below the low
// stock threshold but not yet sold out.
func (p *GormStockMetricsProvider) CountLowStock(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("products").
		Where("status = ?", "active").
		Where("stock_kg > 0 AND stock_kg <= ?", lowStockThresholdKg).
		Count(&count).Error

	return count, err
}

// CountOutOfStock returns the number of active products with no stock left.
func (p *GormStockMetricsProvider) CountOutOfStock(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("products").
		Where("status = ?", "active").
		Where("stock_kg <= 0").
		Count(&count).Error

	return count, err
}

var _ StockMetricsProvider = (*GormStockMetricsProvider)(nil)
