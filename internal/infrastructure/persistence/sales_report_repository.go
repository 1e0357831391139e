package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nepalmeatshop/backend/internal/domain/report"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

// GormSalesReportRepository implements SalesReportRepository using GORM
type GormSalesReportRepository struct {
	db *gorm.DB
}

// NewGormSalesReportRepository creates a new GormSalesReportRepository
func NewGormSalesReportRepository(db *gorm.DB) *GormSalesReportRepository {
	return &GormSalesReportRepository{db: db}
}

// FindByDate finds the report for a calendar day
func (r *GormSalesReportRepository) FindByDate(ctx context.Context, date time.Time) (*report.SalesReport, error) {
	var rep report.SalesReport
	err := r.db.WithContext(ctx).
		First(&rep, "report_date = ?", report.NormalizeDate(date)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rep, nil
}

// FindRange returns reports for days within [from, to], oldest first
func (r *GormSalesReportRepository) FindRange(ctx context.Context, from, to time.Time) ([]*report.SalesReport, error) {
	var reports []*report.SalesReport
	err := r.db.WithContext(ctx).
		Where("report_date BETWEEN ? AND ?", report.NormalizeDate(from), report.NormalizeDate(to)).
		Order("report_date ASC").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

// Save creates or replaces the report for its day
func (r *GormSalesReportRepository) Save(ctx context.Context, rep *report.SalesReport) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "report_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_orders",
			"total_revenue",
			"distinct_customers",
			"top_product_id",
			"top_product_name",
			"avg_order_value",
			"updated_at",
		}),
	}).Create(rep).Error
}

// Latest returns the most recent reports, newest first
func (r *GormSalesReportRepository) Latest(ctx context.Context, limit int) ([]*report.SalesReport, error) {
	if limit < 1 {
		limit = 30
	}
	var reports []*report.SalesReport
	err := r.db.WithContext(ctx).
		Order("report_date DESC").
		Limit(limit).
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

// Ensure GormSalesReportRepository implements SalesReportRepository
var _ report.SalesReportRepository = (*GormSalesReportRepository)(nil)
