package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

// SalesReport is the frozen per-day sales aggregate. The daily
// scheduler writes one row per calendar day; regenerating a day
// replaces its row.
type SalesReport struct {
	shared.BaseAggregateRoot
	ReportDate        time.Time       `gorm:"type:date;not null;uniqueIndex"`
	TotalOrders       int             `gorm:"not null;default:0"`
	TotalRevenue      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DistinctCustomers int             `gorm:"not null;default:0"`
	TopProductID      *uuid.UUID      `gorm:"type:uuid"`
	TopProductName    string          `gorm:"type:varchar(200)"`
	AvgOrderValue     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (SalesReport) TableName() string {
	return "sales_reports"
}

// NormalizeDate truncates a timestamp to its calendar day
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// NewSalesReport builds the aggregate row for one day. The average
// order value is derived; zero orders produce a zero average.
func NewSalesReport(reportDate time.Time, totalOrders int, totalRevenue decimal.Decimal, distinctCustomers int) (*SalesReport, error) {
	if totalOrders < 0 {
		return nil, shared.NewDomainError("INVALID_REPORT", "Order count cannot be negative")
	}
	if totalRevenue.IsNegative() {
		return nil, shared.NewDomainError("INVALID_REPORT", "Revenue cannot be negative")
	}
	if distinctCustomers < 0 {
		return nil, shared.NewDomainError("INVALID_REPORT", "Customer count cannot be negative")
	}

	avg := decimal.Zero
	if totalOrders > 0 {
		avg = totalRevenue.Div(decimal.NewFromInt(int64(totalOrders))).Round(2)
	}

	return &SalesReport{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ReportDate:        NormalizeDate(reportDate),
		TotalOrders:       totalOrders,
		TotalRevenue:      totalRevenue.Round(2),
		DistinctCustomers: distinctCustomers,
		AvgOrderValue:     avg,
	}, nil
}

// SetTopProduct records the day's best seller
func (r *SalesReport) SetTopProduct(productID uuid.UUID, name string) {
	r.TopProductID = &productID
	r.TopProductName = name
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// SalesReportRepository defines the interface for daily report persistence
type SalesReportRepository interface {
	// FindByDate finds the report for a calendar day
	FindByDate(ctx context.Context, date time.Time) (*SalesReport, error)

	// FindRange returns reports for days within [from, to], oldest first
	FindRange(ctx context.Context, from, to time.Time) ([]*SalesReport, error)

	// Save creates or replaces the report for its day
	Save(ctx context.Context, report *SalesReport) error

	// Latest returns the most recent reports, newest first
	Latest(ctx context.Context, limit int) ([]*SalesReport, error)
}
