package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PeriodStats is the revenue and order count for one reporting window
type PeriodStats struct {
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int64           `json:"orders"`
}

// StatusCount is the number of orders sitting in one status
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// DashboardStats is the admin landing page read model
type DashboardStats struct {
	Today           PeriodStats   `json:"today"`
	Week            PeriodStats   `json:"week"`
	Month           PeriodStats   `json:"month"`
	StatusBreakdown []StatusCount `json:"status_breakdown"`
	PendingOrders   int64         `json:"pending_orders"`
	PendingReviews  int64         `json:"pending_reviews"`
	LowStockCount   int64         `json:"low_stock_count"`
	TotalCustomers  int64         `json:"total_customers"`
}

// TopProduct ranks one product over a reporting window
type TopProduct struct {
	ProductID   uuid.UUID       `json:"product_id"`
	Name        string          `json:"name"`
	NameNepali  string          `json:"name_nepali,omitempty"`
	TotalKg     decimal.Decimal `json:"total_kg"`
	Revenue     decimal.Decimal `json:"revenue"`
	OrderCount  int64           `json:"order_count"`
}

// LowStockProduct is one row of the dashboard's restock list
type LowStockProduct struct {
	ProductID  uuid.UUID       `json:"product_id"`
	Name       string          `json:"name"`
	NameNepali string          `json:"name_nepali,omitempty"`
	StockKg    decimal.Decimal `json:"stock_kg"`
}

// DayAggregate is the raw per-day rollup the report builder reads.
// Cancelled orders are excluded from every figure.
type DayAggregate struct {
	Date              time.Time       `json:"date"`
	Orders            int             `json:"orders"`
	Revenue           decimal.Decimal `json:"revenue"`
	DistinctCustomers int             `json:"distinct_customers"`
	TopProductID      *uuid.UUID      `json:"top_product_id,omitempty"`
	TopProductName    string          `json:"top_product_name,omitempty"`
}

// DashboardRepository defines the SQL-aggregate queries behind the
// admin dashboard and the daily report builder. Implementations query
// the order and catalog tables directly; nothing here touches the
// aggregates.
type DashboardRepository interface {
	// Stats returns the headline dashboard numbers
	Stats(ctx context.Context) (*DashboardStats, error)

	// TopProductsByKg ranks products by kilograms sold within [from, to)
	TopProductsByKg(ctx context.Context, from, to time.Time, limit int) ([]TopProduct, error)

	// TopProductsByRevenue ranks products by revenue within [from, to)
	TopProductsByRevenue(ctx context.Context, from, to time.Time, limit int) ([]TopProduct, error)

	// LowStockProducts returns products at or below the stock threshold
	LowStockProducts(ctx context.Context, limit int) ([]LowStockProduct, error)

	// AggregateDay rolls up one calendar day for report generation
	AggregateDay(ctx context.Context, date time.Time) (*DayAggregate, error)
}
