package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nepalmeatshop/backend/internal/domain/order"
	"github.com/nepalmeatshop/backend/internal/domain/report"
)

// DailyReportResponse represents one day's sales aggregate.
// Stored is false when the row was computed on the fly because the
// scheduler has not persisted that day yet.
type DailyReportResponse struct {
	ReportDate        time.Time       `json:"report_date"`
	TotalOrders       int             `json:"total_orders"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	DistinctCustomers int             `json:"distinct_customers"`
	AvgOrderValue     decimal.Decimal `json:"avg_order_value"`
	TopProductID      *uuid.UUID      `json:"top_product_id,omitempty"`
	TopProductName    string          `json:"top_product_name,omitempty"`
	Stored            bool            `json:"stored"`
}

// RangeReportResponse carries the per-day rows plus range totals
type RangeReportResponse struct {
	From         time.Time             `json:"from"`
	To           time.Time             `json:"to"`
	Days         []DailyReportResponse `json:"days"`
	TotalOrders  int                   `json:"total_orders"`
	TotalRevenue decimal.Decimal       `json:"total_revenue"`
}

// BackfillResult summarizes a backfill run
type BackfillResult struct {
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
	Generated int       `json:"generated"`
	Failed    int       `json:"failed"`
}

// RecentOrderResponse is a dashboard row for a recently placed order
type RecentOrderResponse struct {
	ID            uuid.UUID       `json:"id"`
	OrderNumber   string          `json:"order_number"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	PaymentMethod string          `json:"payment_method"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	ItemCount     int             `json:"item_count"`
	CreatedAt     time.Time       `json:"created_at"`
}

// DashboardResponse is the admin landing page payload
type DashboardResponse struct {
	Today                report.PeriodStats       `json:"today"`
	Week                 report.PeriodStats       `json:"week"`
	Month                report.PeriodStats       `json:"month"`
	StatusBreakdown      []report.StatusCount     `json:"status_breakdown"`
	PendingOrders        int64                    `json:"pending_orders"`
	PendingReviews       int64                    `json:"pending_reviews"`
	TotalCustomers       int64                    `json:"total_customers"`
	LowStockCount        int64                    `json:"low_stock_count"`
	LowStockProducts     []report.LowStockProduct `json:"low_stock_products"`
	TopProductsByKg      []report.TopProduct      `json:"top_products_by_kg"`
	TopProductsByRevenue []report.TopProduct      `json:"top_products_by_revenue"`
	RecentOrders         []RecentOrderResponse    `json:"recent_orders"`
}

// ToDailyReportResponse converts a stored aggregate row
func ToDailyReportResponse(r *report.SalesReport, stored bool) *DailyReportResponse {
	return &DailyReportResponse{
		ReportDate:        r.ReportDate,
		TotalOrders:       r.TotalOrders,
		TotalRevenue:      r.TotalRevenue,
		DistinctCustomers: r.DistinctCustomers,
		AvgOrderValue:     r.AvgOrderValue,
		TopProductID:      r.TopProductID,
		TopProductName:    r.TopProductName,
		Stored:            stored,
	}
}

func toRecentOrderResponse(o *order.Order) RecentOrderResponse {
	return RecentOrderResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		PaymentMethod: o.PaymentMethod,
		TotalAmount:   o.TotalAmount,
		ItemCount:     o.ItemCount(),
		CreatedAt:     o.CreatedAt,
	}
}
