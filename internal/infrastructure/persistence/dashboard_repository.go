package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nepalmeatshop/backend/internal/domain/catalog"
	"github.com/nepalmeatshop/backend/internal/domain/order"
	"github.com/nepalmeatshop/backend/internal/domain/report"
	"github.com/nepalmeatshop/backend/internal/domain/review"
)

// GormDashboardRepository implements DashboardRepository with SQL
// aggregates over the order, catalog, review and user tables.
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewGormDashboardRepository creates a new GormDashboardRepository
func NewGormDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// Stats returns the headline dashboard numbers
func (r *GormDashboardRepository) Stats(ctx context.Context) (*report.DashboardStats, error) {
	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := todayStart.AddDate(0, 0, -6)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	stats := &report.DashboardStats{}

	today, err := r.periodStats(ctx, todayStart, now)
	if err != nil {
		return nil, err
	}
	stats.Today = today

	week, err := r.periodStats(ctx, weekStart, now)
	if err != nil {
		return nil, err
	}
	stats.Week = week

	month, err := r.periodStats(ctx, monthStart, now)
	if err != nil {
		return nil, err
	}
	stats.Month = month

	breakdown, err := r.statusBreakdown(ctx)
	if err != nil {
		return nil, err
	}
	stats.StatusBreakdown = breakdown

	for _, sc := range breakdown {
		if sc.Status == string(order.StatusPending) {
			stats.PendingOrders = sc.Count
		}
	}

	if err := r.db.WithContext(ctx).
		Model(&review.Review{}).
		Where("status = ?", review.ReviewStatusPending).
		Count(&stats.PendingReviews).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("status = ? AND stock_kg <= ?", catalog.ProductStatusActive, catalog.LowStockThresholdKg).
		Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Select("COUNT(DISTINCT user_id)").
		Scan(&stats.TotalCustomers).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// periodStats sums revenue and counts orders within [from, to),
// excluding cancelled orders.
func (r *GormDashboardRepository) periodStats(ctx context.Context, from, to time.Time) (report.PeriodStats, error) {
	type periodResult struct {
		Revenue decimal.Decimal
		Orders  int64
	}

	var result periodResult
	err := r.db.WithContext(ctx).Table("orders").
		Select("COALESCE(SUM(total_amount), 0) as revenue, COUNT(*) as orders").
		Where("created_at >= ? AND created_at < ?", from, to).
		Where("status <> ?", order.StatusCancelled).
		Scan(&result).Error
	if err != nil {
		return report.PeriodStats{}, err
	}

	return report.PeriodStats{
		Revenue: result.Revenue,
		Orders:  result.Orders,
	}, nil
}

// statusBreakdown counts orders grouped by status
func (r *GormDashboardRepository) statusBreakdown(ctx context.Context) ([]report.StatusCount, error) {
	type statusResult struct {
		Status string
		Count  int64
	}

	var results []statusResult
	err := r.db.WithContext(ctx).Table("orders").
		Select("status, COUNT(*) as count").
		Group("status").
		Order("status ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	breakdown := make([]report.StatusCount, len(results))
	for i, row := range results {
		breakdown[i] = report.StatusCount{
			Status: row.Status,
			Count:  row.Count,
		}
	}
	return breakdown, nil
}

// TopProductsByKg ranks products by kilograms sold within [from, to)
func (r *GormDashboardRepository) TopProductsByKg(ctx context.Context, from, to time.Time, limit int) ([]report.TopProduct, error) {
	return r.topProducts(ctx, from, to, limit, "total_kg DESC")
}

// TopProductsByRevenue ranks products by revenue within [from, to)
func (r *GormDashboardRepository) TopProductsByRevenue(ctx context.Context, from, to time.Time, limit int) ([]report.TopProduct, error) {
	return r.topProducts(ctx, from, to, limit, "revenue DESC")
}

func (r *GormDashboardRepository) topProducts(ctx context.Context, from, to time.Time, limit int, orderBy string) ([]report.TopProduct, error) {
	type productResult struct {
		ProductID  uuid.UUID
		Name       string
		NameNepali string
		TotalKg    decimal.Decimal
		Revenue    decimal.Decimal
		OrderCount int64
	}

	if limit <= 0 {
		limit = 10
	}

	var results []productResult
	err := r.db.WithContext(ctx).Table("order_items oi").
		Select(`
			oi.product_id,
			oi.product_name as name,
			oi.product_name_nepali as name_nepali,
			COALESCE(SUM(oi.quantity_kg), 0) as total_kg,
			COALESCE(SUM(oi.line_total), 0) as revenue,
			COUNT(DISTINCT o.id) as order_count
		`).
		Joins("JOIN orders o ON o.id = oi.order_id").
		Where("o.created_at >= ? AND o.created_at < ?", from, to).
		Where("o.status <> ?", order.StatusCancelled).
		Group("oi.product_id, oi.product_name, oi.product_name_nepali").
		Order(orderBy).
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	products := make([]report.TopProduct, len(results))
	for i, row := range results {
		products[i] = report.TopProduct{
			ProductID:  row.ProductID,
			Name:       row.Name,
			NameNepali: row.NameNepali,
			TotalKg:    row.TotalKg,
			Revenue:    row.Revenue,
			OrderCount: row.OrderCount,
		}
	}
	return products, nil
}

// LowStockProducts returns products at or below the stock threshold
func (r *GormDashboardRepository) LowStockProducts(ctx context.Context, limit int) ([]report.LowStockProduct, error) {
	type lowStockResult struct {
		ProductID  uuid.UUID
		Name       string
		NameNepali string
		StockKg    decimal.Decimal
	}

	if limit <= 0 {
		limit = 10
	}

	var results []lowStockResult
	err := r.db.WithContext(ctx).Table("products").
		Select("id as product_id, name, name_nepali, stock_kg").
		Where("status = ? AND stock_kg <= ?", catalog.ProductStatusActive, catalog.LowStockThresholdKg).
		Order("stock_kg ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	products := make([]report.LowStockProduct, len(results))
	for i, row := range results {
		products[i] = report.LowStockProduct{
			ProductID:  row.ProductID,
			Name:       row.Name,
			NameNepali: row.NameNepali,
			StockKg:    row.StockKg,
		}
	}
	return products, nil
}

// AggregateDay rolls up one calendar day for report generation
func (r *GormDashboardRepository) AggregateDay(ctx context.Context, date time.Time) (*report.DayAggregate, error) {
	dayStart := report.NormalizeDate(date)
	dayEnd := dayStart.AddDate(0, 0, 1)

	type dayResult struct {
		Orders            int
		Revenue           decimal.Decimal
		DistinctCustomers int
	}

	var result dayResult
	err := r.db.WithContext(ctx).Table("orders").
		Select(`
			COUNT(*) as orders,
			COALESCE(SUM(total_amount), 0) as revenue,
			COUNT(DISTINCT user_id) as distinct_customers
		`).
		Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).
		Where("status <> ?", order.StatusCancelled).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	aggregate := &report.DayAggregate{
		Date:              dayStart,
		Orders:            result.Orders,
		Revenue:           result.Revenue,
		DistinctCustomers: result.DistinctCustomers,
	}

	top, err := r.topProducts(ctx, dayStart, dayEnd, 1, "total_kg DESC")
	if err != nil {
		return nil, err
	}
	if len(top) > 0 {
		productID := top[0].ProductID
		aggregate.TopProductID = &productID
		aggregate.TopProductName = top[0].Name
	}

	return aggregate, nil
}

// Ensure GormDashboardRepository implements DashboardRepository
var _ report.DashboardRepository = (*GormDashboardRepository)(nil)
