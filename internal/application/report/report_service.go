package report

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/nepalmeatshop/backend/internal/domain/order"
	"github.com/nepalmeatshop/backend/internal/domain/report"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

const (
	dashboardTopProductLimit = 5
	dashboardLowStockLimit   = 10
	dashboardRecentOrders    = 10

	// maxBackfillDays bounds a single backfill request so a typo'd date
	// range cannot pin the database for minutes
	maxBackfillDays = 366
)

// ReportService produces the admin dashboard and the frozen per-day
// sales aggregates. Daily rows are written by the scheduler through
// GenerateDaily and can be rebuilt on demand with Backfill.
type ReportService struct {
	salesReportRepo report.SalesReportRepository
	dashboardRepo   report.DashboardRepository
	orderRepo       order.OrderRepository
	logger          *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	salesReportRepo report.SalesReportRepository,
	dashboardRepo report.DashboardRepository,
	orderRepo order.OrderRepository,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		salesReportRepo: salesReportRepo,
		dashboardRepo:   dashboardRepo,
		orderRepo:       orderRepo,
		logger:          logger,
	}
}

// Dashboard assembles the admin landing page: headline stats, the
// month-to-date product rankings, the restock list, and the latest
// orders
func (s *ReportService) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	stats, err := s.dashboardRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	topByKg, err := s.dashboardRepo.TopProductsByKg(ctx, monthStart, now, dashboardTopProductLimit)
	if err != nil {
		return nil, err
	}

	topByRevenue, err := s.dashboardRepo.TopProductsByRevenue(ctx, monthStart, now, dashboardTopProductLimit)
	if err != nil {
		return nil, err
	}

	lowStock, err := s.dashboardRepo.LowStockProducts(ctx, dashboardLowStockLimit)
	if err != nil {
		return nil, err
	}

	recent, err := s.recentOrders(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardResponse{
		Today:                stats.Today,
		Week:                 stats.Week,
		Month:                stats.Month,
		StatusBreakdown:      stats.StatusBreakdown,
		PendingOrders:        stats.PendingOrders,
		PendingReviews:       stats.PendingReviews,
		TotalCustomers:       stats.TotalCustomers,
		LowStockCount:        stats.LowStockCount,
		LowStockProducts:     lowStock,
		TopProductsByKg:      topByKg,
		TopProductsByRevenue: topByRevenue,
		RecentOrders:         recent,
	}, nil
}

// GetDaily returns one day's aggregate. Days the scheduler has not
// persisted yet are rolled up live and returned with Stored=false.
func (s *ReportService) GetDaily(ctx context.Context, date time.Time) (*DailyReportResponse, error) {
	day := report.NormalizeDate(date)

	stored, err := s.salesReportRepo.FindByDate(ctx, day)
	if err == nil {
		return ToDailyReportResponse(stored, true), nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	live, err := s.buildDay(ctx, day)
	if err != nil {
		return nil, err
	}
	return ToDailyReportResponse(live, false), nil
}

// GetRange returns the persisted rows for [from, to] plus range totals
func (s *ReportService) GetRange(ctx context.Context, from, to time.Time) (*RangeReportResponse, error) {
	from = report.NormalizeDate(from)
	to = report.NormalizeDate(to)
	if to.Before(from) {
		return nil, shared.NewDomainError("INVALID_RANGE", "End date must not be before start date")
	}

	rows, err := s.salesReportRepo.FindRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	resp := &RangeReportResponse{
		From: from,
		To:   to,
		Days: make([]DailyReportResponse, 0, len(rows)),
	}
	for _, row := range rows {
		resp.Days = append(resp.Days, *ToDailyReportResponse(row, true))
		resp.TotalOrders += row.TotalOrders
		resp.TotalRevenue = resp.TotalRevenue.Add(row.TotalRevenue)
	}
	return resp, nil
}

// GenerateDaily rolls up one calendar day and persists it, replacing
// any existing row for that day. The scheduler calls this for the day
// that just ended; admins reach it through Backfill.
func (s *ReportService) GenerateDaily(ctx context.Context, date time.Time) (*DailyReportResponse, error) {
	day := report.NormalizeDate(date)
	if day.After(report.NormalizeDate(time.Now())) {
		return nil, shared.NewDomainError("INVALID_RANGE", "Cannot generate a report for a future day")
	}

	rep, err := s.buildDay(ctx, day)
	if err != nil {
		return nil, err
	}

	if err := s.salesReportRepo.Save(ctx, rep); err != nil {
		return nil, err
	}

	s.logger.Info("Daily sales report generated",
		zap.Time("report_date", day),
		zap.Int("orders", rep.TotalOrders),
		zap.String("revenue", rep.TotalRevenue.String()))

	return ToDailyReportResponse(rep, true), nil
}

// Backfill regenerates every day in [from, to]. Failed days are
// counted and logged but do not stop the run.
func (s *ReportService) Backfill(ctx context.Context, from, to time.Time) (*BackfillResult, error) {
	from = report.NormalizeDate(from)
	to = report.NormalizeDate(to)
	if to.Before(from) {
		return nil, shared.NewDomainError("INVALID_RANGE", "End date must not be before start date")
	}
	if int(to.Sub(from).Hours()/24)+1 > maxBackfillDays {
		return nil, shared.NewDomainError("INVALID_RANGE", "Backfill range is limited to one year")
	}

	result := &BackfillResult{From: from, To: to}
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if _, err := s.GenerateDaily(ctx, day); err != nil {
			result.Failed++
			s.logger.Warn("Backfill day failed",
				zap.Time("report_date", day),
				zap.Error(err))
			continue
		}
		result.Generated++
	}

	s.logger.Info("Sales report backfill finished",
		zap.Time("from", from),
		zap.Time("to", to),
		zap.Int("generated", result.Generated),
		zap.Int("failed", result.Failed))

	return result, nil
}

// buildDay rolls up one day from the order tables into an unsaved aggregate
func (s *ReportService) buildDay(ctx context.Context, day time.Time) (*report.SalesReport, error) {
	agg, err := s.dashboardRepo.AggregateDay(ctx, day)
	if err != nil {
		return nil, err
	}

	rep, err := report.NewSalesReport(day, agg.Orders, agg.Revenue, agg.DistinctCustomers)
	if err != nil {
		return nil, err
	}
	if agg.TopProductID != nil {
		rep.SetTopProduct(*agg.TopProductID, agg.TopProductName)
	}
	return rep, nil
}

func (s *ReportService) recentOrders(ctx context.Context) ([]RecentOrderResponse, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = dashboardRecentOrders
	filter.OrderBy = "created_at"
	filter.OrderDir = "desc"

	orders, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	recent := make([]RecentOrderResponse, 0, len(orders))
	for i := range orders {
		recent = append(recent, toRecentOrderResponse(&orders[i]))
	}
	return recent, nil
}
