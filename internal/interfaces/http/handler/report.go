package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	reportapp "github.com/nepalmeatshop/backend/internal/application/report"
	"github.com/nepalmeatshop/backend/internal/interfaces/http/middleware"
)

const reportDateLayout = "2006-01-02"

// ReportHandler handles admin sales reporting endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// BackfillRequest represents the date range for a report backfill
type BackfillRequest struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}

// Dashboard godoc
// @Summary      Admin dashboard
// @Description  Aggregate stats for the admin landing page: today/week/month sales, order status breakdown, pending work, low-stock products, top products, and recent orders
// @Tags         admin-reports
// @Produce      json
// @Success      200 {object} dto.Response{data=reportapp.DashboardResponse}
// @Security     BearerAuth
// @Router       /admin/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	result, err := h.reportService.Dashboard(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// GetDaily godoc
// @Summary      Daily sales report
// @Description  One day's sales aggregate. Days the scheduler has not persisted yet are computed on the fly and flagged stored=false.
// @Tags         admin-reports
// @Produce      json
// @Param        date query string false "Report date (YYYY-MM-DD), defaults to today"
// @Success      200 {object} dto.Response{data=reportapp.DailyReportResponse}
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/reports/daily [get]
func (h *ReportHandler) GetDaily(c *gin.Context) {
	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(reportDateLayout, raw)
		if err != nil {
			h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	result, err := h.reportService.GetDaily(c.Request.Context(), date)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// GetRange godoc
// @Summary      Sales report for a date range
// @Description  Per-day rows plus range totals for the given inclusive date range
// @Tags         admin-reports
// @Produce      json
// @Param        from query string true "Start date (YYYY-MM-DD)"
// @Param        to query string true "End date (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=reportapp.RangeReportResponse}
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/reports/range [get]
func (h *ReportHandler) GetRange(c *gin.Context) {
	from, to, ok := h.parseRange(c, c.Query("from"), c.Query("to"))
	if !ok {
		return
	}

	result, err := h.reportService.GetRange(c.Request.Context(), from, to)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Backfill godoc
// @Summary      Backfill stored reports
// @Description  Recompute and persist daily aggregates for every day in the range. Existing rows are overwritten.
// @Tags         admin-reports
// @Accept       json
// @Produce      json
// @Param        request body BackfillRequest true "Inclusive date range"
// @Success      200 {object} dto.Response{data=reportapp.BackfillResult}
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/reports/backfill [post]
func (h *ReportHandler) Backfill(c *gin.Context) {
	var req BackfillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	from, to, ok := h.parseRange(c, req.From, req.To)
	if !ok {
		return
	}

	result, err := h.reportService.Backfill(c.Request.Context(), from, to)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

func (h *ReportHandler) parseRange(c *gin.Context, fromRaw, toRaw string) (time.Time, time.Time, bool) {
	from, err := time.Parse(reportDateLayout, fromRaw)
	if err != nil {
		h.BadRequest(c, "Invalid from date, expected YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}

	to, err := time.Parse(reportDateLayout, toRaw)
	if err != nil {
		h.BadRequest(c, "Invalid to date, expected YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}

	if to.Before(from) {
		h.BadRequest(c, "Range end must not be before range start")
		return time.Time{}, time.Time{}, false
	}

	return from, to, true
}
