package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	inventoryapp "github.com/nepalmeatshop/backend/internal/application/inventory"
	"github.com/nepalmeatshop/backend/internal/interfaces/http/middleware"
)

// InventoryHandler handles admin stock management endpoints. Stock
// changes from checkout and cancellation flow through the order
// service; this handler covers manual corrections and alerting.
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *inventoryapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
	}
}

// AdjustStock godoc
// @Summary      Adjust product stock
// @Description  Apply a manual stock correction. Positive delta_kg adds stock, negative removes it; the resulting level may not go below zero.
// @Tags         admin-inventory
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        request body inventoryapp.AdjustStockRequest true "Delta and reason"
// @Success      200 {object} dto.Response{data=inventoryapp.AdjustmentResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/products/{id}/stock [post]
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req inventoryapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.inventoryService.AdjustStock(c.Request.Context(), actorID, productID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// ListTransactions godoc
// @Summary      List stock movements
// @Description  Page through a product's stock movement ledger, newest first
// @Tags         admin-inventory
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]inventoryapp.StockTransactionResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/products/{id}/transactions [get]
func (h *InventoryHandler) ListTransactions(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var filter inventoryapp.LedgerFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = 20
	}

	result, err := h.inventoryService.ListTransactions(c.Request.Context(), productID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, filter.Page, filter.PageSize)
}

// ListAlerts godoc
// @Summary      List stock alerts
// @Description  List low-stock alert configurations joined with current stock levels
// @Tags         admin-inventory
// @Produce      json
// @Success      200 {object} dto.Response{data=[]inventoryapp.StockAlertResponse}
// @Security     BearerAuth
// @Router       /admin/stock-alerts [get]
func (h *InventoryHandler) ListAlerts(c *gin.Context) {
	alerts, err := h.inventoryService.ListAlerts(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, alerts)
}

// ConfigureAlert godoc
// @Summary      Configure stock alert
// @Description  Set or update a product's low-stock threshold and alert flag. Omitted fields are unchanged.
// @Tags         admin-inventory
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        request body inventoryapp.ConfigureAlertRequest true "Alert settings"
// @Success      200 {object} dto.Response{data=inventoryapp.StockAlertResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/products/{id}/stock-alert [put]
func (h *InventoryHandler) ConfigureAlert(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req inventoryapp.ConfigureAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	alert, err := h.inventoryService.ConfigureAlert(c.Request.Context(), productID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, alert)
}

// SweepLowStock godoc
// @Summary      Run a low-stock sweep
// @Description  Check every active alert against current stock and raise notifications for products below threshold. The scheduler runs this on an interval; the endpoint triggers it on demand.
// @Tags         admin-inventory
// @Produce      json
// @Success      200 {object} dto.Response{data=inventoryapp.SweepResult}
// @Security     BearerAuth
// @Router       /admin/stock-alerts/sweep [post]
func (h *InventoryHandler) SweepLowStock(c *gin.Context) {
	result, err := h.inventoryService.SweepLowStock(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}
