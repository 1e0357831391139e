package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	billingapp "github.com/nepalmeatshop/backend/internal/application/billing"
	printingapp "github.com/nepalmeatshop/backend/internal/application/printing"
	"github.com/nepalmeatshop/backend/internal/domain/printing"
	"github.com/nepalmeatshop/backend/internal/interfaces/http/middleware"
)

// InvoiceHandler handles admin invoice endpoints. PDF rendering goes
// through the shared print pipeline with the invoice document type.
type InvoiceHandler struct {
	BaseHandler
	invoiceService *billingapp.InvoiceService
	printService   *printingapp.PrintService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *billingapp.InvoiceService, printService *printingapp.PrintService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		printService:   printService,
	}
}

// Generate godoc
// @Summary      Generate invoice for an order
// @Description  Create the invoice for an order, snapshotting customer and amount details. Repeat calls return the existing invoice; cancelled orders cannot be invoiced.
// @Tags         admin-invoices
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      201 {object} dto.Response{data=billingapp.InvoiceResponse}
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/orders/{id}/invoice [post]
func (h *InvoiceHandler) Generate(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	invoice, err := h.invoiceService.Generate(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, invoice)
}

// GetByOrder godoc
// @Summary      Get invoice for an order
// @Tags         admin-invoices
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=billingapp.InvoiceResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/orders/{id}/invoice [get]
func (h *InvoiceHandler) GetByOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	invoice, err := h.invoiceService.GetByOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// List godoc
// @Summary      List invoices
// @Description  Page through invoices with keyword, payment, and date range filters, newest first
// @Tags         admin-invoices
// @Produce      json
// @Param        keyword query string false "Match invoice number, order number, or customer name"
// @Param        is_paid query bool false "Filter by paid flag"
// @Param        from query string false "Invoice date from (YYYY-MM-DD)"
// @Param        to query string false "Invoice date to (YYYY-MM-DD)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]billingapp.InvoiceResponse}
// @Security     BearerAuth
// @Router       /admin/invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	var filter billingapp.InvoiceListFilter
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

	result, err := h.invoiceService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @Summary      Get invoice
// @Tags         admin-invoices
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} dto.Response{data=billingapp.InvoiceResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// Update godoc
// @Summary      Update invoice
// @Description  Correct an invoice's notes or paid flag. Amounts are frozen at generation; regenerate from the order if they are wrong.
// @Tags         admin-invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Param        request body billingapp.UpdateInvoiceRequest true "Invoice fields"
// @Success      200 {object} dto.Response{data=billingapp.InvoiceResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var req billingapp.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	invoice, err := h.invoiceService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// GeneratePDF godoc
// @Summary      Render invoice to PDF
// @Description  Render the invoice through the print pipeline using the default invoice template. The job response carries the download URL.
// @Tags         admin-invoices
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      201 {object} dto.Response{data=printingapp.PrintJobResponse}
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/invoices/{id}/pdf [post]
func (h *InvoiceHandler) GeneratePDF(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	job, err := h.printService.GeneratePDF(c.Request.Context(), userID, printingapp.GeneratePDFRequest{
		DocumentType: printing.DocTypeInvoice.String(),
		DocumentID:   id,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, job)
}
