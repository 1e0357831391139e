package handler

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	paymentapp "github.com/nepalmeatshop/backend/internal/application/payment"
	"github.com/nepalmeatshop/backend/internal/domain/payment"
	"github.com/nepalmeatshop/backend/internal/interfaces/http/middleware"
)

// PaymentHandler handles payment initiation and gateway callback endpoints.
// Callback endpoints are hit by gateway redirects and carry no session or
// JWT; they authenticate through the signed payload instead.
type PaymentHandler struct {
	BaseHandler
	paymentService *paymentapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *paymentapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// InitiatePaymentRequest represents the request body for starting a
// payment attempt against an existing order
type InitiatePaymentRequest struct {
	OrderID uuid.UUID `json:"order_id" binding:"required"`
}

// ListMethods godoc
// @Summary      List payment methods
// @Description  List enabled payment methods with display names and instructions, ordered for the checkout page
// @Tags         payments
// @Produce      json
// @Success      200 {object} dto.Response{data=[]paymentapp.MethodResponse}
// @Router       /payment/methods [get]
func (h *PaymentHandler) ListMethods(c *gin.Context) {
	methods, err := h.paymentService.ListMethods(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, methods)
}

// Initiate godoc
// @Summary      Initiate payment for an order
// @Description  Start a payment attempt for a pending order. Wallet methods return a redirect or form payload; offline methods return instructions.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body InitiatePaymentRequest true "Order to pay"
// @Success      200 {object} dto.Response{data=paymentapp.InitiateResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /payment/initiate [post]
func (h *PaymentHandler) Initiate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.paymentService.Initiate(c.Request.Context(), userID, req.OrderID, middleware.GetJWTIsAdmin(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// EsewaCallback godoc
// @Summary      eSewa payment callback
// @Description  Landing endpoint for the eSewa redirect. The signed transaction payload arrives base64-encoded in the data query parameter.
// @Tags         payments
// @Produce      json
// @Param        outcome path string true "Redirect outcome" Enums(success, failure)
// @Param        order_number path string true "Order number"
// @Param        data query string true "Base64-encoded signed payload"
// @Success      200 {object} dto.Response{data=paymentapp.CallbackResponse}
// @Failure      400 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /payment/callback/esewa/{outcome}/{order_number} [get]
func (h *PaymentHandler) EsewaCallback(c *gin.Context) {
	h.handleCallback(c, payment.MethodEsewa, c.Param("order_number"))
}

// KhaltiCallback godoc
// @Summary      Khalti payment callback
// @Description  Landing endpoint for the Khalti return redirect. Khalti identifies the order through the purchase_order_id query parameter.
// @Tags         payments
// @Produce      json
// @Param        pidx query string true "Signed payment index"
// @Param        status query string true "Gateway-reported status"
// @Param        transaction_id query string false "Gateway transaction ID"
// @Param        amount query string false "Paid amount in paisa"
// @Param        purchase_order_id query string true "Order number"
// @Success      200 {object} dto.Response{data=paymentapp.CallbackResponse}
// @Failure      400 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /payment/callback/khalti [get]
func (h *PaymentHandler) KhaltiCallback(c *gin.Context) {
	h.handleCallback(c, payment.MethodKhalti, "")
}

// MethodCallback godoc
// @Summary      Generic payment callback
// @Description  Callback endpoint for payment methods without a dedicated redirect shape
// @Tags         payments
// @Produce      json
// @Param        method path string true "Payment method"
// @Param        order_number path string true "Order number"
// @Success      200 {object} dto.Response{data=paymentapp.CallbackResponse}
// @Failure      400 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /payment/callback/{method}/{order_number} [get]
func (h *PaymentHandler) MethodCallback(c *gin.Context) {
	method := payment.Method(c.Param("method"))
	if !method.IsValid() {
		h.BadRequest(c, "Unknown payment method")
		return
	}

	h.handleCallback(c, method, c.Param("order_number"))
}

func (h *PaymentHandler) handleCallback(c *gin.Context, method payment.Method, orderNumber string) {
	params := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	result, err := h.paymentService.HandleCallback(c.Request.Context(), method, orderNumber, params)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// GatewayHandler handles admin management of payment gateway records
type GatewayHandler struct {
	BaseHandler
	gatewayService *paymentapp.GatewayService
}

// NewGatewayHandler creates a new GatewayHandler
func NewGatewayHandler(gatewayService *paymentapp.GatewayService) *GatewayHandler {
	return &GatewayHandler{
		gatewayService: gatewayService,
	}
}

// List godoc
// @Summary      List payment gateways
// @Description  List all configured payment gateways including disabled ones
// @Tags         admin-payments
// @Produce      json
// @Success      200 {object} dto.Response{data=[]paymentapp.GatewayResponse}
// @Security     BearerAuth
// @Router       /admin/payment/gateways [get]
func (h *GatewayHandler) List(c *gin.Context) {
	gateways, err := h.gatewayService.List(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gateways)
}

// GetByID godoc
// @Summary      Get payment gateway
// @Tags         admin-payments
// @Produce      json
// @Param        id path string true "Gateway ID"
// @Success      200 {object} dto.Response{data=paymentapp.GatewayResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/payment/gateways/{id} [get]
func (h *GatewayHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid gateway ID format")
		return
	}

	gateway, err := h.gatewayService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gateway)
}

// Update godoc
// @Summary      Update payment gateway
// @Description  Update display names, customer instructions, ordering, or gateway configuration
// @Tags         admin-payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Gateway ID"
// @Param        request body paymentapp.UpdateGatewayRequest true "Gateway fields"
// @Success      200 {object} dto.Response{data=paymentapp.GatewayResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/payment/gateways/{id} [put]
func (h *GatewayHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid gateway ID format")
		return
	}

	var req paymentapp.UpdateGatewayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	gateway, err := h.gatewayService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gateway)
}

// Enable godoc
// @Summary      Enable payment gateway
// @Description  Make the gateway selectable at checkout
// @Tags         admin-payments
// @Produce      json
// @Param        id path string true "Gateway ID"
// @Success      200 {object} dto.Response{data=paymentapp.GatewayResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/payment/gateways/{id}/enable [post]
func (h *GatewayHandler) Enable(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid gateway ID format")
		return
	}

	gateway, err := h.gatewayService.Enable(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gateway)
}

// Disable godoc
// @Summary      Disable payment gateway
// @Description  Hide the gateway from checkout. Orders already initiated against it still settle.
// @Tags         admin-payments
// @Produce      json
// @Param        id path string true "Gateway ID"
// @Success      200 {object} dto.Response{data=paymentapp.GatewayResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/payment/gateways/{id}/disable [post]
func (h *GatewayHandler) Disable(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid gateway ID format")
		return
	}

	gateway, err := h.gatewayService.Disable(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gateway)
}

// UploadQR godoc
// @Summary      Upload gateway QR image
// @Description  Upload the QR code image shown for wallet and bank transfer instructions. Send the raw image bytes with an image content type.
// @Tags         admin-payments
// @Accept       png
// @Produce      json
// @Param        id path string true "Gateway ID"
// @Success      200 {object} dto.Response{data=paymentapp.GatewayResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/payment/gateways/{id}/qr [put]
func (h *GatewayHandler) UploadQR(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid gateway ID format")
		return
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}

	gateway, err := h.gatewayService.UploadQR(c.Request.Context(), id, c.ContentType(), data)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gateway)
}
