package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	notificationapp "github.com/nepalmeatshop/backend/internal/application/notification"
	"github.com/nepalmeatshop/backend/internal/interfaces/http/middleware"
)

// NotificationHandler handles admin notification template and log
// endpoints. Sending happens through domain events; there is no
// endpoint that sends a notification directly.
type NotificationHandler struct {
	BaseHandler
	notificationService *notificationapp.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *notificationapp.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// CreateTemplate godoc
// @Summary      Create notification template
// @Description  Create a template for an event and channel. Placeholders like {{customer_name}} are substituted at send time; one template per event and channel pair.
// @Tags         admin-notifications
// @Accept       json
// @Produce      json
// @Param        request body notificationapp.CreateTemplateRequest true "Template details"
// @Success      201 {object} dto.Response{data=notificationapp.TemplateResponse}
// @Failure      400 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/notifications/templates [post]
func (h *NotificationHandler) CreateTemplate(c *gin.Context) {
	var req notificationapp.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	tmpl, err := h.notificationService.CreateTemplate(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, tmpl)
}

// ListTemplates godoc
// @Summary      List notification templates
// @Tags         admin-notifications
// @Produce      json
// @Success      200 {object} dto.Response{data=[]notificationapp.TemplateResponse}
// @Security     BearerAuth
// @Router       /admin/notifications/templates [get]
func (h *NotificationHandler) ListTemplates(c *gin.Context) {
	templates, err := h.notificationService.ListTemplates(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, templates)
}

// GetTemplate godoc
// @Summary      Get notification template
// @Tags         admin-notifications
// @Produce      json
// @Param        id path string true "Template ID"
// @Success      200 {object} dto.Response{data=notificationapp.TemplateResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/notifications/templates/{id} [get]
func (h *NotificationHandler) GetTemplate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return
	}

	tmpl, err := h.notificationService.GetTemplate(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tmpl)
}

// UpdateTemplate godoc
// @Summary      Update notification template
// @Description  Update a template's subject and body. Event and channel are fixed at creation.
// @Tags         admin-notifications
// @Accept       json
// @Produce      json
// @Param        id path string true "Template ID"
// @Param        request body notificationapp.UpdateTemplateRequest true "Subject and body"
// @Success      200 {object} dto.Response{data=notificationapp.TemplateResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/notifications/templates/{id} [put]
func (h *NotificationHandler) UpdateTemplate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return
	}

	var req notificationapp.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	tmpl, err := h.notificationService.UpdateTemplate(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tmpl)
}

// DeleteTemplate godoc
// @Summary      Delete notification template
// @Description  Remove a template. Events without a template are skipped silently at send time.
// @Tags         admin-notifications
// @Produce      json
// @Param        id path string true "Template ID"
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/notifications/templates/{id} [delete]
func (h *NotificationHandler) DeleteTemplate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return
	}

	if err := h.notificationService.DeleteTemplate(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// ListLogs godoc
// @Summary      List notification logs
// @Description  Page through the send log, newest first, with recipient, channel, and status filters
// @Tags         admin-notifications
// @Produce      json
// @Param        recipient query string false "Match the recipient address"
// @Param        channel query string false "Channel" Enums(email, sms)
// @Param        status query string false "Send status" Enums(sent, failed)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]notificationapp.LogResponse}
// @Security     BearerAuth
// @Router       /admin/notifications/logs [get]
func (h *NotificationHandler) ListLogs(c *gin.Context) {
	var filter notificationapp.LogListFilter
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

	result, err := h.notificationService.ListLogs(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, filter.Page, filter.PageSize)
}

// LogsForOrder godoc
// @Summary      List notifications for an order
// @Description  Every notification recorded against one order, oldest first
// @Tags         admin-notifications
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=[]notificationapp.LogResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/orders/{id}/notifications [get]
func (h *NotificationHandler) LogsForOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	logs, err := h.notificationService.LogsForOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, logs)
}
