package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nepalmeatshop/backend/internal/application/event"
	"github.com/nepalmeatshop/backend/internal/interfaces/http/middleware"
)

// OutboxHandler exposes the event outbox for operators: inspecting
// entries, reviving dead letters and reading delivery statistics.
type OutboxHandler struct {
	BaseHandler
	outboxService *event.OutboxService
}

// NewOutboxHandler creates a new outbox handler
func NewOutboxHandler(outboxService *event.OutboxService) *OutboxHandler {
	return &OutboxHandler{outboxService: outboxService}
}

// RetryAllResponse reports how many dead letter entries were requeued
type RetryAllResponse struct {
	Count int64 `json:"count"`
}

// GetDeadLetterEntries godoc
// @Summary      List dead letter entries
// @Description  Returns outbox entries that exhausted their retries
// @Tags         outbox
// @Produce      json
// @Param        page       query  int  false  "Page number"
// @Param        page_size  query  int  false  "Page size"
// @Success      200  {object}  dto.Response{data=[]event.OutboxEntryDTO}
// @Security     BearerAuth
// @Router       /admin/system/outbox/dead [get]
func (h *OutboxHandler) GetDeadLetterEntries(c *gin.Context) {
	var filter event.OutboxFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.outboxService.GetDeadLetterEntries(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Entries, result.Total, result.Page, result.PageSize)
}

// GetEntry godoc
// @Summary      Get an outbox entry
// @Tags         outbox
// @Produce      json
// @Param        id  path  string  true  "Outbox entry ID"
// @Success      200  {object}  dto.Response{data=event.OutboxEntryDTO}
// @Failure      404  {object}  dto.Response
// @Security     BearerAuth
// @Router       /admin/system/outbox/{id} [get]
func (h *OutboxHandler) GetEntry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid outbox entry ID format")
		return
	}

	entry, err := h.outboxService.GetEntry(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entry)
}

// RetryDeadEntry godoc
// @Summary      Retry a dead letter entry
// @Description  Resets a dead letter entry so the relay picks it up again
// @Tags         outbox
// @Produce      json
// @Param        id  path  string  true  "Outbox entry ID"
// @Success      200  {object}  dto.Response{data=event.OutboxEntryDTO}
// @Failure      404  {object}  dto.Response
// @Failure      422  {object}  dto.Response
// @Security     BearerAuth
// @Router       /admin/system/outbox/{id}/retry [post]
func (h *OutboxHandler) RetryDeadEntry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid outbox entry ID format")
		return
	}

	entry, err := h.outboxService.RetryDeadEntry(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entry)
}

// RetryAllDeadEntries godoc
// @Summary      Retry all dead letter entries
// @Tags         outbox
// @Produce      json
// @Success      200  {object}  dto.Response{data=handler.RetryAllResponse}
// @Security     BearerAuth
// @Router       /admin/system/outbox/dead/retry-all [post]
func (h *OutboxHandler) RetryAllDeadEntries(c *gin.Context) {
	count, err := h.outboxService.RetryAllDeadEntries(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, RetryAllResponse{Count: count})
}

// GetStats godoc
// @Summary      Get outbox statistics
// @Description  Returns entry counts by delivery status
// @Tags         outbox
// @Produce      json
// @Success      200  {object}  dto.Response{data=event.OutboxStatsDTO}
// @Security     BearerAuth
// @Router       /admin/system/outbox/stats [get]
func (h *OutboxHandler) GetStats(c *gin.Context) {
	stats, err := h.outboxService.GetStats(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, stats)
}
