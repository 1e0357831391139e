package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	deliveryapp "github.com/nepalmeatshop/backend/internal/application/delivery"
	"github.com/nepalmeatshop/backend/internal/interfaces/http/middleware"
)

// DeliveryAreaHandler handles delivery area endpoints. The public
// listing backs the checkout area picker; the rest is back-office.
type DeliveryAreaHandler struct {
	BaseHandler
	areaService *deliveryapp.AreaService
}

// NewDeliveryAreaHandler creates a new DeliveryAreaHandler
func NewDeliveryAreaHandler(areaService *deliveryapp.AreaService) *DeliveryAreaHandler {
	return &DeliveryAreaHandler{
		areaService: areaService,
	}
}

// ListActive godoc
// @Summary      List delivery areas
// @Description  List active delivery areas with charges and estimated delivery times
// @Tags         delivery
// @Produce      json
// @Success      200 {object} dto.Response{data=[]deliveryapp.AreaResponse}
// @Router       /delivery-areas [get]
func (h *DeliveryAreaHandler) ListActive(c *gin.Context) {
	areas, err := h.areaService.ListActive(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, areas)
}

// Create godoc
// @Summary      Create delivery area
// @Tags         admin-delivery
// @Accept       json
// @Produce      json
// @Param        request body deliveryapp.CreateAreaRequest true "Area details"
// @Success      201 {object} dto.Response{data=deliveryapp.AreaResponse}
// @Failure      400 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/delivery-areas [post]
func (h *DeliveryAreaHandler) Create(c *gin.Context) {
	var req deliveryapp.CreateAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	area, err := h.areaService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, area)
}

// List godoc
// @Summary      List all delivery areas
// @Description  List every delivery area including inactive ones
// @Tags         admin-delivery
// @Produce      json
// @Success      200 {object} dto.Response{data=[]deliveryapp.AreaResponse}
// @Security     BearerAuth
// @Router       /admin/delivery-areas [get]
func (h *DeliveryAreaHandler) List(c *gin.Context) {
	areas, err := h.areaService.List(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, areas)
}

// GetByID godoc
// @Summary      Get delivery area
// @Tags         admin-delivery
// @Produce      json
// @Param        id path string true "Area ID"
// @Success      200 {object} dto.Response{data=deliveryapp.AreaResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/delivery-areas/{id} [get]
func (h *DeliveryAreaHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid area ID format")
		return
	}

	area, err := h.areaService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, area)
}

// Update godoc
// @Summary      Update delivery area
// @Tags         admin-delivery
// @Accept       json
// @Produce      json
// @Param        id path string true "Area ID"
// @Param        request body deliveryapp.UpdateAreaRequest true "Area details"
// @Success      200 {object} dto.Response{data=deliveryapp.AreaResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/delivery-areas/{id} [put]
func (h *DeliveryAreaHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid area ID format")
		return
	}

	var req deliveryapp.UpdateAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	area, err := h.areaService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, area)
}

// Activate godoc
// @Summary      Activate delivery area
// @Tags         admin-delivery
// @Produce      json
// @Param        id path string true "Area ID"
// @Success      200 {object} dto.Response{data=deliveryapp.AreaResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/delivery-areas/{id}/activate [post]
func (h *DeliveryAreaHandler) Activate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid area ID format")
		return
	}

	area, err := h.areaService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, area)
}

// Deactivate godoc
// @Summary      Deactivate delivery area
// @Description  Hide the area from checkout. Orders already placed against it are unaffected.
// @Tags         admin-delivery
// @Produce      json
// @Param        id path string true "Area ID"
// @Success      200 {object} dto.Response{data=deliveryapp.AreaResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/delivery-areas/{id}/deactivate [post]
func (h *DeliveryAreaHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid area ID format")
		return
	}

	area, err := h.areaService.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, area)
}

// Delete godoc
// @Summary      Delete delivery area
// @Description  Permanently remove a delivery area. Areas referenced by existing orders cannot be deleted; deactivate them instead.
// @Tags         admin-delivery
// @Produce      json
// @Param        id path string true "Area ID"
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/delivery-areas/{id} [delete]
func (h *DeliveryAreaHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid area ID format")
		return
	}

	if err := h.areaService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
