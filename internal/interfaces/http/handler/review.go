package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	reviewapp "github.com/nepalmeatshop/backend/internal/application/review"
	"github.com/nepalmeatshop/backend/internal/interfaces/http/middleware"
)

// ReviewHandler handles product review endpoints. Submissions start
// as pending and only appear on the product page after moderation.
type ReviewHandler struct {
	BaseHandler
	reviewService *reviewapp.ReviewService
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService *reviewapp.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// Submit godoc
// @Summary      Submit a product review
// @Description  Submit a rating with an optional comment. A second submission for the same product revises the first and goes back to pending.
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        request body reviewapp.SubmitReviewRequest true "Rating and comment"
// @Success      201 {object} dto.Response{data=reviewapp.ReviewResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /products/{id}/reviews [post]
func (h *ReviewHandler) Submit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req reviewapp.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.reviewService.Submit(c.Request.Context(), userID, productID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// ListForProduct godoc
// @Summary      List product reviews
// @Description  List a product's approved reviews with the rating summary
// @Tags         reviews
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.Response{data=reviewapp.ProductReviewsResponse}
// @Failure      404 {object} dto.Response
// @Router       /products/{id}/reviews [get]
func (h *ReviewHandler) ListForProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	result, err := h.reviewService.ListForProduct(c.Request.Context(), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// List godoc
// @Summary      List reviews for moderation
// @Description  List reviews across products with status filtering, newest first
// @Tags         admin-reviews
// @Produce      json
// @Param        product_id query string false "Filter by product"
// @Param        user_id query string false "Filter by user"
// @Param        status query string false "Review status" Enums(pending, approved, rejected)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]reviewapp.ReviewResponse}
// @Security     BearerAuth
// @Router       /admin/reviews [get]
func (h *ReviewHandler) List(c *gin.Context) {
	var filter reviewapp.ReviewListFilter
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

	result, err := h.reviewService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, filter.Page, filter.PageSize)
}

// Approve godoc
// @Summary      Approve review
// @Description  Publish a pending review to the product page
// @Tags         admin-reviews
// @Produce      json
// @Param        id path string true "Review ID"
// @Success      200 {object} dto.Response{data=reviewapp.ReviewResponse}
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/reviews/{id}/approve [post]
func (h *ReviewHandler) Approve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid review ID format")
		return
	}

	result, err := h.reviewService.Approve(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Reject godoc
// @Summary      Reject review
// @Tags         admin-reviews
// @Produce      json
// @Param        id path string true "Review ID"
// @Success      200 {object} dto.Response{data=reviewapp.ReviewResponse}
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/reviews/{id}/reject [post]
func (h *ReviewHandler) Reject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid review ID format")
		return
	}

	result, err := h.reviewService.Reject(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete godoc
// @Summary      Delete review
// @Description  Permanently remove a review regardless of status
// @Tags         admin-reviews
// @Produce      json
// @Param        id path string true "Review ID"
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/reviews/{id} [delete]
func (h *ReviewHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid review ID format")
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
