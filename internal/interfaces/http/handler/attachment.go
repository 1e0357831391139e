package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/nepalmeatshop/backend/internal/application/catalog"
	"github.com/nepalmeatshop/backend/internal/interfaces/http/middleware"
)

// AttachmentHandler handles product image and file uploads. Uploads
// are presigned: the client asks for an upload URL, PUTs the file to
// storage directly, then confirms so the attachment goes active.
type AttachmentHandler struct {
	BaseHandler
	attachmentService *catalogapp.AttachmentService
}

// NewAttachmentHandler creates a new AttachmentHandler
func NewAttachmentHandler(attachmentService *catalogapp.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{
		attachmentService: attachmentService,
	}
}

// InitiateUpload godoc
// @Summary      Initiate file upload
// @Description  Create a pending attachment and return a presigned URL the client uploads the file to. Unconfirmed uploads are cleaned up after expiry.
// @Tags         admin-attachments
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.InitiateUploadRequest true "File details"
// @Success      201 {object} dto.Response{data=catalogapp.InitiateUploadResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/attachments/initiate [post]
func (h *AttachmentHandler) InitiateUpload(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req catalogapp.InitiateUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.attachmentService.InitiateUpload(c.Request.Context(), req, &userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// ConfirmUpload godoc
// @Summary      Confirm file upload
// @Description  Activate a pending attachment after the file landed in storage. Confirming a main image updates the product's image URL.
// @Tags         admin-attachments
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.ConfirmUploadRequest true "Attachment to confirm"
// @Success      200 {object} dto.Response{data=catalogapp.AttachmentResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/attachments/confirm [post]
func (h *AttachmentHandler) ConfirmUpload(c *gin.Context) {
	var req catalogapp.ConfirmUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.attachmentService.ConfirmUpload(c.Request.Context(), req.AttachmentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// GetByID godoc
// @Summary      Get attachment
// @Tags         admin-attachments
// @Produce      json
// @Param        id path string true "Attachment ID"
// @Success      200 {object} dto.Response{data=catalogapp.AttachmentResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/attachments/{id} [get]
func (h *AttachmentHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid attachment ID format")
		return
	}

	result, err := h.attachmentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// ListForProduct godoc
// @Summary      List product attachments
// @Description  Page through a product's attachments including pending and deleted ones
// @Tags         admin-attachments
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        status query string false "Attachment status" Enums(pending, active, deleted)
// @Param        type query string false "Attachment type" Enums(main_image, gallery_image, document, other)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]catalogapp.AttachmentResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/products/{id}/attachments [get]
func (h *AttachmentHandler) ListForProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var filter catalogapp.AttachmentListFilter
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

	result, err := h.attachmentService.GetByProduct(c.Request.Context(), productID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, filter.Page, filter.PageSize)
}

// ListImages godoc
// @Summary      List product images
// @Description  Active images for a product in gallery order, for the storefront gallery
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.Response{data=[]catalogapp.AttachmentResponse}
// @Failure      404 {object} dto.Response
// @Router       /products/{id}/images [get]
func (h *AttachmentHandler) ListImages(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	result, err := h.attachmentService.GetActiveByProduct(c.Request.Context(), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// SetAsMainImage godoc
// @Summary      Set main product image
// @Description  Promote an image attachment to the product's main image
// @Tags         admin-attachments
// @Produce      json
// @Param        id path string true "Attachment ID"
// @Success      200 {object} dto.Response{data=catalogapp.AttachmentResponse}
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/attachments/{id}/set-main [post]
func (h *AttachmentHandler) SetAsMainImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid attachment ID format")
		return
	}

	result, err := h.attachmentService.SetAsMainImage(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Reorder godoc
// @Summary      Reorder product attachments
// @Description  Set the gallery order for a product's attachments. Every listed attachment must belong to the product.
// @Tags         admin-attachments
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        request body catalogapp.ReorderAttachmentsRequest true "Attachment IDs in desired order"
// @Success      200 {object} dto.Response{data=[]catalogapp.AttachmentResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/products/{id}/attachments/reorder [put]
func (h *AttachmentHandler) Reorder(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req catalogapp.ReorderAttachmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.attachmentService.ReorderAttachments(c.Request.Context(), productID, req.AttachmentIDs)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete godoc
// @Summary      Delete attachment
// @Description  Soft delete an attachment so it disappears from the gallery. The stored file survives until a permanent delete.
// @Tags         admin-attachments
// @Produce      json
// @Param        id path string true "Attachment ID"
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/attachments/{id} [delete]
func (h *AttachmentHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid attachment ID format")
		return
	}

	if err := h.attachmentService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// PermanentDelete godoc
// @Summary      Permanently delete attachment
// @Description  Remove the attachment record and its stored files
// @Tags         admin-attachments
// @Produce      json
// @Param        id path string true "Attachment ID"
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/attachments/{id}/permanent [delete]
func (h *AttachmentHandler) PermanentDelete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid attachment ID format")
		return
	}

	if err := h.attachmentService.PermanentDelete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
