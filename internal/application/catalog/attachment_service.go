package catalog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nepalmeatshop/backend/internal/domain/catalog"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

// AllowedContentTypes defines the whitelist of allowed content types for uploads
// This prevents uploading potentially dangerous file types (executables, scripts, etc.)
// SECURITY: SVG files are explicitly NOT allowed due to XSS risk (can contain <script> tags
// and inline event handlers like onload, onerror, etc.)
var AllowedContentTypes = map[string]bool{
	// Images (SVG excluded - XSS risk)
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
	// Documents (butchery certificates, supplier invoices)
	"application/pdf": true,
	// Text
	"text/plain": true,
	"text/csv":   true,
}

// ObjectStorageService defines the interface for object storage operations
// This interface is implemented by the infrastructure layer (S3 or local disk)
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading a file
	// Returns the upload URL and expiration time
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for downloading a file
	// Returns the download URL and expiration time
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)

	// PublicURL returns the stable public URL for a stored object
	PublicURL(storageKey string) string
}

// AttachmentServiceConfig holds configuration for the attachment service
type AttachmentServiceConfig struct {
	// UploadURLExpiry is the duration for which upload URLs are valid
	UploadURLExpiry time.Duration
	// DownloadURLExpiry is the duration for which download URLs are valid
	DownloadURLExpiry time.Duration
	// MaxAttachmentsPerProduct is the maximum number of attachments per product
	MaxAttachmentsPerProduct int
}

// DefaultAttachmentServiceConfig returns the default configuration
func DefaultAttachmentServiceConfig() AttachmentServiceConfig {
	return AttachmentServiceConfig{
		UploadURLExpiry:          15 * time.Minute,
		DownloadURLExpiry:        1 * time.Hour,
		MaxAttachmentsPerProduct: 20,
	}
}

// AttachmentService handles product attachment operations
type AttachmentService struct {
	attachmentRepo catalog.ProductAttachmentRepository
	productRepo    catalog.ProductRepository
	storageService ObjectStorageService
	cache          catalog.Cache
	config         AttachmentServiceConfig
	logger         *zap.Logger
}

// NewAttachmentService creates a new AttachmentService
func NewAttachmentService(
	attachmentRepo catalog.ProductAttachmentRepository,
	productRepo catalog.ProductRepository,
	storageService ObjectStorageService,
	cache catalog.Cache,
	logger *zap.Logger,
) *AttachmentService {
	return &AttachmentService{
		attachmentRepo: attachmentRepo,
		productRepo:    productRepo,
		storageService: storageService,
		cache:          cache,
		config:         DefaultAttachmentServiceConfig(),
		logger:         logger,
	}
}

// SetConfig sets the service configuration
func (s *AttachmentService) SetConfig(config AttachmentServiceConfig) {
	s.config = config
}

// InitiateUpload creates a pending attachment record and returns a presigned upload URL
func (s *AttachmentService) InitiateUpload(
	ctx context.Context,
	req InitiateUploadRequest,
	uploadedBy *uuid.UUID,
) (*InitiateUploadResponse, error) {
	// Validate product exists
	_, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
		}
		return nil, err
	}

	// Check attachment limit
	count, err := s.attachmentRepo.CountActiveByProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if count >= int64(s.config.MaxAttachmentsPerProduct) {
		return nil, shared.NewDomainError("ATTACHMENT_LIMIT_EXCEEDED",
			fmt.Sprintf("Maximum %d attachments per product allowed", s.config.MaxAttachmentsPerProduct))
	}

	// Validate attachment type
	attachmentType := catalog.AttachmentType(req.Type)
	if !attachmentType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ATTACHMENT_TYPE", "Invalid attachment type")
	}

	// Validate content type against whitelist (CRITICAL: prevents uploading dangerous files)
	if !isAllowedContentType(req.ContentType) {
		return nil, shared.NewDomainError("DISALLOWED_CONTENT_TYPE",
			fmt.Sprintf("Content type '%s' is not allowed. Allowed types: images, PDF, and text files.", req.ContentType))
	}

	// Validate content type matches attachment type (images must be image/* content type)
	if attachmentType.IsImage() && !isImageContentType(req.ContentType) {
		return nil, shared.NewDomainError("INVALID_CONTENT_TYPE",
			"Image attachment type requires an image content type")
	}

	// Check if there's already a main image when adding a new main image
	if attachmentType == catalog.AttachmentTypeMainImage {
		existingMain, err := s.attachmentRepo.FindMainImage(ctx, req.ProductID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if existingMain != nil {
			return nil, shared.NewDomainError("MAIN_IMAGE_EXISTS",
				"A main image already exists. Delete or change the existing main image first.")
		}
	}

	// Generate storage key
	storageKey := s.generateStorageKey(req.ProductID, req.FileName)

	// Create the attachment entity
	attachment, err := catalog.NewProductAttachment(
		req.ProductID,
		attachmentType,
		req.FileName,
		req.FileSize,
		req.ContentType,
		storageKey,
		uploadedBy,
	)
	if err != nil {
		return nil, err
	}

	// Save the attachment in pending status
	if err := s.attachmentRepo.Save(ctx, attachment); err != nil {
		return nil, err
	}

	// Generate presigned upload URL
	uploadURL, expiresAt, err := s.storageService.GenerateUploadURL(
		ctx,
		storageKey,
		req.ContentType,
		s.config.UploadURLExpiry,
	)
	if err != nil {
		// Clean up the attachment record if URL generation fails
		_ = s.attachmentRepo.Delete(ctx, attachment.ID)
		return nil, shared.NewDomainError("UPLOAD_URL_FAILED", "Failed to generate upload URL")
	}

	return &InitiateUploadResponse{
		AttachmentID: attachment.ID,
		UploadURL:    uploadURL,
		StorageKey:   storageKey,
		ExpiresAt:    expiresAt,
	}, nil
}

// ConfirmUpload verifies the upload completed and activates the attachment
func (s *AttachmentService) ConfirmUpload(
	ctx context.Context,
	attachmentID uuid.UUID,
) (*AttachmentResponse, error) {
	// Find the attachment
	attachment, err := s.attachmentRepo.FindByID(ctx, attachmentID)
	if err != nil {
		return nil, err
	}

	// Verify the file exists in storage
	exists, err := s.storageService.ObjectExists(ctx, attachment.StorageKey)
	if err != nil {
		return nil, shared.NewDomainError("STORAGE_CHECK_FAILED", "Failed to verify upload")
	}
	if !exists {
		return nil, shared.NewDomainError("UPLOAD_NOT_FOUND",
			"File not found in storage. Please upload the file first.")
	}

	// Confirm the attachment (changes status from pending to active)
	if err := attachment.Confirm(); err != nil {
		return nil, err
	}

	// Append at the end of the gallery
	maxOrder, err := s.attachmentRepo.MaxSortOrder(ctx, attachment.ProductID)
	if err != nil {
		return nil, err
	}
	if err := attachment.SetSortOrder(maxOrder + 1); err != nil {
		return nil, err
	}

	// Save the updated attachment
	if err := s.attachmentRepo.Save(ctx, attachment); err != nil {
		return nil, err
	}

	// The storefront reads the image straight off the product row
	if attachment.IsMainImage() {
		if err := s.syncProductImage(ctx, attachment.ProductID, s.storageService.PublicURL(attachment.StorageKey)); err != nil {
			s.logger.Warn("failed to sync product image after upload",
				zap.String("product_id", attachment.ProductID.String()),
				zap.Error(err))
		}
	}

	response := ToAttachmentResponse(attachment)

	// Enrich with download URL
	url, _, err := s.storageService.GenerateDownloadURL(ctx, attachment.StorageKey, s.config.DownloadURLExpiry)
	if err == nil {
		response.URL = url
	}

	return &response, nil
}

// GetByID retrieves an attachment by ID
func (s *AttachmentService) GetByID(
	ctx context.Context,
	attachmentID uuid.UUID,
) (*AttachmentResponse, error) {
	attachment, err := s.attachmentRepo.FindByID(ctx, attachmentID)
	if err != nil {
		return nil, err
	}

	response := ToAttachmentResponse(attachment)
	s.enrichWithURLs(ctx, &response, attachment)

	return &response, nil
}

// GetByProduct retrieves attachments for a product, newest gallery order first
func (s *AttachmentService) GetByProduct(
	ctx context.Context,
	productID uuid.UUID,
	filter AttachmentListFilter,
) (*AttachmentListResult, error) {
	// Validate product exists
	_, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "sort_order",
		OrderDir: "asc",
		Filters:  make(map[string]interface{}),
	}

	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	} else {
		// By default, only show active attachments
		domainFilter.Filters["status"] = string(catalog.AttachmentStatusActive)
	}
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}

	attachments, err := s.attachmentRepo.FindByProduct(ctx, productID, domainFilter)
	if err != nil {
		return nil, err
	}

	count, err := s.attachmentRepo.CountActiveByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	items := make([]AttachmentResponse, len(attachments))
	for i := range attachments {
		items[i] = ToAttachmentResponse(&attachments[i])
		s.enrichWithURLs(ctx, &items[i], &attachments[i])
	}

	return &AttachmentListResult{Items: items, Total: count}, nil
}

// GetActiveByProduct retrieves all active attachments for a product
func (s *AttachmentService) GetActiveByProduct(
	ctx context.Context,
	productID uuid.UUID,
) ([]AttachmentResponse, error) {
	attachments, err := s.attachmentRepo.FindActiveByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	items := make([]AttachmentResponse, len(attachments))
	for i := range attachments {
		items[i] = ToAttachmentResponse(&attachments[i])
		s.enrichWithURLs(ctx, &items[i], &attachments[i])
	}

	return items, nil
}

// GetMainImage retrieves the main image for a product
func (s *AttachmentService) GetMainImage(
	ctx context.Context,
	productID uuid.UUID,
) (*AttachmentResponse, error) {
	attachment, err := s.attachmentRepo.FindMainImage(ctx, productID)
	if err != nil {
		return nil, err
	}

	response := ToAttachmentResponse(attachment)
	s.enrichWithURLs(ctx, &response, attachment)

	return &response, nil
}

// Delete marks an attachment as deleted (soft delete)
func (s *AttachmentService) Delete(
	ctx context.Context,
	attachmentID uuid.UUID,
) error {
	attachment, err := s.attachmentRepo.FindByID(ctx, attachmentID)
	if err != nil {
		return err
	}

	wasMainImage := attachment.IsMainImage() && attachment.IsActive()

	// Perform soft delete (changes status to deleted)
	if err := attachment.Delete(); err != nil {
		return err
	}

	if err := s.attachmentRepo.Save(ctx, attachment); err != nil {
		return err
	}

	if wasMainImage {
		if err := s.syncProductImage(ctx, attachment.ProductID, ""); err != nil {
			s.logger.Warn("failed to clear product image after delete",
				zap.String("product_id", attachment.ProductID.String()),
				zap.Error(err))
		}
	}

	return nil
}

// PermanentDelete permanently deletes an attachment and its storage object
func (s *AttachmentService) PermanentDelete(
	ctx context.Context,
	attachmentID uuid.UUID,
) error {
	attachment, err := s.attachmentRepo.FindByID(ctx, attachmentID)
	if err != nil {
		return err
	}

	// Delete from storage (log error but continue - storage object might already be deleted)
	if err := s.storageService.DeleteObject(ctx, attachment.StorageKey); err != nil {
		s.logger.Warn("failed to delete attachment from storage",
			zap.String("attachment_id", attachment.ID.String()),
			zap.String("storage_key", attachment.StorageKey),
			zap.Error(err))
	}

	// Delete thumbnail if exists
	if attachment.ThumbnailKey != "" {
		if err := s.storageService.DeleteObject(ctx, attachment.ThumbnailKey); err != nil {
			s.logger.Warn("failed to delete thumbnail from storage",
				zap.String("attachment_id", attachment.ID.String()),
				zap.String("thumbnail_key", attachment.ThumbnailKey),
				zap.Error(err))
		}
	}

	// Delete from database
	return s.attachmentRepo.Delete(ctx, attachmentID)
}

// SetAsMainImage sets an attachment as the main product image
func (s *AttachmentService) SetAsMainImage(
	ctx context.Context,
	attachmentID uuid.UUID,
) (*AttachmentResponse, error) {
	// Find the attachment to promote
	attachment, err := s.attachmentRepo.FindByID(ctx, attachmentID)
	if err != nil {
		return nil, err
	}

	// Check if it's an image
	if !attachment.Type.IsImage() {
		return nil, shared.NewDomainError("NOT_AN_IMAGE",
			"Only image attachments can be set as main image")
	}

	// Find current main image (if any)
	currentMain, err := s.attachmentRepo.FindMainImage(ctx, attachment.ProductID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	// Prepare batch of attachments to save (for atomic update)
	attachmentsToSave := []*catalog.ProductAttachment{attachment}

	// Demote current main image to gallery image (if exists and different)
	if currentMain != nil && currentMain.ID != attachmentID {
		if err := currentMain.SetAsGalleryImage(); err != nil {
			return nil, err
		}
		attachmentsToSave = append(attachmentsToSave, currentMain)
	}

	// Promote the new attachment to main image
	if err := attachment.SetAsMainImage(); err != nil {
		return nil, err
	}

	// Save all attachments atomically using batch save
	if err := s.attachmentRepo.SaveBatch(ctx, attachmentsToSave); err != nil {
		return nil, err
	}

	if err := s.syncProductImage(ctx, attachment.ProductID, s.storageService.PublicURL(attachment.StorageKey)); err != nil {
		s.logger.Warn("failed to sync product image after promotion",
			zap.String("product_id", attachment.ProductID.String()),
			zap.Error(err))
	}

	response := ToAttachmentResponse(attachment)
	s.enrichWithURLs(ctx, &response, attachment)

	return &response, nil
}

// ReorderAttachments updates the sort order of attachments
func (s *AttachmentService) ReorderAttachments(
	ctx context.Context,
	productID uuid.UUID,
	attachmentIDs []uuid.UUID,
) ([]AttachmentResponse, error) {
	// Validate product exists
	_, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	// Get existing attachments
	attachments, err := s.attachmentRepo.FindByIDs(ctx, attachmentIDs)
	if err != nil {
		return nil, err
	}

	// Verify all attachments exist and belong to the product
	attachmentMap := make(map[uuid.UUID]*catalog.ProductAttachment)
	for i := range attachments {
		a := &attachments[i]
		if a.ProductID != productID {
			return nil, shared.NewDomainError("INVALID_ATTACHMENT",
				fmt.Sprintf("Attachment %s does not belong to this product", a.ID))
		}
		if a.Status == catalog.AttachmentStatusDeleted {
			return nil, shared.NewDomainError("ATTACHMENT_DELETED",
				fmt.Sprintf("Attachment %s is deleted", a.ID))
		}
		attachmentMap[a.ID] = a
	}

	// Check for missing attachments
	if len(attachmentMap) != len(attachmentIDs) {
		return nil, shared.NewDomainError("ATTACHMENTS_NOT_FOUND",
			"Some attachments were not found")
	}

	// Update sort orders
	updatedAttachments := make([]*catalog.ProductAttachment, len(attachmentIDs))
	for i, id := range attachmentIDs {
		a := attachmentMap[id]
		if err := a.SetSortOrder(i); err != nil {
			return nil, err
		}
		updatedAttachments[i] = a
	}

	// Save all attachments
	if err := s.attachmentRepo.SaveBatch(ctx, updatedAttachments); err != nil {
		return nil, err
	}

	responses := make([]AttachmentResponse, len(updatedAttachments))
	for i, a := range updatedAttachments {
		responses[i] = ToAttachmentResponse(a)
		s.enrichWithURLs(ctx, &responses[i], a)
	}

	return responses, nil
}

// CleanupPendingUploads removes pending attachments whose upload window has
// long passed. Their storage objects, if any made it up, are removed too.
// Returns the number of attachments removed.
func (s *AttachmentService) CleanupPendingUploads(
	ctx context.Context,
	olderThan time.Duration,
) (int, error) {
	stale, err := s.attachmentRepo.FindPendingOlderThan(ctx, olderThan)
	if err != nil {
		return 0, err
	}

	removed := 0
	for i := range stale {
		attachment := &stale[i]

		if err := s.storageService.DeleteObject(ctx, attachment.StorageKey); err != nil {
			s.logger.Warn("failed to delete abandoned upload from storage",
				zap.String("attachment_id", attachment.ID.String()),
				zap.String("storage_key", attachment.StorageKey),
				zap.Error(err))
		}

		if err := s.attachmentRepo.Delete(ctx, attachment.ID); err != nil {
			s.logger.Warn("failed to delete abandoned upload record",
				zap.String("attachment_id", attachment.ID.String()),
				zap.Error(err))
			continue
		}
		removed++
	}

	if removed > 0 {
		s.logger.Info("cleaned up abandoned uploads", zap.Int("removed", removed))
	}

	return removed, nil
}

// ============================================================================
// Helper Methods
// ============================================================================

// syncProductImage keeps the denormalized product image URL in step with the
// main image attachment and drops stale cache entries.
func (s *AttachmentService) syncProductImage(ctx context.Context, productID uuid.UUID, imageURL string) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}

	if err := product.SetImageURL(imageURL); err != nil {
		return err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.DeleteProduct(ctx, productID); err != nil {
			s.logger.Warn("failed to invalidate product cache", zap.Error(err))
		}
		if err := s.cache.InvalidateListings(ctx); err != nil {
			s.logger.Warn("failed to invalidate listing cache", zap.Error(err))
		}
	}

	return nil
}

// generateStorageKey generates a unique storage key for a file
func (s *AttachmentService) generateStorageKey(productID uuid.UUID, fileName string) string {
	ext := filepath.Ext(fileName)
	uniqueID := uuid.New().String()
	// Format: products/{productID}/attachments/{uniqueID}{ext}
	return fmt.Sprintf("products/%s/attachments/%s%s",
		productID.String(),
		uniqueID,
		ext,
	)
}

// enrichWithURLs adds download URLs to an attachment response
func (s *AttachmentService) enrichWithURLs(
	ctx context.Context,
	response *AttachmentResponse,
	attachment *catalog.ProductAttachment,
) {
	if attachment.Status != catalog.AttachmentStatusActive {
		return
	}

	url, _, err := s.storageService.GenerateDownloadURL(
		ctx,
		attachment.StorageKey,
		s.config.DownloadURLExpiry,
	)
	if err == nil {
		response.URL = url
	}

	if attachment.ThumbnailKey != "" {
		thumbURL, _, err := s.storageService.GenerateDownloadURL(
			ctx,
			attachment.ThumbnailKey,
			s.config.DownloadURLExpiry,
		)
		if err == nil {
			response.ThumbnailURL = thumbURL
		}
	}
}

// isImageContentType checks if a content type is an image
func isImageContentType(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(contentType), "image/")
}

// isAllowedContentType checks if a content type is in the whitelist
func isAllowedContentType(contentType string) bool {
	return AllowedContentTypes[strings.ToLower(contentType)]
}
