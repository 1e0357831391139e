package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

// ProductAttachmentReader defines the interface for reading individual attachments by ID
type ProductAttachmentReader interface {
	// FindByID finds an attachment by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*ProductAttachment, error)

	// FindByIDs finds multiple attachments by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]ProductAttachment, error)
}

// ProductAttachmentFinder defines the interface for searching and filtering attachments
type ProductAttachmentFinder interface {
	// FindByProduct finds all attachments for a product
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]ProductAttachment, error)

	// FindByProductAndStatus finds attachments by product and status
	FindByProductAndStatus(ctx context.Context, productID uuid.UUID, status AttachmentStatus, filter shared.Filter) ([]ProductAttachment, error)

	// FindActiveByProduct finds all active attachments for a product
	FindActiveByProduct(ctx context.Context, productID uuid.UUID) ([]ProductAttachment, error)

	// FindMainImage finds the main image for a product (if any)
	FindMainImage(ctx context.Context, productID uuid.UUID) (*ProductAttachment, error)

	// FindByType finds active attachments of a type for a product
	FindByType(ctx context.Context, productID uuid.UUID, attachmentType AttachmentType) ([]ProductAttachment, error)

	// FindPendingOlderThan finds pending attachments created before now minus the given age.
	// Used by the cleanup sweep to drop abandoned uploads.
	FindPendingOlderThan(ctx context.Context, age time.Duration) ([]ProductAttachment, error)

	// CountActiveByProduct counts active attachments for a product
	CountActiveByProduct(ctx context.Context, productID uuid.UUID) (int64, error)

	// ExistsByStorageKey checks if an attachment with the given storage key exists
	ExistsByStorageKey(ctx context.Context, storageKey string) (bool, error)

	// MaxSortOrder returns the highest sort order among a product's active
	// attachments, or -1 when the product has none
	MaxSortOrder(ctx context.Context, productID uuid.UUID) (int, error)
}

// ProductAttachmentWriter defines the interface for attachment persistence
type ProductAttachmentWriter interface {
	// Save creates or updates an attachment
	Save(ctx context.Context, attachment *ProductAttachment) error

	// SaveBatch creates or updates multiple attachments
	SaveBatch(ctx context.Context, attachments []*ProductAttachment) error

	// Delete permanently deletes an attachment
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByProduct permanently deletes all attachments for a product
	DeleteByProduct(ctx context.Context, productID uuid.UUID) error
}

// ProductAttachmentRepository combines all attachment repository capabilities.
// Prefer the narrower interfaces when a consumer only reads or only writes.
type ProductAttachmentRepository interface {
	ProductAttachmentReader
	ProductAttachmentFinder
	ProductAttachmentWriter
}
