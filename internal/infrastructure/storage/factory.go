package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nepalmeatshop/backend/internal/infrastructure/config"
)

// Storage provider names accepted in configuration
const (
	ProviderS3    = "s3"
	ProviderLocal = "local"
)

// ObjectStorage is the full surface both providers implement. The
// application services depend on narrower interfaces they define
// themselves; this one exists so the server can wire a single value
// everywhere.
type ObjectStorage interface {
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, storageKey string) error
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	PublicURL(storageKey string) string
}

var (
	_ ObjectStorage = (*S3ObjectStorage)(nil)
	_ ObjectStorage = (*LocalObjectStorage)(nil)
)

// NewObjectStorage builds the object storage selected by configuration.
func NewObjectStorage(cfg *config.StorageConfig, logger *zap.Logger) (ObjectStorage, error) {
	if cfg == nil {
		return nil, fmt.Errorf("storage configuration is required")
	}

	switch strings.ToLower(cfg.Provider) {
	case ProviderS3:
		return NewS3ObjectStorage(cfg, WithLogger(logger))
	case ProviderLocal, "":
		return NewLocalObjectStorage(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}
