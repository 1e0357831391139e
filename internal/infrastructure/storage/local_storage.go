package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	catalogapp "github.com/nepalmeatshop/backend/internal/application/catalog"
	"github.com/nepalmeatshop/backend/internal/infrastructure/config"
)

// Ensure LocalObjectStorage implements ObjectStorageService
var _ catalogapp.ObjectStorageService = (*LocalObjectStorage)(nil)

// LocalObjectStorage implements ObjectStorageService on the local
// filesystem for development and tests. Files live under a base
// directory and are served back through the media routes, so upload
// and download URLs both point at the API itself rather than a
// presigning storage service.
type LocalObjectStorage struct {
	baseDir string
	baseURL string
	logger  *zap.Logger
}

// NewLocalObjectStorage creates a LocalObjectStorage rooted at the
// configured local directory.
func NewLocalObjectStorage(cfg *config.StorageConfig, logger *zap.Logger) (*LocalObjectStorage, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	baseDir := cfg.LocalDir
	if baseDir == "" {
		baseDir = "./data/uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	baseURL := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = "/media"
	}

	return &LocalObjectStorage{
		baseDir: baseDir,
		baseURL: baseURL,
		logger:  logger,
	}, nil
}

// GenerateUploadURL returns a URL the client can PUT the file to. The
// local provider has no presigning, so the URL targets the media
// upload route with an advisory expiry.
func (s *LocalObjectStorage) GenerateUploadURL(
	ctx context.Context,
	storageKey, contentType string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if err := validateKey(storageKey); err != nil {
		return "", time.Time{}, err
	}

	if expiresIn <= 0 {
		expiresIn = 15 * time.Minute
	}

	expiresAt := time.Now().Add(expiresIn)
	uploadURL := s.baseURL + "/" + storageKey + "?expires=" + expiresAt.UTC().Format(time.RFC3339)

	return uploadURL, expiresAt, nil
}

// GenerateDownloadURL returns the public URL of a stored file. Local
// files are world-readable through the media routes, so the expiry is
// informational only.
func (s *LocalObjectStorage) GenerateDownloadURL(
	ctx context.Context,
	storageKey string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if err := validateKey(storageKey); err != nil {
		return "", time.Time{}, err
	}

	if expiresIn <= 0 {
		expiresIn = 15 * time.Minute
	}

	return s.PublicURL(storageKey), time.Now().Add(expiresIn), nil
}

// DeleteObject removes a stored file. Deleting a missing file is not
// an error.
func (s *LocalObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	path, err := s.objectPath(storageKey)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete object: %w", err)
	}

	return nil
}

// ObjectExists checks whether a file is present on disk.
func (s *LocalObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	path, err := s.objectPath(storageKey)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object existence: %w", err)
	}

	return !info.IsDir(), nil
}

// Upload writes data to the local store. The media upload route calls
// this with the request body.
func (s *LocalObjectStorage) Upload(ctx context.Context, storageKey string, data []byte, contentType string) error {
	path, err := s.objectPath(storageKey)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write object: %w", err)
	}

	return nil
}

// PublicURL returns the stable public URL for a stored object.
func (s *LocalObjectStorage) PublicURL(storageKey string) string {
	return s.baseURL + "/" + strings.TrimPrefix(storageKey, "/")
}

// BaseDir returns the directory local files are stored under. The
// router serves this directory on the media routes.
func (s *LocalObjectStorage) BaseDir() string {
	return s.baseDir
}

// objectPath maps a storage key to a filesystem path, rejecting keys
// that would escape the base directory.
func (s *LocalObjectStorage) objectPath(storageKey string) (string, error) {
	if err := validateKey(storageKey); err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(storageKey)), nil
}

func validateKey(storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	if strings.HasPrefix(storageKey, "/") {
		return errors.New("storage key must be relative")
	}
	for _, segment := range strings.Split(storageKey, "/") {
		if segment == ".." {
			return errors.New("storage key must not contain path traversal")
		}
	}
	return nil
}
