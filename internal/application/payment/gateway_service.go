package payment

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nepalmeatshop/backend/internal/domain/payment"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

// maxQRImageSize caps uploaded QR images at 2 MB.
const maxQRImageSize = 2 << 20

// qrContentTypes maps accepted QR image content types to file extensions.
var qrContentTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// QRImageStorage is the slice of object storage the gateway service needs
type QRImageStorage interface {
	// Upload stores an object under the given key
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error

	// PublicURL returns the stable public URL for a stored object
	PublicURL(storageKey string) string
}

// GatewayService manages payment gateway configuration (back office)
type GatewayService struct {
	gatewayRepo    payment.GatewayRepository
	storage        QRImageStorage
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewGatewayService creates a new GatewayService
func NewGatewayService(gatewayRepo payment.GatewayRepository, storage QRImageStorage, logger *zap.Logger) *GatewayService {
	return &GatewayService{
		gatewayRepo: gatewayRepo,
		storage:     storage,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *GatewayService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// List returns every gateway, enabled or not, in sort order
func (s *GatewayService) List(ctx context.Context) ([]GatewayResponse, error) {
	gateways, err := s.gatewayRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]GatewayResponse, 0, len(gateways))
	for _, g := range gateways {
		out = append(out, *ToGatewayResponse(g))
	}
	return out, nil
}

// GetByID retrieves a gateway configuration
func (s *GatewayService) GetByID(ctx context.Context, id uuid.UUID) (*GatewayResponse, error) {
	g, err := s.gatewayRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToGatewayResponse(g), nil
}

// Update changes a gateway's display fields and merchant configuration
func (s *GatewayService) Update(ctx context.Context, id uuid.UUID, req UpdateGatewayRequest) (*GatewayResponse, error) {
	g, err := s.gatewayRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := g.Update(req.Name, req.NameNepali, req.Instructions); err != nil {
		return nil, err
	}
	if req.SortOrder != nil {
		g.SetSortOrder(*req.SortOrder)
	}
	if req.Config != "" {
		if err := g.SetConfig(req.Config); err != nil {
			return nil, err
		}
	}

	if err := s.gatewayRepo.Save(ctx, g); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, g)

	s.logger.Info("Payment gateway updated",
		zap.String("gateway_id", g.ID.String()),
		zap.String("method", g.Method.String()))

	return ToGatewayResponse(g), nil
}

// Enable makes the gateway's method selectable at checkout
func (s *GatewayService) Enable(ctx context.Context, id uuid.UUID) (*GatewayResponse, error) {
	return s.changeStatus(ctx, id, (*payment.Gateway).Enable)
}

// Disable hides the gateway's method from checkout
func (s *GatewayService) Disable(ctx context.Context, id uuid.UUID) (*GatewayResponse, error) {
	return s.changeStatus(ctx, id, (*payment.Gateway).Disable)
}

func (s *GatewayService) changeStatus(ctx context.Context, id uuid.UUID, transition func(*payment.Gateway) error) (*GatewayResponse, error) {
	g, err := s.gatewayRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := transition(g); err != nil {
		return nil, err
	}

	if err := s.gatewayRepo.Save(ctx, g); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, g)

	s.logger.Info("Payment gateway status changed",
		zap.String("gateway_id", g.ID.String()),
		zap.String("method", g.Method.String()),
		zap.Bool("enabled", g.Enabled))

	return ToGatewayResponse(g), nil
}

// UploadQR stores a scannable QR image for the gateway and records its
// public URL. Wallet and bank transfer methods show this image at
// checkout.
func (s *GatewayService) UploadQR(ctx context.Context, id uuid.UUID, contentType string, data []byte) (*GatewayResponse, error) {
	ext, ok := qrContentTypes[strings.ToLower(contentType)]
	if !ok {
		return nil, shared.NewDomainError("INVALID_IMAGE_TYPE", "QR image must be PNG, JPEG or WebP")
	}
	if len(data) == 0 {
		return nil, shared.NewDomainError("INVALID_IMAGE", "QR image is empty")
	}
	if len(data) > maxQRImageSize {
		return nil, shared.NewDomainError("IMAGE_TOO_LARGE", "QR image cannot exceed 2 MB")
	}

	g, err := s.gatewayRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	storageKey := path.Join("gateways", g.Method.String(), "qr"+ext)
	if err := s.storage.Upload(ctx, storageKey, data, contentType); err != nil {
		return nil, fmt.Errorf("upload QR image: %w", err)
	}

	if err := g.SetQRImageURL(s.storage.PublicURL(storageKey)); err != nil {
		return nil, err
	}
	if err := s.gatewayRepo.Save(ctx, g); err != nil {
		return nil, err
	}

	s.logger.Info("Payment gateway QR image uploaded",
		zap.String("gateway_id", g.ID.String()),
		zap.String("method", g.Method.String()),
		zap.String("storage_key", storageKey))

	return ToGatewayResponse(g), nil
}

// publishEvents publishes domain events, logging failures without
// failing the operation
func (s *GatewayService) publishEvents(ctx context.Context, g *payment.Gateway) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range g.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("Failed to publish payment gateway event",
				zap.String("event_type", event.EventType()),
				zap.Error(err))
		}
	}
	g.ClearDomainEvents()
}
