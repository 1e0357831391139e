package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nepalmeatshop/backend/internal/domain/catalog"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

// CacheInvalidationHandler drops stale cache entries when product state
// changes outside the catalog services. Checkout and stock adjustments
// mutate products through their own repositories, so the cache learns
// about those writes through events.
type CacheInvalidationHandler struct {
	cache  catalog.Cache
	logger *zap.Logger
}

// NewCacheInvalidationHandler creates a new cache invalidation handler
func NewCacheInvalidationHandler(cache catalog.Cache, logger *zap.Logger) *CacheInvalidationHandler {
	return &CacheInvalidationHandler{
		cache:  cache,
		logger: logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *CacheInvalidationHandler) EventTypes() []string {
	return []string{
		catalog.EventTypeProductStockChanged,
		catalog.EventTypeProductPriceChanged,
		catalog.EventTypeProductStatusChanged,
		catalog.EventTypeProductUpdated,
		catalog.EventTypeProductDeleted,
	}
}

// Handle invalidates the product entry and all listings for the event's product
func (h *CacheInvalidationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.cache == nil {
		return nil
	}

	if event.AggregateType() != catalog.AggregateTypeProduct {
		return fmt.Errorf("unexpected aggregate type: %s", event.AggregateType())
	}

	productID := event.AggregateID()

	if err := h.cache.DeleteProduct(ctx, productID); err != nil {
		h.logger.Warn("Failed to invalidate product cache entry",
			zap.String("product_id", productID.String()),
			zap.String("event_type", event.EventType()),
			zap.Error(err))
	}

	if err := h.cache.InvalidateListings(ctx); err != nil {
		h.logger.Warn("Failed to invalidate listing cache",
			zap.String("event_type", event.EventType()),
			zap.Error(err))
	}

	h.logger.Debug("Catalog cache invalidated",
		zap.String("product_id", productID.String()),
		zap.String("event_type", event.EventType()))

	return nil
}

// Ensure CacheInvalidationHandler implements shared.EventHandler
var _ shared.EventHandler = (*CacheInvalidationHandler)(nil)
