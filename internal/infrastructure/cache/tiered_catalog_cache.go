package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nepalmeatshop/backend/internal/domain/catalog"
)

// TieredCatalogCache implements a two-tier caching strategy
// L1: Local in-memory cache (fast, but local to instance)
// L2: Redis cache (slower, but shared across instances)
// This follows a read-through pattern with Pub/Sub invalidation
type TieredCatalogCache struct {
	l1Cache     *InMemoryCatalogCache
	l2Cache     *RedisCatalogCache
	invalidator *RedisCatalogCacheInvalidator
	config      catalog.CacheConfig
	logger      *zap.Logger

	// Stats for monitoring
	l1Hits   int64
	l1Misses int64
	l2Hits   int64
	l2Misses int64
}

// TieredCatalogCacheOption is a functional option for configuring the cache
type TieredCatalogCacheOption func(*TieredCatalogCache)

// WithTieredConfig sets the cache configuration
func WithTieredConfig(config catalog.CacheConfig) TieredCatalogCacheOption {
	return func(c *TieredCatalogCache) {
		c.config = config
	}
}

// WithTieredLogger sets the logger for the cache
func WithTieredLogger(logger *zap.Logger) TieredCatalogCacheOption {
	return func(c *TieredCatalogCache) {
		c.logger = logger
	}
}

// NewTieredCatalogCache creates a new tiered catalog cache
func NewTieredCatalogCache(
	l1Cache *InMemoryCatalogCache,
	l2Cache *RedisCatalogCache,
	invalidator *RedisCatalogCacheInvalidator,
	opts ...TieredCatalogCacheOption,
) *TieredCatalogCache {
	cache := &TieredCatalogCache{
		l1Cache:     l1Cache,
		l2Cache:     l2Cache,
		invalidator: invalidator,
		config:      catalog.DefaultCacheConfig(),
		logger:      zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

// StartInvalidationSubscription starts listening for cache invalidation messages
// This should be called after creating the cache, typically in a goroutine
func (c *TieredCatalogCache) StartInvalidationSubscription(ctx context.Context) error {
	if c.invalidator == nil {
		return nil
	}

	return c.invalidator.Subscribe(ctx, func(msg catalog.CacheUpdateMessage) {
		c.handleInvalidationMessage(msg)
	})
}

// handleInvalidationMessage processes cache invalidation messages
func (c *TieredCatalogCache) handleInvalidationMessage(msg catalog.CacheUpdateMessage) {
	ctx := context.Background()

	switch msg.Action {
	case catalog.CacheUpdateActionProductUpdated, catalog.CacheUpdateActionProductDeleted:
		// A changed product invalidates its own entry and every listing
		// that might contain it
		productID, err := uuid.Parse(msg.ProductID)
		if err != nil {
			c.logger.Warn("Invalid product ID in invalidation message",
				zap.String("product_id", msg.ProductID),
				zap.Error(err))
		} else if err := c.l1Cache.DeleteProduct(ctx, productID); err != nil {
			c.logger.Error("Failed to invalidate L1 cache for product",
				zap.String("product_id", msg.ProductID),
				zap.Error(err))
		}
		if err := c.l1Cache.InvalidateListings(ctx); err != nil {
			c.logger.Error("Failed to invalidate L1 listing cache", zap.Error(err))
		}
		c.logger.Debug("Invalidated L1 cache for product",
			zap.String("action", string(msg.Action)),
			zap.String("product_id", msg.ProductID))

	case catalog.CacheUpdateActionListingsChanged:
		if err := c.l1Cache.InvalidateListings(ctx); err != nil {
			c.logger.Error("Failed to invalidate L1 listing cache", zap.Error(err))
		}
		c.logger.Debug("Invalidated L1 listing cache")

	case catalog.CacheUpdateActionInvalidateAll:
		if err := c.l1Cache.InvalidateAll(ctx); err != nil {
			c.logger.Error("Failed to invalidate all L1 cache", zap.Error(err))
		}
		c.logger.Info("Invalidated all L1 cache")
	}
}

// GetProduct retrieves a product from cache (L1 -> L2)
func (c *TieredCatalogCache) GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	// Try L1 first
	product, err := c.l1Cache.GetProduct(ctx, id)
	if err != nil {
		c.logger.Warn("L1 cache error", zap.String("product_id", id.String()), zap.Error(err))
	}
	if product != nil {
		atomic.AddInt64(&c.l1Hits, 1)
		return product, nil
	}
	atomic.AddInt64(&c.l1Misses, 1)

	// Try L2
	product, err = c.l2Cache.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if product != nil {
		atomic.AddInt64(&c.l2Hits, 1)
		// Populate L1 cache
		if err := c.l1Cache.SetProduct(ctx, id, product, c.config.L1TTL); err != nil {
			c.logger.Warn("Failed to populate L1 cache", zap.String("product_id", id.String()), zap.Error(err))
		}
		return product, nil
	}
	atomic.AddInt64(&c.l2Misses, 1)

	return nil, nil
}

// SetProduct stores a product in both cache tiers
func (c *TieredCatalogCache) SetProduct(ctx context.Context, id uuid.UUID, product *catalog.Product, ttl time.Duration) error {
	// Set in L2
	if err := c.l2Cache.SetProduct(ctx, id, product, ttl); err != nil {
		return err
	}

	// Also set in L1 for immediate local access
	if err := c.l1Cache.SetProduct(ctx, id, product, c.config.L1TTL); err != nil {
		c.logger.Warn("Failed to set L1 cache", zap.String("product_id", id.String()), zap.Error(err))
	}

	// Publish invalidation for other instances
	if c.invalidator != nil {
		if err := c.invalidator.PublishProductUpdate(ctx, id); err != nil {
			c.logger.Warn("Failed to publish product update", zap.String("product_id", id.String()), zap.Error(err))
		}
	}

	return nil
}

// DeleteProduct removes a product from both cache tiers
func (c *TieredCatalogCache) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	// Delete from L2
	if err := c.l2Cache.DeleteProduct(ctx, id); err != nil {
		return err
	}

	// Delete from L1
	if err := c.l1Cache.DeleteProduct(ctx, id); err != nil {
		c.logger.Warn("Failed to delete from L1 cache", zap.String("product_id", id.String()), zap.Error(err))
	}

	// Publish invalidation for other instances
	if c.invalidator != nil {
		if err := c.invalidator.PublishProductDelete(ctx, id); err != nil {
			c.logger.Warn("Failed to publish product delete", zap.String("product_id", id.String()), zap.Error(err))
		}
	}

	return nil
}

// GetListing retrieves a cached listing payload (L1 -> L2)
func (c *TieredCatalogCache) GetListing(ctx context.Context, key string) ([]byte, error) {
	// Try L1 first
	payload, err := c.l1Cache.GetListing(ctx, key)
	if err != nil {
		c.logger.Warn("L1 cache error for listing", zap.String("key", key), zap.Error(err))
	}
	if payload != nil {
		atomic.AddInt64(&c.l1Hits, 1)
		return payload, nil
	}
	atomic.AddInt64(&c.l1Misses, 1)

	// Try L2
	payload, err = c.l2Cache.GetListing(ctx, key)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		atomic.AddInt64(&c.l2Hits, 1)
		// Populate L1 cache
		if err := c.l1Cache.SetListing(ctx, key, payload, c.config.L1TTL); err != nil {
			c.logger.Warn("Failed to populate L1 listing cache", zap.String("key", key), zap.Error(err))
		}
		return payload, nil
	}
	atomic.AddInt64(&c.l2Misses, 1)

	return nil, nil
}

// SetListing stores a rendered listing payload in both cache tiers.
// No invalidation is published; listings expire on their own TTL and
// are dropped eagerly when a product changes.
func (c *TieredCatalogCache) SetListing(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if err := c.l2Cache.SetListing(ctx, key, payload, ttl); err != nil {
		return err
	}

	if err := c.l1Cache.SetListing(ctx, key, payload, c.config.L1TTL); err != nil {
		c.logger.Warn("Failed to set L1 listing cache", zap.String("key", key), zap.Error(err))
	}

	return nil
}

// InvalidateListings removes all cached listing payloads from both tiers
func (c *TieredCatalogCache) InvalidateListings(ctx context.Context) error {
	if err := c.l2Cache.InvalidateListings(ctx); err != nil {
		return err
	}

	if err := c.l1Cache.InvalidateListings(ctx); err != nil {
		c.logger.Warn("Failed to invalidate L1 listing cache", zap.Error(err))
	}

	// Publish invalidation for other instances
	if c.invalidator != nil {
		if err := c.invalidator.PublishListingsChanged(ctx); err != nil {
			c.logger.Warn("Failed to publish listings change", zap.Error(err))
		}
	}

	return nil
}

// InvalidateAll removes all cached products and listings
func (c *TieredCatalogCache) InvalidateAll(ctx context.Context) error {
	// Invalidate L2
	if err := c.l2Cache.InvalidateAll(ctx); err != nil {
		return err
	}

	// Invalidate L1
	if err := c.l1Cache.InvalidateAll(ctx); err != nil {
		c.logger.Warn("Failed to invalidate L1 cache", zap.Error(err))
	}

	// Publish invalidation for other instances
	if c.invalidator != nil {
		if err := c.invalidator.PublishInvalidateAll(ctx); err != nil {
			c.logger.Warn("Failed to publish invalidate all", zap.Error(err))
		}
	}

	return nil
}

// Close releases any resources held by the cache
func (c *TieredCatalogCache) Close() error {
	var lastErr error

	if c.invalidator != nil {
		if err := c.invalidator.Close(); err != nil {
			lastErr = err
		}
	}

	if err := c.l2Cache.Close(); err != nil {
		lastErr = err
	}

	if err := c.l1Cache.Close(); err != nil {
		lastErr = err
	}

	return lastErr
}

// GetProductL1 directly accesses the L1 (local) cache
func (c *TieredCatalogCache) GetProductL1(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return c.l1Cache.GetProduct(ctx, id)
}

// InvalidateProductL1 removes a product from the L1 (local) cache only
func (c *TieredCatalogCache) InvalidateProductL1(ctx context.Context, id uuid.UUID) error {
	return c.l1Cache.DeleteProduct(ctx, id)
}

// GetCacheStats returns statistics about cache hits, misses, and other metrics
func (c *TieredCatalogCache) GetCacheStats(ctx context.Context) catalog.CacheStats {
	l1Hits := atomic.LoadInt64(&c.l1Hits)
	l1Misses := atomic.LoadInt64(&c.l1Misses)
	l2Hits := atomic.LoadInt64(&c.l2Hits)
	l2Misses := atomic.LoadInt64(&c.l2Misses)

	totalHits := l1Hits + l2Hits
	totalMisses := l2Misses // Only count final misses

	var hitRatio float64
	totalRequests := totalHits + totalMisses
	if totalRequests > 0 {
		hitRatio = float64(totalHits) / float64(totalRequests)
	}

	productCount, listingCount := c.l1Cache.Count()

	return catalog.CacheStats{
		L1Hits:       l1Hits,
		L1Misses:     l1Misses,
		L2Hits:       l2Hits,
		L2Misses:     l2Misses,
		TotalHits:    totalHits,
		TotalMisses:  totalMisses,
		HitRatio:     hitRatio,
		CacheEntries: int64(productCount + listingCount),
	}
}

// ResetStats resets the cache statistics
func (c *TieredCatalogCache) ResetStats() {
	atomic.StoreInt64(&c.l1Hits, 0)
	atomic.StoreInt64(&c.l1Misses, 0)
	atomic.StoreInt64(&c.l2Hits, 0)
	atomic.StoreInt64(&c.l2Misses, 0)
	c.l1Cache.ResetStats()
}

// Ensure TieredCatalogCache implements both Cache and TieredCache
var _ catalog.Cache = (*TieredCatalogCache)(nil)
var _ catalog.TieredCache = (*TieredCatalogCache)(nil)
