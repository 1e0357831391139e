package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nepalmeatshop/backend/internal/domain/catalog"
)

// Constants for in-memory cache configuration
const (
	defaultCleanupInterval = 30 * time.Second
)

// InMemoryCatalogCache implements catalog.Cache using in-memory storage
// This is designed to be used as L1 cache in front of Redis
type InMemoryCatalogCache struct {
	products sync.Map // map[uuid.UUID]*cacheEntry[*catalog.Product]
	listings sync.Map // map[string]*cacheEntry[[]byte]
	config   catalog.CacheConfig
	logger   *zap.Logger
	stopCh   chan struct{} // Channel to stop the cleanup goroutine
	stopped  int32         // Atomic flag to track if cache is stopped

	// Stats for monitoring
	hits   int64
	misses int64
}

// cacheEntry wraps a cached value with expiration time
type cacheEntry[T any] struct {
	value     T
	expiresAt time.Time
}

// isExpired checks if the cache entry has expired
func (e *cacheEntry[T]) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemoryCatalogCacheOption is a functional option for configuring the cache
type InMemoryCatalogCacheOption func(*InMemoryCatalogCache)

// WithInMemoryConfig sets the cache configuration
func WithInMemoryConfig(config catalog.CacheConfig) InMemoryCatalogCacheOption {
	return func(c *InMemoryCatalogCache) {
		c.config = config
	}
}

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemoryCatalogCacheOption {
	return func(c *InMemoryCatalogCache) {
		c.logger = logger
	}
}

// NewInMemoryCatalogCache creates a new in-memory catalog cache
func NewInMemoryCatalogCache(opts ...InMemoryCatalogCacheOption) *InMemoryCatalogCache {
	cache := &InMemoryCatalogCache{
		config: catalog.DefaultCacheConfig(),
		logger: zap.NewNop(),
		stopCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(cache)
	}

	// Start background cleanup goroutine
	go cache.cleanupExpired()

	return cache
}

// GetProduct retrieves a product from cache
func (c *InMemoryCatalogCache) GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	if value, ok := c.products.Load(id); ok {
		entry := value.(*cacheEntry[*catalog.Product])
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			c.logger.Debug("L1 cache hit for product", zap.String("product_id", id.String()))
			return entry.value, nil
		}
		// Expired, remove from cache
		c.products.Delete(id)
	}

	atomic.AddInt64(&c.misses, 1)
	c.logger.Debug("L1 cache miss for product", zap.String("product_id", id.String()))
	return nil, nil
}

// SetProduct stores a product in cache
func (c *InMemoryCatalogCache) SetProduct(ctx context.Context, id uuid.UUID, product *catalog.Product, ttl time.Duration) error {
	if product == nil {
		return nil
	}

	if ttl == 0 {
		ttl = c.config.L1TTL
	}

	entry := &cacheEntry[*catalog.Product]{
		value:     product,
		expiresAt: time.Now().Add(ttl),
	}

	c.products.Store(id, entry)
	c.logger.Debug("Cached product in L1",
		zap.String("product_id", id.String()),
		zap.Duration("ttl", ttl))
	return nil
}

// DeleteProduct removes a product from cache
func (c *InMemoryCatalogCache) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	c.products.Delete(id)
	c.logger.Debug("Deleted product from L1 cache", zap.String("product_id", id.String()))
	return nil
}

// GetListing retrieves a cached listing payload
func (c *InMemoryCatalogCache) GetListing(ctx context.Context, key string) ([]byte, error) {
	if value, ok := c.listings.Load(key); ok {
		entry := value.(*cacheEntry[[]byte])
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			c.logger.Debug("L1 cache hit for listing", zap.String("key", key))
			return entry.value, nil
		}
		// Expired, remove from cache
		c.listings.Delete(key)
	}

	atomic.AddInt64(&c.misses, 1)
	c.logger.Debug("L1 cache miss for listing", zap.String("key", key))
	return nil, nil
}

// SetListing stores a rendered listing payload in cache
func (c *InMemoryCatalogCache) SetListing(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if len(payload) == 0 {
		return nil
	}

	if ttl == 0 {
		ttl = c.config.L1TTL
	}

	entry := &cacheEntry[[]byte]{
		value:     payload,
		expiresAt: time.Now().Add(ttl),
	}

	c.listings.Store(key, entry)
	c.logger.Debug("Cached listing in L1",
		zap.String("key", key),
		zap.Duration("ttl", ttl))
	return nil
}

// InvalidateListings removes all cached listing payloads
func (c *InMemoryCatalogCache) InvalidateListings(ctx context.Context) error {
	c.listings.Range(func(key, _ any) bool {
		c.listings.Delete(key)
		return true
	})

	c.logger.Debug("Invalidated all L1 listing cache")
	return nil
}

// InvalidateAll removes all cached products and listings
func (c *InMemoryCatalogCache) InvalidateAll(ctx context.Context) error {
	c.products.Range(func(key, _ any) bool {
		c.products.Delete(key)
		return true
	})
	c.listings.Range(func(key, _ any) bool {
		c.listings.Delete(key)
		return true
	})

	c.logger.Info("Invalidated all L1 catalog cache")
	return nil
}

// Close releases any resources held by the cache
func (c *InMemoryCatalogCache) Close() error {
	// Only close once
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// GetStats returns cache statistics
func (c *InMemoryCatalogCache) GetStats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// ResetStats resets the cache statistics
func (c *InMemoryCatalogCache) ResetStats() {
	atomic.StoreInt64(&c.hits, 0)
	atomic.StoreInt64(&c.misses, 0)
}

// Count returns the number of entries in the cache
func (c *InMemoryCatalogCache) Count() (products, listings int) {
	c.products.Range(func(_, _ any) bool {
		products++
		return true
	})
	c.listings.Range(func(_, _ any) bool {
		listings++
		return true
	})
	return products, listings
}

// cleanupExpired periodically removes expired entries from the cache
func (c *InMemoryCatalogCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						c.logger.Error("Panic in cache cleanup",
							zap.Any("panic", r))
					}
				}()
				c.doCleanup()
			}()
		}
	}
}

// doCleanup removes expired entries from both caches
func (c *InMemoryCatalogCache) doCleanup() {
	var productsRemoved, listingsRemoved int

	c.products.Range(func(key, value any) bool {
		entry := value.(*cacheEntry[*catalog.Product])
		if entry.isExpired() {
			c.products.Delete(key)
			productsRemoved++
		}
		return true
	})

	c.listings.Range(func(key, value any) bool {
		entry := value.(*cacheEntry[[]byte])
		if entry.isExpired() {
			c.listings.Delete(key)
			listingsRemoved++
		}
		return true
	})

	if productsRemoved > 0 || listingsRemoved > 0 {
		c.logger.Debug("Cleaned up expired L1 cache entries",
			zap.Int("products_removed", productsRemoved),
			zap.Int("listings_removed", listingsRemoved))
	}
}

// Ensure InMemoryCatalogCache implements catalog.Cache
var _ catalog.Cache = (*InMemoryCatalogCache)(nil)
