package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nepalmeatshop/backend/internal/domain/catalog"
)

// Constants for Redis cache configuration
const (
	defaultScanBatchSize = 100

	productKeyPrefix = "catalog:product:"
	listingKeyPrefix = "catalog:listing:"
)

// RedisCatalogCache implements catalog.Cache using Redis
type RedisCatalogCache struct {
	client *redis.Client
	config catalog.CacheConfig
	logger *zap.Logger
}

// RedisCatalogCacheOption is a functional option for configuring the cache
type RedisCatalogCacheOption func(*RedisCatalogCache)

// WithCacheConfig sets the cache configuration
func WithCacheConfig(config catalog.CacheConfig) RedisCatalogCacheOption {
	return func(c *RedisCatalogCache) {
		c.config = config
	}
}

// WithCacheLogger sets the logger for the cache
func WithCacheLogger(logger *zap.Logger) RedisCatalogCacheOption {
	return func(c *RedisCatalogCache) {
		c.logger = logger
	}
}

// NewRedisCatalogCache creates a catalog cache on an existing Redis client.
// The caller retains ownership of the client.
func NewRedisCatalogCache(client *redis.Client, opts ...RedisCatalogCacheOption) *RedisCatalogCache {
	cache := &RedisCatalogCache{
		client: client,
		config: catalog.DefaultCacheConfig(),
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

// productCacheKey generates the cache key for a product
func (c *RedisCatalogCache) productCacheKey(id uuid.UUID) string {
	return productKeyPrefix + id.String()
}

// listingCacheKey generates the cache key for a listing payload
func (c *RedisCatalogCache) listingCacheKey(key string) string {
	return listingKeyPrefix + key
}

// GetProduct retrieves a product from cache
func (c *RedisCatalogCache) GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	cacheKey := c.productCacheKey(id)

	data, err := c.client.Get(ctx, cacheKey).Bytes()
	if err == redis.Nil {
		c.logger.Debug("Cache miss for product", zap.String("product_id", id.String()))
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Failed to get product from cache",
			zap.String("product_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get product from cache: %w", err)
	}

	var product catalog.Product
	if err := json.Unmarshal(data, &product); err != nil {
		c.logger.Error("Failed to unmarshal cached product",
			zap.String("product_id", id.String()),
			zap.Error(err))
		// Delete corrupted cache entry
		_ = c.client.Del(ctx, cacheKey)
		return nil, fmt.Errorf("failed to unmarshal product: %w", err)
	}

	c.logger.Debug("Cache hit for product", zap.String("product_id", id.String()))
	return &product, nil
}

// SetProduct stores a product in cache
func (c *RedisCatalogCache) SetProduct(ctx context.Context, id uuid.UUID, product *catalog.Product, ttl time.Duration) error {
	if product == nil {
		return nil
	}

	if ttl == 0 {
		ttl = c.config.ProductTTL
	}

	cacheKey := c.productCacheKey(id)

	data, err := json.Marshal(product)
	if err != nil {
		c.logger.Error("Failed to marshal product",
			zap.String("product_id", id.String()),
			zap.Error(err))
		return fmt.Errorf("failed to marshal product: %w", err)
	}

	if err := c.client.Set(ctx, cacheKey, data, ttl).Err(); err != nil {
		c.logger.Error("Failed to set product in cache",
			zap.String("product_id", id.String()),
			zap.Error(err))
		return fmt.Errorf("failed to set product in cache: %w", err)
	}

	c.logger.Debug("Cached product",
		zap.String("product_id", id.String()),
		zap.Duration("ttl", ttl))
	return nil
}

// DeleteProduct removes a product from cache
func (c *RedisCatalogCache) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	cacheKey := c.productCacheKey(id)

	if err := c.client.Del(ctx, cacheKey).Err(); err != nil {
		c.logger.Error("Failed to delete product from cache",
			zap.String("product_id", id.String()),
			zap.Error(err))
		return fmt.Errorf("failed to delete product from cache: %w", err)
	}

	c.logger.Debug("Deleted product from cache", zap.String("product_id", id.String()))
	return nil
}

// GetListing retrieves a cached listing payload
func (c *RedisCatalogCache) GetListing(ctx context.Context, key string) ([]byte, error) {
	cacheKey := c.listingCacheKey(key)

	data, err := c.client.Get(ctx, cacheKey).Bytes()
	if err == redis.Nil {
		c.logger.Debug("Cache miss for listing", zap.String("key", key))
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Failed to get listing from cache",
			zap.String("key", key),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get listing from cache: %w", err)
	}

	c.logger.Debug("Cache hit for listing", zap.String("key", key))
	return data, nil
}

// SetListing stores a rendered listing payload in cache
func (c *RedisCatalogCache) SetListing(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if len(payload) == 0 {
		return nil
	}

	if ttl == 0 {
		ttl = c.config.ListingTTL
	}

	cacheKey := c.listingCacheKey(key)

	if err := c.client.Set(ctx, cacheKey, payload, ttl).Err(); err != nil {
		c.logger.Error("Failed to set listing in cache",
			zap.String("key", key),
			zap.Error(err))
		return fmt.Errorf("failed to set listing in cache: %w", err)
	}

	c.logger.Debug("Cached listing",
		zap.String("key", key),
		zap.Duration("ttl", ttl))
	return nil
}

// InvalidateListings removes all cached listing payloads
func (c *RedisCatalogCache) InvalidateListings(ctx context.Context) error {
	deleted, err := c.deleteByPattern(ctx, listingKeyPrefix+"*")
	if err != nil {
		return err
	}

	c.logger.Debug("Invalidated listing cache",
		zap.Int64("deleted_count", deleted))
	return nil
}

// InvalidateAll removes all cached products and listings
func (c *RedisCatalogCache) InvalidateAll(ctx context.Context) error {
	deleted, err := c.deleteByPattern(ctx, "catalog:*")
	if err != nil {
		return err
	}

	c.logger.Info("Invalidated all catalog cache",
		zap.Int64("deleted_count", deleted))
	return nil
}

// deleteByPattern removes keys matching a pattern using SCAN to avoid
// blocking Redis with the KEYS command
func (c *RedisCatalogCache) deleteByPattern(ctx context.Context, pattern string) (int64, error) {
	var cursor uint64
	var deletedCount int64

	for {
		var keys []string
		var err error
		keys, cursor, err = c.client.Scan(ctx, cursor, pattern, defaultScanBatchSize).Result()
		if err != nil {
			c.logger.Error("Failed to scan catalog cache keys", zap.Error(err))
			return deletedCount, fmt.Errorf("failed to scan cache keys: %w", err)
		}

		if len(keys) > 0 {
			deleted, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				c.logger.Error("Failed to delete catalog cache keys", zap.Error(err))
				return deletedCount, fmt.Errorf("failed to delete cache keys: %w", err)
			}
			deletedCount += deleted
		}

		if cursor == 0 {
			break
		}
	}

	return deletedCount, nil
}

// Close releases any resources held by the cache. The shared Redis
// client is owned by the caller and is not closed here.
func (c *RedisCatalogCache) Close() error {
	return nil
}

// Ensure RedisCatalogCache implements catalog.Cache
var _ catalog.Cache = (*RedisCatalogCache)(nil)
