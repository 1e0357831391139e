package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Cache defines the interface for storefront catalog caching.
// Product detail pages and listing pages are read far more often than
// the catalog changes, so both are served through a cache in front of
// the database.
//
// Two kinds of entries are cached:
//   - Products, keyed by ID, stored as JSON.
//   - Listings, keyed by an opaque query signature, stored as the
//     rendered response payload.
//
// Cache keys follow the pattern:
//   - Products: catalog:product:{id}
//   - Listings: catalog:listing:{key}
type Cache interface {
	// GetProduct retrieves a product from cache by its ID.
	// Returns nil, nil on a cache miss.
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)

	// SetProduct stores a product in cache with the specified TTL.
	// If ttl is 0, the implementation uses its default TTL.
	SetProduct(ctx context.Context, id uuid.UUID, product *Product, ttl time.Duration) error

	// DeleteProduct removes a product from cache by its ID.
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	// GetListing retrieves a cached listing payload.
	// Returns nil, nil on a cache miss.
	GetListing(ctx context.Context, key string) ([]byte, error)

	// SetListing stores a rendered listing payload with the specified TTL.
	// If ttl is 0, the implementation uses its default TTL.
	SetListing(ctx context.Context, key string, payload []byte, ttl time.Duration) error

	// InvalidateListings removes every cached listing payload. Called on
	// any catalog mutation since a single product touches many listings.
	InvalidateListings(ctx context.Context) error

	// InvalidateAll removes all cached products and listings.
	InvalidateAll(ctx context.Context) error

	// Close releases any resources held by the cache.
	Close() error
}

// CacheUpdateAction represents the type of cache update notification
type CacheUpdateAction string

const (
	// CacheUpdateActionProductUpdated indicates a product was created or updated
	CacheUpdateActionProductUpdated CacheUpdateAction = "product_updated"
	// CacheUpdateActionProductDeleted indicates a product was deleted
	CacheUpdateActionProductDeleted CacheUpdateAction = "product_deleted"
	// CacheUpdateActionListingsChanged indicates listing payloads are stale
	CacheUpdateActionListingsChanged CacheUpdateAction = "listings_changed"
	// CacheUpdateActionInvalidateAll indicates all cache should be cleared
	CacheUpdateActionInvalidateAll CacheUpdateAction = "invalidate_all"
)

// CacheUpdateMessage represents a cache invalidation message
// sent via Pub/Sub to notify other instances of catalog changes.
type CacheUpdateMessage struct {
	Action    CacheUpdateAction `json:"action"`
	ProductID string            `json:"product_id,omitempty"`
	Timestamp int64             `json:"timestamp"`
}

// CacheInvalidator provides cache invalidation functionality.
// It allows publishing cache update notifications to other instances
// and subscribing to receive notifications from other instances.
type CacheInvalidator interface {
	// Publish sends a cache update notification to all subscribers.
	Publish(ctx context.Context, msg CacheUpdateMessage) error

	// Subscribe starts listening for cache update notifications.
	// The callback function is invoked for each received message.
	// This method should be called in a goroutine as it blocks.
	Subscribe(ctx context.Context, callback func(msg CacheUpdateMessage)) error

	// Close releases any resources held by the invalidator.
	Close() error
}

// TieredCache combines multiple cache layers.
// It follows a read-through pattern:
//   - Reads: check L1 -> check L2 -> database
//   - Writes: write to both, invalidate peers via Pub/Sub
type TieredCache interface {
	Cache

	// GetProductL1 directly accesses the L1 (local) cache, bypassing L2.
	GetProductL1(ctx context.Context, id uuid.UUID) (*Product, error)

	// InvalidateProductL1 removes a product from the L1 (local) cache only.
	// This is typically called when receiving Pub/Sub notifications.
	InvalidateProductL1(ctx context.Context, id uuid.UUID) error

	// GetCacheStats returns statistics about cache hits and misses.
	GetCacheStats(ctx context.Context) CacheStats
}

// CacheStats holds cache performance statistics
type CacheStats struct {
	L1Hits       int64   `json:"l1_hits"`
	L1Misses     int64   `json:"l1_misses"`
	L2Hits       int64   `json:"l2_hits"`
	L2Misses     int64   `json:"l2_misses"`
	TotalHits    int64   `json:"total_hits"`
	TotalMisses  int64   `json:"total_misses"`
	HitRatio     float64 `json:"hit_ratio"`
	CacheEntries int64   `json:"cache_entries"`
}

// CacheConfig holds configuration for the catalog cache
type CacheConfig struct {
	// ProductTTL is the time-to-live for cached products (default: 5m)
	ProductTTL time.Duration
	// ListingTTL is the time-to-live for cached listings (default: 60s)
	ListingTTL time.Duration
	// L1TTL is the time-to-live for L1 (local) cache (default: 10s)
	L1TTL time.Duration
	// PubSubChannel is the Redis Pub/Sub channel name (default: "catalog:updates")
	PubSubChannel string
}

// DefaultCacheConfig returns the default cache configuration
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		ProductTTL:    5 * time.Minute,
		ListingTTL:    60 * time.Second,
		L1TTL:         10 * time.Second,
		PubSubChannel: "catalog:updates",
	}
}
