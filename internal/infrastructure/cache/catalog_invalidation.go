package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nepalmeatshop/backend/internal/domain/catalog"
)

// Constants for invalidator configuration
const (
	defaultCloseTimeout = 5 * time.Second
)

// RedisCatalogCacheInvalidator implements catalog.CacheInvalidator using
// Redis Pub/Sub. When one instance mutates the catalog, every instance
// drops its stale L1 entries.
type RedisCatalogCacheInvalidator struct {
	client    *redis.Client
	channel   string
	logger    *zap.Logger
	cancelFn  context.CancelFunc
	doneCh    chan struct{}
	doneOnce  sync.Once
	mu        sync.Mutex
	isRunning bool
}

// RedisCatalogCacheInvalidatorOption is a functional option for configuring the invalidator
type RedisCatalogCacheInvalidatorOption func(*RedisCatalogCacheInvalidator)

// WithInvalidatorChannel sets the Pub/Sub channel name
func WithInvalidatorChannel(channel string) RedisCatalogCacheInvalidatorOption {
	return func(i *RedisCatalogCacheInvalidator) {
		i.channel = channel
	}
}

// WithInvalidatorLogger sets the logger for the invalidator
func WithInvalidatorLogger(logger *zap.Logger) RedisCatalogCacheInvalidatorOption {
	return func(i *RedisCatalogCacheInvalidator) {
		i.logger = logger
	}
}

// NewRedisCatalogCacheInvalidator creates an invalidator on an existing
// Redis client. The caller retains ownership of the client.
func NewRedisCatalogCacheInvalidator(client *redis.Client, opts ...RedisCatalogCacheInvalidatorOption) *RedisCatalogCacheInvalidator {
	invalidator := &RedisCatalogCacheInvalidator{
		client:  client,
		channel: catalog.DefaultCacheConfig().PubSubChannel,
		logger:  zap.NewNop(),
		doneCh:  make(chan struct{}),
	}

	for _, opt := range opts {
		opt(invalidator)
	}

	return invalidator
}

// Publish sends a cache update notification to all subscribers
func (i *RedisCatalogCacheInvalidator) Publish(ctx context.Context, msg catalog.CacheUpdateMessage) error {
	// Set timestamp if not set
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().UnixNano()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		i.logger.Error("Failed to marshal cache update message",
			zap.String("action", string(msg.Action)),
			zap.Error(err))
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := i.client.Publish(ctx, i.channel, data).Err(); err != nil {
		i.logger.Error("Failed to publish cache update message",
			zap.String("channel", i.channel),
			zap.Error(err))
		return fmt.Errorf("failed to publish message: %w", err)
	}

	i.logger.Debug("Published cache update message",
		zap.String("action", string(msg.Action)),
		zap.String("product_id", msg.ProductID),
		zap.String("channel", i.channel))

	return nil
}

// Subscribe starts listening for cache update notifications
// The callback function is invoked for each received message
// This method should be called in a goroutine as it blocks
func (i *RedisCatalogCacheInvalidator) Subscribe(ctx context.Context, callback func(msg catalog.CacheUpdateMessage)) error {
	i.mu.Lock()
	if i.isRunning {
		i.mu.Unlock()
		return fmt.Errorf("subscription already running")
	}
	i.isRunning = true
	i.mu.Unlock()

	// Create a cancellable context
	subCtx, cancel := context.WithCancel(ctx)
	i.mu.Lock()
	i.cancelFn = cancel
	i.mu.Unlock()

	pubsub := i.client.Subscribe(subCtx, i.channel)
	defer pubsub.Close()

	// Wait for subscription confirmation
	_, err := pubsub.Receive(subCtx)
	if err != nil {
		i.mu.Lock()
		i.isRunning = false
		i.mu.Unlock()
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	i.logger.Info("Subscribed to catalog invalidation channel",
		zap.String("channel", i.channel))

	// Get the message channel
	ch := pubsub.Channel()

	for {
		select {
		case <-subCtx.Done():
			i.logger.Info("Catalog invalidation subscription stopped")
			i.mu.Lock()
			i.isRunning = false
			i.mu.Unlock()
			i.markDone()
			return subCtx.Err()
		case msg, ok := <-ch:
			if !ok {
				i.logger.Warn("Catalog invalidation channel closed")
				i.mu.Lock()
				i.isRunning = false
				i.mu.Unlock()
				i.markDone()
				return nil
			}

			var updateMsg catalog.CacheUpdateMessage
			if err := json.Unmarshal([]byte(msg.Payload), &updateMsg); err != nil {
				i.logger.Error("Failed to unmarshal cache update message",
					zap.String("payload", msg.Payload),
					zap.Error(err))
				continue
			}

			i.logger.Debug("Received cache update message",
				zap.String("action", string(updateMsg.Action)),
				zap.String("product_id", updateMsg.ProductID))

			// Call the callback in a separate goroutine to prevent blocking
			go func(m catalog.CacheUpdateMessage) {
				defer func() {
					if r := recover(); r != nil {
						i.logger.Error("Panic in cache update callback",
							zap.Any("panic", r))
					}
				}()
				callback(m)
			}(updateMsg)
		}
	}
}

// markDone safely marks the invalidator as done
func (i *RedisCatalogCacheInvalidator) markDone() {
	i.doneOnce.Do(func() {
		close(i.doneCh)
	})
}

// Close releases any resources held by the invalidator. The shared
// Redis client is owned by the caller and is not closed here.
func (i *RedisCatalogCacheInvalidator) Close() error {
	i.mu.Lock()
	cancelFn := i.cancelFn
	i.mu.Unlock()

	if cancelFn != nil {
		cancelFn()
		// Wait for subscription to stop with timeout
		select {
		case <-i.doneCh:
		case <-time.After(defaultCloseTimeout):
			i.logger.Warn("Timeout waiting for subscription to stop")
		}
	}

	return nil
}

// PublishProductUpdate publishes a product update notification
func (i *RedisCatalogCacheInvalidator) PublishProductUpdate(ctx context.Context, id uuid.UUID) error {
	return i.Publish(ctx, catalog.CacheUpdateMessage{
		Action:    catalog.CacheUpdateActionProductUpdated,
		ProductID: id.String(),
	})
}

// PublishProductDelete publishes a product deletion notification
func (i *RedisCatalogCacheInvalidator) PublishProductDelete(ctx context.Context, id uuid.UUID) error {
	return i.Publish(ctx, catalog.CacheUpdateMessage{
		Action:    catalog.CacheUpdateActionProductDeleted,
		ProductID: id.String(),
	})
}

// PublishListingsChanged publishes a listings-stale notification
func (i *RedisCatalogCacheInvalidator) PublishListingsChanged(ctx context.Context) error {
	return i.Publish(ctx, catalog.CacheUpdateMessage{
		Action: catalog.CacheUpdateActionListingsChanged,
	})
}

// PublishInvalidateAll publishes an invalidate-all notification
func (i *RedisCatalogCacheInvalidator) PublishInvalidateAll(ctx context.Context) error {
	return i.Publish(ctx, catalog.CacheUpdateMessage{
		Action: catalog.CacheUpdateActionInvalidateAll,
	})
}

// Ensure RedisCatalogCacheInvalidator implements catalog.CacheInvalidator
var _ catalog.CacheInvalidator = (*RedisCatalogCacheInvalidator)(nil)
