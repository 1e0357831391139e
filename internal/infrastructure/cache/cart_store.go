package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nepalmeatshop/backend/internal/domain/cart"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

const defaultCartTTL = 72 * time.Hour

// RedisCartStore implements cart.CartRepository using Redis.
// Carts are stored as JSON documents keyed by session ID. Every Save
// and Find refreshes the TTL, so an active shopper never loses a cart
// while an abandoned one expires on its own.
type RedisCartStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
	logger    *zap.Logger
}

// RedisCartStoreOption is a functional option for configuring the store
type RedisCartStoreOption func(*RedisCartStore)

// WithCartTTL sets the sliding expiration for cart sessions
func WithCartTTL(ttl time.Duration) RedisCartStoreOption {
	return func(s *RedisCartStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithCartLogger sets the logger for the store
func WithCartLogger(logger *zap.Logger) RedisCartStoreOption {
	return func(s *RedisCartStore) {
		s.logger = logger
	}
}

// NewRedisCartStore creates a cart store on an existing Redis client.
// The caller retains ownership of the client.
func NewRedisCartStore(client *redis.Client, opts ...RedisCartStoreOption) *RedisCartStore {
	store := &RedisCartStore{
		client:    client,
		keyPrefix: "cart:session:",
		ttl:       defaultCartTTL,
		logger:    zap.NewNop(),
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// cartKey generates the Redis key for a session's cart
func (s *RedisCartStore) cartKey(sessionID string) string {
	return s.keyPrefix + sessionID
}

// Find returns the cart for a session, refreshing its TTL on the way out
func (s *RedisCartStore) Find(ctx context.Context, sessionID string) (*cart.Cart, error) {
	key := s.cartKey(sessionID)

	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		s.logger.Error("Failed to get cart from Redis",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	var c cart.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		s.logger.Error("Failed to unmarshal cart",
			zap.String("session_id", sessionID),
			zap.Error(err))
		// Delete corrupted entry so the shopper gets a fresh cart
		_ = s.client.Del(ctx, key)
		return nil, shared.ErrNotFound
	}

	// Slide the expiration on read
	if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
		s.logger.Warn("Failed to refresh cart TTL",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}

	return &c, nil
}

// Save stores the cart and refreshes its TTL
func (s *RedisCartStore) Save(ctx context.Context, c *cart.Cart) error {
	if c == nil || c.SessionID == "" {
		return shared.NewDomainError("INVALID_SESSION", "Cart has no session ID")
	}

	data, err := json.Marshal(c)
	if err != nil {
		s.logger.Error("Failed to marshal cart",
			zap.String("session_id", c.SessionID),
			zap.Error(err))
		return fmt.Errorf("failed to marshal cart: %w", err)
	}

	key := s.cartKey(c.SessionID)
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.logger.Error("Failed to save cart to Redis",
			zap.String("session_id", c.SessionID),
			zap.Error(err))
		return fmt.Errorf("failed to save cart: %w", err)
	}

	s.logger.Debug("Saved cart",
		zap.String("session_id", c.SessionID),
		zap.Int("items", c.ItemCount()))
	return nil
}

// Delete removes the cart for a session
func (s *RedisCartStore) Delete(ctx context.Context, sessionID string) error {
	key := s.cartKey(sessionID)

	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.logger.Error("Failed to delete cart from Redis",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	s.logger.Debug("Deleted cart", zap.String("session_id", sessionID))
	return nil
}

// Touch refreshes the TTL without modifying the cart. A zero ttl uses
// the store's configured default.
func (s *RedisCartStore) Touch(ctx context.Context, sessionID string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = s.ttl
	}

	key := s.cartKey(sessionID)
	if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
		return fmt.Errorf("failed to refresh cart TTL: %w", err)
	}

	return nil
}

// Ensure RedisCartStore implements cart.CartRepository
var _ cart.CartRepository = (*RedisCartStore)(nil)
