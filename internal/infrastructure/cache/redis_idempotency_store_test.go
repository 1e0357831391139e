package cache

import (
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

func TestRedisIdempotencyStore_DefaultPrefix(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	store := NewRedisIdempotencyStore(client, "")
	assert.Equal(t, EventIdempotencyPrefix, store.keyPrefix)

	callbackStore := NewRedisIdempotencyStore(client, CallbackIdempotencyPrefix)
	assert.Equal(t, CallbackIdempotencyPrefix, callbackStore.keyPrefix)
}

func TestRedisIdempotencyStore_Close(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	var store shared.IdempotencyStore = NewRedisIdempotencyStore(client, "")

	// Close must not close the shared client and is safe to call repeatedly
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
