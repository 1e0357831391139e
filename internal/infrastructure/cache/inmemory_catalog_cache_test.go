package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nepalmeatshop/backend/internal/domain/catalog"
	"github.com/nepalmeatshop/backend/internal/domain/shared/valueobject"
)

func createTestProduct(t *testing.T, name string) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(name, "", uuid.New(), catalog.MeatTypePork, valueobject.NewMoneyNPRFromFloat(850))
	require.NoError(t, err)
	return product
}

func TestInMemoryCatalogCache_GetProduct(t *testing.T) {
	cache := NewInMemoryCatalogCache()
	defer cache.Close()

	ctx := context.Background()

	t.Run("returns nil on cache miss", func(t *testing.T) {
		product, err := cache.GetProduct(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, product)
	})

	t.Run("returns cached product on hit", func(t *testing.T) {
		product := createTestProduct(t, "Pork Belly")
		err := cache.SetProduct(ctx, product.ID, product, time.Minute)
		require.NoError(t, err)

		got, err := cache.GetProduct(ctx, product.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, product.ID, got.ID)
		assert.Equal(t, "Pork Belly", got.Name)
	})
}

func TestInMemoryCatalogCache_SetProduct(t *testing.T) {
	cache := NewInMemoryCatalogCache()
	defer cache.Close()

	ctx := context.Background()

	t.Run("stores product with explicit TTL", func(t *testing.T) {
		product := createTestProduct(t, "Chicken Breast")
		err := cache.SetProduct(ctx, product.ID, product, time.Minute)
		require.NoError(t, err)

		got, err := cache.GetProduct(ctx, product.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Chicken Breast", got.Name)
	})

	t.Run("ignores nil product", func(t *testing.T) {
		id := uuid.New()
		err := cache.SetProduct(ctx, id, nil, time.Minute)
		require.NoError(t, err)

		got, err := cache.GetProduct(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("overwrites existing entry", func(t *testing.T) {
		product := createTestProduct(t, "Goat Leg")
		require.NoError(t, cache.SetProduct(ctx, product.ID, product, time.Minute))

		product.Name = "Goat Shoulder"
		require.NoError(t, cache.SetProduct(ctx, product.ID, product, time.Minute))

		got, err := cache.GetProduct(ctx, product.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Goat Shoulder", got.Name)
	})
}

func TestInMemoryCatalogCache_DeleteProduct(t *testing.T) {
	cache := NewInMemoryCatalogCache()
	defer cache.Close()

	ctx := context.Background()

	product := createTestProduct(t, "Buff Mince")
	require.NoError(t, cache.SetProduct(ctx, product.ID, product, time.Minute))

	err := cache.DeleteProduct(ctx, product.ID)
	require.NoError(t, err)

	got, err := cache.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestInMemoryCatalogCache_ProductExpiration(t *testing.T) {
	cache := NewInMemoryCatalogCache()
	defer cache.Close()

	ctx := context.Background()

	product := createTestProduct(t, "Fresh Fish")
	require.NoError(t, cache.SetProduct(ctx, product.ID, product, 50*time.Millisecond))

	got, err := cache.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	time.Sleep(100 * time.Millisecond)

	got, err = cache.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestInMemoryCatalogCache_GetListing(t *testing.T) {
	cache := NewInMemoryCatalogCache()
	defer cache.Close()

	ctx := context.Background()

	t.Run("returns nil on cache miss", func(t *testing.T) {
		payload, err := cache.GetListing(ctx, "page=1&meat_type=pork")
		require.NoError(t, err)
		assert.Nil(t, payload)
	})

	t.Run("returns cached payload on hit", func(t *testing.T) {
		payload := []byte(`{"products":[]}`)
		err := cache.SetListing(ctx, "page=1", payload, time.Minute)
		require.NoError(t, err)

		got, err := cache.GetListing(ctx, "page=1")
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	})
}

func TestInMemoryCatalogCache_SetListing(t *testing.T) {
	cache := NewInMemoryCatalogCache()
	defer cache.Close()

	ctx := context.Background()

	t.Run("ignores empty payload", func(t *testing.T) {
		err := cache.SetListing(ctx, "empty", nil, time.Minute)
		require.NoError(t, err)

		got, err := cache.GetListing(ctx, "empty")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("expires after TTL", func(t *testing.T) {
		require.NoError(t, cache.SetListing(ctx, "short", []byte("data"), 50*time.Millisecond))

		time.Sleep(100 * time.Millisecond)

		got, err := cache.GetListing(ctx, "short")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestInMemoryCatalogCache_InvalidateListings(t *testing.T) {
	cache := NewInMemoryCatalogCache()
	defer cache.Close()

	ctx := context.Background()

	product := createTestProduct(t, "Pork Ribs")
	require.NoError(t, cache.SetProduct(ctx, product.ID, product, time.Minute))
	for i := 0; i < 3; i++ {
		key := fmt.Sprintf("page=%d", i)
		require.NoError(t, cache.SetListing(ctx, key, []byte("payload"), time.Minute))
	}

	err := cache.InvalidateListings(ctx)
	require.NoError(t, err)

	// Listings are gone, products survive
	products, listings := cache.Count()
	assert.Equal(t, 1, products)
	assert.Equal(t, 0, listings)
}

func TestInMemoryCatalogCache_InvalidateAll(t *testing.T) {
	cache := NewInMemoryCatalogCache()
	defer cache.Close()

	ctx := context.Background()

	for _, name := range []string{"Pork Belly", "Chicken Wings"} {
		product := createTestProduct(t, name)
		require.NoError(t, cache.SetProduct(ctx, product.ID, product, time.Minute))
	}
	require.NoError(t, cache.SetListing(ctx, "featured", []byte("payload"), time.Minute))

	products, listings := cache.Count()
	require.Equal(t, 2, products)
	require.Equal(t, 1, listings)

	err := cache.InvalidateAll(ctx)
	require.NoError(t, err)

	products, listings = cache.Count()
	assert.Equal(t, 0, products)
	assert.Equal(t, 0, listings)
}

func TestInMemoryCatalogCache_Stats(t *testing.T) {
	cache := NewInMemoryCatalogCache()
	defer cache.Close()

	ctx := context.Background()

	product := createTestProduct(t, "Mutton Curry Cut")
	require.NoError(t, cache.SetProduct(ctx, product.ID, product, time.Minute))

	// One hit, two misses
	_, _ = cache.GetProduct(ctx, product.ID)
	_, _ = cache.GetProduct(ctx, uuid.New())
	_, _ = cache.GetListing(ctx, "missing")

	hits, misses := cache.GetStats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(2), misses)

	cache.ResetStats()
	hits, misses = cache.GetStats()
	assert.Equal(t, int64(0), hits)
	assert.Equal(t, int64(0), misses)
}

func TestInMemoryCatalogCache_DefaultTTL(t *testing.T) {
	config := catalog.DefaultCacheConfig()
	config.L1TTL = 100 * time.Millisecond

	cache := NewInMemoryCatalogCache(WithInMemoryConfig(config))
	defer cache.Close()

	ctx := context.Background()

	product := createTestProduct(t, "Chicken Drumstick")
	// ttl of 0 falls back to the configured L1 TTL
	require.NoError(t, cache.SetProduct(ctx, product.ID, product, 0))

	got, err := cache.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	time.Sleep(150 * time.Millisecond)

	got, err = cache.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestInMemoryCatalogCache_Close(t *testing.T) {
	cache := NewInMemoryCatalogCache()

	require.NoError(t, cache.Close())
	// Closing twice must not panic
	require.NoError(t, cache.Close())
}
