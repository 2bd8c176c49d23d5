package dph_test

import (
	"context"
	"testing"
	"time"

	"github.com/fivetwenty-io/dph-client/pkg/dph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheFactory_MemoryCache(t *testing.T) {
	t.Parallel()

	cache, err := dph.NewCacheFromConfig(&dph.CacheConfig{
		Type:   dph.CacheTypeMemory,
		Memory: &dph.MemoryCacheConfig{MaxSize: 100},
	})
	require.NoError(t, err)
	require.IsType(t, &dph.MemoryCache{}, cache)

	ctx := context.Background()
	entry := &dph.CacheEntry{Data: []byte("test data"), ExpiresAt: time.Now().Add(time.Hour), ETag: "test-etag"}

	require.NoError(t, cache.Set(ctx, "test-key", entry))

	retrieved, err := cache.Get(ctx, "test-key")
	require.NoError(t, err)
	assert.Equal(t, entry.ETag, retrieved.ETag)

	require.NoError(t, cache.Delete(ctx, "test-key"))
	assert.False(t, cache.Has(ctx, "test-key"))
}

func TestCacheFactory_NoOpCache(t *testing.T) {
	t.Parallel()

	cache, err := dph.NewCacheFromConfig(&dph.CacheConfig{Type: dph.CacheTypeNone})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "key", &dph.CacheEntry{Data: []byte("x")}))

	_, err = cache.Get(ctx, "key")
	require.ErrorIs(t, err, dph.ErrCacheDisabled)
	assert.False(t, cache.Has(ctx, "key"))
	require.NoError(t, cache.Clear(ctx))
}

func TestCacheFactory_NATSRequiresConfig(t *testing.T) {
	t.Parallel()

	cache, err := dph.NewCacheFromConfig(&dph.CacheConfig{Type: dph.CacheTypeNATS})
	require.ErrorIs(t, err, dph.ErrNATSConfigRequired)
	assert.Nil(t, cache)
}

func TestCacheFactory_InvalidType(t *testing.T) {
	t.Parallel()

	cache, err := dph.NewCacheFromConfig(&dph.CacheConfig{Type: dph.CacheType("invalid")})
	require.ErrorIs(t, err, dph.ErrUnsupportedCacheType)
	assert.Nil(t, cache)
}

func TestCacheFactory_NilConfig(t *testing.T) {
	t.Parallel()

	cache, err := dph.NewCacheFromConfig(nil)
	require.NoError(t, err)
	require.IsType(t, &dph.MemoryCache{}, cache)

	config := dph.DefaultCacheConfig()
	assert.Equal(t, dph.CacheTypeMemory, config.Type)
	assert.Equal(t, 1000, config.Memory.MaxSize)
}

func TestCacheChain(t *testing.T) {
	t.Parallel()

	l1Cache := dph.NewMemoryCache(10)
	l2Cache := dph.NewMemoryCache(100)
	chain := dph.NewCacheChain(l1Cache, l2Cache)
	ctx := context.Background()

	entry := &dph.CacheEntry{Data: []byte("chain data"), ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, l2Cache.Set(ctx, "chain-key", entry))
	assert.False(t, l1Cache.Has(ctx, "chain-key"))

	retrieved, err := chain.Get(ctx, "chain-key")
	require.NoError(t, err)
	assert.Equal(t, entry.Data, retrieved.Data)
	assert.True(t, l1Cache.Has(ctx, "chain-key"), "hit in L2 backfills L1")

	require.NoError(t, chain.Delete(ctx, "chain-key"))
	assert.False(t, chain.Has(ctx, "chain-key"))

	_, err = chain.Get(ctx, "chain-key")
	require.ErrorIs(t, err, dph.ErrKeyNotFoundInAnyCache)
}
