package statement

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute)
}

func TestCacheVersionInitialises(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	ver, err := cache.Version(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, ver)

	key, err := cache.BuildKey(ctx, keyCollection(7))
	require.NoError(t, err)
	require.Equal(t, "statement:collection:7:1", key)
}

func TestCacheBumpChangesKeys(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	before, err := cache.BuildKey(ctx, keyArrears(7))
	require.NoError(t, err)

	require.NoError(t, cache.Bump(ctx))

	after, err := cache.BuildKey(ctx, keyArrears(7))
	require.NoError(t, err)
	require.NotEqual(t, before, after)
}

func TestCacheFetchJSONStoresValue(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	calls := 0
	loader := func(ctx context.Context) (interface{}, error) {
		calls++
		return map[string]int{"value": 42}, nil
	}

	var first map[string]int
	require.NoError(t, cache.FetchJSON(ctx, "test:key", &first, loader))
	require.Equal(t, 42, first["value"])

	var second map[string]int
	require.NoError(t, cache.FetchJSON(ctx, "test:key", &second, loader))
	require.Equal(t, 42, second["value"])
	require.Equal(t, 1, calls)
}

func TestNilCachePassesThrough(t *testing.T) {
	var cache *Cache
	ctx := context.Background()

	key, err := cache.BuildKey(ctx, keyCollection(3))
	require.NoError(t, err)
	require.Equal(t, "statement:collection:3", key)

	var out map[string]string
	err = cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (interface{}, error) {
		return map[string]string{"status": "fresh"}, nil
	})
	require.NoError(t, err)
	require.Equal(t, "fresh", out["status"])

	require.NoError(t, cache.Bump(ctx))
}
