package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

func setupRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedisCacheFromClient(client, "test")
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func implementations(t *testing.T) map[string]Service {
	t.Helper()
	rc, _ := setupRedis(t)
	mc := NewMemoryCache()
	t.Cleanup(func() { _ = mc.Close() })
	return map[string]Service{"redis": rc, "memory": mc}
}

func TestService_RoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, c := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, c.Set(ctx, "k", sample{Name: "vix", Value: 18.5}, time.Minute))

			var got sample
			require.NoError(t, c.Get(ctx, "k", &got))
			assert.Equal(t, sample{Name: "vix", Value: 18.5}, got)

			require.NoError(t, c.Set(ctx, "s", "plain", time.Minute))
			var s string
			require.NoError(t, c.Get(ctx, "s", &s))
			assert.Equal(t, "plain", s)

			ok, err := c.Exists(ctx, "k")
			require.NoError(t, err)
			assert.True(t, ok)

			require.NoError(t, c.Delete(ctx, "k"))
			assert.ErrorIs(t, c.Get(ctx, "k", &got), ErrCacheMiss)
		})
	}
}

func TestService_TryLock(t *testing.T) {
	ctx := context.Background()
	for name, c := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			ok, err := c.TryLock(ctx, "cycle:lock", time.Minute)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = c.TryLock(ctx, "cycle:lock", time.Minute)
			require.NoError(t, err)
			assert.False(t, ok, "second acquire must fail while held")

			require.NoError(t, c.Unlock(ctx, "cycle:lock"))

			ok, err = c.TryLock(ctx, "cycle:lock", time.Minute)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestRedisCache_KeysArePrefixedAndExpire(t *testing.T) {
	ctx := context.Background()
	c, mr := setupRedis(t)

	require.NoError(t, c.Set(ctx, "snapshot:latest", "x", time.Second))
	assert.True(t, mr.Exists("test:snapshot:latest"))

	mr.FastForward(2 * time.Second)
	var s string
	assert.ErrorIs(t, c.Get(ctx, "snapshot:latest", &s), ErrCacheMiss)
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(WithMemoryMaxSize(2))
	defer c.Close()

	require.NoError(t, c.Set(ctx, "a", 1, 0))
	time.Sleep(time.Millisecond)
	require.NoError(t, c.Set(ctx, "b", 2, 0))
	time.Sleep(time.Millisecond)

	var v int
	require.NoError(t, c.Get(ctx, "a", &v)) // touch a so b is oldest
	time.Sleep(time.Millisecond)
	require.NoError(t, c.Set(ctx, "c", 3, 0))

	assert.ErrorIs(t, c.Get(ctx, "b", &v), ErrCacheMiss)
	require.NoError(t, c.Get(ctx, "a", &v))
	assert.Equal(t, 1, v)
}
