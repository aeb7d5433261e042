package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	return NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()})), mr
}

func TestCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	key := fmt.Sprintf(DashboardKeyFmt, 1)

	_, ok := c.Get(ctx, key)
	assert.False(t, ok)

	c.Set(ctx, key, []byte(`{"postCount":2}`), DashboardTTL)

	data, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, `{"postCount":2}`, string(data))
}

func TestCacheExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"), time.Minute)
	mr.FastForward(2 * time.Minute)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestCacheInvalidate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "a", []byte("1"), time.Minute)
	c.Set(ctx, "b", []byte("2"), time.Minute)
	c.Invalidate(ctx, "a", "b")

	_, ok := c.Get(ctx, "a")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "b")
	assert.False(t, ok)
}

func TestDegradedCacheIsSafe(t *testing.T) {
	ctx := context.Background()
	for _, c := range []*Cache{nil, NewWithClient(nil)} {
		_, ok := c.Get(ctx, "k")
		assert.False(t, ok)
		c.Set(ctx, "k", []byte("v"), time.Minute)
		c.Invalidate(ctx, "k")
		assert.False(t, c.IsHealthy())
	}
}

func TestIsHealthy(t *testing.T) {
	c, mr := newTestCache(t)
	assert.True(t, c.IsHealthy())
	mr.Close()
	assert.False(t, c.IsHealthy())
}
