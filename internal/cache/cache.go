package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Dashboard cache keys. mallID 0 is the platform-wide (admin) block.
const DashboardKeyFmt = "dashboard:mall:%d"

// DashboardTTL bounds how stale the aggregate block may get.
const DashboardTTL = 5 * time.Minute

// Cache is a thin nil-safe wrapper over Redis. A Cache with no client
// behaves as a permanent miss, so the app degrades gracefully when
// Redis is down or not configured.
type Cache struct {
	client *redis.Client
}

// Connect dials Redis and pings it. On failure it returns a degraded
// (client-less) Cache along with the error so the caller can log and
// keep going.
func Connect(addr, password string) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return &Cache{}, err
	}
	return &Cache{client: client}, nil
}

// NewWithClient wraps an existing client. Tests pass a miniredis-backed
// client; nil gives the degraded cache.
func NewWithClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Get returns the cached bytes for key, or false on a miss (including
// the degraded case).
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores data under key with a TTL. Errors are swallowed; a failed
// write only costs the next reader a DB round trip.
func (c *Cache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Set(ctx, key, data, ttl)
}

// Invalidate removes the given keys.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.client == nil || len(keys) == 0 {
		return
	}
	c.client.Del(ctx, keys...)
}

// IsHealthy reports whether the Redis connection is usable.
func (c *Cache) IsHealthy() bool {
	if c == nil || c.client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return c.client.Ping(ctx).Err() == nil
}

// Client exposes the raw client for the pub/sub notification sink.
// Nil when degraded.
func (c *Cache) Client() *redis.Client {
	if c == nil {
		return nil
	}
	return c.client
}
