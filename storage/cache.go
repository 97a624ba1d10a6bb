package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps a Backend with a Redis read cache for snapshot loads. Writes go
// through to the base backend first and refresh the cache on success; cache
// failures are never surfaced, the base backend stays authoritative.
type Cache struct {
	base  Backend
	redis *redis.Client
	ttl   time.Duration
}

// NewCache creates a caching wrapper using the provided Redis client and TTL.
func NewCache(base Backend, client *redis.Client, ttl time.Duration) *Cache {
	if base == nil {
		panic("storage.NewCache: base backend is nil")
	}
	if client == nil {
		panic("storage.NewCache: redis client is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Cache{base: base, redis: client, ttl: ttl}
}

func cacheKey(key string) string {
	return "snapshot:" + key
}

func (c *Cache) Read(ctx context.Context, key string) ([]byte, error) {
	if data, err := c.redis.Get(ctx, cacheKey(key)).Bytes(); err == nil {
		return data, nil
	}

	data, err := c.base.Read(ctx, key)
	if err != nil {
		return nil, err
	}

	c.redis.Set(ctx, cacheKey(key), data, c.ttl)
	return data, nil
}

func (c *Cache) Write(ctx context.Context, key string, data []byte) error {
	if err := c.base.Write(ctx, key, data); err != nil {
		return err
	}
	c.redis.Set(ctx, cacheKey(key), data, c.ttl)
	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.base.Delete(ctx, key); err != nil {
		return err
	}
	c.redis.Del(ctx, cacheKey(key))
	return nil
}
