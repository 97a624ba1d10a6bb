package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type countingBackend struct {
	base  Backend
	reads int
}

func (c *countingBackend) Read(ctx context.Context, key string) ([]byte, error) {
	c.reads++
	return c.base.Read(ctx, key)
}

func (c *countingBackend) Write(ctx context.Context, key string, data []byte) error {
	return c.base.Write(ctx, key, data)
}

func (c *countingBackend) Delete(ctx context.Context, key string) error {
	return c.base.Delete(ctx, key)
}

func newCacheFixture(t *testing.T) (*miniredis.Miniredis, *countingBackend, *Cache) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	base := &countingBackend{base: NewMemoryBackend()}
	return mr, base, NewCache(base, client, time.Minute)
}

func TestCacheReadMissThenHit(t *testing.T) {
	mr, base, cache := newCacheFixture(t)
	ctx := context.Background()

	payload := []byte(`[{"id":1,"text":"cached"}]`)
	if err := base.Write(ctx, KeyTasks, payload); err != nil {
		t.Fatalf("seed base: %v", err)
	}

	got, err := cache.Read(ctx, KeyTasks)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("unexpected payload: %s", got)
	}
	if base.reads != 1 {
		t.Fatalf("expected 1 base read, got %d", base.reads)
	}
	if ttl := mr.TTL(cacheKey(KeyTasks)); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("unexpected TTL: %v", ttl)
	}

	if _, err := cache.Read(ctx, KeyTasks); err != nil {
		t.Fatalf("cached read: %v", err)
	}
	if base.reads != 1 {
		t.Fatalf("expected cached read to skip the base backend, reads=%d", base.reads)
	}
}

func TestCacheWriteRefreshesCache(t *testing.T) {
	_, base, cache := newCacheFixture(t)
	ctx := context.Background()

	payload := []byte(`[{"id":2,"text":"fresh"}]`)
	if err := cache.Write(ctx, KeyTasks, payload); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := cache.Read(ctx, KeyTasks)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("unexpected payload: %s", got)
	}
	if base.reads != 0 {
		t.Fatalf("write-through should have primed the cache, reads=%d", base.reads)
	}
}

func TestCacheDeleteEvicts(t *testing.T) {
	mr, _, cache := newCacheFixture(t)
	ctx := context.Background()

	if err := cache.Write(ctx, KeyTasks, []byte(`[]`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := cache.Delete(ctx, KeyTasks); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if mr.Exists(cacheKey(KeyTasks)) {
		t.Fatal("expected cache entry to be evicted")
	}
	if _, err := cache.Read(ctx, KeyTasks); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
