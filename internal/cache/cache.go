// Package cache implements a look-aside cache wrapper around computed
// results. The cache is best-effort: read and write failures degrade to a
// miss or a no-op and never fail the request.
package cache

import (
	"context"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"github.com/bzuer/ethnos-api/internal/metrics"
)

// Store is the consumer interface for the backing key/value store.
// Get returns (nil, nil) on a plain miss.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache wraps a key/value store with msgpack value serialization.
// A nil *Cache is valid and behaves as a permanent miss without storing,
// so call sites need no cache-enabled branches.
type Cache struct {
	store  Store
	logger *zap.Logger
}

// New creates a cache wrapper.
func New(store Store, logger *zap.Logger) *Cache {
	return &Cache{store: store, logger: logger}
}

// GetOrCompute returns the cached value for key, or runs compute and caches
// its result with the given TTL. The second return reports a cache hit.
// Either the full computed result is cached or nothing is; a failed compute
// is never cached. Concurrent misses for the same key may each run compute;
// cached values are pure functions of the key, so last writer wins.
func GetOrCompute[T any](
	ctx context.Context, c *Cache, key string, ttl time.Duration,
	compute func(ctx context.Context) (T, error),
) (T, bool, error) {
	enabled := c != nil && c.store != nil
	if cached, ok := lookup[T](ctx, c, key); ok {
		metrics.CacheTotal.WithLabelValues("hit").Inc()
		return cached, true, nil
	}
	// An uncached service is not missing; only count against a real store.
	if enabled {
		metrics.CacheTotal.WithLabelValues("miss").Inc()
	}

	value, err := compute(ctx)
	if err != nil {
		var zero T
		return zero, false, err
	}

	c.put(ctx, key, ttl, value)
	return value, false, nil
}

func lookup[T any](ctx context.Context, c *Cache, key string) (T, bool) {
	var zero T
	if c == nil || c.store == nil {
		return zero, false
	}

	data, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache get failed, treating as miss", zap.String("key", key), zap.Error(err))
		return zero, false
	}
	if data == nil {
		return zero, false
	}

	var value T
	if err := msgpack.Unmarshal(data, &value); err != nil {
		c.logger.Warn("cache entry undecodable, treating as miss", zap.String("key", key), zap.Error(err))
		return zero, false
	}
	return value, true
}

func (c *Cache) put(ctx context.Context, key string, ttl time.Duration, value any) {
	if c == nil || c.store == nil {
		return
	}

	data, err := msgpack.Marshal(value)
	if err != nil {
		c.logger.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, ttl); err != nil {
		c.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}
