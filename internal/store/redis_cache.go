package store

import (
	"context"
	"errors"
	"time"

	"github.com/onkoe/direction/internal/shortener"
	"github.com/redis/go-redis/v9"
)

// RedisCache wraps a Store with Redis caching for reads.
type RedisCache struct {
	store  shortener.Store
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache creates a new Redis read-through cache in front of store.
// A zero ttl keeps cached entries until Redis evicts them.
func NewRedisCache(store shortener.Store, client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{
		store:  store,
		client: client,
		prefix: "link-cache:",
		ttl:    ttl,
	}
}

// Insert stores the value in the underlying store and updates the cache.
func (r *RedisCache) Insert(ctx context.Context, key, value []byte) error {
	if err := r.store.Insert(ctx, key, value); err != nil {
		return err
	}

	// Write-through: update cache after successful save
	r.cache(ctx, key, value)

	return nil
}

// InsertIfAbsent stores the value when the key is free and caches it on success.
func (r *RedisCache) InsertIfAbsent(ctx context.Context, key, value []byte) (bool, error) {
	inserted, err := r.store.InsertIfAbsent(ctx, key, value)
	if err != nil || !inserted {
		return inserted, err
	}

	r.cache(ctx, key, value)

	return true, nil
}

// Get checks the cache first and falls back to the underlying store.
func (r *RedisCache) Get(ctx context.Context, key []byte) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, r.prefix+string(key)).Bytes()
	if err == nil {
		return value, true, nil
	}

	// Cache miss or cache failure - fetch from store
	value, found, err := r.store.Get(ctx, key)
	if err != nil || !found {
		return nil, found, err
	}

	// Populate cache
	r.cache(ctx, key, value)

	return value, true, nil
}

// cache is best effort; the underlying store stays the source of truth.
func (r *RedisCache) cache(ctx context.Context, key, value []byte) {
	_ = r.client.Set(ctx, r.prefix+string(key), value, r.ttl).Err()
}

// Ping checks both Redis and the underlying store.
func (r *RedisCache) Ping(ctx context.Context) error {
	var errs []error

	if err := r.client.Ping(ctx).Err(); err != nil {
		errs = append(errs, err)
	}

	if pinger, ok := r.store.(shortener.Pinger); ok {
		if err := pinger.Ping(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Close closes the underlying store; the Redis client is managed externally.
func (r *RedisCache) Close() error {
	return r.store.Close()
}

// Compile-time check.
var _ shortener.Store = (*RedisCache)(nil)
