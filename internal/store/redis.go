package store

import (
	"context"
	"errors"

	"github.com/onkoe/direction/internal/shortener"
	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis implementation of shortener.Store.
type RedisStore struct {
	client *redis.Client
	prefix string // "link:" for code -> encoded link (string keys)
}

// NewRedisStore creates a new Redis-backed link store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "link:",
	}
}

func (r *RedisStore) key(key []byte) string {
	return r.prefix + string(key)
}

func (r *RedisStore) Insert(ctx context.Context, key, value []byte) error {
	return r.client.Set(ctx, r.key(key), value, 0).Err()
}

func (r *RedisStore) InsertIfAbsent(ctx context.Context, key, value []byte) (bool, error) {
	return r.client.SetNX(ctx, r.key(key), value, 0).Result()
}

func (r *RedisStore) Get(ctx context.Context, key []byte) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}

		return nil, false, err
	}

	return value, true, nil
}

// Ping checks Redis connectivity.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close is a no-op for RedisStore (client managed externally).
func (r *RedisStore) Close() error {
	return nil
}

// Compile-time check.
var _ shortener.Store = (*RedisStore)(nil)
