package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned when a key is absent from the cache.
var ErrMiss = errors.New("cache miss")

// Store is the small key/value surface the application caches through.
type Store interface {
	HGet(ctx context.Context, hash, field string) (string, error)
	HSet(ctx context.Context, hash, field, value string, ttl time.Duration) error
	Delete(ctx context.Context, hash string) error
}

type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new Redis client instance.
func NewRedisStore(addr, password string, db int) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStore{client: rdb}
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) HGet(ctx context.Context, hash, field string) (string, error) {
	v, err := r.client.HGet(ctx, hash, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	if err != nil {
		return "", fmt.Errorf("redis HGET error: %w", err)
	}
	return v, nil
}

// HSet writes one field. The hash expiry is set only when the hash has none,
// so later writes do not extend the lifetime of older fields.
func (r *RedisStore) HSet(ctx context.Context, hash, field, value string, ttl time.Duration) error {
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, hash, field, value)
	if ttl > 0 {
		pipe.ExpireNX(ctx, hash, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis HSET error: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, hash string) error {
	return r.client.Del(ctx, hash).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
