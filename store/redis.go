package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a go-redis-backed Store for setups where tokens must be shared
// across processes.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisOption configures the adapter.
type RedisOption func(*Redis)

// WithTTL sets an expiration applied to every Set. Zero (the default) means
// keys do not expire.
func WithTTL(ttl time.Duration) RedisOption {
	return func(r *Redis) {
		r.ttl = ttl
	}
}

// NewRedis connects to the redis server at addr and verifies the connection
// with a ping.
func NewRedis(ctx context.Context, addr string, opts ...RedisOption) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	r := &Redis{client: client}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// NewRedisClient wraps an existing client. The caller keeps ownership of the
// client's lifecycle only until Close is called on the returned store.
func NewRedisClient(client *redis.Client, opts ...RedisOption) *Redis {
	r := &Redis{client: client}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get implements Store.
func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, nil
}

// Set implements Store.
func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, key, value, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete implements Store.
func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	return nil
}

// Close implements Store.
func (r *Redis) Close() error {
	return r.client.Close()
}
