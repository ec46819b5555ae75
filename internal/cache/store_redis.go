package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on a Redis instance.
// Keys are matched against the cache namespace prefix so a shared Redis
// instance does not leak foreign keys into Keys.
type RedisStore struct {
	client *redis.Client
	match  string
}

// NewRedisStore creates a Redis-backed store from a connection URL
// (e.g. "redis://localhost:6379/0").
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &RedisStore{
		client: redis.NewClient(opts),
		match:  Prefix + "*",
	}, nil
}

// NewRedisStoreFromClient wraps an existing client. Intended for tests.
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, match: Prefix + "*"}
}

// Get retrieves the value for a key.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %q: %w", key, err)
	}
	return v, true, nil
}

// Set stores the value for a key. Entries carry no Redis-side TTL; the
// cache layer owns expiry so that read-time semantics stay uniform
// across store backends.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Keys returns all keys under the cache namespace via SCAN.
func (s *RedisStore) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, s.match, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	return keys, nil
}

// DeleteMany removes the given keys. Missing keys are ignored.
func (s *RedisStore) DeleteMany(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Close releases the underlying client connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
