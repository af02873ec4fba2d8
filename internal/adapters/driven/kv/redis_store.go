// Package kv implements the KVStore port (spec §6): a Redis-backed adapter
// when Redis is configured, and a PostgreSQL JSONB-backed fallback when it
// isn't, mirroring the dual-backend pattern used elsewhere for sessions
// (redis.SessionStore vs postgres.SessionStore).
package kv

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/sercha-core/internal/core/ports/driven"
)

var _ driven.KVStore = (*RedisStore)(nil)

// RedisStore implements driven.KVStore over a Redis client.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new Redis-backed KVStore.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv get: %w", err)
	}
	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("kv set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("kv delete: %w", err)
	}
	return nil
}

func (s *RedisStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	out, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("kv hgetall: %w", err)
	}
	return out, nil
}

func (s *RedisStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	flat := make(map[string]any, len(fields))
	for k, v := range fields {
		flat[k] = v
	}
	if err := s.client.HSet(ctx, key, flat).Err(); err != nil {
		return fmt.Errorf("kv hset: %w", err)
	}
	return nil
}

// HDel removes the whole hash key, matching the flat "drop the bucket"
// semantics the category service relies on (spec §6).
func (s *RedisStore) HDel(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("kv hdel: %w", err)
	}
	return nil
}

func (s *RedisStore) Incr(ctx context.Context, key string, field string, delta int64) error {
	if err := s.client.HIncrBy(ctx, key, field, delta).Err(); err != nil {
		return fmt.Errorf("kv incr: %w", err)
	}
	return nil
}

func (s *RedisStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("kv keys: %w", err)
	}
	return keys, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
