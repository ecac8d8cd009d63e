package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the hash holding moderation settings:
//
//	HSET moderation:config moderation.strikes_to_block 3
const DefaultRedisKey = "moderation:config"

// RedisSource reads settings from a Redis hash with one HGET per lookup.
type RedisSource struct {
	client *redis.Client
	key    string
}

// NewRedisSource creates a RedisSource. An empty key uses DefaultRedisKey.
func NewRedisSource(client *redis.Client, key string) *RedisSource {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisSource{client: client, key: key}
}

// Lookup implements Source.
func (s *RedisSource) Lookup(ctx context.Context, field string) (string, error) {
	v, err := s.client.HGet(ctx, s.key, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("config: redis hget %s: %w", field, err)
	}
	return v, nil
}

// Set stores a setting. Used by admin tooling and tests.
func (s *RedisSource) Set(ctx context.Context, field string, value any) error {
	return s.client.HSet(ctx, s.key, field, value).Err()
}
