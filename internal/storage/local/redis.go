package local

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/slok/taskboard/internal/conventions"
)

// DefaultRedisPrefix is prepended to the keys stored in Redis.
const DefaultRedisPrefix = conventions.RedisKeyPrefix

// RedisKV stores the keys in Redis.
type RedisKV struct {
	client redis.Cmdable
	prefix string
}

// NewRedisKV returns a new Redis key-value store. An empty prefix uses DefaultRedisPrefix.
func NewRedisKV(client redis.Cmdable, prefix string) (*RedisKV, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}

	return &RedisKV{client: client, prefix: prefix}, nil
}

// Get returns the value of the key.
func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("could not get %s from redis: %w", key, err)
	}

	return data, true, nil
}

// Set stores the value of the key without expiration.
func (r *RedisKV) Set(ctx context.Context, key string, data []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("could not set %s on redis: %w", key, err)
	}

	return nil
}
