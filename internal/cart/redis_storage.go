package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL matches how long an idle cart is kept.
const DefaultTTL = 30 * 24 * time.Hour

type RedisStorage struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisStorage(client redis.Cmdable, ttl time.Duration) *RedisStorage {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStorage{client: client, ttl: ttl}
}

func (r *RedisStorage) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get cart from Redis: %w", err)
	}
	return val, true, nil
}

// Set writes the cart and refreshes its TTL.
func (r *RedisStorage) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, key, value, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store cart in Redis: %w", err)
	}
	return nil
}

func (r *RedisStorage) Remove(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to remove cart from Redis: %w", err)
	}
	return nil
}
