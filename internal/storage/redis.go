package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisKV backs the session-scoped persistence port. It is the server-side
// counterpart of the page's localStorage: theme choice, favorites cache,
// dialog stack, order drafts and toast queues all live under session keys.
type RedisKV struct {
	Client *redis.Client
}

func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{Client: client}
}

func (s *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *RedisKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.Client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisKV) Del(ctx context.Context, key string) error {
	return s.Client.Del(ctx, key).Err()
}
