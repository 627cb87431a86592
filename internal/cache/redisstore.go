package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore adapts a go-redis client to the tier-1 KVStore handle. TTL is
// enforced natively by the store via SETEX.
type RedisStore struct {
	client *redis.Client
}

var _ KVStore = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetEx rejects non-positive TTLs, matching the SETEX contract. Callers rely
// on that rejection to push already-expired writes down to a lower tier.
func (s *RedisStore) SetEx(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("redis: invalid expire %s for key %s", ttl, key)
	}
	return s.client.SetEx(ctx, key, value, ttl).Err()
}

func (s *RedisStore) Del(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

func (s *RedisStore) Count(ctx context.Context) (int64, error) {
	return s.client.DBSize(ctx).Result()
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
