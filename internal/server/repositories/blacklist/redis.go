package blacklist

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/videohub/internal/server/auth"
	redis "github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "videohub:blacklist:"

// RedisRepository keeps each revoked token as a key with a native TTL.
type RedisRepository struct {
	client redis.UniversalClient
}

func NewRedisRepository(client redis.UniversalClient) *RedisRepository {
	return &RedisRepository{client: client}
}

// NewRedisClient connects to addr and pings it.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func redisKey(token string) string {
	return redisKeyPrefix + auth.HashToken(token)
}

func (r *RedisRepository) Add(ctx context.Context, token string, ttl time.Duration) error {
	if err := r.client.Set(ctx, redisKey(token), 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (r *RedisRepository) Contains(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, redisKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("redis error: %w", err)
	}
	return n > 0, nil
}

func (r *RedisRepository) PurgeExpired(context.Context) (int64, error) {
	return 0, nil
}
