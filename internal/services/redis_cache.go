package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisCache shares the summary cache between server replicas. Entries carry no
// TTL; the cache lives as long as the Redis keyspace does.
type RedisCache struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

func NewRedisCache(client *redis.Client, prefix string, logger *zap.Logger) *RedisCache {
	if prefix == "" {
		prefix = "summary_cache:"
	}
	return &RedisCache{client: client, prefix: prefix, logger: logger}
}

func (c *RedisCache) key(k CacheKey) string {
	return c.prefix + k.Hash()
}

// Get treats any Redis error as a miss so a cache outage only costs a backend call.
func (c *RedisCache) Get(ctx context.Context, key CacheKey) (string, bool) {
	val, err := c.client.Get(ctx, c.key(key)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("summary cache read failed", zap.Error(err))
		}
		return "", false
	}
	return val, true
}

func (c *RedisCache) Put(ctx context.Context, key CacheKey, summary string) error {
	if err := c.client.Set(ctx, c.key(key), summary, 0).Err(); err != nil {
		return fmt.Errorf("failed to write summary cache: %w", err)
	}
	return nil
}

func (c *RedisCache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 500).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 500 {
			if err := c.client.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("failed to clear summary cache: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan summary cache: %w", err)
	}
	if len(batch) > 0 {
		if err := c.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("failed to clear summary cache: %w", err)
		}
	}
	return nil
}
