package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ExplanationCache keeps recently generated metric explanations in Redis
// so repeated popup opens do not re-invoke the AI gateway.
type ExplanationCache struct {
	client *redis.Client
}

// NewExplanationCache connects the cache and verifies the connection.
func NewExplanationCache(ctx context.Context, addr, password string, db int) (*ExplanationCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &ExplanationCache{client: client}, nil
}

func (c *ExplanationCache) Close() error {
	return c.client.Close()
}

// Get returns the cached explanation for key, or found=false on a miss.
func (c *ExplanationCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, cacheKey(key)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("explanation cache get failed: %w", err)
	}
	return val, true, nil
}

// Set stores an explanation with a TTL.
func (c *ExplanationCache) Set(ctx context.Context, key, explanation string, ttl time.Duration) error {
	if err := c.client.Set(ctx, cacheKey(key), explanation, ttl).Err(); err != nil {
		return fmt.Errorf("explanation cache set failed: %w", err)
	}
	return nil
}

func cacheKey(key string) string {
	return fmt.Sprintf("explain:%s", key)
}
