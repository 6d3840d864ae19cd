package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/moviweb/internal/models"
	"github.com/desertthunder/moviweb/internal/shared"
	"github.com/redis/go-redis/v9"
)

var _ LookupCache = (*RedisCache)(nil)

// NewRedisClient connects to the Redis server named in cfg.
//
// Returns nil when no address is configured or the server does not answer a ping,
// in which case callers run without a cache.
func NewRedisClient(ctx context.Context, cfg shared.CacheConfig) *redis.Client {
	if !cfg.Enabled() {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil
	}
	return client
}

// RedisCache implements [LookupCache] with JSON values in Redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache wraps client; entries expire after ttl (zero means no expiry).
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get returns the cached fields for key.
func (c *RedisCache) Get(ctx context.Context, key string) (models.MovieFields, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.MovieFields{}, false, nil
	}
	if err != nil {
		return models.MovieFields{}, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var fields models.MovieFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return models.MovieFields{}, false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return fields, true, nil
}

// Set stores fields under key with the cache TTL.
func (c *RedisCache) Set(ctx context.Context, key string, fields models.MovieFields) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
