// internal/sources/cache.go
package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"

	"sponsor-insights/internal/models"
)

const keyPrefix = "faq:sources:"

// Cache stores resolved source lists by lookup key.
type Cache interface {
	Get(ctx context.Context, key string) ([]models.Source, bool, error)
	Set(ctx context.Context, key string, sources []models.Source) error
}

// MemoryCache is an in-process LRU whose entries expire after a fixed TTL.
type MemoryCache struct {
	lru *expirable.LRU[string, []models.Source]
}

func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = 128
	}
	return &MemoryCache{lru: expirable.NewLRU[string, []models.Source](size, nil, ttl)}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]models.Source, bool, error) {
	v, ok := c.lru.Get(key)
	return v, ok, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, sources []models.Source) error {
	c.lru.Add(key, sources)
	return nil
}

// RedisCache shares source lists between processes. Values are JSON.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]models.Source, bool, error) {
	val, err := c.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var out []models.Source
	if err := json.Unmarshal([]byte(val), &out); err != nil {
		return nil, false, fmt.Errorf("decode cached sources: %w", err)
	}
	return out, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, sources []models.Source) error {
	data, err := json.Marshal(sources)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, keyPrefix+key, data, c.ttl).Err()
}
