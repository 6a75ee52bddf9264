// Package cache keeps rendered product list pages in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"pc-store/models"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

const keyPrefix = "pcstore:"

// ProductCache stores one JSON page per key. Keys are prefixed so that
// Invalidate can SCAN for them without touching anything else in the db.
type ProductCache struct {
	client  redis.UniversalClient
	baseTTL time.Duration
}

func NewProductCache(client redis.UniversalClient, ttl time.Duration) *ProductCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ProductCache{client: client, baseTTL: ttl}
}

func cacheKey(key string) string {
	return keyPrefix + key
}

func (c *ProductCache) Get(ctx context.Context, key string) (*models.ProductPage, error) {
	data, err := c.client.Get(ctx, cacheKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var page models.ProductPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("unmarshal page failed: %w", err)
	}
	return &page, nil
}

// Set adds up to a tenth of the TTL as jitter so pages written together do
// not all expire together.
func (c *ProductCache) Set(ctx context.Context, key string, page *models.ProductPage) error {
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("marshal page failed: %w", err)
	}

	ttl := c.baseTTL
	if spread := int64(c.baseTTL / 10); spread > 0 {
		ttl += time.Duration(rand.Int63n(spread))
	}
	if err := c.client.Set(ctx, cacheKey(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Invalidate deletes every product page.
func (c *ProductCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, keyPrefix+"products:*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan failed: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
