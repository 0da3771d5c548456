package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"coursedeck/internal/model"
)

const keyProductPage = "product:page:"

// ProductCache caches product list pages.
// Implementations must treat a miss as (nil, nil).
type ProductCache interface {
	// GetPage returns a cached page result or nil on miss.
	GetPage(ctx context.Context, limit, offset int) (*ProductPage, error)
	// SetPage stores a page result.
	SetPage(ctx context.Context, limit, offset int, page *ProductPage) error
	// Invalidate removes all cached pages (called on every write).
	Invalidate(ctx context.Context) error
}

// ProductPage is the cached shape of one list page.
type ProductPage struct {
	Items []model.Product `json:"items"`
	Total int             `json:"total"`
}

// redisProductCache implements ProductCache on Redis with a shared TTL.
type redisProductCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewProductCache returns a Redis-backed ProductCache.
func NewProductCache(rdb *redis.Client, ttl time.Duration) ProductCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &redisProductCache{rdb: rdb, ttl: ttl}
}

func pageKey(limit, offset int) string {
	return fmt.Sprintf("%s%d:%d", keyProductPage, limit, offset)
}

// GetPage returns the cached page or nil on miss.
func (c *redisProductCache) GetPage(ctx context.Context, limit, offset int) (*ProductPage, error) {
	b, err := c.rdb.Get(ctx, pageKey(limit, offset)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var page ProductPage
	if err := json.Unmarshal(b, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SetPage stores the page in cache.
func (c *redisProductCache) SetPage(ctx context.Context, limit, offset int, page *ProductPage) error {
	b, err := json.Marshal(page)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, pageKey(limit, offset), b, c.ttl).Err()
}

// Invalidate removes all cached pages (cache invalidation on write).
func (c *redisProductCache) Invalidate(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, keyProductPage+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
