package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"carbon-market.backend/pkg/logger"
)

// ListingCache is a best-effort read cache for list-style responses.
// Every backend failure is swallowed and logged: a broken or absent cache
// must never fail a request, it only degrades to a miss.
type ListingCache struct {
	client *redis.Client
}

// NewListingCache creates a cache backed by the given client. A nil client
// yields an always-miss cache.
func NewListingCache(client *redis.Client) *ListingCache {
	return &ListingCache{client: client}
}

// Get returns the cached payload for key and whether it was a hit.
func (c *ListingCache) Get(ctx context.Context, key string) (string, bool) {
	if c == nil || c.client == nil {
		return "", false
	}
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn(ctx, "cache get failed", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	return val, true
}

// Set stores payload under key. A zero ttl stores the entry without expiry.
func (c *ListingCache) Set(ctx context.Context, key, payload string, ttl time.Duration) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		logger.Warn(ctx, "cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Delete invalidates key.
func (c *ListingCache) Delete(ctx context.Context, key string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		logger.Warn(ctx, "cache delete failed", zap.String("key", key), zap.Error(err))
	}
}
