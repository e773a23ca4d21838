// Package cache provides a Redis read-through layer over the cart reader.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ranju12345252/ecommerce-final/internal/domain"
)

const defaultCartTTL = 10 * time.Minute

// CartSource is the underlying cart owner boundary.
type CartSource interface {
	Snapshot(ctx context.Context, buyerID string) (domain.CartSnapshot, error)
	Clear(ctx context.Context, buyerID string) error
}

// CartCache caches cart snapshots in Redis. Cache failures degrade to the
// source; they never fail a checkout.
type CartCache struct {
	source CartSource
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCartCache(source CartSource, client *redis.Client, logger *zap.Logger) *CartCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartCache{
		source: source,
		client: client,
		ttl:    defaultCartTTL,
		logger: logger,
	}
}

func cartKey(buyerID string) string {
	return "cart:" + buyerID
}

func (c *CartCache) Snapshot(ctx context.Context, buyerID string) (domain.CartSnapshot, error) {
	key := cartKey(buyerID)

	raw, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		var snapshot domain.CartSnapshot
		if err := json.Unmarshal([]byte(raw), &snapshot); err == nil {
			return snapshot, nil
		}
		// Corrupt entry: drop it and read through.
		_ = c.client.Del(ctx, key).Err()
	case errors.Is(err, redis.Nil):
		// Cache miss.
	default:
		c.logger.Warn("cart cache read failed", zap.String("buyer_id", buyerID), zap.Error(err))
	}

	snapshot, err := c.source.Snapshot(ctx, buyerID)
	if err != nil {
		return domain.CartSnapshot{}, err
	}

	if data, err := json.Marshal(snapshot); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("cart cache write failed", zap.String("buyer_id", buyerID), zap.Error(err))
		}
	}
	return snapshot, nil
}

// Clear invalidates the cached snapshot before clearing the source, so a
// concurrent reader cannot resurrect a stale cart.
func (c *CartCache) Clear(ctx context.Context, buyerID string) error {
	if err := c.client.Del(ctx, cartKey(buyerID)).Err(); err != nil {
		c.logger.Warn("cart cache invalidation failed", zap.String("buyer_id", buyerID), zap.Error(err))
	}
	return c.source.Clear(ctx, buyerID)
}
