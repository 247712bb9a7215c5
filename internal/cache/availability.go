package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"rentstack-backend/internal/domain"
	"rentstack-backend/internal/logger"
)

const poolKeyPrefix = "inventory:pool:"

// AvailabilityCache keeps short-lived snapshots of inventory pools in Redis
// so availability reads do not hit Postgres on every request. A nil cache is
// valid and turns every operation into a no-op, which is how deployments
// without Redis run.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAvailabilityCache(client *redis.Client, ttl time.Duration) *AvailabilityCache {
	if client == nil {
		return nil
	}
	return &AvailabilityCache{client: client, ttl: ttl}
}

func poolKey(productID int32) string {
	return fmt.Sprintf("%s%d", poolKeyPrefix, productID)
}

// GetPool returns the cached pool snapshot, or nil on a miss. Cache errors
// are logged and treated as misses so Redis outages never fail a read.
func (c *AvailabilityCache) GetPool(ctx context.Context, productID int32) *domain.InventoryPool {
	if c == nil {
		return nil
	}
	data, err := c.client.Get(ctx, poolKey(productID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("availability cache read failed", "product_id", productID, "error", err)
		}
		return nil
	}
	var pool domain.InventoryPool
	if err := json.Unmarshal(data, &pool); err != nil {
		logger.Warn("availability cache entry corrupt", "product_id", productID, "error", err)
		return nil
	}
	return &pool
}

// SetPool stores a pool snapshot with the configured TTL.
func (c *AvailabilityCache) SetPool(ctx context.Context, pool *domain.InventoryPool) {
	if c == nil || pool == nil {
		return
	}
	data, err := json.Marshal(pool)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, poolKey(pool.ProductID), data, c.ttl).Err(); err != nil {
		logger.Warn("availability cache write failed", "product_id", pool.ProductID, "error", err)
	}
}

// Invalidate drops the snapshot after any counter mutation.
func (c *AvailabilityCache) Invalidate(ctx context.Context, productID int32) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, poolKey(productID)).Err(); err != nil {
		logger.Warn("availability cache invalidation failed", "product_id", productID, "error", err)
	}
}
