package menu

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CachedCatalog is a read-through Redis cache in front of another Catalog.
// Cache failures fall back to the underlying catalog.
type CachedCatalog struct {
	next  Catalog
	cache redis.UniversalClient
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedCatalog(next Catalog, cache redis.UniversalClient, ttl time.Duration, log *zap.Logger) *CachedCatalog {
	return &CachedCatalog{next: next, cache: cache, ttl: ttl, log: log}
}

func itemKey(locationID, itemID uuid.UUID) string {
	return fmt.Sprintf("menu:item:%s:%s", locationID, itemID)
}

func (c *CachedCatalog) GetItem(ctx context.Context, locationID, itemID uuid.UUID) (Item, error) {
	key := itemKey(locationID, itemID)
	data, err := c.cache.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var item Item
		if uErr := json.Unmarshal(data, &item); uErr == nil {
			return item, nil
		}
		c.log.Warn("menu cache entry unreadable", zap.String("key", key))
	case err != redis.Nil:
		c.log.Warn("menu cache get failed", zap.String("key", key), zap.Error(err))
	}

	item, err := c.next.GetItem(ctx, locationID, itemID)
	if err != nil {
		return Item{}, err
	}
	if payload, mErr := json.Marshal(item); mErr == nil {
		if sErr := c.cache.Set(ctx, key, payload, c.ttl).Err(); sErr != nil {
			c.log.Warn("menu cache set failed", zap.String("key", key), zap.Error(sErr))
		}
	}
	return item, nil
}

// Invalidate drops the cached entry for one item.
func (c *CachedCatalog) Invalidate(ctx context.Context, locationID, itemID uuid.UUID) {
	if err := c.cache.Del(ctx, itemKey(locationID, itemID)).Err(); err != nil {
		c.log.Warn("menu cache invalidate failed",
			zap.String("location_id", locationID.String()),
			zap.String("menu_item_id", itemID.String()),
			zap.Error(err))
	}
}
