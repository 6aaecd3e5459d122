package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sujalbistaa/messmate/pkg/logger"
)

const hotelsKey = "hotels:list"

// DefaultTTL bounds how stale the cached hotel list can get. It also covers
// the case where a hotel's last post expires: the name ages out of the cache
// within one TTL even though no create invalidated it.
const DefaultTTL = time.Minute

// HotelSource is the slice of the post store the cache sits in front of.
type HotelSource interface {
	HotelNames(ctx context.Context) ([]string, error)
}

// HotelCache is a read-through redis cache for the distinct hotel-name list.
// Any redis failure falls back to the source; the cache never turns a working
// database read into an error.
type HotelCache struct {
	source HotelSource
	cache  *redis.Client
	ttl    time.Duration
}

func NewHotelCache(source HotelSource, cache *redis.Client, ttl time.Duration) *HotelCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &HotelCache{source: source, cache: cache, ttl: ttl}
}

func (c *HotelCache) HotelNames(ctx context.Context) ([]string, error) {
	if data, err := c.cache.Get(ctx, hotelsKey).Bytes(); err == nil {
		var names []string
		if uErr := json.Unmarshal(data, &names); uErr == nil {
			return names, nil
		}
	}

	names, err := c.source.HotelNames(ctx)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(names); err == nil {
		if sErr := c.cache.Set(ctx, hotelsKey, payload, c.ttl).Err(); sErr != nil {
			logger.Warn("hotel cache set failed", zap.Error(sErr))
		}
	}
	return names, nil
}

// Invalidate drops the cached list. Called after each create so a brand-new
// hotel shows up on the next read instead of after the TTL.
func (c *HotelCache) Invalidate(ctx context.Context) {
	if err := c.cache.Del(ctx, hotelsKey).Err(); err != nil {
		logger.Warn("hotel cache invalidate failed", zap.Error(err))
	}
}
