// Copyright (c) 2026 Tsundoku. All rights reserved.
// Author: haru.tokiwa.dev@gmail.com

package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/harutoki/tsundoku/internal/platform/constants"
)

// RedisStatsCache implements the StatsCache interface using Redis.
//
// The overview is stored as a single JSON value under a fixed key; Redis
// expiry bounds staleness, and moderation deletes purge the key early.
type RedisStatsCache struct {
	client *redis.Client
}

// NewStatsCache creates a new Redis implementation of the StatsCache.
func NewStatsCache(client *redis.Client) *RedisStatsCache {
	return &RedisStatsCache{client: client}
}

// statsKey is the single cache slot for the overview.
const statsKey = constants.RedisPrefixAdminStats + "overview"

/*
Get returns the cached overview, or ok=false on a miss.

Parameters:
  - context: context.Context

Returns:
  - *Stats: Cached overview
  - bool: Hit indicator
  - error: Transport failures (a corrupt entry counts as a miss)
*/
func (cache *RedisStatsCache) Get(context context.Context) (*Stats, bool, error) {
	payload, err := cache.client.Get(context, statsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis_stats_cache_get_failed: %w", err)
	}

	stats := &Stats{}
	if err := json.Unmarshal(payload, stats); err != nil {
		// Treat a corrupt entry as a miss; it will be overwritten shortly
		return nil, false, nil
	}

	return stats, true, nil
}

/*
Set stores a freshly computed overview for the given duration.

Parameters:
  - context: context.Context
  - stats: *Stats
  - ttl: time.Duration

Returns:
  - error: Serialization or transport failures
*/
func (cache *RedisStatsCache) Set(context context.Context, stats *Stats, ttl time.Duration) error {
	payload, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("redis_stats_cache_marshal_failed: %w", err)
	}

	if err := cache.client.Set(context, statsKey, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_stats_cache_set_failed: %w", err)
	}

	return nil
}

/*
Invalidate drops the cached overview so the next read recomputes.

Parameters:
  - context: context.Context

Returns:
  - error: Transport failures (a missing key is not an error)
*/
func (cache *RedisStatsCache) Invalidate(context context.Context) error {
	if err := cache.client.Del(context, statsKey).Err(); err != nil {
		return fmt.Errorf("redis_stats_cache_del_failed: %w", err)
	}

	return nil
}
