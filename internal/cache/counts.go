// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// counts.go caches the index page totals in Valkey. Every create or delete
// drops the key synchronously, before the redirect, so the next index load
// recounts.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"shelfkeeper/internal/inventory"
)

const (
	// countsKey is the Valkey key holding the JSON-encoded totals.
	countsKey = "inventory:counts"

	// DefaultCountsTTL bounds staleness if an invalidation is ever missed.
	DefaultCountsTTL = 5 * time.Minute
)

var _ inventory.CountsCache = (*CountsCache)(nil)

// CountsCache stores inventory.Counts in Valkey. Errors are logged and
// treated as misses.
type CountsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCountsCache creates a counts cache backed by the given Valkey client.
func NewCountsCache(client *redis.Client, ttl time.Duration) *CountsCache {
	if ttl == 0 {
		ttl = DefaultCountsTTL
	}
	return &CountsCache{client: client, ttl: ttl}
}

// Counts returns the cached totals, or false on a miss.
func (cc *CountsCache) Counts(ctx context.Context) (inventory.Counts, bool) {
	val, err := cc.client.Get(ctx, countsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return inventory.Counts{}, false
	}
	if err != nil {
		slog.Warn("counts cache get error", "error", err)
		return inventory.Counts{}, false
	}

	var c inventory.Counts
	if err := json.Unmarshal(val, &c); err != nil {
		slog.Warn("counts cache decode error", "error", err)
		return inventory.Counts{}, false
	}
	slog.Debug("counts cache hit")
	return c, true
}

// SetCounts stores the totals with the configured TTL.
func (cc *CountsCache) SetCounts(ctx context.Context, c inventory.Counts) {
	val, err := json.Marshal(c)
	if err != nil {
		slog.Warn("counts cache encode error", "error", err)
		return
	}
	if err := cc.client.Set(ctx, countsKey, val, cc.ttl).Err(); err != nil {
		slog.Warn("counts cache set error", "error", err)
	}
}

// InvalidateCounts removes the cached totals.
func (cc *CountsCache) InvalidateCounts(ctx context.Context) {
	if err := cc.client.Del(ctx, countsKey).Err(); err != nil {
		slog.Warn("counts cache invalidate error", "error", err)
		return
	}
	slog.Debug("counts cache invalidated")
}
