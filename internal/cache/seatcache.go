// Package cache provides a small Redis-backed cache for per-date seat
// views. Unlike a generic response cache it is invalidated explicitly
// whenever a mutation touches a date, so clients refetching after a
// reserve or cancel always observe the new state.
package cache

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/seat-booking/internal/config"
	"github.com/iliyamo/seat-booking/internal/store"
)

// SeatCache caches ListAvailable and ListReserved results keyed by
// date. A nil *SeatCache is valid and disables every operation, which
// keeps handler code free of cache-presence checks.
type SeatCache struct {
	rdb *redis.Client
	cfg config.CacheConfig
}

// New returns a SeatCache, or nil when caching is disabled or no Redis
// client is available.
func New(rdb *redis.Client, cfg config.CacheConfig) *SeatCache {
	if rdb == nil || !cfg.Enabled {
		return nil
	}
	return &SeatCache{rdb: rdb, cfg: cfg}
}

func (c *SeatCache) availableKey(date string) string { return c.cfg.Prefix + ":available:" + date }
func (c *SeatCache) reservedKey(date string) string  { return c.cfg.Prefix + ":reserved:" + date }

// GetAvailable returns the cached available-seat list for the date.
// The second return value reports a hit. Cache errors count as misses.
func (c *SeatCache) GetAvailable(ctx context.Context, date string) ([]string, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, c.availableKey(date)).Bytes()
	if err != nil {
		return nil, false
	}
	var seats []string
	if err := json.Unmarshal(raw, &seats); err != nil {
		return nil, false
	}
	return seats, true
}

// SetAvailable stores the available-seat list for the date.
func (c *SeatCache) SetAvailable(ctx context.Context, date string, seats []string) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(seats)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, c.availableKey(date), raw, c.cfg.TTL).Err(); err != nil {
		log.Printf("seatcache: set available failed: %v", err)
	}
}

// GetReserved returns the cached reservation list for the date.
func (c *SeatCache) GetReserved(ctx context.Context, date string) ([]store.Reservation, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, c.reservedKey(date)).Bytes()
	if err != nil {
		return nil, false
	}
	var out []store.Reservation
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	return out, true
}

// SetReserved stores the reservation list for the date.
func (c *SeatCache) SetReserved(ctx context.Context, date string, reservations []store.Reservation) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(reservations)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, c.reservedKey(date), raw, c.cfg.TTL).Err(); err != nil {
		log.Printf("seatcache: set reserved failed: %v", err)
	}
}

// Invalidate drops both views for the date. Called after any mutation
// that touched it; a failed delete is logged and left to the TTL.
func (c *SeatCache) Invalidate(ctx context.Context, date string) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, c.availableKey(date), c.reservedKey(date)).Err(); err != nil {
		log.Printf("seatcache: invalidate %s failed: %v", date, err)
	}
}
