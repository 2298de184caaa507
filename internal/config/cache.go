package config

import "time"

// CacheConfig controls the per-date seat-view cache. When Enabled is
// false or no Redis client is available the cache is skipped entirely.
// Entries are also invalidated explicitly after every successful
// mutation, so the TTL only bounds staleness across server instances.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: envBool("CACHE_ENABLED", true),
		TTL:     envDur("CACHE_TTL", 30*time.Second),
		Prefix:  getenv("CACHE_PREFIX", "seatview"),
	}
}
