package config

import "time"

// CacheConfig controls the Redis response cache wrapped around the
// admin report endpoint. The dashboard polls its counters far more
// often than the underlying tables change, so short-lived caching is
// enough.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadCacheConfig reads cache settings with a 30 second default TTL.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: envBool("CACHE_ENABLED", true),
		TTL:     envDur("CACHE_TTL", 30*time.Second),
		Prefix:  envStr("CACHE_PREFIX", "cache"),
	}
}
