package cache

import (
	"time"

	"stockitect/pkg/config"
)

// TTLConfig holds the expiration windows per cache category.
// Entries older than their window are treated as absent on read; nothing
// purges them proactively.
type TTLConfig struct {
	// Default applies to entries without a more specific window.
	Default time.Duration

	// Stocks applies to cached listing pages.
	Stocks time.Duration

	// Search applies to cached search results.
	Search time.Duration
}

// DefaultTTLConfig returns the standard expiration windows.
func DefaultTTLConfig() TTLConfig {
	return TTLConfig{
		Default: 30 * time.Minute,
		Stocks:  1 * time.Hour,
		Search:  15 * time.Minute,
	}
}

// LoadTTLConfig reads expiration windows from the environment with
// fallback to the defaults.
//
// Environment variables:
//   - CACHE_TTL_DEFAULT: default window (default: 30m)
//   - CACHE_TTL_STOCKS: listing window (default: 1h)
//   - CACHE_TTL_SEARCH: search window (default: 15m)
func LoadTTLConfig() TTLConfig {
	defaults := DefaultTTLConfig()
	return TTLConfig{
		Default: config.GetEnvDuration("CACHE_TTL_DEFAULT", defaults.Default),
		Stocks:  config.GetEnvDuration("CACHE_TTL_STOCKS", defaults.Stocks),
		Search:  config.GetEnvDuration("CACHE_TTL_SEARCH", defaults.Search),
	}
}
