// Package config holds engine-wide tunables that are not part of a
// single request's Options (spec §1.1 AMBIENT STACK: keeping these
// separate from the request-scoped Options struct is deliberate, not
// an oversight).
package config

import "time"

// Config is the analysis engine's process-wide configuration.
type Config struct {
	CacheCapacity int           // max entries held by the result cache
	CacheTTL      time.Duration // per-entry time-to-live
	SentryDSN     string        // not read by this module; the caller sets up the Sentry client
	SentryEnabled bool          // gates the metrics package's Sentry calls
}

// Default returns the engine's default configuration (cache capacity
// 500, TTL 10 minutes, per spec §4.I).
func Default() Config {
	return Config{
		CacheCapacity: 500,
		CacheTTL:      10 * time.Minute,
		SentryEnabled: false,
	}
}
