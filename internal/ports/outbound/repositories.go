// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by CacheRepository.Get when the key does not exist
var ErrCacheMiss = errors.New("cache miss")

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Ping(ctx context.Context) error
}

// MatchMetrics records matching pipeline outcomes.
// Implementations must be safe for concurrent use.
type MatchMetrics interface {
	// RecordTier records one provider call made by the fallback controller
	RecordTier(tier string, results int)
	// RecordFallback records the final fallback type of a search ("none" when strict won)
	RecordFallback(fallbackType string)
	// RecordFilterFallback records a safety filter that returned the unfiltered set
	RecordFilterFallback()
	// RecordProviderCall records a provider request and its latency
	RecordProviderCall(operation, status string, duration time.Duration)
	// RecordCache records a cache lookup result ("hit", "miss" or "error")
	RecordCache(result string)
}

// NoopMetrics discards every measurement
type NoopMetrics struct{}

func (NoopMetrics) RecordTier(string, int) {}
func (NoopMetrics) RecordFallback(string) {}
func (NoopMetrics) RecordFilterFallback() {}
func (NoopMetrics) RecordProviderCall(string, string, time.Duration) {}
func (NoopMetrics) RecordCache(string) {}
