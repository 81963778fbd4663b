// Package cache provides a generic, thread-safe in-memory cache used to hold
// immutable release artifacts (taxonomies, vocabularies, parsed identifiers).
//
// A cache always collects statistics; Prometheus export is optional and
// enabled via WithMetrics. Capacity-bounded caches evict least recently used
// entries, time-bounded caches expire entries with a background sweeper.
package cache

import (
	"time"

	"github.com/c360/vismodel/errors"
)

// Cache is a thread-safe key-value store. Implementations differ only in
// their eviction behavior.
type Cache[K comparable, V any] interface {
	// Get retrieves the value stored under key.
	Get(key K) (V, bool)

	// Set stores value under key, reporting whether a new entry was created.
	Set(key K, value V) bool

	// GetOrCompute returns the value under key, invoking compute and storing
	// its result on a miss. Concurrent callers for the same key share one
	// compute invocation and all receive its value, or its error.
	GetOrCompute(key K, compute func() (V, error)) (V, error)

	// Delete removes the entry under key, reporting whether it existed.
	Delete(key K) bool

	// Clear removes every entry.
	Clear()

	// Len returns the current number of entries.
	Len() int

	// Keys returns the currently stored keys in no particular order.
	Keys() []K

	// Stats returns the cache's statistics tracker.
	Stats() *Statistics

	// Close releases background resources. The cache must not be used after.
	Close() error
}

// EvictCallback observes entries leaving the cache through eviction,
// expiry, Delete, or Clear.
type EvictCallback[K comparable, V any] func(key K, value V)

// entry is a stored value with its expiry. A zero expiresAt means the entry
// never expires.
type entry[V any] struct {
	value     V
	expiresAt time.Time
}

func (e entry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// New builds a cache from the given options. Without WithCapacity or WithTTL
// the cache grows unbounded and entries never expire.
func New[K comparable, V any](opts ...Option[K, V]) (Cache[K, V], error) {
	cfg := applyOptions(opts...)

	var metrics *cacheMetrics
	if cfg.registerer != nil && cfg.name != "" {
		m, err := newCacheMetrics(cfg.registerer, cfg.name)
		if err != nil {
			return nil, errors.ConfigurationFault("cache %s: metrics registration: %v", cfg.name, err)
		}
		metrics = m
	}

	c := &memoryCache[K, V]{
		entries:  make(map[K]entry[V]),
		flights:  make(map[K]*flight[V]),
		capacity: cfg.capacity,
		ttl:      cfg.ttl,
		stats:    NewStatistics(),
		metrics:  metrics,
		evictFn:  cfg.evictCallback,
	}
	if cfg.capacity > 0 {
		c.order = newUsageList[K]()
	}
	if cfg.ttl > 0 {
		c.startSweeper(cfg.sweepInterval)
	}
	return c, nil
}
