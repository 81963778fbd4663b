package cache

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a cache at construction time.
type Option[K comparable, V any] func(*cacheOptions[K, V])

type cacheOptions[K comparable, V any] struct {
	registerer    prometheus.Registerer
	name          string
	capacity      int
	ttl           time.Duration
	sweepInterval time.Duration
	evictCallback EvictCallback[K, V]
}

// WithMetrics exports the cache's statistics as Prometheus metrics labelled
// with name. A nil registerer or empty name disables export.
func WithMetrics[K comparable, V any](registerer prometheus.Registerer, name string) Option[K, V] {
	return func(opts *cacheOptions[K, V]) {
		if registerer != nil && name != "" {
			opts.registerer = registerer
			opts.name = name
		}
	}
}

// WithCapacity bounds the cache to at most capacity entries, evicting the
// least recently used entry on overflow. Non-positive values are ignored.
func WithCapacity[K comparable, V any](capacity int) Option[K, V] {
	return func(opts *cacheOptions[K, V]) {
		if capacity > 0 {
			opts.capacity = capacity
		}
	}
}

// WithTTL expires entries ttl after they were stored. Non-positive values
// are ignored.
func WithTTL[K comparable, V any](ttl time.Duration) Option[K, V] {
	return func(opts *cacheOptions[K, V]) {
		if ttl > 0 {
			opts.ttl = ttl
		}
	}
}

// WithSweepInterval sets how often expired entries are swept out.
// Only relevant together with WithTTL.
func WithSweepInterval[K comparable, V any](interval time.Duration) Option[K, V] {
	return func(opts *cacheOptions[K, V]) {
		if interval > 0 {
			opts.sweepInterval = interval
		}
	}
}

// WithEvictionCallback registers a callback observing removed entries.
func WithEvictionCallback[K comparable, V any](callback EvictCallback[K, V]) Option[K, V] {
	return func(opts *cacheOptions[K, V]) {
		opts.evictCallback = callback
	}
}

func applyOptions[K comparable, V any](options ...Option[K, V]) *cacheOptions[K, V] {
	opts := &cacheOptions[K, V]{
		sweepInterval: 30 * time.Second,
	}
	for _, opt := range options {
		if opt != nil {
			opt(opts)
		}
	}
	return opts
}
