package cache

import (
	"sync"
	"time"
)

// memoryCache is the single in-memory implementation behind New. Capacity
// and TTL are both optional; with neither set it degenerates to a plain
// locked map.
type memoryCache[K comparable, V any] struct {
	mu       sync.Mutex
	entries  map[K]entry[V]
	flights  map[K]*flight[V]
	order    *usageList[K] // nil unless capacity-bounded
	capacity int
	ttl      time.Duration

	stats   *Statistics
	metrics *cacheMetrics
	evictFn EvictCallback[K, V]

	sweepStop chan struct{}
	sweepDone chan struct{}
	closeOnce sync.Once
}

// flight is an in-progress compute for one key. Waiters block on done and
// read value/err afterwards.
type flight[V any] struct {
	done  chan struct{}
	value V
	err   error
}

func (c *memoryCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok && e.expired(time.Now()) {
		c.removeLocked(key, e, true)
		ok = false
	}
	if ok && c.order != nil {
		c.order.touch(key)
	}
	c.mu.Unlock()

	if ok {
		c.stats.Hit()
		if c.metrics != nil {
			c.metrics.hits.Inc()
		}
		return e.value, true
	}
	c.stats.Miss()
	if c.metrics != nil {
		c.metrics.misses.Inc()
	}
	var zero V
	return zero, false
}

func (c *memoryCache[K, V]) Set(key K, value V) bool {
	e := entry[V]{value: value}
	if c.ttl > 0 {
		e.expiresAt = time.Now().Add(c.ttl)
	}

	c.mu.Lock()
	_, existed := c.entries[key]
	c.entries[key] = e
	if c.order != nil {
		c.order.touch(key)
		for len(c.entries) > c.capacity {
			oldKey, ok := c.order.oldest()
			if !ok {
				break
			}
			c.removeLocked(oldKey, c.entries[oldKey], true)
		}
	}
	size := len(c.entries)
	c.mu.Unlock()

	c.stats.Set()
	c.stats.UpdateSize(int64(size))
	if c.metrics != nil {
		c.metrics.sets.Inc()
		c.metrics.size.Set(float64(size))
	}
	return !existed
}

func (c *memoryCache[K, V]) GetOrCompute(key K, compute func() (V, error)) (V, error) {
	for {
		if value, ok := c.Get(key); ok {
			return value, nil
		}

		c.mu.Lock()
		if e, ok := c.entries[key]; ok && !e.expired(time.Now()) {
			// Stored between the miss and taking the lock.
			c.mu.Unlock()
			continue
		}
		if f, ok := c.flights[key]; ok {
			c.mu.Unlock()
			<-f.done
			if f.err != nil {
				var zero V
				return zero, f.err
			}
			return f.value, nil
		}
		f := &flight[V]{done: make(chan struct{})}
		c.flights[key] = f
		c.mu.Unlock()

		f.value, f.err = compute()
		if f.err == nil {
			c.Set(key, f.value)
		}
		c.mu.Lock()
		delete(c.flights, key)
		c.mu.Unlock()
		close(f.done)

		if f.err != nil {
			var zero V
			return zero, f.err
		}
		return f.value, nil
	}
}

func (c *memoryCache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	e, existed := c.entries[key]
	if existed {
		c.removeLocked(key, e, false)
	}
	size := len(c.entries)
	c.mu.Unlock()

	if existed {
		c.stats.Delete()
		c.stats.UpdateSize(int64(size))
		if c.metrics != nil {
			c.metrics.deletes.Inc()
			c.metrics.size.Set(float64(size))
		}
	}
	return existed
}

func (c *memoryCache[K, V]) Clear() {
	c.mu.Lock()
	if c.evictFn != nil {
		for key, e := range c.entries {
			c.evictFn(key, e.value)
		}
	}
	clear(c.entries)
	if c.order != nil {
		c.order.reset()
	}
	c.mu.Unlock()

	c.stats.UpdateSize(0)
	if c.metrics != nil {
		c.metrics.size.Set(0)
	}
}

func (c *memoryCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *memoryCache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]K, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	return keys
}

func (c *memoryCache[K, V]) Stats() *Statistics {
	return c.stats
}

func (c *memoryCache[K, V]) Close() error {
	c.closeOnce.Do(func() {
		if c.sweepStop != nil {
			close(c.sweepStop)
			<-c.sweepDone
		}
	})
	return nil
}

// removeLocked deletes key while holding the lock. Eviction stats and the
// callback fire only for evictions and expiries, not explicit deletes.
func (c *memoryCache[K, V]) removeLocked(key K, e entry[V], evicted bool) {
	delete(c.entries, key)
	if c.order != nil {
		c.order.remove(key)
	}
	if evicted {
		c.stats.Eviction()
		if c.metrics != nil {
			c.metrics.evictions.Inc()
		}
	}
	if c.evictFn != nil {
		c.evictFn(key, e.value)
	}
}

func (c *memoryCache[K, V]) startSweeper(interval time.Duration) {
	c.sweepStop = make(chan struct{})
	c.sweepDone = make(chan struct{})
	go func() {
		defer close(c.sweepDone)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-c.sweepStop:
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

func (c *memoryCache[K, V]) sweep() {
	now := time.Now()
	c.mu.Lock()
	for key, e := range c.entries {
		if e.expired(now) {
			c.removeLocked(key, e, true)
		}
	}
	size := len(c.entries)
	c.mu.Unlock()

	c.stats.UpdateSize(int64(size))
	if c.metrics != nil {
		c.metrics.size.Set(float64(size))
	}
}
