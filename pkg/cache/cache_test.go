package cache

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, opts ...Option[string, int]) Cache[string, int] {
	t.Helper()
	c, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSetAndGet(t *testing.T) {
	c := newTestCache(t)

	created := c.Set("a", 1)
	assert.True(t, created)
	created = c.Set("a", 2)
	assert.False(t, created, "overwrite is not a new entry")

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestGetOrCompute(t *testing.T) {
	c := newTestCache(t)

	calls := 0
	compute := func() (int, error) { calls++; return 42, nil }

	got, err := c.GetOrCompute("a", compute)
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	got, err = c.GetOrCompute("a", compute)
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 1, calls, "second lookup served from cache")

	_, err = c.GetOrCompute("b", func() (int, error) { return 0, assert.AnError })
	assert.Error(t, err)
	_, ok := c.Get("b")
	assert.False(t, ok, "failed compute stores nothing")

	got, err = c.GetOrCompute("b", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, got, "failure does not poison the key")
}

func TestGetOrComputeSingleFlight(t *testing.T) {
	c, err := New[string, *int]()
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	var computes atomic.Int32
	release := make(chan struct{})
	compute := func() (*int, error) {
		computes.Add(1)
		<-release
		v := 42
		return &v, nil
	}

	const callers = 8
	results := make(chan *int, callers)
	var started sync.WaitGroup
	started.Add(callers)
	for range callers {
		go func() {
			started.Done()
			got, err := c.GetOrCompute("a", compute)
			assert.NoError(t, err)
			results <- got
		}()
	}
	started.Wait()
	close(release)

	first := <-results
	require.NotNil(t, first)
	for i := 1; i < callers; i++ {
		assert.Same(t, first, <-results)
	}
	assert.Equal(t, int32(1), computes.Load(), "exactly one compute for concurrent callers")
	assert.Equal(t, 1, c.Len())
}

func TestGetOrComputeConcurrentFailure(t *testing.T) {
	c := newTestCache(t)

	release := make(chan struct{})
	fail := func() (int, error) {
		<-release
		return 0, assert.AnError
	}

	const callers = 4
	errs := make(chan error, callers)
	var started sync.WaitGroup
	started.Add(callers)
	for range callers {
		go func() {
			started.Done()
			_, err := c.GetOrCompute("a", fail)
			errs <- err
		}()
	}
	started.Wait()
	close(release)

	for range callers {
		assert.ErrorIs(t, <-errs, assert.AnError)
	}
	assert.Equal(t, 0, c.Len(), "failed compute stores nothing")
}

func TestCapacityEvictsLeastRecentlyUsed(t *testing.T) {
	var evicted []string
	c := newTestCache(t,
		WithCapacity[string, int](2),
		WithEvictionCallback[string, int](func(key string, _ int) {
			evicted = append(evicted, key)
		}))

	c.Set("a", 1)
	c.Set("b", 2)
	_, ok := c.Get("a") // refresh a, b is now oldest
	require.True(t, ok)
	c.Set("c", 3)

	_, ok = c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, []string{"b"}, evicted)
	assert.Equal(t, int64(1), c.Stats().Evictions())
}

func TestTTLExpiry(t *testing.T) {
	c := newTestCache(t, WithTTL[string, int](10*time.Millisecond))

	c.Set("a", 1)
	_, ok := c.Get("a")
	require.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, ok = c.Get("a")
	assert.False(t, ok, "expired entry is gone")
	assert.Equal(t, 0, c.Len())
}

func TestSweeperRemovesExpired(t *testing.T) {
	c := newTestCache(t,
		WithTTL[string, int](5*time.Millisecond),
		WithSweepInterval[string, int](10*time.Millisecond))

	c.Set("a", 1)
	assert.Eventually(t, func() bool { return c.Len() == 0 },
		500*time.Millisecond, 5*time.Millisecond)
	assert.Equal(t, int64(1), c.Stats().Evictions())
}

func TestDeleteAndClear(t *testing.T) {
	c := newTestCache(t)

	c.Set("a", 1)
	c.Set("b", 2)

	assert.True(t, c.Delete("a"))
	assert.False(t, c.Delete("a"))
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Keys())
}

func TestKeys(t *testing.T) {
	c := newTestCache(t)

	c.Set("a", 1)
	c.Set("b", 2)
	assert.ElementsMatch(t, []string{"a", "b"}, c.Keys())
}

func TestStatistics(t *testing.T) {
	c := newTestCache(t)

	c.Set("a", 1)
	c.Get("a")
	c.Get("a")
	c.Get("missing")
	c.Delete("a")

	snap := c.Stats().Snapshot()
	assert.Equal(t, int64(2), snap.Hits)
	assert.Equal(t, int64(1), snap.Misses)
	assert.Equal(t, int64(1), snap.Sets)
	assert.Equal(t, int64(1), snap.Deletes)
	assert.Equal(t, int64(0), snap.Size)
	assert.Equal(t, int64(1), snap.MaxSize)
	assert.InDelta(t, 2.0/3.0, snap.HitRate, 1e-9)
}

func TestPrometheusMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	c := newTestCache(t, WithMetrics[string, int](registry, "taxonomy"))

	c.Set("a", 1)
	c.Get("a")
	c.Get("missing")

	mc := c.(*memoryCache[string, int])
	assert.Equal(t, 1.0, promtestutil.ToFloat64(mc.metrics.hits))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(mc.metrics.misses))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(mc.metrics.sets))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(mc.metrics.size))
}

func TestDuplicateMetricsRegistrationFails(t *testing.T) {
	registry := prometheus.NewRegistry()
	_ = newTestCache(t, WithMetrics[string, int](registry, "taxonomy"))

	_, err := New(WithMetrics[string, int](registry, "taxonomy"))
	assert.Error(t, err)
}

func TestCloseIsIdempotent(t *testing.T) {
	c, err := New(WithTTL[string, int](time.Second))
	require.NoError(t, err)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}
