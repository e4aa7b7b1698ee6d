package cache

import (
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultCapacity bounds a cache when the caller does not choose one.
const DefaultCapacity = 4096

// Cache is an in-memory memoizing container with bounded capacity and
// statistics. A missing key is loaded at most once at a time: concurrent
// callers for the same key block on the single in-flight load and all
// observe its outcome. A failed load is re-surfaced to every waiter but
// never stored, so the next lookup triggers a fresh attempt.
type Cache[V any] struct {
	entries *lru.Cache[string, V]
	group   singleflight.Group

	hits          atomic.Int64
	misses        atomic.Int64
	loadSuccesses atomic.Int64
	loadErrors    atomic.Int64
	loadTime      atomic.Int64 // nanoseconds
	evictions     atomic.Int64
}

// New creates a cache holding at most capacity entries, evicting the
// least recently used entry on overflow. A non-positive capacity falls
// back to DefaultCapacity.
func New[V any](capacity int) *Cache[V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	entries, err := lru.New[string, V](capacity)
	if err != nil {
		// lru.New only fails on a non-positive size, excluded above.
		panic(err)
	}
	return &Cache[V]{entries: entries}
}

// GetOrLoad returns the cached value for key, loading it with loader on a
// miss. Concurrent callers missing on the same key share one load; each
// of them counts a miss, while the load itself counts exactly one success
// or error plus its duration.
func (c *Cache[V]) GetOrLoad(key string, loader func() (V, error)) (V, error) {
	if v, ok := c.entries.Get(key); ok {
		satInc(&c.hits, 1)
		return v, nil
	}
	satInc(&c.misses, 1)

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		start := time.Now()
		value, err := loader()
		satInc(&c.loadTime, int64(time.Since(start)))
		if err != nil {
			satInc(&c.loadErrors, 1)
			return nil, err
		}
		satInc(&c.loadSuccesses, 1)
		if evicted := c.entries.Add(key, value); evicted {
			satInc(&c.evictions, 1)
		}
		return value, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

// GetIfPresent returns the cached value without loading. It counts a hit
// or a miss but never a load.
func (c *Cache[V]) GetIfPresent(key string) (V, bool) {
	v, ok := c.entries.Get(key)
	if ok {
		satInc(&c.hits, 1)
	} else {
		satInc(&c.misses, 1)
	}
	return v, ok
}

// Invalidate removes the entry for key, if any. Manual invalidation does
// not move any statistic.
func (c *Cache[V]) Invalidate(key string) {
	c.entries.Remove(key)
}

// InvalidateAll drops every entry without touching statistics.
func (c *Cache[V]) InvalidateAll() {
	c.entries.Purge()
}

// Len returns the current number of live entries.
func (c *Cache[V]) Len() int {
	return c.entries.Len()
}

// Stats returns an immutable snapshot of the counters.
func (c *Cache[V]) Stats() Stats {
	return Stats{
		HitCount:         c.hits.Load(),
		MissCount:        c.misses.Load(),
		LoadSuccessCount: c.loadSuccesses.Load(),
		LoadErrorCount:   c.loadErrors.Load(),
		TotalLoadTime:    time.Duration(c.loadTime.Load()),
		EvictionCount:    c.evictions.Load(),
	}
}

// satInc adds delta to the counter with saturation, so a long-running
// process degrades to a clamped value instead of wrapping negative.
func satInc(counter *atomic.Int64, delta int64) {
	for {
		cur := counter.Load()
		next := saturatedAdd(cur, delta)
		if counter.CompareAndSwap(cur, next) {
			return
		}
	}
}
