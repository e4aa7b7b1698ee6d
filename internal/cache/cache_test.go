package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrLoadBasics(t *testing.T) {
	c := New[string](8)

	loads := 0
	loader := func() (string, error) {
		loads++
		return "value", nil
	}

	v, err := c.GetOrLoad("k", loader)
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	v, err = c.GetOrLoad("k", loader)
	require.NoError(t, err)
	assert.Equal(t, "value", v)
	assert.Equal(t, 1, loads, "second lookup must be served from the cache")

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.HitCount)
	assert.Equal(t, int64(1), stats.MissCount)
	assert.Equal(t, int64(1), stats.LoadSuccessCount)
	assert.Equal(t, int64(0), stats.LoadErrorCount)
	assert.Equal(t, stats.HitCount+stats.MissCount, stats.RequestCount())
	assert.Greater(t, int64(stats.TotalLoadTime), int64(-1))
}

func TestSingleLoadUnderConcurrency(t *testing.T) {
	c := New[int](8)

	var loads atomic.Int32
	release := make(chan struct{})

	const callers = 16
	var wg sync.WaitGroup
	results := make([]int, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.GetOrLoad("shared", func() (int, error) {
				loads.Add(1)
				<-release
				return 42, nil
			})
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	// Give every caller time to join the in-flight load.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), loads.Load(), "concurrent misses share one load")
	for _, v := range results {
		assert.Equal(t, 42, v, "all callers observe the same outcome")
	}

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.LoadSuccessCount)
	assert.Equal(t, stats.HitCount+stats.MissCount, stats.RequestCount())
}

func TestFailedLoadDoesNotPoison(t *testing.T) {
	c := New[string](8)
	boom := errors.New("backend unavailable")

	_, err := c.GetOrLoad("k", func() (string, error) { return "", boom })
	require.ErrorIs(t, err, boom)

	_, ok := c.GetIfPresent("k")
	assert.False(t, ok, "a failed load is not stored")

	v, err := c.GetOrLoad("k", func() (string, error) { return "recovered", nil })
	require.NoError(t, err)
	assert.Equal(t, "recovered", v)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.LoadErrorCount)
	assert.Equal(t, int64(1), stats.LoadSuccessCount)
}

func TestEvictionCounting(t *testing.T) {
	c := New[int](2)

	for i, key := range []string{"a", "b", "c"} {
		_, err := c.GetOrLoad(key, func() (int, error) { return i, nil })
		require.NoError(t, err)
	}

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, int64(1), c.Stats().EvictionCount)
}

func TestInvalidateLeavesStatsAlone(t *testing.T) {
	c := New[int](8)
	_, err := c.GetOrLoad("k", func() (int, error) { return 1, nil })
	require.NoError(t, err)

	before := c.Stats()
	c.Invalidate("k")
	c.InvalidateAll()

	assert.Equal(t, Stats{}, c.Stats().Minus(before), "manual invalidation moves no counter")
	_, ok := c.GetIfPresent("k")
	assert.False(t, ok)
}

func TestGetIfPresentCountsHitsAndMisses(t *testing.T) {
	c := New[int](8)

	_, ok := c.GetIfPresent("missing")
	assert.False(t, ok)

	_, err := c.GetOrLoad("k", func() (int, error) { return 7, nil })
	require.NoError(t, err)

	v, ok := c.GetIfPresent("k")
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.HitCount)
	assert.Equal(t, int64(2), stats.MissCount)
	assert.Equal(t, int64(1), stats.LoadCount(), "GetIfPresent never loads")
}
