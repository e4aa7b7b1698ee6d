package cache

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatsDerivedValues(t *testing.T) {
	s := Stats{
		HitCount:         6,
		MissCount:        2,
		LoadSuccessCount: 1,
		LoadErrorCount:   1,
		TotalLoadTime:    10 * time.Millisecond,
		EvictionCount:    3,
	}

	assert.Equal(t, int64(8), s.RequestCount())
	assert.InDelta(t, 0.75, s.HitRate(), 1e-9)
	assert.InDelta(t, 0.25, s.MissRate(), 1e-9)
	assert.Equal(t, int64(2), s.LoadCount())
	assert.InDelta(t, 0.5, s.LoadErrorRate(), 1e-9)
	assert.Equal(t, 5*time.Millisecond, s.AverageLoadPenalty())
}

func TestStatsZeroValueRates(t *testing.T) {
	var s Stats
	assert.Equal(t, 1.0, s.HitRate(), "an idle cache counts as fully hitting")
	assert.Equal(t, 0.0, s.MissRate())
	assert.Equal(t, 0.0, s.LoadErrorRate())
	assert.Equal(t, time.Duration(0), s.AverageLoadPenalty())
}

func TestStatsMinusClampsAtZero(t *testing.T) {
	a := Stats{HitCount: 1, MissCount: 5}
	b := Stats{HitCount: 4, MissCount: 2, EvictionCount: 7}

	diff := a.Minus(b)
	assert.Equal(t, int64(0), diff.HitCount, "negative components clamp to zero")
	assert.Equal(t, int64(3), diff.MissCount)
	assert.Equal(t, int64(0), diff.EvictionCount)
}

func TestStatsMinusSelfIsZero(t *testing.T) {
	s := Stats{
		HitCount:         11,
		MissCount:        7,
		LoadSuccessCount: 5,
		LoadErrorCount:   2,
		TotalLoadTime:    3 * time.Second,
		EvictionCount:    1,
	}
	assert.Equal(t, Stats{}, s.Minus(s))
}

func TestStatsPlusSaturates(t *testing.T) {
	a := Stats{HitCount: math.MaxInt64 - 1}
	b := Stats{HitCount: 10}

	sum := a.Plus(b)
	assert.Equal(t, int64(math.MaxInt64), sum.HitCount, "overflow clamps instead of wrapping")

	// RequestCount saturates as well.
	full := Stats{HitCount: math.MaxInt64, MissCount: math.MaxInt64}
	assert.Equal(t, int64(math.MaxInt64), full.RequestCount())
}
