package cache

import (
	"math"
	"time"
)

// Stats is an immutable snapshot of cache performance counters.
//
// Counters move according to the following rules: a lookup that finds an
// existing entry increments HitCount; a lookup that misses increments
// MissCount (once per waiting caller), while the single load it triggers
// increments LoadSuccessCount or LoadErrorCount once and adds its
// wall-clock duration to TotalLoadTime; a capacity eviction increments
// EvictionCount. Manual invalidation moves nothing.
type Stats struct {
	HitCount         int64
	MissCount        int64
	LoadSuccessCount int64
	LoadErrorCount   int64
	TotalLoadTime    time.Duration
	EvictionCount    int64
}

// RequestCount is HitCount + MissCount, saturating.
func (s Stats) RequestCount() int64 {
	return saturatedAdd(s.HitCount, s.MissCount)
}

// HitRate is HitCount / RequestCount, or 1.0 when no requests were made.
func (s Stats) HitRate() float64 {
	requests := s.RequestCount()
	if requests == 0 {
		return 1.0
	}
	return float64(s.HitCount) / float64(requests)
}

// MissRate is MissCount / RequestCount, or 0.0 when no requests were made.
func (s Stats) MissRate() float64 {
	requests := s.RequestCount()
	if requests == 0 {
		return 0.0
	}
	return float64(s.MissCount) / float64(requests)
}

// LoadCount is LoadSuccessCount + LoadErrorCount, saturating.
func (s Stats) LoadCount() int64 {
	return saturatedAdd(s.LoadSuccessCount, s.LoadErrorCount)
}

// LoadErrorRate is LoadErrorCount / LoadCount, or 0.0 when nothing loaded.
func (s Stats) LoadErrorRate() float64 {
	loads := s.LoadCount()
	if loads == 0 {
		return 0.0
	}
	return float64(s.LoadErrorCount) / float64(loads)
}

// AverageLoadPenalty is TotalLoadTime / LoadCount, or zero when nothing
// loaded.
func (s Stats) AverageLoadPenalty() time.Duration {
	loads := s.LoadCount()
	if loads == 0 {
		return 0
	}
	return time.Duration(int64(s.TotalLoadTime) / loads)
}

// Plus returns the field-wise saturating sum of two snapshots.
func (s Stats) Plus(other Stats) Stats {
	return Stats{
		HitCount:         saturatedAdd(s.HitCount, other.HitCount),
		MissCount:        saturatedAdd(s.MissCount, other.MissCount),
		LoadSuccessCount: saturatedAdd(s.LoadSuccessCount, other.LoadSuccessCount),
		LoadErrorCount:   saturatedAdd(s.LoadErrorCount, other.LoadErrorCount),
		TotalLoadTime:    time.Duration(saturatedAdd(int64(s.TotalLoadTime), int64(other.TotalLoadTime))),
		EvictionCount:    saturatedAdd(s.EvictionCount, other.EvictionCount),
	}
}

// Minus returns the field-wise difference of two snapshots, each field
// clamped at zero so concurrent updates or counter resets never produce a
// negative delta.
func (s Stats) Minus(other Stats) Stats {
	return Stats{
		HitCount:         clampedSub(s.HitCount, other.HitCount),
		MissCount:        clampedSub(s.MissCount, other.MissCount),
		LoadSuccessCount: clampedSub(s.LoadSuccessCount, other.LoadSuccessCount),
		LoadErrorCount:   clampedSub(s.LoadErrorCount, other.LoadErrorCount),
		TotalLoadTime:    time.Duration(clampedSub(int64(s.TotalLoadTime), int64(other.TotalLoadTime))),
		EvictionCount:    clampedSub(s.EvictionCount, other.EvictionCount),
	}
}

// saturatedAdd adds two int64 values, clamping at the int64 bounds
// instead of wrapping.
func saturatedAdd(a, b int64) int64 {
	sum := a + b
	// Overflow occurred iff both operands share a sign the sum lost.
	if (a > 0 && b > 0 && sum < 0) || (a < 0 && b < 0 && sum >= 0) {
		if a > 0 {
			return math.MaxInt64
		}
		return math.MinInt64
	}
	return sum
}

// clampedSub subtracts with saturation and clamps the result at zero.
func clampedSub(a, b int64) int64 {
	diff := a - b
	if (a >= 0 && b < 0 && diff < 0) || (a < 0 && b > 0 && diff >= 0) {
		if a >= 0 {
			return math.MaxInt64
		}
		return 0
	}
	if diff < 0 {
		return 0
	}
	return diff
}
