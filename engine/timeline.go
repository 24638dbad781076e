package engine

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/mo"
)

// Boundary is the [Start, End) span of one segment on the global timeline.
type Boundary struct {
	Start float64
	End   float64
}

// Duration of the span.
func (b Boundary) Duration() float64 {
	return b.End - b.Start
}

// Timeline holds cumulative segment boundaries.
type Timeline struct {
	Boundaries []Boundary
	Total      float64
}

// Compute derives boundaries from per-segment durations.
// It reports false unless every duration is a known, finite, non-negative number.
func Compute(durations []mo.Option[float64]) (Timeline, bool) {
	if len(durations) == 0 {
		return Timeline{}, false
	}

	boundaries := make([]Boundary, len(durations))
	var start float64
	for i, d := range durations {
		value, ok := d.Get()
		if !ok || !validDuration(value) {
			return Timeline{}, false
		}
		boundaries[i] = Boundary{Start: start, End: start + value}
		start += value
	}

	return Timeline{Boundaries: boundaries, Total: start}, true
}

func validDuration(d float64) bool {
	return !math.IsNaN(d) && !math.IsInf(d, 0) && d >= 0
}

// Locate finds the segment holding t and the offset into it.
// t is clamped to [0, Total]. At Total the last segment is returned.
func (t Timeline) Locate(at float64) (index int, offset float64) {
	n := len(t.Boundaries)
	if n == 0 {
		return 0, 0
	}

	at = math.Max(0, math.Min(at, t.Total))
	index = sort.Search(n, func(i int) bool { return at < t.Boundaries[i].End })
	if index == n {
		index = n - 1
	}

	return index, at - t.Boundaries[index].Start
}

// Start returns the global start of a segment.
func (t Timeline) Start(index int) float64 {
	if index < 0 || index >= len(t.Boundaries) {
		return 0
	}
	return t.Boundaries[index].Start
}

// fingerprint identifies a set of durations so recomputation happens once per distinct set.
func fingerprint(durations []mo.Option[float64]) string {
	parts := make([]string, len(durations))
	for i, d := range durations {
		if value, ok := d.Get(); ok {
			parts[i] = strconv.FormatFloat(value, 'g', -1, 64)
		} else {
			parts[i] = "?"
		}
	}
	return strings.Join(parts, ",")
}
