package engine

import (
	"fmt"

	"github.com/quarrel-cli/quarrel/scene"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// durationSource ranks where a duration came from. Higher wins.
type durationSource int

const (
	unmeasured durationSource = iota
	probed
	measured
)

type slot struct {
	segment  scene.Segment
	duration mo.Option[float64]
	source   durationSource
	failed   bool
}

// Registry is the fixed, ordered list of segments and what is known about their durations.
type Registry struct {
	slots []*slot
}

// NewRegistry validates the segment list. Exactly four segments are required.
func NewRegistry(segments []scene.Segment) (*Registry, error) {
	if len(segments) != scene.Count {
		return nil, fmt.Errorf("%w: got %d", scene.ErrSegmentCount, len(segments))
	}

	return &Registry{
		slots: lo.Map(segments, func(s scene.Segment, _ int) *slot {
			return &slot{segment: s}
		}),
	}, nil
}

// Len returns the number of segments.
func (r *Registry) Len() int {
	return len(r.slots)
}

// Segment returns the i-th segment.
func (r *Registry) Segment(i int) scene.Segment {
	return r.slots[i].segment
}

// Segments returns every segment in order.
func (r *Registry) Segments() []scene.Segment {
	return lo.Map(r.slots, func(s *slot, _ int) scene.Segment { return s.segment })
}

// Durations returns the per-segment durations in order.
func (r *Registry) Durations() []mo.Option[float64] {
	return lo.Map(r.slots, func(s *slot, _ int) mo.Option[float64] { return s.duration })
}

// Failed reports whether the segment has been skipped after an error.
func (r *Registry) Failed(i int) bool {
	return r.slots[i].failed
}

// Probe records a duration read from metadata. It never overrides a measured one.
func (r *Registry) Probe(i int, d float64) bool {
	return r.set(i, d, probed)
}

// Measure records the duration reported by the segment's own audio resource.
func (r *Registry) Measure(i int, d float64) bool {
	return r.set(i, d, measured)
}

func (r *Registry) set(i int, d float64, source durationSource) bool {
	s := r.slots[i]
	if !validDuration(d) || source < s.source {
		return false
	}

	changed := s.duration.OrElse(-1) != d
	s.duration = mo.Some(d)
	s.source = source
	return changed
}

// Fail marks a segment as skipped. A segment that never reported a duration counts as zero long.
func (r *Registry) Fail(i int) bool {
	s := r.slots[i]
	s.failed = true
	if s.duration.IsPresent() {
		return false
	}
	s.duration = mo.Some(0.0)
	s.source = measured
	return true
}
