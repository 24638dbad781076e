package engine

import (
	"math"

	"github.com/quarrel-cli/quarrel/scene"
)

// Projection is what a host shows for a point on the timeline.
type Projection struct {
	Index   int
	Segment scene.Name
	Offset  float64
	Percent float64
	Caption string
}

// Project maps a global time onto the timeline. It has no side effects.
func Project(globalTime float64, timeline Timeline, segments []scene.Segment) Projection {
	index, offset := timeline.Locate(globalTime)

	var p Projection
	p.Index = index
	p.Offset = offset
	if index < len(segments) {
		p.Segment = segments[index].Name
		p.Caption = segments[index].Caption
	}

	if timeline.Total > 0 {
		p.Percent = math.Max(0, math.Min(100, 100*globalTime/timeline.Total))
	}

	return p
}
