package engine

import (
	"github.com/quarrel-cli/quarrel/scene"
	"github.com/samber/mo"
)

// Snapshot is the engine's playback state at one instant.
type Snapshot struct {
	State   State
	Index   int
	Segment scene.Segment

	// GlobalTime is the position across the whole scene. Total is zero until the timeline is known.
	GlobalTime    float64
	Total         float64
	TimelineKnown bool
	Boundaries    []Boundary
	// Offset is the position inside the current segment.
	Offset  float64
	Percent float64
	Caption string

	IsPlaying bool
	IsMuted   bool
	IsLoading bool

	// NeedsInteraction is set while playback waits for a viewer gesture.
	NeedsInteraction bool
	// Err is set when retries were exhausted. Retry clears it.
	Err error

	Durations []mo.Option[float64]
	Failed    []bool
}

// Segments is the number of segments in the scene.
func (s Snapshot) Segments() int {
	return len(s.Durations)
}

func (e *Engine) snapshot() Snapshot {
	segments := e.registry.Segments()

	snap := Snapshot{
		State:            e.state,
		Index:            e.index,
		Segment:          segments[e.index],
		GlobalTime:       e.globalTime,
		Offset:           e.offset,
		Caption:          segments[e.index].Caption,
		IsPlaying:        e.state == Playing,
		IsMuted:          e.muted,
		IsLoading:        e.state == Loading || e.state == Seeking,
		NeedsInteraction: e.needsInteraction,
		Err:              e.err,
		Durations:        e.registry.Durations(),
		Failed:           make([]bool, e.registry.Len()),
	}

	for i := range snap.Failed {
		snap.Failed[i] = e.registry.Failed(i)
	}

	if tl, ok := e.timeline.Get(); ok {
		snap.TimelineKnown = true
		snap.Total = tl.Total
		snap.Boundaries = append([]Boundary(nil), tl.Boundaries...)
		snap.Percent = Project(e.globalTime, tl, segments).Percent
	}

	return snap
}

// publish stores a fresh snapshot and notifies the callbacks.
func (e *Engine) publish() {
	snap := e.snapshot()

	e.snapMu.Lock()
	e.snap = snap
	e.snapMu.Unlock()

	if e.opts.OnChange != nil {
		e.opts.OnChange(snap)
	}

	if snap.IsPlaying != e.playing {
		e.playing = snap.IsPlaying
		if e.opts.OnPlayingChange != nil {
			e.opts.OnPlayingChange(snap.IsPlaying)
		}
	}
}
