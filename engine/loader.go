package engine

import (
	"context"
	"time"

	"github.com/quarrel-cli/quarrel/media"
)

// loadState tracks readiness of the segment being prepared.
type loadState struct {
	videoReady bool
	audioReady bool
}

func (l loadState) ready() bool {
	return l.videoReady && l.audioReady
}

// loader owns the resources of the active segment and the observers attached to them.
type loader struct {
	index   int
	gen     uint64
	video   media.Resource
	audio   media.Resource
	state   loadState
	started time.Time
	cancels []func()
}

// resourceEvent is a notification from a resource, tagged with the generation it was observed under.
type resourceEvent struct {
	gen   uint64
	kind  media.Kind
	event media.Event
}

// openSegment opens both resources of a segment. A failure releases whatever was opened.
func openSegment(opener media.Opener, video, audio string) (media.Resource, media.Resource, error) {
	v, err := opener.Open(media.Video, video)
	if err != nil {
		return nil, nil, err
	}

	a, err := opener.Open(media.Audio, audio)
	if err != nil {
		_ = v.Release()
		return nil, nil, err
	}

	return v, a, nil
}

// attach subscribes to both resources. Every notification is posted with the loader's generation
// so the controller can drop those belonging to an abandoned segment.
func (l *loader) attach(post func(any)) {
	for _, r := range []media.Resource{l.video, l.audio} {
		kind := r.Kind()
		l.cancels = append(l.cancels, r.Observe(func(e media.Event) {
			post(resourceEvent{gen: l.gen, kind: kind, event: e})
		}))
	}
}

// request starts loading both resources. Resources that are already ready are reported as such.
func (l *loader) request(ctx context.Context, post func(any)) {
	for _, r := range []media.Resource{l.video, l.audio} {
		if err := r.Load(ctx); err != nil {
			post(resourceEvent{gen: l.gen, kind: r.Kind(), event: media.Event{Type: media.EventError, Err: err}})
			return
		}
		if r.Ready() {
			post(resourceEvent{gen: l.gen, kind: r.Kind(), event: media.Event{Type: media.EventReady}})
		}
	}
}

// mark folds a ready notification in and reports whether this made the segment ready.
func (l *loader) mark(kind media.Kind) bool {
	before := l.state.ready()
	switch kind {
	case media.Video:
		l.state.videoReady = true
	case media.Audio:
		l.state.audioReady = true
	}
	return !before && l.state.ready()
}

// discard detaches observers, pauses and releases both resources.
func (l *loader) discard() {
	for _, cancel := range l.cancels {
		cancel()
	}
	l.cancels = nil

	for _, r := range []media.Resource{l.video, l.audio} {
		_ = r.Pause()
		_ = r.Release()
	}
	l.state = loadState{}
}
