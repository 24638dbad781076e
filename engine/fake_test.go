package engine

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/quarrel-cli/quarrel/media"
	"github.com/quarrel-cli/quarrel/scene"
	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
)

// fakeResource records every call and lets tests fire notifications by hand.
type fakeResource struct {
	kind   media.Kind
	source string

	observers media.Observers

	ready    bool
	duration mo.Option[float64]
	position float64
	muted    bool
	loop     bool
	released bool
	playErrs []error
	calls    []string
}

func (f *fakeResource) Kind() media.Kind { return f.kind }
func (f *fakeResource) Source() string   { return f.source }

func (f *fakeResource) Load(context.Context) error {
	f.calls = append(f.calls, "load")
	f.ready = false
	f.position = 0
	return nil
}

func (f *fakeResource) Ready() bool                        { return f.ready }
func (f *fakeResource) Duration() mo.Option[float64]       { return f.duration }
func (f *fakeResource) Observe(fn func(media.Event)) func() { return f.observers.Add(fn) }
func (f *fakeResource) Position() float64                  { return f.position }

func (f *fakeResource) Play(context.Context) error {
	f.calls = append(f.calls, "play")
	if len(f.playErrs) > 0 {
		err := f.playErrs[0]
		f.playErrs = f.playErrs[1:]
		return err
	}
	return nil
}

func (f *fakeResource) Pause() error {
	f.calls = append(f.calls, "pause")
	return nil
}

func (f *fakeResource) Seek(seconds float64) error {
	f.calls = append(f.calls, fmt.Sprintf("seek:%g", seconds))
	f.position = seconds
	return nil
}

func (f *fakeResource) SetMuted(muted bool) error {
	f.calls = append(f.calls, fmt.Sprintf("mute:%t", muted))
	f.muted = muted
	return nil
}

func (f *fakeResource) SetLoop(loop bool) error {
	f.calls = append(f.calls, fmt.Sprintf("loop:%t", loop))
	f.loop = loop
	return nil
}

func (f *fakeResource) Release() error {
	f.calls = append(f.calls, "release")
	f.released = true
	return nil
}

func (f *fakeResource) fire(e media.Event) {
	switch e.Type {
	case media.EventReady:
		f.ready = true
	case media.EventDuration:
		f.duration = mo.Some(e.Duration)
	}
	f.observers.Emit(e)
}

func (f *fakeResource) count(call string) int {
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

// fakeOpener hands out fake resources and remembers them by source.
type fakeOpener struct {
	opened  []*fakeResource
	latest  map[string]*fakeResource
	openErr map[string]error
	// playErrs seeds the Play results of the next audio resource opened for a source.
	playErrs map[string][]error
}

func newFakeOpener() *fakeOpener {
	return &fakeOpener{
		latest:   make(map[string]*fakeResource),
		openErr:  make(map[string]error),
		playErrs: make(map[string][]error),
	}
}

func (o *fakeOpener) Open(kind media.Kind, source string) (media.Resource, error) {
	if err, ok := o.openErr[source]; ok {
		return nil, err
	}
	r := &fakeResource{kind: kind, source: source, playErrs: o.playErrs[source]}
	o.opened = append(o.opened, r)
	o.latest[source] = r
	return r, nil
}

// fakeRecorder counts engine outcomes.
type fakeRecorder struct {
	advanced  []string
	skipped   []string
	retried   int
	exhausted int
	blocked   int
	loaded    int
}

func (r *fakeRecorder) SegmentLoaded(string, time.Duration) { r.loaded++ }
func (r *fakeRecorder) SegmentAdvanced(s string)             { r.advanced = append(r.advanced, s) }
func (r *fakeRecorder) SegmentSkipped(s string)              { r.skipped = append(r.skipped, s) }
func (r *fakeRecorder) PlayRetried(string)                   { r.retried++ }
func (r *fakeRecorder) RetriesExhausted(string)              { r.exhausted++ }
func (r *fakeRecorder) AutoplayBlocked(string)               { r.blocked++ }

// harness drives an engine synchronously: spawned work runs inline and posted messages
// are queued until drain applies them in order.
type harness struct {
	e        *Engine
	opener   *fakeOpener
	rec      *fakeRecorder
	gate     *Gate
	queue    []any
	jobs     []func()
	deferred bool
	states   []State
}

func testSegments() []scene.Segment {
	segments := make([]scene.Segment, scene.Count)
	for i, name := range scene.Names {
		segments[i] = scene.Segment{
			Name:    name,
			Video:   fmt.Sprintf("v%d.mp4", i),
			Audio:   fmt.Sprintf("a%d.mp3", i),
			Caption: fmt.Sprintf("line %s", name),
		}
	}
	return segments
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newHarness(configure ...func(*Options)) *harness {
	h := &harness{opener: newFakeOpener(), rec: &fakeRecorder{}, gate: &Gate{}}

	opts := Options{
		Segments: testSegments(),
		Opener:   h.opener,
		Gate:     h.gate,
		Recorder: h.rec,
		Logger:   quietLogger(),
		OnChange: func(s Snapshot) {
			if len(h.states) == 0 || h.states[len(h.states)-1] != s.State {
				h.states = append(h.states, s.State)
			}
		},
	}
	for _, c := range configure {
		c(&opts)
	}

	e, err := New(opts)
	if err != nil {
		panic(err)
	}

	e.spawn = func(f func()) {
		if h.deferred {
			h.jobs = append(h.jobs, f)
			return
		}
		f()
	}
	e.post = func(m any) { h.queue = append(h.queue, m) }
	h.e = e
	return h
}

func (h *harness) drain() {
	for len(h.queue) > 0 {
		m := h.queue[0]
		h.queue = h.queue[1:]
		h.e.handle(m)
	}
}

// run applies a command the way the loop would and returns its reply, if one was produced.
func (h *harness) run(kind commandKind, arg float64) error {
	c := command{kind: kind, arg: arg, reply: make(chan error, 1)}
	h.e.handle(c)
	h.drain()
	select {
	case err := <-c.reply:
		return err
	default:
		return nil
	}
}

func (h *harness) boot() { _ = h.run(cmdBoot, 0) }

func (h *harness) runJobs() {
	jobs := h.jobs
	h.jobs = nil
	for _, job := range jobs {
		job()
	}
	h.drain()
}

func (h *harness) video(i int) *fakeResource { return h.opener.latest[fmt.Sprintf("v%d.mp4", i)] }
func (h *harness) audio(i int) *fakeResource { return h.opener.latest[fmt.Sprintf("a%d.mp3", i)] }

// ready reports both resources of segment i as buffered, with the given audio duration.
func (h *harness) ready(i int, duration float64) {
	h.audio(i).fire(media.Event{Type: media.EventDuration, Duration: duration})
	h.video(i).fire(media.Event{Type: media.EventReady})
	h.audio(i).fire(media.Event{Type: media.EventReady})
	h.drain()
}

func (h *harness) end(i int) {
	h.audio(i).fire(media.Event{Type: media.EventEnded})
	h.drain()
}

func (h *harness) probe(durations ...float64) {
	for i, d := range durations {
		h.e.handle(probeResult{index: i, duration: d})
	}
}

func (h *harness) snap() Snapshot {
	return h.e.Snapshot()
}
