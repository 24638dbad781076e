package player

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/quarrel-cli/quarrel/media"
	"github.com/samber/mo"
)

// SimOptions describe a simulated resource.
type SimOptions struct {
	// Duration of the simulated media in seconds.
	Duration float64
	// LoadDelay is how long buffering takes.
	LoadDelay time.Duration
	// FailLoad makes every load end in an error event.
	FailLoad bool
	// Reject, when set, is consulted on every Play. A non-nil result refuses playback.
	Reject func(kind media.Kind) error
}

// Sim is a media.Resource that plays on the wall clock without decoding anything.
type Sim struct {
	kind   media.Kind
	source string
	opts   SimOptions

	observers media.Observers

	mu        sync.Mutex
	load      int
	ready     bool
	duration  mo.Option[float64]
	playing   bool
	startedAt time.Time
	base      float64
	loop      bool
	muted     bool
	released  bool
	timer     *time.Timer
	armed     int
}

// NewSim creates a simulated resource.
func NewSim(kind media.Kind, source string, opts SimOptions) *Sim {
	return &Sim{kind: kind, source: source, opts: opts}
}

func (s *Sim) Kind() media.Kind { return s.kind }
func (s *Sim) Source() string   { return s.source }

func (s *Sim) Load(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return media.ErrReleased
	}

	s.stopTimer()
	s.load++
	s.ready = false
	s.playing = false
	s.base = 0

	load := s.load
	time.AfterFunc(s.opts.LoadDelay, func() { s.finishLoad(load) })
	return nil
}

func (s *Sim) finishLoad(load int) {
	s.mu.Lock()
	if s.released || load != s.load {
		s.mu.Unlock()
		return
	}

	if s.opts.FailLoad {
		s.mu.Unlock()
		s.observers.Emit(media.Event{Type: media.EventError, Err: fmt.Errorf("simulated load failure: %s", s.source)})
		return
	}

	s.ready = true
	s.duration = mo.Some(s.opts.Duration)
	s.mu.Unlock()

	s.observers.Emit(media.Event{Type: media.EventDuration, Duration: s.opts.Duration})
	s.observers.Emit(media.Event{Type: media.EventReady})
}

func (s *Sim) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

func (s *Sim) Duration() mo.Option[float64] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.duration
}

func (s *Sim) Observe(fn func(media.Event)) (cancel func()) {
	return s.observers.Add(fn)
}

func (s *Sim) Play(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return media.ErrReleased
	}
	if s.opts.Reject != nil {
		if err := s.opts.Reject(s.kind); err != nil {
			return err
		}
	}
	if s.playing {
		return nil
	}

	if s.base >= s.opts.Duration && !s.loop {
		s.base = 0
	}
	s.playing = true
	s.startedAt = time.Now()
	s.schedule()
	return nil
}

func (s *Sim) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return media.ErrReleased
	}
	s.base = s.positionLocked()
	s.playing = false
	s.stopTimer()
	return nil
}

func (s *Sim) Seek(seconds float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return media.ErrReleased
	}
	s.base = math.Max(0, math.Min(seconds, s.opts.Duration))
	s.startedAt = time.Now()
	if s.playing {
		s.schedule()
	}
	return nil
}

func (s *Sim) Position() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.positionLocked()
}

func (s *Sim) positionLocked() float64 {
	if !s.playing {
		return s.base
	}

	pos := s.base + time.Since(s.startedAt).Seconds()
	if s.loop && s.opts.Duration > 0 {
		return math.Mod(pos, s.opts.Duration)
	}
	return math.Min(pos, s.opts.Duration)
}

func (s *Sim) SetMuted(muted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return media.ErrReleased
	}
	s.muted = muted
	return nil
}

// Muted reports the last mute state set.
func (s *Sim) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

func (s *Sim) SetLoop(loop bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return media.ErrReleased
	}
	s.loop = loop
	if s.playing {
		s.schedule()
	}
	return nil
}

func (s *Sim) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.released = true
	s.playing = false
	s.stopTimer()
	s.observers.Clear()
	return nil
}

// schedule arms the end-of-media timer. Looping media never ends.
func (s *Sim) schedule() {
	s.stopTimer()
	if s.loop {
		return
	}

	remaining := s.opts.Duration - s.positionLocked()
	if remaining < 0 {
		remaining = 0
	}

	s.armed++
	armed := s.armed
	s.timer = time.AfterFunc(time.Duration(remaining*float64(time.Second)), func() { s.end(armed) })
}

func (s *Sim) end(armed int) {
	s.mu.Lock()
	if s.released || armed != s.armed || !s.playing || s.loop {
		s.mu.Unlock()
		return
	}
	s.playing = false
	s.base = s.opts.Duration
	s.timer = nil
	s.mu.Unlock()

	s.observers.Emit(media.Event{Type: media.EventEnded})
}

func (s *Sim) stopTimer() {
	s.armed++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
