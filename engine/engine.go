// Package engine plays four separately loaded (video, audio) segments as one continuous timeline.
//
// A single loop goroutine owns all playback state. Commands, resource notifications,
// deferred play results and probe results are queued on one inbox and applied in
// arrival order, each completely before the next. The loop is the only code that
// calls into media resources.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/quarrel-cli/quarrel/media"
	"github.com/quarrel-cli/quarrel/scene"
	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
)

// DefaultMaxPlayAttempts bounds consecutive failed play attempts on one segment.
const DefaultMaxPlayAttempts = 3

// Options configure an Engine.
type Options struct {
	Segments []scene.Segment
	Opener   media.Opener
	// Prober, when set, reads every audio duration up front so the timeline is known before playback.
	Prober media.Prober

	// Autoplay asks the engine to start once the first segment is ready. The gate still applies.
	Autoplay bool
	Muted    bool

	MaxPlayAttempts int
	TickInterval    time.Duration

	// Gate defaults to SessionGate.
	Gate     *Gate
	Recorder Recorder
	Logger   logrus.FieldLogger

	// OnChange receives a snapshot after every applied change. It runs on the loop goroutine
	// and must not call back into the engine synchronously.
	OnChange func(Snapshot)
	// OnPlayingChange is called whenever the playing flag flips.
	OnPlayingChange func(playing bool)
}

// Engine is the playback controller.
type Engine struct {
	opts     Options
	registry *Registry
	gate     *Gate
	rec      Recorder
	log      logrus.FieldLogger

	inbox   chan any
	done    chan struct{}
	stopped chan struct{}
	cancel  context.CancelFunc
	ctx     context.Context
	started bool
	startMu sync.Mutex

	// spawn runs deferred work off the loop. post queues a message for the loop.
	spawn func(func())
	post  func(any)

	// Everything below is owned by the loop.
	state            State
	index            int
	gen              uint64
	load             *loader
	resume           bool
	pendingOffset    float64
	attempts         int
	needsInteraction bool
	err              error
	muted            bool
	offset           float64
	globalTime       float64
	timeline         mo.Option[Timeline]
	fingerprint      string
	recomputes       int
	playPending      bool
	backlog          []command
	closed           bool
	playing          bool

	snapMu sync.RWMutex
	snap   Snapshot
}

// New validates the options and builds an idle engine.
func New(opts Options) (*Engine, error) {
	registry, err := NewRegistry(opts.Segments)
	if err != nil {
		return nil, err
	}

	if opts.MaxPlayAttempts <= 0 {
		opts.MaxPlayAttempts = DefaultMaxPlayAttempts
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = 100 * time.Millisecond
	}

	e := &Engine{
		opts:     opts,
		registry: registry,
		gate:     opts.Gate,
		rec:      opts.Recorder,
		log:      opts.Logger,
		inbox:    make(chan any, 64),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
		muted:    opts.Muted,
		ctx:      context.Background(),
	}

	if e.gate == nil {
		e.gate = SessionGate
	}
	if e.rec == nil {
		e.rec = nopRecorder{}
	}
	if e.log == nil {
		e.log = logrus.StandardLogger()
	}

	e.spawn = func(f func()) { go f() }
	e.post = e.send
	e.recomputeTimeline()
	e.publish()

	return e, nil
}

// Start launches the control loop, the position ticker and duration probing,
// then begins loading the first segment.
func (e *Engine) Start(ctx context.Context) error {
	e.startMu.Lock()
	defer e.startMu.Unlock()

	if e.started {
		return nil
	}
	e.started = true

	e.ctx, e.cancel = context.WithCancel(ctx)
	go e.loop()
	go e.ticker()

	if e.opts.Prober != nil {
		e.spawn(e.probeAll)
	}
	e.post(command{kind: cmdBoot})

	return nil
}

func (e *Engine) send(msg any) {
	select {
	case e.inbox <- msg:
	case <-e.done:
	}
}

func (e *Engine) loop() {
	defer close(e.stopped)

	for {
		select {
		case msg := <-e.inbox:
			e.handle(msg)
			if e.closed {
				return
			}
		case <-e.ctx.Done():
			e.shutdown()
			return
		}
	}
}

func (e *Engine) ticker() {
	t := time.NewTicker(e.opts.TickInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			select {
			case e.inbox <- tick{}:
			default:
			}
		case <-e.done:
			return
		}
	}
}

// probeAll reads every audio duration from metadata. Failures leave the duration unknown.
func (e *Engine) probeAll() {
	for i, s := range e.registry.Segments() {
		d, err := e.opts.Prober.Probe(e.ctx, s.Audio)
		if e.ctx.Err() != nil {
			return
		}
		e.post(probeResult{index: i, duration: d, err: err})
	}
}

// do runs a command on the loop and waits for it to be applied.
func (e *Engine) do(kind commandKind, arg float64) error {
	e.startMu.Lock()
	started := e.started
	e.startMu.Unlock()
	if !started {
		return ErrNotStarted
	}

	c := command{kind: kind, arg: arg, reply: make(chan error, 1)}
	select {
	case e.inbox <- c:
	case <-e.done:
		return ErrClosed
	}

	select {
	case err := <-c.reply:
		return err
	case <-e.done:
		return ErrClosed
	}
}

// Play starts or resumes playback. It counts as a viewer gesture.
func (e *Engine) Play() error { return e.do(cmdPlay, 0) }

// Pause pauses playback. It counts as a viewer gesture.
func (e *Engine) Pause() error { return e.do(cmdPause, 0) }

// Toggle flips between playing and paused.
func (e *Engine) Toggle() error { return e.do(cmdToggle, 0) }

// Seek jumps to a global time in seconds. It needs the full timeline.
func (e *Engine) Seek(seconds float64) error { return e.do(cmdSeek, seconds) }

// SeekBy moves relative to the current global time.
func (e *Engine) SeekBy(delta float64) error { return e.do(cmdSeekBy, delta) }

// SkipTo jumps to the start of a segment. It works before the timeline is known.
func (e *Engine) SkipTo(index int) error { return e.do(cmdSkip, float64(index)) }

// Next skips to the following segment, or ends playback on the last one.
func (e *Engine) Next() error { return e.do(cmdNext, 0) }

// Prev skips to the previous segment, or restarts the first one.
func (e *Engine) Prev() error { return e.do(cmdPrev, 0) }

// SetMuted mutes or unmutes every voice line. It is not a viewer gesture.
func (e *Engine) SetMuted(muted bool) error {
	if muted {
		return e.do(cmdMute, 1)
	}
	return e.do(cmdMute, 0)
}

// ToggleMute flips the mute state.
func (e *Engine) ToggleMute() error { return e.do(cmdToggleMute, 0) }

// Retry clears an exhausted-retries error and tries to play the current segment again.
func (e *Engine) Retry() error { return e.do(cmdRetry, 0) }

// Close pauses and releases every resource and stops the loop. It returns once that is done.
func (e *Engine) Close() error {
	e.startMu.Lock()
	started := e.started
	e.startMu.Unlock()

	if !started {
		e.startMu.Lock()
		e.started = true
		e.startMu.Unlock()
		e.shutdown()
		return nil
	}

	select {
	case <-e.stopped:
		return nil
	default:
	}

	err := e.do(cmdClose, 0)
	<-e.stopped
	if err == ErrClosed {
		return nil
	}
	return err
}

// Snapshot returns the latest published playback state.
func (e *Engine) Snapshot() Snapshot {
	e.snapMu.RLock()
	defer e.snapMu.RUnlock()
	return e.snap
}

// Done is closed once the engine has shut down.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}
