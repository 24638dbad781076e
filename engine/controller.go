package engine

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/quarrel-cli/quarrel/media"
	"github.com/quarrel-cli/quarrel/util"
	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
)

type commandKind int

const (
	cmdPlay commandKind = iota
	cmdPause
	cmdToggle
	cmdSeek
	cmdSeekBy
	cmdSkip
	cmdNext
	cmdPrev
	cmdMute
	cmdToggleMute
	cmdRetry
	cmdBoot
	cmdClose
)

type command struct {
	kind  commandKind
	arg   float64
	reply chan error
}

func (c command) respond(err error) {
	if c.reply != nil {
		c.reply <- err
	}
}

// playResult is the deferred outcome of starting a segment's pair.
type playResult struct {
	gen   uint64
	video error
	audio error
}

type probeResult struct {
	index    int
	duration float64
	err      error
}

type tick struct{}

func (e *Engine) handle(msg any) {
	if e.closed {
		if c, ok := msg.(command); ok {
			c.respond(ErrClosed)
		}
		return
	}

	switch m := msg.(type) {
	case command:
		// Anything the viewer asks for while a play is in flight waits for its outcome.
		if e.playPending && m.kind != cmdClose {
			e.backlog = append(e.backlog, m)
			return
		}
		m.respond(e.apply(m))
	case resourceEvent:
		e.onResourceEvent(m)
	case playResult:
		e.onPlayResult(m)
	case probeResult:
		e.onProbe(m)
	case tick:
		e.onTick()
	}

	e.flush()
	e.publish()
}

// flush replays queued commands once no play is pending.
func (e *Engine) flush() {
	for !e.playPending && len(e.backlog) > 0 && !e.closed {
		c := e.backlog[0]
		e.backlog = e.backlog[1:]
		c.respond(e.apply(c))
	}
}

func (e *Engine) apply(c command) error {
	switch c.kind {
	case cmdPlay:
		e.gate.Interact()
		return e.play()
	case cmdPause:
		e.gate.Interact()
		e.pause()
		return nil
	case cmdToggle:
		e.gate.Interact()
		if e.state == Playing || (e.state == Loading && e.resume) {
			e.pause()
			return nil
		}
		return e.play()
	case cmdSeek:
		e.gate.Interact()
		return e.seek(c.arg)
	case cmdSeekBy:
		e.gate.Interact()
		return e.seek(e.globalTime + c.arg)
	case cmdSkip:
		e.gate.Interact()
		return e.skipTo(int(c.arg))
	case cmdNext:
		e.gate.Interact()
		if e.index >= e.registry.Len()-1 {
			e.stopCurrent()
			e.enterEnded()
			return nil
		}
		return e.skipTo(e.index + 1)
	case cmdPrev:
		e.gate.Interact()
		return e.skipTo(max(e.index-1, 0))
	case cmdMute:
		e.setMuted(c.arg != 0)
		return nil
	case cmdToggleMute:
		e.setMuted(!e.muted)
		return nil
	case cmdRetry:
		e.gate.Interact()
		e.attempts = 0
		e.err = nil
		return e.play()
	case cmdBoot:
		if e.state == Idle {
			e.prepare(0, e.opts.Autoplay, 0)
		}
		return nil
	case cmdClose:
		e.shutdown()
		return nil
	default:
		return fmt.Errorf("unknown command %d", c.kind)
	}
}

func (e *Engine) play() error {
	switch e.state {
	case Idle, Ended:
		e.prepare(0, true, 0)
	case Loading, Seeking:
		e.resume = true
	case Ready, Paused:
		if errors.Is(e.err, ErrRetriesExhausted) {
			e.attempts = 0
			e.err = nil
		}
		e.startPlay()
	}
	return nil
}

func (e *Engine) pause() {
	switch e.state {
	case Loading, Seeking:
		e.resume = false
	case Playing:
		e.pausePair()
		e.setState(Paused)
	}
}

func (e *Engine) seek(target float64) error {
	tl, ok := e.timeline.Get()
	if !ok {
		return ErrTimelineUnknown
	}

	target = util.Clamp(target, 0, tl.Total)
	index, offset := tl.Locate(target)
	wasPlaying := e.wantsPlayback()

	if index == e.index && e.state.loaded() {
		prev := e.state
		e.setState(Seeking)
		e.seekPair(offset)
		e.offset = offset
		e.globalTime = target
		e.setState(prev)
		return nil
	}

	e.setState(Seeking)
	e.stopCurrent()
	e.globalTime = target
	e.prepare(index, wasPlaying, offset)
	return nil
}

func (e *Engine) skipTo(index int) error {
	if index < 0 || index >= e.registry.Len() {
		return fmt.Errorf("%w: %d", ErrSegmentIndex, index)
	}

	wasPlaying := e.wantsPlayback()
	e.setState(Seeking)
	e.stopCurrent()
	e.prepare(index, wasPlaying, 0)
	return nil
}

// wantsPlayback reports whether playback is running or about to run.
func (e *Engine) wantsPlayback() bool {
	switch e.state {
	case Playing:
		return true
	case Loading, Seeking:
		return e.resume
	case Ready, Paused:
		return e.playPending
	default:
		return false
	}
}

func (e *Engine) setMuted(muted bool) {
	e.muted = muted
	if e.load != nil && e.state.loaded() {
		if err := e.load.audio.SetMuted(muted); err != nil {
			e.log.WithError(err).Warn("mute failed")
		}
	}
}

// prepare moves to LoadingSegment(index). Only this segment's resources exist afterwards.
func (e *Engine) prepare(index int, resume bool, offset float64) {
	e.stopCurrent()

	e.gen++
	e.index = index
	e.resume = resume
	e.pendingOffset = offset
	e.offset = offset
	e.attempts = 0
	e.err = nil
	if tl, ok := e.timeline.Get(); ok {
		e.globalTime = tl.Start(index) + offset
	}
	e.setState(Loading)

	segment := e.registry.Segment(index)
	video, audio, err := openSegment(e.opts.Opener, segment.Video, segment.Audio)
	if err != nil {
		e.segmentFailed(err)
		return
	}

	l := &loader{index: index, gen: e.gen, video: video, audio: audio, started: time.Now()}
	e.load = l
	l.attach(e.post)

	ctx := e.ctx
	e.spawn(func() { l.request(ctx, e.post) })
}

// stopCurrent pauses and releases the active segment, dropping interest in its notifications.
func (e *Engine) stopCurrent() {
	if e.load == nil {
		return
	}
	e.load.discard()
	e.load = nil
	e.playPending = false
}

func (e *Engine) onResourceEvent(m resourceEvent) {
	if e.load == nil || m.gen != e.gen {
		return
	}

	switch m.event.Type {
	case media.EventReady:
		if m.kind == media.Audio {
			e.measure()
		}
		if e.load.mark(m.kind) && e.state == Loading {
			e.onSegmentReady()
		}
	case media.EventDuration:
		if m.kind == media.Audio {
			e.measure()
		}
	case media.EventEnded:
		// Audio alone decides when a segment ends. Video loops underneath it.
		if m.kind == media.Audio {
			e.advance(m.gen)
		}
	case media.EventError:
		e.segmentFailed(m.event.Err)
	}
}

func (e *Engine) measure() {
	if d, ok := e.load.audio.Duration().Get(); ok && e.registry.Measure(e.index, d) {
		e.recomputeTimeline()
	}
}

func (e *Engine) onSegmentReady() {
	l := e.load
	e.rec.SegmentLoaded(e.segmentName(), time.Since(l.started))

	if err := l.video.SetMuted(true); err != nil {
		e.log.WithError(err).Warn("muting video failed")
	}
	if err := l.video.SetLoop(true); err != nil {
		e.log.WithError(err).Warn("looping video failed")
	}
	if err := l.audio.SetMuted(e.muted); err != nil {
		e.log.WithError(err).Warn("applying mute failed")
	}

	e.seekPairTo(e.pendingOffset, 0)
	e.setState(Ready)

	if e.resume {
		e.startPlay()
	}
}

// startPlay plays the pair unless the viewer has never interacted, in which case it parks in Paused.
func (e *Engine) startPlay() {
	if !e.gate.HasInteracted() {
		e.needsInteraction = true
		e.resume = false
		e.setState(Paused)
		return
	}

	l, gen, ctx := e.load, e.gen, e.ctx
	e.playPending = true
	e.spawn(func() {
		var result playResult
		result.gen = gen
		result.video = l.video.Play(ctx)
		if result.video == nil {
			result.audio = l.audio.Play(ctx)
		}
		e.post(result)
	})
}

func (e *Engine) onPlayResult(m playResult) {
	if m.gen != e.gen || e.load == nil {
		return
	}
	e.playPending = false

	err := m.video
	if err == nil {
		err = m.audio
	}

	switch {
	case err == nil:
		e.attempts = 0
		e.err = nil
		e.needsInteraction = false
		e.resume = false
		e.setState(Playing)
	case errors.Is(err, media.ErrAutoplayBlocked):
		e.pausePair()
		e.needsInteraction = true
		e.resume = false
		e.rec.AutoplayBlocked(e.segmentName())
		e.setState(Paused)
	default:
		e.pausePair()
		e.attempts++
		e.logger().WithError(err).WithField("attempt", e.attempts).Warn("play failed")

		if e.attempts >= e.opts.MaxPlayAttempts {
			e.err = fmt.Errorf("%w: segment %s: %w", ErrRetriesExhausted, e.segmentName(), err)
			e.resume = false
			e.rec.RetriesExhausted(e.segmentName())
			e.setState(Paused)
			return
		}

		e.rec.PlayRetried(e.segmentName())
		e.startPlay()
	}
}

// advance moves past the segment of generation gen. Only the first call per generation has an effect.
func (e *Engine) advance(gen uint64) {
	if gen != e.gen {
		return
	}

	wasPlaying := e.wantsPlayback()
	e.rec.SegmentAdvanced(e.segmentName())
	e.logger().Debug("segment finished")

	if e.index >= e.registry.Len()-1 {
		e.stopCurrent()
		e.enterEnded()
		return
	}
	e.prepare(e.index+1, wasPlaying, 0)
}

// segmentFailed skips the active segment, carrying the playback intent to the next one.
func (e *Engine) segmentFailed(err error) {
	e.logger().WithError(err).Error("segment failed")
	e.logger().Warn("skipping segment")
	e.rec.SegmentSkipped(e.segmentName())

	if e.registry.Fail(e.index) {
		e.recomputeTimeline()
	}

	wasPlaying := e.wantsPlayback()
	if e.index >= e.registry.Len()-1 {
		e.stopCurrent()
		e.enterEnded()
		return
	}
	e.prepare(e.index+1, wasPlaying, 0)
}

func (e *Engine) enterEnded() {
	e.gen++
	e.index = 0
	e.globalTime = 0
	e.offset = 0
	e.resume = false
	e.playPending = false
	e.setState(Ended)
}

func (e *Engine) onProbe(m probeResult) {
	if m.err != nil {
		e.log.WithError(m.err).WithField("segment", e.registry.Segment(m.index).Name).Warn("probe failed")
		return
	}
	if e.registry.Probe(m.index, m.duration) {
		e.recomputeTimeline()
	}
}

// onTick reads the authoritative position: the active audio's own clock offset by its segment start.
func (e *Engine) onTick() {
	if e.state != Playing || e.load == nil {
		return
	}

	e.offset = e.load.audio.Position()
	if tl, ok := e.timeline.Get(); ok {
		e.globalTime = util.Clamp(tl.Start(e.index)+e.offset, 0, tl.Total)
	}
}

func (e *Engine) recomputeTimeline() {
	durations := e.registry.Durations()
	fp := fingerprint(durations)
	if fp == e.fingerprint {
		return
	}
	e.fingerprint = fp

	tl, ok := Compute(durations)
	if !ok {
		return
	}

	e.recomputes++
	e.timeline = mo.Some(tl)
	if e.state != Idle && e.state != Ended {
		e.globalTime = tl.Start(e.index) + e.offset
	}
	e.log.WithField("total", tl.Total).Debug("timeline computed")
}

func (e *Engine) pausePair() {
	if e.load == nil {
		return
	}
	_ = e.load.video.Pause()
	_ = e.load.audio.Pause()
}

// seekPair moves audio to offset and video to the matching point of its loop.
func (e *Engine) seekPair(offset float64) {
	video := 0.0
	if d, ok := e.load.video.Duration().Get(); ok && d > 0 {
		video = math.Mod(offset, d)
	}
	e.seekPairTo(offset, video)
}

func (e *Engine) seekPairTo(audio, video float64) {
	if err := e.load.audio.Seek(audio); err != nil {
		e.log.WithError(err).Warn("audio seek failed")
	}
	if err := e.load.video.Seek(video); err != nil {
		e.log.WithError(err).Warn("video seek failed")
	}
}

func (e *Engine) setState(s State) {
	if e.state == s {
		return
	}
	e.logger().WithField("to", s).Debug("state change")
	e.state = s
}

// shutdown synchronously pauses and releases everything and stops the loop.
func (e *Engine) shutdown() {
	if e.closed {
		return
	}
	e.closed = true

	e.stopCurrent()
	for _, c := range e.backlog {
		c.respond(ErrClosed)
	}
	e.backlog = nil
	e.resume = false
	e.setState(Idle)
	e.publish()

	if e.cancel != nil {
		e.cancel()
	}
	close(e.done)
}

func (e *Engine) segmentName() string {
	return e.registry.Segment(e.index).Name.String()
}

func (e *Engine) logger() logrus.FieldLogger {
	return e.log.WithFields(logrus.Fields{
		"segment":    e.segmentName(),
		"state":      e.state,
		"generation": e.gen,
	})
}
