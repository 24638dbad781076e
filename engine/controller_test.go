package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/quarrel-cli/quarrel/media"
	"github.com/quarrel-cli/quarrel/scene"
	. "github.com/smartystreets/goconvey/convey"
)

var errBoom = errors.New("boom")

func TestBoot(t *testing.T) {
	Convey("Given a fresh engine", t, func() {
		h := newHarness()
		So(h.snap().State, ShouldEqual, Idle)

		Convey("Booting prepares only the first segment", func() {
			h.boot()
			So(h.snap().State, ShouldEqual, Loading)
			So(h.snap().IsLoading, ShouldBeTrue)
			So(h.opener.opened, ShouldHaveLength, 2)
			So(h.audio(0).calls, ShouldResemble, []string{"load"})
			So(h.video(0).calls, ShouldResemble, []string{"load"})

			Convey("Ready waits for both resources", func() {
				h.video(0).fire(media.Event{Type: media.EventReady})
				h.drain()
				So(h.snap().State, ShouldEqual, Loading)

				h.audio(0).fire(media.Event{Type: media.EventReady})
				h.drain()
				So(h.snap().State, ShouldEqual, Ready)
				So(h.rec.loaded, ShouldEqual, 1)
			})

			Convey("On ready the video is muted and looped and nothing plays", func() {
				h.ready(0, 5)
				So(h.video(0).muted, ShouldBeTrue)
				So(h.video(0).loop, ShouldBeTrue)
				So(h.audio(0).muted, ShouldBeFalse)
				So(h.audio(0).count("play"), ShouldEqual, 0)
				So(h.video(0).count("play"), ShouldEqual, 0)
			})
		})

		Convey("Resources already ready when loading finishes are picked up", func() {
			h.e.opts.Opener = media.OpenerFunc(func(kind media.Kind, source string) (media.Resource, error) {
				r, _ := h.opener.Open(kind, source)
				fake := r.(*fakeResource)
				return &preloaded{fakeResource: fake}, nil
			})
			h.boot()
			So(h.snap().State, ShouldEqual, Ready)
		})
	})
}

// preloaded is a resource that is ready as soon as Load returns.
type preloaded struct {
	*fakeResource
}

func (p *preloaded) Load(ctx context.Context) error {
	_ = p.fakeResource.Load(ctx)
	p.ready = true
	return nil
}

func TestAutoplayGate(t *testing.T) {
	Convey("Given autoplay and a viewer who has not interacted", t, func() {
		h := newHarness(func(o *Options) { o.Autoplay = true })
		h.boot()

		Convey("Segment A finishing its load does not play audio", func() {
			h.ready(0, 5)
			So(h.audio(0).count("play"), ShouldEqual, 0)
			So(h.snap().State, ShouldEqual, Paused)
			So(h.snap().NeedsInteraction, ShouldBeTrue)

			Convey("A click plays it", func() {
				So(h.run(cmdPlay, 0), ShouldBeNil)
				So(h.audio(0).count("play"), ShouldEqual, 1)
				So(h.video(0).count("play"), ShouldEqual, 1)
				So(h.snap().State, ShouldEqual, Playing)
				So(h.snap().NeedsInteraction, ShouldBeFalse)
				So(h.gate.HasInteracted(), ShouldBeTrue)
			})
		})

		Convey("Muting is not an interaction", func() {
			So(h.run(cmdMute, 1), ShouldBeNil)
			So(h.gate.HasInteracted(), ShouldBeFalse)
		})
	})

	Convey("Given a viewer who already interacted", t, func() {
		h := newHarness(func(o *Options) { o.Autoplay = true })
		h.gate.Interact()
		h.boot()
		h.ready(0, 5)

		So(h.snap().State, ShouldEqual, Playing)
		So(h.audio(0).count("play"), ShouldEqual, 1)
	})

	Convey("An unattended advance without interaction parks in Paused", t, func() {
		h := newHarness()
		h.boot()
		h.ready(0, 5)
		h.e.resume = true
		h.e.state = Playing
		h.end(0)
		h.ready(1, 6)

		So(h.snap().Index, ShouldEqual, 1)
		So(h.snap().State, ShouldEqual, Paused)
		So(h.audio(1).count("play"), ShouldEqual, 0)
	})
}

func TestFullRun(t *testing.T) {
	Convey("Playing through all four segments", t, func() {
		var playing []bool
		h := newHarness(func(o *Options) {
			o.OnPlayingChange = func(p bool) { playing = append(playing, p) }
		})
		h.boot()
		So(h.run(cmdPlay, 0), ShouldBeNil)

		durations := []float64{5, 6, 4, 5}
		for i, d := range durations {
			h.ready(i, d)
			So(h.snap().State, ShouldEqual, Playing)
			So(h.snap().Index, ShouldEqual, i)
			So(h.opener.opened, ShouldHaveLength, 2*(i+1))

			// Both ended triggers fire, the audio one twice.
			h.audio(i).fire(media.Event{Type: media.EventEnded})
			h.video(i).fire(media.Event{Type: media.EventEnded})
			h.audio(i).fire(media.Event{Type: media.EventEnded})
			h.drain()

			So(h.audio(i).released, ShouldBeTrue)
			So(h.video(i).released, ShouldBeTrue)
		}

		Convey("advances exactly four times and ends", func() {
			So(h.rec.advanced, ShouldResemble, []string{"A", "B", "C", "D"})
			snap := h.snap()
			So(snap.State, ShouldEqual, Ended)
			So(snap.GlobalTime, ShouldEqual, 0.0)
			So(snap.IsPlaying, ShouldBeFalse)
			So(snap.Index, ShouldEqual, 0)
			So(snap.TimelineKnown, ShouldBeTrue)
			So(snap.Total, ShouldEqual, 20.0)
		})

		Convey("reports playing changes to the host", func() {
			So(playing[0], ShouldBeTrue)
			So(playing[len(playing)-1], ShouldBeFalse)
		})

		Convey("play after the end starts over", func() {
			So(h.run(cmdPlay, 0), ShouldBeNil)
			So(h.snap().State, ShouldEqual, Loading)
			So(h.snap().Index, ShouldEqual, 0)
		})
	})
}

func TestPauseWhileLoading(t *testing.T) {
	Convey("Pausing during a load and resuming", t, func() {
		h := newHarness()
		h.boot()
		So(h.run(cmdPlay, 0), ShouldBeNil)
		So(h.run(cmdPause, 0), ShouldBeNil)
		So(h.run(cmdPlay, 0), ShouldBeNil)

		Convey("does not play before the segment is ready", func() {
			So(h.audio(0).count("play"), ShouldEqual, 0)
			So(h.video(0).count("play"), ShouldEqual, 0)

			h.ready(0, 5)
			So(h.audio(0).count("play"), ShouldEqual, 1)
			So(h.snap().State, ShouldEqual, Playing)
		})

		Convey("stays put when the pause is the last word", func() {
			So(h.run(cmdToggle, 0), ShouldBeNil)
			h.ready(0, 5)
			So(h.audio(0).count("play"), ShouldEqual, 0)
			So(h.snap().State, ShouldEqual, Ready)
		})
	})

	Convey("Pausing while playing pauses both tracks", t, func() {
		h := newHarness()
		h.boot()
		So(h.run(cmdPlay, 0), ShouldBeNil)
		h.ready(0, 5)
		So(h.run(cmdPause, 0), ShouldBeNil)
		So(h.snap().State, ShouldEqual, Paused)
		So(h.audio(0).count("pause"), ShouldEqual, 1)
		So(h.video(0).count("pause"), ShouldEqual, 1)
	})
}

func TestMute(t *testing.T) {
	Convey("Muting and then skipping", t, func() {
		h := newHarness()
		h.boot()
		h.ready(0, 5)
		So(h.run(cmdMute, 1), ShouldBeNil)
		So(h.audio(0).muted, ShouldBeTrue)

		So(h.run(cmdSkip, 2), ShouldBeNil)
		h.ready(2, 4)

		Convey("keeps the new segment's audio muted", func() {
			So(h.audio(2).muted, ShouldBeTrue)
			So(h.snap().IsMuted, ShouldBeTrue)
		})

		Convey("ToggleMute flips it back", func() {
			So(h.run(cmdToggleMute, 0), ShouldBeNil)
			So(h.audio(2).muted, ShouldBeFalse)
		})
	})

	Convey("Muting during a load applies once ready", t, func() {
		h := newHarness(func(o *Options) { o.Muted = false })
		h.boot()
		So(h.run(cmdMute, 1), ShouldBeNil)
		So(h.audio(0).count("mute:true"), ShouldEqual, 0)
		h.ready(0, 5)
		So(h.audio(0).muted, ShouldBeTrue)
	})

	Convey("Starting muted mutes the first voice line", t, func() {
		h := newHarness(func(o *Options) { o.Muted = true })
		h.boot()
		h.ready(0, 5)
		So(h.audio(0).muted, ShouldBeTrue)
	})
}

func TestSegmentErrors(t *testing.T) {
	Convey("Segment B's audio failing while it loads", t, func() {
		h := newHarness()
		h.boot()
		So(h.run(cmdPlay, 0), ShouldBeNil)
		h.ready(0, 5)
		h.end(0)
		So(h.snap().Index, ShouldEqual, 1)
		So(h.snap().State, ShouldEqual, Loading)

		h.audio(1).fire(media.Event{Type: media.EventError, Err: errBoom})
		h.drain()

		Convey("moves straight to loading C", func() {
			snap := h.snap()
			So(snap.State, ShouldEqual, Loading)
			So(snap.Index, ShouldEqual, 2)
			So(snap.Failed[1], ShouldBeTrue)
			So(h.audio(1).count("play"), ShouldEqual, 0)
			So(h.video(1).count("play"), ShouldEqual, 0)
			So(h.audio(1).released, ShouldBeTrue)
			So(h.rec.skipped, ShouldResemble, []string{"B"})
		})

		Convey("keeps playing once C is ready", func() {
			h.ready(2, 4)
			So(h.snap().State, ShouldEqual, Playing)
			So(h.snap().Index, ShouldEqual, 2)
		})
	})

	Convey("Segment A failing while it plays", t, func() {
		h := newHarness()
		h.boot()
		So(h.run(cmdPlay, 0), ShouldBeNil)
		h.ready(0, 5)
		So(h.snap().State, ShouldEqual, Playing)

		h.video(0).fire(media.Event{Type: media.EventError, Err: errBoom})
		h.drain()

		Convey("skips to B and carries playback over", func() {
			snap := h.snap()
			So(snap.State, ShouldEqual, Loading)
			So(snap.Index, ShouldEqual, 1)
			So(snap.Failed[0], ShouldBeTrue)
			So(h.audio(0).released, ShouldBeTrue)
			So(h.rec.skipped, ShouldResemble, []string{"A"})
			So(h.rec.advanced, ShouldBeEmpty)

			h.ready(1, 6)
			So(h.snap().State, ShouldEqual, Playing)
			So(h.audio(1).count("play"), ShouldEqual, 1)
		})

		Convey("keeps the measured duration on the timeline", func() {
			h.probe(5, 6, 4, 5)
			So(h.snap().TimelineKnown, ShouldBeTrue)
			So(h.snap().Total, ShouldEqual, 20.0)
		})

		Convey("ignores the late end of the failed audio", func() {
			h.audio(0).fire(media.Event{Type: media.EventEnded})
			h.drain()
			So(h.snap().Index, ShouldEqual, 1)
			So(h.rec.advanced, ShouldBeEmpty)
		})
	})

	Convey("A failure on the last segment ends playback", t, func() {
		h := newHarness()
		h.boot()
		So(h.run(cmdSkip, 3), ShouldBeNil)
		h.video(3).fire(media.Event{Type: media.EventError, Err: errBoom})
		h.drain()
		So(h.snap().State, ShouldEqual, Ended)
	})

	Convey("A segment that cannot be opened is skipped and counts as zero long", t, func() {
		h := newHarness()
		h.opener.openErr["v2.mp4"] = errBoom
		h.probe(5, 6)
		h.e.handle(probeResult{index: 3, duration: 5})
		h.e.handle(probeResult{index: 2, err: errBoom})
		So(h.snap().TimelineKnown, ShouldBeFalse)

		h.boot()
		So(h.run(cmdPlay, 0), ShouldBeNil)
		h.ready(0, 5)
		h.end(0)
		h.ready(1, 6)
		h.end(1)

		snap := h.snap()
		So(snap.Index, ShouldEqual, 3)
		So(snap.State, ShouldEqual, Loading)
		So(snap.TimelineKnown, ShouldBeTrue)
		So(snap.Total, ShouldEqual, 16.0)
		So(snap.Failed[2], ShouldBeTrue)
		So(h.rec.skipped, ShouldResemble, []string{"C"})
	})
}

func TestSeek(t *testing.T) {
	Convey("Given the worked example durations", t, func() {
		h := newHarness()
		h.probe(5, 6, 4, 5)
		So(h.e.recomputes, ShouldEqual, 1)
		h.boot()
		h.ready(0, 5)

		Convey("The timeline is computed once per distinct set of durations", func() {
			h.probe(5, 6, 4, 5)
			So(h.e.recomputes, ShouldEqual, 1)
		})

		Convey("Seeking to 11.0 selects C at offset 0", func() {
			So(h.run(cmdSeek, 11.0), ShouldBeNil)
			snap := h.snap()
			So(snap.Index, ShouldEqual, 2)
			So(snap.Segment.Name, ShouldEqual, scene.C)
			So(snap.State, ShouldEqual, Loading)
			So(snap.GlobalTime, ShouldEqual, 11.0)
			So(h.audio(0).released, ShouldBeTrue)

			h.ready(2, 4)
			So(h.audio(2).position, ShouldEqual, 0.0)
			So(h.video(2).position, ShouldEqual, 0.0)
			So(h.snap().Offset, ShouldEqual, 0.0)
			So(h.snap().Caption, ShouldEqual, "line C")
		})

		Convey("Seeking to 19.999 selects D at offset 4.999", func() {
			So(h.run(cmdSeek, 19.999), ShouldBeNil)
			So(h.snap().Index, ShouldEqual, 3)
			So(h.snap().Offset, ShouldAlmostEqual, 4.999, 1e-9)

			h.ready(3, 5)
			So(h.audio(3).position, ShouldAlmostEqual, 4.999, 1e-9)
			So(h.video(3).position, ShouldEqual, 0.0)
		})

		Convey("Seeking while playing resumes on the target", func() {
			So(h.run(cmdPlay, 0), ShouldBeNil)
			So(h.snap().State, ShouldEqual, Playing)
			So(h.run(cmdSeek, 7), ShouldBeNil)
			h.ready(1, 6)
			So(h.snap().State, ShouldEqual, Playing)
			So(h.audio(1).position, ShouldEqual, 2.0)
		})

		Convey("Seeking inside the current segment does not reload it", func() {
			h.video(0).fire(media.Event{Type: media.EventDuration, Duration: 2})
			h.drain()
			So(h.run(cmdSeek, 2.5), ShouldBeNil)
			So(h.opener.opened, ShouldHaveLength, 2)
			So(h.audio(0).position, ShouldEqual, 2.5)
			So(h.video(0).position, ShouldEqual, 0.5)
			So(h.snap().State, ShouldEqual, Ready)
			So(h.snap().GlobalTime, ShouldEqual, 2.5)
		})

		Convey("Seeking relative to now", func() {
			So(h.run(cmdSeekBy, 6), ShouldBeNil)
			So(h.snap().Index, ShouldEqual, 1)
			So(h.snap().Offset, ShouldEqual, 1.0)
		})

		Convey("Seek targets are clamped to the timeline", func() {
			So(h.run(cmdSeek, -4), ShouldBeNil)
			So(h.snap().GlobalTime, ShouldEqual, 0.0)
		})
	})

	Convey("Seeking before every duration is known is refused", t, func() {
		h := newHarness()
		h.boot()
		So(errors.Is(h.run(cmdSeek, 3), ErrTimelineUnknown), ShouldBeTrue)

		Convey("but skipping works", func() {
			So(h.run(cmdSkip, 3), ShouldBeNil)
			So(h.snap().Index, ShouldEqual, 3)
			So(errors.Is(h.run(cmdSkip, 7), ErrSegmentIndex), ShouldBeTrue)
		})
	})
}

func TestSkip(t *testing.T) {
	Convey("Given a loading segment", t, func() {
		h := newHarness()
		h.boot()
		oldAudio := h.audio(0)

		So(h.run(cmdSkip, 2), ShouldBeNil)

		Convey("the abandoned segment is released", func() {
			So(oldAudio.released, ShouldBeTrue)
			So(oldAudio.observers.Len(), ShouldEqual, 0)
		})

		Convey("stale ready notifications are ignored", func() {
			h.e.handle(resourceEvent{gen: 1, kind: media.Audio, event: media.Event{Type: media.EventReady}})
			h.e.handle(resourceEvent{gen: 1, kind: media.Video, event: media.Event{Type: media.EventReady}})
			So(h.snap().State, ShouldEqual, Loading)
			So(h.snap().Index, ShouldEqual, 2)
		})

		Convey("Next and Prev move one segment", func() {
			So(h.run(cmdNext, 0), ShouldBeNil)
			So(h.snap().Index, ShouldEqual, 3)
			So(h.run(cmdPrev, 0), ShouldBeNil)
			So(h.snap().Index, ShouldEqual, 2)
		})

		Convey("Next on the last segment ends playback", func() {
			So(h.run(cmdSkip, 3), ShouldBeNil)
			So(h.run(cmdNext, 0), ShouldBeNil)
			So(h.snap().State, ShouldEqual, Ended)
		})
	})
}

func TestPlayFailures(t *testing.T) {
	Convey("An autoplay rejection", t, func() {
		h := newHarness()
		h.opener.playErrs["a0.mp3"] = []error{media.ErrAutoplayBlocked}
		h.boot()
		So(h.run(cmdPlay, 0), ShouldBeNil)
		h.ready(0, 5)

		Convey("pauses the video in lockstep and waits for a click", func() {
			snap := h.snap()
			So(snap.State, ShouldEqual, Paused)
			So(snap.NeedsInteraction, ShouldBeTrue)
			So(snap.Err, ShouldBeNil)
			So(h.video(0).count("pause"), ShouldEqual, 1)
			So(h.rec.blocked, ShouldEqual, 1)
			So(h.e.attempts, ShouldEqual, 0)
		})

		Convey("clears on the next click", func() {
			So(h.run(cmdPlay, 0), ShouldBeNil)
			So(h.snap().State, ShouldEqual, Playing)
		})
	})

	Convey("Repeated play failures", t, func() {
		h := newHarness()
		h.opener.playErrs["a0.mp3"] = []error{errBoom, errBoom, errBoom}
		h.boot()
		So(h.run(cmdPlay, 0), ShouldBeNil)
		h.ready(0, 5)

		Convey("retry the pair and give up after three attempts", func() {
			So(h.audio(0).count("play"), ShouldEqual, 3)
			So(h.video(0).count("play"), ShouldEqual, 3)
			So(h.rec.retried, ShouldEqual, 2)
			So(h.rec.exhausted, ShouldEqual, 1)

			snap := h.snap()
			So(snap.State, ShouldEqual, Paused)
			So(errors.Is(snap.Err, ErrRetriesExhausted), ShouldBeTrue)
			So(errors.Is(snap.Err, errBoom), ShouldBeTrue)
		})

		Convey("can be retried", func() {
			So(h.run(cmdRetry, 0), ShouldBeNil)
			So(h.snap().State, ShouldEqual, Playing)
			So(h.snap().Err, ShouldBeNil)
		})
	})

	Convey("A play result that arrives after its segment was abandoned", t, func() {
		h := newHarness()
		h.deferred = true
		h.opener.playErrs["a0.mp3"] = []error{errBoom}
		h.boot()
		h.runJobs()
		So(h.run(cmdPlay, 0), ShouldBeNil)
		h.ready(0, 5)
		So(h.e.playPending, ShouldBeTrue)

		h.audio(0).fire(media.Event{Type: media.EventError, Err: errBoom})
		h.drain()
		So(h.snap().Index, ShouldEqual, 1)
		So(h.e.playPending, ShouldBeFalse)

		// Runs the stale play along with the load of B.
		h.runJobs()

		Convey("is ignored", func() {
			snap := h.snap()
			So(snap.State, ShouldEqual, Loading)
			So(snap.Index, ShouldEqual, 1)
			So(snap.Err, ShouldBeNil)
			So(h.e.attempts, ShouldEqual, 0)
			So(h.rec.retried, ShouldEqual, 0)
			So(h.video(1).count("pause"), ShouldEqual, 0)
		})

		Convey("does not stop B from playing", func() {
			h.ready(1, 6)
			h.runJobs()
			So(h.snap().State, ShouldEqual, Playing)
			So(h.snap().Index, ShouldEqual, 1)
		})
	})

	Convey("A stale play result after a skip changes nothing", t, func() {
		h := newHarness()
		h.boot()
		So(h.run(cmdPlay, 0), ShouldBeNil)
		h.ready(0, 5)
		staleGen := h.e.gen

		So(h.run(cmdSkip, 2), ShouldBeNil)
		h.e.handle(playResult{gen: staleGen, audio: errBoom})
		h.e.handle(playResult{gen: staleGen})

		So(h.snap().State, ShouldEqual, Loading)
		So(h.snap().Index, ShouldEqual, 2)
		So(h.e.attempts, ShouldEqual, 0)
		So(h.rec.retried, ShouldEqual, 0)
	})

	Convey("A video that refuses to play is retried without touching the audio", t, func() {
		h := newHarness()
		h.opener.playErrs["v0.mp4"] = []error{errBoom}
		h.boot()
		So(h.run(cmdPlay, 0), ShouldBeNil)
		h.ready(0, 5)
		So(h.video(0).count("play"), ShouldEqual, 2)
		So(h.audio(0).count("play"), ShouldEqual, 1)
		So(h.snap().State, ShouldEqual, Playing)
	})
}

func TestSerialization(t *testing.T) {
	Convey("Commands issued while a play is in flight", t, func() {
		h := newHarness()
		h.deferred = true
		h.boot()
		h.runJobs()
		So(h.run(cmdPlay, 0), ShouldBeNil)
		h.ready(0, 5)
		So(h.e.playPending, ShouldBeTrue)

		So(h.run(cmdPause, 0), ShouldBeNil)
		So(h.snap().State, ShouldEqual, Ready)
		So(h.audio(0).count("pause"), ShouldEqual, 0)

		Convey("wait for its outcome and then apply in order", func() {
			h.runJobs()
			So(h.snap().State, ShouldEqual, Paused)
			calls := h.audio(0).calls
			So(calls[len(calls)-2], ShouldEqual, "play")
			So(calls[len(calls)-1], ShouldEqual, "pause")
		})
	})
}

func TestTick(t *testing.T) {
	Convey("The tick reads the active audio position", t, func() {
		h := newHarness()
		h.probe(5, 6, 4, 5)
		h.boot()
		So(h.run(cmdPlay, 0), ShouldBeNil)
		h.ready(0, 5)
		h.end(0)
		h.ready(1, 6)

		h.audio(1).position = 2.5
		h.e.handle(tick{})

		snap := h.snap()
		So(snap.GlobalTime, ShouldEqual, 7.5)
		So(snap.Offset, ShouldEqual, 2.5)
		So(snap.Percent, ShouldEqual, 37.5)
	})

	Convey("Ticks while paused change nothing", t, func() {
		h := newHarness()
		h.boot()
		h.ready(0, 5)
		h.audio(0).position = 1
		h.e.handle(tick{})
		So(h.snap().Offset, ShouldEqual, 0.0)
	})
}

func TestClose(t *testing.T) {
	Convey("Closing", t, func() {
		h := newHarness()
		h.boot()
		So(h.run(cmdPlay, 0), ShouldBeNil)
		h.ready(0, 5)
		So(h.run(cmdClose, 0), ShouldBeNil)

		Convey("pauses and releases the active resources", func() {
			So(h.audio(0).count("pause"), ShouldBeGreaterThanOrEqualTo, 1)
			So(h.audio(0).released, ShouldBeTrue)
			So(h.video(0).released, ShouldBeTrue)
			So(h.snap().IsPlaying, ShouldBeFalse)
		})

		Convey("refuses later commands", func() {
			So(errors.Is(h.run(cmdPlay, 0), ErrClosed), ShouldBeTrue)
		})

		Convey("closes Done", func() {
			closed := false
			select {
			case <-h.e.Done():
				closed = true
			default:
			}
			So(closed, ShouldBeTrue)
		})
	})
}

func TestNew(t *testing.T) {
	Convey("New needs four segments", t, func() {
		_, err := New(Options{Segments: testSegments()[:2]})
		So(errors.Is(err, scene.ErrSegmentCount), ShouldBeTrue)
	})

	Convey("Commands before Start are refused", t, func() {
		e, err := New(Options{Segments: testSegments(), Opener: newFakeOpener(), Logger: quietLogger()})
		So(err, ShouldBeNil)
		So(errors.Is(e.Play(), ErrNotStarted), ShouldBeTrue)
		So(e.Close(), ShouldBeNil)
	})
}
