package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/quarrel-cli/quarrel/constant"
	"github.com/quarrel-cli/quarrel/engine"
	"github.com/quarrel-cli/quarrel/internal/cache"
	"github.com/quarrel-cli/quarrel/key"
	"github.com/quarrel-cli/quarrel/log"
	"github.com/quarrel-cli/quarrel/media"
	"github.com/quarrel-cli/quarrel/metrics"
	"github.com/quarrel-cli/quarrel/player"
	"github.com/quarrel-cli/quarrel/scene"
	"github.com/quarrel-cli/quarrel/tui"
	"github.com/quarrel-cli/quarrel/util"
	"github.com/quarrel-cli/quarrel/views"
	"github.com/quarrel-cli/quarrel/where"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

type playOptions struct {
	Headless bool
	Out      io.Writer
}

// pickScene loads the scene named by query. Without a query the only saved scene is used,
// or the viewer picks one.
func pickScene(query string) (*scene.Manifest, error) {
	if query != "" {
		path, err := scene.Find(query)
		if err != nil {
			return nil, err
		}
		return scene.Load(path)
	}

	paths, err := scene.List()
	if err != nil {
		return nil, err
	}

	switch len(paths) {
	case 0:
		return nil, fmt.Errorf("no scenes in %s, create one with `%s scene new`", where.Scenes(), constant.Quarrel)
	case 1:
		return scene.Load(paths[0])
	}

	var picked string
	prompt := &survey.Select{
		Message: "Which scene?",
		Options: lo.Map(paths, func(p string, _ int) string { return util.FileStem(p) }),
	}
	if err := survey.AskOne(prompt, &picked); err != nil {
		return nil, err
	}

	path, err := scene.Find(picked)
	if err != nil {
		return nil, err
	}
	return scene.Load(path)
}

// speechHints gives simulated voice lines the length a synthesizer would produce for their caption.
func speechHints(segments []scene.Segment) map[string]float64 {
	hints := make(map[string]float64, len(segments))
	for _, s := range segments {
		hints[s.Audio] = scene.EstimateSpeech(s.Caption)
	}
	return hints
}

// newPlayerBackend builds the opener and prober for the configured backend.
func newPlayerBackend(title string, segments []scene.Segment) (media.Opener, media.Prober, error) {
	backend := viper.GetString(key.PlayerBackend)

	opener, prober, err := player.New(player.Options{
		Backend:      backend,
		Title:        title,
		SimDuration:  viper.GetFloat64(key.PlayerSimDuration),
		SimLoadDelay: time.Duration(viper.GetInt(key.PlayerSimLoadDelayMs)) * time.Millisecond,
		Hints:        speechHints(segments),
	})
	if err != nil {
		return nil, nil, err
	}

	if !viper.GetBool(key.PlayerProbe) {
		return opener, nil, nil
	}
	if backend == player.BackendMPV || backend == "" {
		prober = cache.Prober(prober)
	}
	return opener, prober, nil
}

func play(ctx context.Context, manifest *scene.Manifest, opts playOptions) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	report := manifest.Validate(viper.GetInt(key.SceneMaxLineWords))
	for _, w := range report.Warnings {
		log.Warnf("%s: %s", manifest.ID(), w)
	}
	if !report.OK() {
		return report.Err()
	}

	segments, err := manifest.Segments(viper.GetString(key.SceneAssetsRoot))
	if err != nil {
		return err
	}

	opener, prober, err := newPlayerBackend(manifest.Title, segments)
	if err != nil {
		return err
	}

	m := metrics.New()
	if addr := viper.GetString(key.MetricsAddress); addr != "" {
		go func() {
			if err := m.Serve(ctx, addr); err != nil {
				log.Errorf("metrics server: %s", err)
			}
		}()
	}

	var counted sync.Once
	feed := tui.NewFeed()

	e, err := engine.New(engine.Options{
		Segments:        segments,
		Opener:          opener,
		Prober:          prober,
		Autoplay:        viper.GetBool(key.PlayerAutoplay),
		Muted:           viper.GetBool(key.PlayerMuted),
		MaxPlayAttempts: viper.GetInt(key.PlayerMaxPlayAttempts),
		TickInterval:    time.Duration(viper.GetInt(key.PlayerTickIntervalMs)) * time.Millisecond,
		Recorder:        m,
		Logger:          log.Entry().WithField("scene", manifest.ID()),
		OnChange:        feed.Push,
		OnPlayingChange: func(playing bool) {
			m.SetPlaying(playing)
			if playing && viper.GetBool(key.ViewsEnable) {
				counted.Do(func() { go countView(manifest) })
			}
		},
	})
	if err != nil {
		return err
	}

	if err := e.Start(ctx); err != nil {
		return err
	}

	if opts.Headless {
		return headless(ctx, e, feed.C(), opts.Out)
	}

	return tui.Run(ctx, &tui.Options{
		Title:        manifest.Title,
		Topic:        manifest.Topic,
		Segments:     segments,
		Player:       e,
		Updates:      feed.C(),
		CaptionWidth: viper.GetInt(key.TUICaptionWidth),
		ShowSpeakers: viper.GetBool(key.TUIShowSpeakers),
	})
}

func countView(manifest *scene.Manifest) {
	n, err := views.Increment(manifest.ID(), manifest.Title)
	if err != nil {
		log.Warnf("counting view: %s", err)
		return
	}
	log.Debugf("%s viewed %s", manifest.ID(), util.Quantify(n, "time", "times"))
}

// headless plays the scene once without the interface. Starting it counts as the viewer's gesture.
func headless(ctx context.Context, e *engine.Engine, updates <-chan engine.Snapshot, out io.Writer) error {
	engine.SessionGate.Interact()
	if err := e.Play(); err != nil {
		return err
	}

	var last string
	for {
		select {
		case <-ctx.Done():
			return e.Close()
		case <-e.Done():
			return nil
		case snap := <-updates:
			if line := describe(snap); line != last {
				_, _ = fmt.Fprintln(out, line)
				last = line
			}

			switch {
			case snap.Err != nil:
				return errors.Join(snap.Err, e.Close())
			case snap.State == engine.Ended:
				return e.Close()
			}
		}
	}
}

// describe renders a snapshot as one status line. Position is left out so ticks do not repeat it.
func describe(snap engine.Snapshot) string {
	total := "?:??"
	if snap.TimelineKnown {
		total = util.FormatClock(snap.Total)
	}

	line := fmt.Sprintf("%-8s %s/%s", snap.State, snap.Segment.Label(), total)
	if snap.State == engine.Ended {
		line = fmt.Sprintf("%-8s %s", snap.State, total)
	}
	if snap.NeedsInteraction {
		line += " (waiting for a gesture)"
	}
	if snap.IsMuted {
		line += " (muted)"
	}
	return line
}
