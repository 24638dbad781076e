// Package player provides the media backends behind the playback engine.
// The primary backend drives one 'mpv' process per resource via its JSON-IPC interface;
// the simulated backend plays on the wall clock for demos and tests.
package player

import (
	"context"
	"fmt"
	"time"

	"github.com/quarrel-cli/quarrel/media"
	"github.com/samber/lo"
)

// Backend names.
const (
	BackendMPV = "mpv"
	BackendSim = "sim"
)

// Backends lists the available backend names.
func Backends() []string {
	return []string{BackendMPV, BackendSim}
}

// Options configure a backend.
type Options struct {
	Backend string
	Title   string

	// SimDuration is used for simulated sources without a hint.
	SimDuration float64
	// SimLoadDelay is the simulated buffering latency.
	SimLoadDelay time.Duration
	// Hints maps a source to its simulated duration.
	Hints map[string]float64
	// Failing lists sources whose simulated load fails.
	Failing []string
	// Reject is forwarded to every simulated resource.
	Reject func(kind media.Kind) error
}

// New returns the opener and prober of a backend.
func New(opts Options) (media.Opener, media.Prober, error) {
	switch opts.Backend {
	case BackendMPV, "":
		opener := media.OpenerFunc(func(kind media.Kind, source string) (media.Resource, error) {
			return NewMPV(kind, source, MPVOptions{Title: opts.Title})
		})
		return opener, FFProbe{}, nil
	case BackendSim:
		return simOpener(opts), simProber(opts), nil
	default:
		return nil, nil, fmt.Errorf("%w: %q (available: %v)", media.ErrUnknownBackend, opts.Backend, Backends())
	}
}

func simDuration(opts Options, source string) float64 {
	if d, ok := opts.Hints[source]; ok && d > 0 {
		return d
	}
	if opts.SimDuration > 0 {
		return opts.SimDuration
	}
	return 5
}

func simOpener(opts Options) media.Opener {
	return media.OpenerFunc(func(kind media.Kind, source string) (media.Resource, error) {
		sim := SimOptions{
			Duration:  simDuration(opts, source),
			LoadDelay: opts.SimLoadDelay,
			FailLoad:  lo.Contains(opts.Failing, source),
			Reject:    opts.Reject,
		}
		return NewSim(kind, source, sim), nil
	})
}

func simProber(opts Options) media.Prober {
	return media.ProberFunc(func(ctx context.Context, source string) (float64, error) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if lo.Contains(opts.Failing, source) {
			return 0, fmt.Errorf("simulated probe failure: %s", source)
		}
		return simDuration(opts, source), nil
	})
}
