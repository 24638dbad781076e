// Package media defines the contract between the playback engine and whatever actually decodes video and audio.
package media

import (
	"context"
	"errors"

	"github.com/samber/mo"
)

// Kind tells video and audio resources apart.
type Kind int

const (
	Video Kind = iota
	Audio
)

func (k Kind) String() string {
	switch k {
	case Video:
		return "video"
	case Audio:
		return "audio"
	default:
		return "unknown"
	}
}

var (
	// ErrAutoplayBlocked is returned by Play when the platform refuses to start playback without a viewer gesture.
	ErrAutoplayBlocked = errors.New("autoplay blocked")

	// ErrReleased is returned by any call made after Release.
	ErrReleased = errors.New("resource released")

	// ErrUnknownBackend is returned when asking for a backend that does not exist.
	ErrUnknownBackend = errors.New("unknown media backend")
)

// Resource is a single loadable, playable media element.
//
// Load is non-blocking: progress is reported through Observe.
// Play may block until the backend has accepted or refused the request.
type Resource interface {
	Kind() Kind
	Source() string

	// Load starts buffering from the beginning. Calling it again restarts the load.
	Load(ctx context.Context) error
	// Ready reports whether enough is buffered to play through without stalling.
	Ready() bool
	// Duration is known once metadata has been read.
	Duration() mo.Option[float64]
	// Observe registers a listener and returns a function that removes it.
	Observe(func(Event)) (cancel func())

	Play(ctx context.Context) error
	Pause() error
	Seek(seconds float64) error
	Position() float64

	SetMuted(muted bool) error
	SetLoop(loop bool) error

	// Release stops playback and frees everything behind the resource.
	Release() error
}

// Opener creates resources for a source.
type Opener interface {
	Open(kind Kind, source string) (Resource, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(kind Kind, source string) (Resource, error)

func (f OpenerFunc) Open(kind Kind, source string) (Resource, error) {
	return f(kind, source)
}

// Prober reads the duration of a source from its metadata without buffering it for playback.
type Prober interface {
	Probe(ctx context.Context, source string) (float64, error)
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(ctx context.Context, source string) (float64, error)

func (f ProberFunc) Probe(ctx context.Context, source string) (float64, error) {
	return f(ctx, source)
}
