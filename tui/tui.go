// Package tui hosts the scene player in the terminal.
package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/quarrel-cli/quarrel/engine"
	"github.com/quarrel-cli/quarrel/scene"
)

// Player is the part of the engine the interface drives.
type Player interface {
	Play() error
	Toggle() error
	Seek(seconds float64) error
	SeekBy(delta float64) error
	SkipTo(index int) error
	Next() error
	Prev() error
	ToggleMute() error
	Retry() error
	Close() error
	Snapshot() engine.Snapshot
}

// Options configure the player view.
type Options struct {
	Title    string
	Topic    string
	Segments []scene.Segment
	Player   Player
	// Updates delivers engine snapshots as they are published.
	Updates <-chan engine.Snapshot

	CaptionWidth int
	ShowSpeakers bool
	// SeekStep is how far left and right move, in seconds.
	SeekStep float64
}

// Run shows the player until the viewer quits or ctx ends. The player is closed on return.
func Run(ctx context.Context, options *Options) error {
	bubble := newBubble(options)
	_, err := tea.NewProgram(bubble, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		err = nil
	}
	if closeErr := options.Player.Close(); err == nil {
		err = closeErr
	}
	return err
}
