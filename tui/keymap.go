package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/quarrel-cli/quarrel/color"
	"github.com/quarrel-cli/quarrel/engine"
	"github.com/quarrel-cli/quarrel/style"
)

// playerKeymap holds the bindings of the player view. Which ones show in the help line depends on the engine state.
type playerKeymap struct {
	state engine.State
	err   bool

	quit, forceQuit,
	playPause, mute,
	next, prev,
	back, forward,
	segment, restart,
	retry,
	showHelp key.Binding
}

func (k *playerKeymap) setState(s engine.Snapshot) {
	k.state = s.State
	k.err = s.Err != nil
}

func newPlayerKeymap() *playerKeymap {
	return &playerKeymap{
		quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		playPause: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp(style.Fg(color.Orange)("space"), style.Fg(color.Orange)("play/pause")),
		),
		mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mute"),
		),
		next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next"),
		),
		prev: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "previous"),
		),
		back: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "rewind"),
		),
		forward: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "forward"),
		),
		segment: key.NewBinding(
			key.WithKeys("1", "2", "3", "4"),
			key.WithHelp("1-4", "jump to line"),
		),
		restart: key.NewBinding(
			key.WithKeys("0", "home"),
			key.WithHelp("0", "restart"),
		),
		retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

func (k *playerKeymap) help() ([]key.Binding, []key.Binding) {
	h := func(bindings ...key.Binding) []key.Binding {
		return bindings
	}

	all := h(k.playPause, k.mute, k.back, k.forward, k.next, k.prev, k.segment, k.restart, k.retry, k.quit)

	switch {
	case k.err:
		return h(k.retry, k.mute, k.quit), all
	case k.state == engine.Ended:
		return h(withDescription(k.playPause, "replay"), k.quit), all
	case k.state == engine.Idle:
		return h(k.forceQuit), all
	default:
		return h(k.playPause, k.mute, k.back, k.forward, k.next, k.showHelp), all
	}
}

func (k *playerKeymap) ShortHelp() []key.Binding {
	short, _ := k.help()
	return short
}

func (k *playerKeymap) FullHelp() [][]key.Binding {
	_, full := k.help()
	return [][]key.Binding{full}
}

func withDescription(k key.Binding, description string) key.Binding {
	return key.NewBinding(
		key.WithKeys(k.Keys()...),
		key.WithHelp(k.Help().Key, description),
	)
}
