package tui

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/quarrel-cli/quarrel/engine"
	"github.com/quarrel-cli/quarrel/internal/ui"
	"github.com/quarrel-cli/quarrel/log"
)

func (b *playerBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if cmd := b.notifier.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case snapshotMsg:
		cmds = append(cmds, b.onSnapshot(engine.Snapshot(msg)), b.waitForSnapshot())
	case feedClosedMsg:
		return b, tea.Quit
	case commandErrMsg:
		cmds = append(cmds, b.onCommandErr(msg.err))
	case closedMsg:
		return b, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		cmds = append(cmds, cmd)
	case tea.KeyMsg:
		cmds = append(cmds, b.onKey(msg))
	}

	return b, tea.Batch(cmds...)
}

// onSnapshot stores a snapshot and announces what changed since the previous one.
func (b *playerBubble) onSnapshot(next engine.Snapshot) tea.Cmd {
	prev := b.snap
	b.snap = next
	b.keymap.setState(next)

	for i := range next.Failed {
		if next.Failed[i] && (i >= len(prev.Failed) || !prev.Failed[i]) {
			return ui.Notify(fmt.Sprintf("line %s could not be played and was skipped", b.segmentName(i)))
		}
	}

	switch {
	case next.NeedsInteraction && !prev.NeedsInteraction:
		return ui.Notify("press space to start the audio")
	case next.Err != nil && prev.Err == nil:
		log.Error(next.Err)
	case next.IsMuted != prev.IsMuted:
		if next.IsMuted {
			return ui.Notify("muted")
		}
		return ui.Notify("unmuted")
	}

	return nil
}

func (b *playerBubble) onCommandErr(err error) tea.Cmd {
	switch {
	case errors.Is(err, engine.ErrTimelineUnknown):
		return ui.Notify("scrubbing unlocks once every line's length is known")
	case errors.Is(err, engine.ErrClosed):
		return tea.Quit
	default:
		log.Warn(err)
		return ui.Notify(err.Error())
	}
}

func (b *playerBubble) onKey(msg tea.KeyMsg) tea.Cmd {
	p := b.options.Player

	switch {
	case key.Matches(msg, b.keymap.forceQuit), key.Matches(msg, b.keymap.quit):
		return b.close()
	case b.closing:
		return nil
	case key.Matches(msg, b.keymap.playPause):
		return b.run(p.Toggle)
	case key.Matches(msg, b.keymap.mute):
		return b.run(p.ToggleMute)
	case key.Matches(msg, b.keymap.next):
		return b.run(p.Next)
	case key.Matches(msg, b.keymap.prev):
		return b.run(p.Prev)
	case key.Matches(msg, b.keymap.back):
		return b.run(func() error { return p.SeekBy(-b.options.SeekStep) })
	case key.Matches(msg, b.keymap.forward):
		return b.run(func() error { return p.SeekBy(b.options.SeekStep) })
	case key.Matches(msg, b.keymap.restart):
		return b.run(func() error { return p.SkipTo(0) })
	case key.Matches(msg, b.keymap.segment):
		n, err := strconv.Atoi(msg.String())
		if err != nil {
			return nil
		}
		return b.run(func() error { return p.SkipTo(n - 1) })
	case key.Matches(msg, b.keymap.retry):
		return b.run(p.Retry)
	case key.Matches(msg, b.keymap.showHelp):
		b.helpC.ShowAll = !b.helpC.ShowAll
	}

	return nil
}

// run calls into the player off the update loop. Errors come back as commandErrMsg.
func (b *playerBubble) run(f func() error) tea.Cmd {
	return func() tea.Msg {
		if err := f(); err != nil {
			return commandErrMsg{err: err}
		}
		return nil
	}
}

func (b *playerBubble) close() tea.Cmd {
	if b.closing {
		return nil
	}
	b.closing = true
	return func() tea.Msg {
		if err := b.options.Player.Close(); err != nil {
			log.Warn(err)
		}
		return closedMsg{}
	}
}

func (b *playerBubble) segmentName(i int) string {
	if i < len(b.options.Segments) {
		return b.options.Segments[i].Label()
	}
	return strconv.Itoa(i + 1)
}
