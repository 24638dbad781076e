package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/quarrel-cli/quarrel/engine"
	"github.com/quarrel-cli/quarrel/internal/ui"
	"github.com/quarrel-cli/quarrel/style"
	"github.com/quarrel-cli/quarrel/util"
)

const (
	defaultCaptionWidth = 60
	defaultSeekStep     = 5.0
)

// playerBubble is the bubbletea model of the player page.
type playerBubble struct {
	options *Options
	keymap  *playerKeymap

	spinnerC  spinner.Model
	progressC progress.Model
	helpC     help.Model
	notifier  *ui.Model

	snap    engine.Snapshot
	closing bool

	width, height int
}

// snapshotMsg delivers a published engine snapshot.
type snapshotMsg engine.Snapshot

// feedClosedMsg is sent when the update channel is closed.
type feedClosedMsg struct{}

// commandErrMsg carries the error of a player command.
type commandErrMsg struct {
	err error
}

// closedMsg is sent once the player has shut down.
type closedMsg struct{}

func newBubble(options *Options) *playerBubble {
	if options.CaptionWidth <= 0 {
		options.CaptionWidth = defaultCaptionWidth
	}
	if options.SeekStep <= 0 {
		options.SeekStep = defaultSeekStep
	}

	bubble := &playerBubble{
		options:  options,
		keymap:   newPlayerKeymap(),
		helpC:    help.New(),
		notifier: &ui.Model{},
		snap:     options.Player.Snapshot(),
	}
	bubble.keymap.setState(bubble.snap)

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(style.AccentColor)

	bubble.progressC = progress.New(
		progress.WithGradient(string(style.AccentColor), string(style.SecondaryColor)),
		progress.WithoutPercentage(),
	)
	bubble.progressC.EmptyColor = string(style.TrackColor)

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	} else {
		bubble.resize(80, 24)
	}

	return bubble
}

func (b *playerBubble) Init() tea.Cmd {
	return tea.Batch(b.spinnerC.Tick, b.waitForSnapshot())
}

// waitForSnapshot blocks on the feed until the engine publishes.
func (b *playerBubble) waitForSnapshot() tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-b.options.Updates
		if !ok {
			return feedClosedMsg{}
		}
		return snapshotMsg(snap)
	}
}

// resize fits child components to the terminal.
func (b *playerBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	b.width = width - x
	b.height = height - y

	b.progressC.Width = max(10, b.width-clockWidth)
	b.helpC.Width = b.width
}
