package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
	"github.com/quarrel-cli/quarrel/color"
	"github.com/quarrel-cli/quarrel/engine"
	"github.com/quarrel-cli/quarrel/icon"
	"github.com/quarrel-cli/quarrel/scene"
	"github.com/quarrel-cli/quarrel/style"
	"github.com/quarrel-cli/quarrel/util"
)

// clockWidth is the room kept right of the progress bar for "m:ss / m:ss".
const clockWidth = 16

var (
	paddingStyle = lipgloss.NewStyle().Padding(1, 2)
	captionStyle = lipgloss.NewStyle().Foreground(style.CaptionColor).Italic(true)
)

func (b *playerBubble) View() string {
	lines := []string{
		b.viewHeader(),
		"",
		b.viewTabs(),
		"",
	}
	lines = append(lines, b.viewCaption()...)
	lines = append(lines,
		"",
		b.viewProgress(),
		b.viewRuler(),
		"",
		b.viewStatus(),
	)

	return b.notifier.View(b.renderLines(lines))
}

func (b *playerBubble) viewHeader() string {
	header := style.Title(b.options.Title)
	if b.options.Topic != "" {
		header += " " + style.Faint(b.options.Topic)
	}
	return header
}

// viewTabs renders one tab per segment, the current one filled.
func (b *playerBubble) viewTabs() string {
	tabs := make([]string, 0, len(b.options.Segments))
	for i, s := range b.options.Segments {
		label := s.Name.String()
		if b.options.ShowSpeakers && s.Speaker != "" {
			label = s.Label()
		}
		if i < len(b.snap.Failed) && b.snap.Failed[i] {
			label = icon.Get(icon.Fail) + " " + label
		}
		tabs = append(tabs, style.SegmentTab(i, label, i == b.snap.Index))
	}
	return strings.Join(tabs, " ")
}

func (b *playerBubble) viewCaption() []string {
	width := min(b.options.CaptionWidth, max(b.width, 10))

	var lines []string
	if speaker := b.snap.Segment.Speaker; speaker != "" {
		lines = append(lines, style.Bold(style.Fg(color.Segment(b.snap.Index))(speaker)))
	}

	caption := b.snap.Caption
	if caption == "" {
		caption = "…"
	}
	for _, line := range strings.Split(wrap.String(caption, width), "\n") {
		lines = append(lines, captionStyle.Render(line))
	}
	return lines
}

func (b *playerBubble) viewProgress() string {
	if !b.snap.TimelineKnown {
		return fmt.Sprintf("%s %s %s",
			b.spinnerC.View(),
			style.Faint("measuring line lengths"),
			style.Faint(util.FormatClock(b.snap.Offset)),
		)
	}

	clock := fmt.Sprintf("%s / %s", util.FormatClock(b.snap.GlobalTime), util.FormatClock(b.snap.Total))
	return b.progressC.ViewAs(b.snap.Percent/100) + " " + clock
}

// viewRuler marks where each segment sits under the progress bar.
func (b *playerBubble) viewRuler() string {
	if !b.snap.TimelineKnown {
		return ""
	}
	return ruler(b.snap.Boundaries, b.snap.Total, b.progressC.Width)
}

func ruler(boundaries []engine.Boundary, total float64, width int) string {
	if total <= 0 || width <= 0 || len(boundaries) == 0 {
		return ""
	}

	var (
		sb   strings.Builder
		used int
	)
	for i, boundary := range boundaries {
		n := int(math.Round(boundary.End/total*float64(width))) - used
		if i == len(boundaries)-1 {
			n = width - used
		}
		if n <= 0 {
			continue
		}
		used += n

		piece := scene.Names[i].String() + strings.Repeat("─", n-1)
		sb.WriteString(style.Fg(color.Segment(i))(piece))
	}
	return sb.String()
}

func (b *playerBubble) viewStatus() string {
	s := b.snap

	var status string
	switch {
	case s.Err != nil:
		status = lipgloss.NewStyle().Foreground(style.ErrorColor).Render(
			wrap.String(icon.Get(icon.Fail)+" "+s.Err.Error(), max(b.width, 20)),
		)
	case s.NeedsInteraction:
		status = icon.Get(icon.Pause) + " " + style.Fg(style.WarningColor)("waiting for you, press space")
	case s.IsLoading:
		status = b.spinnerC.View() + " buffering " + b.segmentName(s.Index)
	case s.State == engine.Playing:
		status = icon.Get(icon.Play) + " playing " + b.segmentName(s.Index)
	case s.State == engine.Paused, s.State == engine.Ready:
		status = icon.Get(icon.Pause) + " paused"
	case s.State == engine.Ended:
		status = icon.Get(icon.Ended) + " that's the scene"
	default:
		status = style.Faint(s.State.String())
	}

	if s.IsMuted {
		status += "  " + icon.Get(icon.Muted)
	}
	return status
}

// renderLines pads the page to the terminal height with help pinned to the bottom.
func (b *playerBubble) renderLines(lines []string) string {
	h := 0
	for _, line := range lines {
		h += lipgloss.Height(line)
	}

	l := strings.Join(lines, "\n")
	if b.height > h+1 {
		l += strings.Repeat("\n", b.height-h-1)
	}
	l += "\n" + b.helpC.View(b.keymap)

	return paddingStyle.Render(l)
}
