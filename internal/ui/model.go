// Package ui provides ephemeral notifications for bubbletea views.
package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/quarrel-cli/quarrel/style"
)

// Lifetime is how long a notification stays on screen.
const Lifetime = 3 * time.Second

// Model shows one short notification at a time below the main content.
type Model struct {
	notification string
	seq          int
}

// NotifyMsg replaces the current notification.
type NotifyMsg string

// ClearNotificationMsg clears the notification it was scheduled for. Newer notifications survive it.
type ClearNotificationMsg struct {
	seq int
}

// Notify returns a command that shows text.
func Notify(text string) tea.Cmd {
	return func() tea.Msg {
		return NotifyMsg(text)
	}
}

func clearAfter(seq int) tea.Cmd {
	return tea.Tick(Lifetime, func(time.Time) tea.Msg {
		return ClearNotificationMsg{seq: seq}
	})
}

// Update applies notification messages and ignores everything else.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case NotifyMsg:
		m.seq++
		m.notification = string(msg)
		return clearAfter(m.seq)
	case ClearNotificationMsg:
		if msg.seq == m.seq {
			m.notification = ""
		}
	}
	return nil
}

// Current returns the notification on screen, if any.
func (m *Model) Current() string {
	return m.notification
}

// View appends the notification to the last line of content.
func (m *Model) View(content string) string {
	if m.notification == "" {
		return content
	}

	lines := strings.Split(content, "\n")
	lines[len(lines)-1] += "  " + style.Faint(m.notification)
	return strings.Join(lines, "\n")
}
