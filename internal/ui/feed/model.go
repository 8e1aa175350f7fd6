// Package feed renders the project activity timeline.
package feed

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/project-hub/internal/activity"
	"github.com/nhle/project-hub/internal/theme"
)

// Model is the activity feed view component. It reads entries straight
// from the feed projection on every render, so timestamps age naturally.
type Model struct {
	feed   *activity.Feed
	offset int
	width  int
	height int
}

// New creates a new feed view over the given activity projection.
func New(f *activity.Feed, width, height int) Model {
	return Model{
		feed:   f,
		width:  width,
		height: height,
	}
}

// Update handles messages for the feed view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.offset < len(m.feed.Entries())-1 {
				m.offset++
			}
		case "k", "up":
			if m.offset > 0 {
				m.offset--
			}
		case "g":
			m.offset = 0
		}
	}
	return m, nil
}

// View renders the activity entries, newest first.
func (m Model) View() string {
	entries := m.feed.Entries()
	if len(entries) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No activity yet.")
	}

	if m.offset >= len(entries) {
		m.offset = len(entries) - 1
	}

	visible := entries[m.offset:]
	maxLines := m.height
	if maxLines < 1 {
		maxLines = 1
	}
	if len(visible) > maxLines {
		visible = visible[:maxLines]
	}

	now := time.Now()
	lines := make([]string, 0, len(visible))
	for _, entry := range visible {
		badge := theme.EventBadge(string(entry.Event.Type))
		when := theme.DimmedStyle.Render(activity.RelativeTime(entry.Event.Timestamp, now))
		lines = append(lines, fmt.Sprintf("%s %s  %s", badge, entry.DisplayText, when))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
