// Package notifcenter renders the notification center: the user's
// notifications newest first, with unread ones highlighted.
package notifcenter

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/project-hub/internal/activity"
	"github.com/nhle/project-hub/internal/keys"
	"github.com/nhle/project-hub/internal/model"
	"github.com/nhle/project-hub/internal/notify"
	"github.com/nhle/project-hub/internal/theme"
)

// NotificationItem wraps a model.Notification so it can be used in a
// bubbles/list.
type NotificationItem struct {
	Notification model.Notification
}

// FilterValue returns the string used for fuzzy filtering.
func (i NotificationItem) FilterValue() string { return i.Notification.Title }

// Title returns the notification title for the list.
func (i NotificationItem) Title() string { return i.Notification.Title }

// Description returns the notification message.
func (i NotificationItem) Description() string { return i.Notification.Message }

// ItemDelegate implements list.ItemDelegate for notification rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused for now).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single notification line. Read notifications are dimmed.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ni, ok := item.(NotificationItem)
	if !ok {
		return
	}

	n := ni.Notification
	isSelected := index == m.Index()

	marker := "●"
	if n.Read {
		marker = "○"
	}

	when := theme.DimmedStyle.Render(activity.RelativeTime(n.Timestamp, time.Now()))
	line := fmt.Sprintf("%s %s: %s  %s", marker, n.Title, n.Message, when)

	if n.Read {
		line = theme.DimmedStyle.Render(line)
	}

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// Model is the notification center view component.
type Model struct {
	list   list.Model
	store  *notify.Store
	keys   *keys.KeyMap
	userID string
	width  int
	height int
}

// New creates a new notification center for the given user.
func New(s *notify.Store, k *keys.KeyMap, userID string, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Notifications"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		store:  s,
		keys:   k,
		userID: userID,
		width:  width,
		height: height,
	}
}

// Init reloads the notification list.
func (m Model) Init() tea.Cmd {
	return m.Reload()
}

// Reload rebuilds the list from the store, newest first.
func (m *Model) Reload() tea.Cmd {
	notifications := m.store.All(m.userID)
	items := make([]list.Item, len(notifications))
	for i, n := range notifications {
		items[i] = NotificationItem{Notification: n}
	}
	return m.list.SetItems(items)
}

// Update handles messages for the notification center.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.MarkRead), key.Matches(msg, m.keys.Select):
			item, ok := m.list.SelectedItem().(NotificationItem)
			if !ok {
				return m, nil
			}
			m.store.MarkAsRead(item.Notification.ID)
			return m, m.Reload()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the notification center.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No notifications.")
	}
	return m.list.View()
}

// UnreadCount returns the number of unread notifications for the user.
func (m Model) UnreadCount() int {
	return len(m.store.Unread(m.userID))
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
