package board

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/project-hub/internal/model"
	"github.com/nhle/project-hub/internal/theme"
)

// CardItem wraps a model.Card so it can be used in a bubbles/list.
type CardItem struct {
	Card model.Card
}

// FilterValue returns the string used for fuzzy filtering.
func (i CardItem) FilterValue() string { return i.Card.Title }

// Title returns the card title for the list.
func (i CardItem) Title() string { return i.Card.Title }

// Description returns a short summary line for the list.
func (i CardItem) Description() string {
	if i.Card.AssigneeID == "" {
		return "unassigned"
	}
	return "assigned to " + i.Card.AssigneeID
}

// ItemDelegate implements list.ItemDelegate for rendering card rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused for now).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single card line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	cardItem, ok := item.(CardItem)
	if !ok {
		return
	}

	card := cardItem.Card
	isSelected := index == m.Index()

	assignee := ""
	if card.AssigneeID != "" {
		assignee = lipgloss.NewStyle().
			Foreground(theme.ColorMagenta).
			Render(" @" + card.AssigneeID)
	}

	line := fmt.Sprintf("● %s%s", card.Title, assignee)

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}
