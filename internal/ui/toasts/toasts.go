// Package toasts renders the transient toast overlay in the corner of
// the main view.
package toasts

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/project-hub/internal/theme"
	"github.com/nhle/project-hub/internal/toast"
)

// Render draws the currently visible toasts stacked vertically, capped
// to the given width. An empty slice renders as an empty string.
func Render(visible []toast.Toast, width int) string {
	if len(visible) == 0 {
		return ""
	}

	maxWidth := width - 4
	if maxWidth < 20 {
		maxWidth = 20
	}

	boxes := make([]string, 0, len(visible))
	for _, t := range visible {
		body := theme.ToastTitleStyle.Render(t.Title) + "\n" + t.Message
		boxes = append(boxes, theme.ToastStyle.MaxWidth(maxWidth).Render(body))
	}

	return lipgloss.JoinVertical(lipgloss.Right, boxes...)
}

// Overlay places the toast stack in the top-right corner of a content
// area without reflowing the content itself.
func Overlay(content string, visible []toast.Toast, width int) string {
	stack := Render(visible, width)
	if stack == "" {
		return content
	}

	placed := lipgloss.PlaceHorizontal(width, lipgloss.Right, stack)
	return lipgloss.JoinVertical(lipgloss.Left, placed, content)
}
