// Package cardform provides the create/edit form for Kanban cards.
package cardform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/project-hub/internal/model"
	"github.com/nhle/project-hub/internal/theme"
)

// CardCreatedMsg is dispatched when a new card is submitted via the form.
type CardCreatedMsg struct {
	Card model.Card
}

// CardUpdatedMsg is dispatched when an existing card is updated via the
// form.
type CardUpdatedMsg struct {
	Card model.Card
}

// CardFormCancelMsg is dispatched when the user cancels the form.
type CardFormCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	description string
	assigneeID  string
	boardID     string
}

// Model is the Bubble Tea model for the card create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	editCard model.Card
	boards   []model.Board
	members  []model.User
	width    int
	height   int
}

// New creates a new card form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// SetOptions sets the available boards and project members for the form
// selectors.
func (m *Model) SetOptions(boards []model.Board, members []model.User) {
	m.boards = boards
	m.members = members
}

// StartCreate initializes the form for creating a new card on a board.
func (m *Model) StartCreate(boardID string) tea.Cmd {
	m.editMode = false
	m.editCard = model.Card{}
	m.fb.title = ""
	m.fb.description = ""
	m.fb.assigneeID = ""
	m.fb.boardID = boardID
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form for editing an existing card.
func (m *Model) StartEdit(card model.Card) tea.Cmd {
	m.editMode = true
	m.editCard = card
	m.fb.title = card.Title
	m.fb.description = card.Description
	m.fb.assigneeID = card.AssigneeID
	m.fb.boardID = card.BoardID
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the card form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CardFormCancelMsg{} }
	}

	return m, cmd
}

// View renders the card form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Card"
	if m.editMode {
		titleText = "Edit Card"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Placeholder("What needs doing?").
			Value(&m.fb.title).
			Validate(validateRequired("Title")),
		huh.NewText().
			Title("Description").
			Placeholder("Optional details...").
			Value(&m.fb.description),
		m.assigneeField(),
		m.boardField(),
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) assigneeField() huh.Field {
	opts := []huh.Option[string]{
		huh.NewOption("Unassigned", ""),
	}
	for _, u := range m.members {
		opts = append(opts, huh.NewOption(u.Name, u.ID))
	}
	return huh.NewSelect[string]().
		Title("Assignee").
		Options(opts...).
		Value(&m.fb.assigneeID)
}

func (m *Model) boardField() huh.Field {
	opts := make([]huh.Option[string], 0, len(m.boards))
	for _, b := range m.boards {
		opts = append(opts, huh.NewOption(b.Title, b.ID))
	}
	return huh.NewSelect[string]().
		Title("Board").
		Options(opts...).
		Value(&m.fb.boardID)
}

func (m Model) handleSubmit() tea.Cmd {
	card := m.editCard
	card.Title = m.fb.title
	card.Description = m.fb.description
	card.AssigneeID = m.fb.assigneeID
	card.BoardID = m.fb.boardID

	if m.editMode {
		return func() tea.Msg { return CardUpdatedMsg{Card: card} }
	}
	return func() tea.Msg { return CardCreatedMsg{Card: card} }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}
