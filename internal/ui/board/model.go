// Package board renders the Kanban view: one column at a time, with
// tab cycling between the project's boards.
package board

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/project-hub/internal/keys"
	"github.com/nhle/project-hub/internal/model"
	"github.com/nhle/project-hub/internal/store"
	"github.com/nhle/project-hub/internal/theme"
)

// BoardsLoadedMsg is sent when the project's boards have been loaded.
type BoardsLoadedMsg struct {
	Boards []model.Board
}

// CardsLoadedMsg is sent when the active board's cards have been loaded.
type CardsLoadedMsg struct {
	Cards []model.Card
}

// NewCardRequestMsg is sent when the user asks to create a card on the
// active board.
type NewCardRequestMsg struct {
	BoardID string
}

// MoveCardRequestMsg is sent when the user asks to move the selected
// card to the next board.
type MoveCardRequestMsg struct {
	CardID    string
	ToBoardID string
}

// Model is the Kanban board view component.
type Model struct {
	list       list.Model
	store      store.Store
	keys       *keys.KeyMap
	projectID  string
	boards     []model.Board
	boardIndex int
	width      int
	height     int
}

// New creates a new board view for the given project.
func New(s store.Store, k *keys.KeyMap, projectID string, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Board"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.BoardTitleStyle

	return Model{
		list:      l,
		store:     s,
		keys:      k,
		projectID: projectID,
		width:     width,
		height:    height,
	}
}

// Init returns a command that loads the project's boards.
func (m Model) Init() tea.Cmd {
	return m.LoadBoards()
}

// Update handles messages for the board view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case BoardsLoadedMsg:
		m.boards = msg.Boards
		if m.boardIndex >= len(m.boards) {
			m.boardIndex = 0
		}
		if len(m.boards) > 0 {
			m.list.Title = m.boards[m.boardIndex].Title
		}
		return m, m.LoadCards()

	case CardsLoadedMsg:
		items := make([]list.Item, len(msg.Cards))
		for i, card := range msg.Cards {
			items[i] = CardItem{Card: card}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case msg.String() == "tab":
			if len(m.boards) > 1 {
				m.boardIndex = (m.boardIndex + 1) % len(m.boards)
				m.list.Title = m.boards[m.boardIndex].Title
				return m, m.LoadCards()
			}
			return m, nil

		case key.Matches(msg, m.keys.NewCard):
			board, ok := m.ActiveBoard()
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg {
				return NewCardRequestMsg{BoardID: board.ID}
			}

		case key.Matches(msg, m.keys.MoveCard):
			item, ok := m.list.SelectedItem().(CardItem)
			if !ok || len(m.boards) < 2 {
				return m, nil
			}
			next := m.boards[(m.boardIndex+1)%len(m.boards)]
			return m, func() tea.Msg {
				return MoveCardRequestMsg{
					CardID:    item.Card.ID,
					ToBoardID: next.ID,
				}
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the board view.
func (m Model) View() string {
	return m.list.View()
}

// ActiveBoard returns the currently displayed board, if any.
func (m Model) ActiveBoard() (model.Board, bool) {
	if len(m.boards) == 0 {
		return model.Board{}, false
	}
	return m.boards[m.boardIndex], true
}

// Boards returns the loaded board columns.
func (m Model) Boards() []model.Board {
	return m.boards
}

// LoadBoards returns a command that queries the store for the project's
// boards.
func (m Model) LoadBoards() tea.Cmd {
	s := m.store
	projectID := m.projectID
	return func() tea.Msg {
		boards, err := s.GetBoards(context.Background(), projectID)
		if err != nil {
			return BoardsLoadedMsg{Boards: nil}
		}
		return BoardsLoadedMsg{Boards: boards}
	}
}

// LoadCards returns a command that queries the store for the active
// board's cards.
func (m Model) LoadCards() tea.Cmd {
	board, ok := m.ActiveBoard()
	if !ok {
		return func() tea.Msg { return CardsLoadedMsg{Cards: nil} }
	}

	s := m.store
	projectID := m.projectID
	boardID := board.ID
	return func() tea.Msg {
		cards, err := s.GetCards(context.Background(), projectID, store.CardFilter{
			BoardID: &boardID,
		})
		if err != nil {
			return CardsLoadedMsg{Cards: nil}
		}
		return CardsLoadedMsg{Cards: cards}
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
