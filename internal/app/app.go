// Package app is the root Bubble Tea model: it routes between the
// board, activity feed, and notification center views, runs the toast
// overlay, and translates user actions into service calls.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/nhle/project-hub/internal/activity"
	"github.com/nhle/project-hub/internal/kanban"
	"github.com/nhle/project-hub/internal/keys"
	"github.com/nhle/project-hub/internal/model"
	"github.com/nhle/project-hub/internal/notify"
	"github.com/nhle/project-hub/internal/store"
	"github.com/nhle/project-hub/internal/toast"
	"github.com/nhle/project-hub/internal/ui"
	boardview "github.com/nhle/project-hub/internal/ui/board"
	"github.com/nhle/project-hub/internal/ui/cardform"
	feedview "github.com/nhle/project-hub/internal/ui/feed"
	"github.com/nhle/project-hub/internal/ui/notifcenter"
	"github.com/nhle/project-hub/internal/ui/toasts"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewBoard ViewState = iota
	ViewFeed
	ViewNotifications
	ViewCardForm
	ViewHelp
)

// tickMsg drives periodic redraws so relative timestamps stay fresh.
type tickMsg time.Time

// activityMsg signals that the feed recorded a new entry.
type activityMsg struct{}

// toastsMsg signals that the visible toast list changed.
type toastsMsg struct{}

// cardMutatedMsg reports the outcome of a card mutation.
type cardMutatedMsg struct {
	err error
}

// Deps bundles the collaborators the root model needs.
type Deps struct {
	Store         store.Store
	Service       *kanban.Service
	Notifications *notify.Store
	Toasts        *toast.Manager
	Feed          *activity.Feed
	Project       model.Project
	User          model.User
	Log           logrus.FieldLogger
}

// Model is the root Bubble Tea model.
type Model struct {
	deps Deps

	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap
	help         help.Model

	boardView boardview.Model
	feedView  feedview.Model
	notifView notifcenter.Model
	cardForm  cardform.Model

	ready        bool
	statusNotice string
}

// New creates the root application model.
func New(deps Deps) Model {
	k := keys.DefaultKeyMap()

	return Model{
		deps:        deps,
		currentView: ViewBoard,
		keys:        k,
		help:        help.New(),
		boardView:   boardview.New(deps.Store, k, deps.Project.ID, 80, 24),
		feedView:    feedview.New(deps.Feed, 80, 24),
		notifView:   notifcenter.New(deps.Notifications, k, deps.User.ID, 80, 24),
		cardForm:    cardform.New(80, 24),
	}
}

// Init starts toast delivery and the initial loads.
func (m Model) Init() tea.Cmd {
	m.deps.Toasts.Start()

	return tea.Batch(
		m.boardView.Init(),
		m.notifView.Init(),
		m.waitForActivity(),
		m.waitForToasts(),
		m.scheduleTick(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.boardView.SetSize(w, h)
		m.feedView.SetSize(w, h)
		m.notifView.SetSize(w, h)
		m.cardForm.SetSize(w, h)
		m.help.Width = w
		return m.updateActiveView(msg)

	case tickMsg:
		// Redraw so relative timestamps and toast lifetimes stay current.
		return m, m.scheduleTick()

	case activityMsg:
		return m, m.waitForActivity()

	case toastsMsg:
		return m, m.waitForToasts()

	case cardMutatedMsg:
		if msg.err != nil {
			m.statusNotice = msg.err.Error()
		} else {
			m.statusNotice = ""
		}
		return m, tea.Batch(m.boardView.LoadCards(), m.notifView.Reload())

	case boardview.NewCardRequestMsg:
		m.previousView = m.currentView
		m.currentView = ViewCardForm
		m.cardForm.SetOptions(m.boardView.Boards(), m.projectMembers())
		return m, m.cardForm.StartCreate(msg.BoardID)

	case boardview.MoveCardRequestMsg:
		return m, m.moveCard(msg.CardID, msg.ToBoardID)

	case cardform.CardCreatedMsg:
		m.currentView = ViewBoard
		return m, m.createCard(msg.Card)

	case cardform.CardUpdatedMsg:
		m.currentView = ViewBoard
		return m, m.updateCard(msg.Card)

	case cardform.CardFormCancelMsg:
		m.currentView = ViewBoard
		return m, nil

	case tea.KeyMsg:
		if m.currentView == ViewCardForm {
			break
		}

		switch {
		case msg.String() == "ctrl+c", key.Matches(msg, m.keys.Quit):
			return m, m.shutdown()

		case key.Matches(msg, m.keys.Help):
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return m, nil

		case key.Matches(msg, m.keys.Back):
			if m.currentView != ViewBoard {
				m.currentView = ViewBoard
				return m, nil
			}

		case key.Matches(msg, m.keys.Board):
			m.currentView = ViewBoard
			return m, m.boardView.LoadCards()

		case key.Matches(msg, m.keys.Feed):
			m.currentView = ViewFeed
			return m, nil

		case key.Matches(msg, m.keys.Notifications):
			m.currentView = ViewNotifications
			return m, m.notifView.Reload()

		case key.Matches(msg, m.keys.Dismiss):
			if visible := m.deps.Toasts.Visible(); len(visible) > 0 {
				m.deps.Toasts.Dismiss(visible[0].ID)
			}
			return m, nil
		}
	}

	return m.updateActiveView(msg)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewBoard:
		m.boardView, cmd = m.boardView.Update(msg)
	case ViewFeed:
		m.feedView, cmd = m.feedView.Update(msg)
	case ViewNotifications:
		m.notifView, cmd = m.notifView.Update(msg)
	case ViewCardForm:
		m.cardForm, cmd = m.cardForm.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	title := m.deps.Project.Name
	badge := ""
	if unread := m.notifView.UnreadCount(); unread > 0 {
		badge = fmt.Sprintf("[%d unread]", unread)
	}
	header := m.layout.RenderHeader(title, badge)

	content := toasts.Overlay(
		m.renderContent(),
		m.deps.Toasts.Visible(),
		m.layout.ContentWidth(),
	)
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewBoard:
		return m.boardView.View()
	case ViewFeed:
		return m.feedView.View()
	case ViewNotifications:
		return m.notifView.View()
	case ViewCardForm:
		return m.cardForm.View()
	case ViewHelp:
		return m.help.FullHelpView(m.keys.FullHelp())
	default:
		return ""
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.statusNotice != "" {
		return m.statusNotice
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCardForm:
		return "enter submit | esc cancel"
	case ViewFeed:
		return "j/k scroll | 1 board | 3 notifications | q quit"
	case ViewNotifications:
		return "r mark read | 1 board | 2 feed | q quit"
	default:
		return "n new card | m move | tab column | 2 feed | 3 notifications | ? help | q quit"
	}
}

// shutdown stops toast delivery and the feed subscription before quitting.
func (m Model) shutdown() tea.Cmd {
	m.deps.Toasts.Stop()
	m.deps.Feed.Close()
	return tea.Quit
}

// projectMembers lists the project's owner and shared users as assignee
// candidates. Display names fall back to IDs when no richer identity is
// known.
func (m Model) projectMembers() []model.User {
	members := []model.User{{ID: m.deps.Project.OwnerID, Name: m.deps.Project.OwnerID}}
	if m.deps.User.ID == m.deps.Project.OwnerID {
		members[0] = m.deps.User
	}
	for _, share := range m.deps.Project.Shares {
		if share.UserID == m.deps.Project.OwnerID {
			continue
		}
		member := model.User{ID: share.UserID, Name: share.UserID}
		if share.UserID == m.deps.User.ID {
			member = m.deps.User
		}
		members = append(members, member)
	}
	return members
}

// createCard runs the card creation through the service.
func (m Model) createCard(card model.Card) tea.Cmd {
	card.ProjectID = m.deps.Project.ID
	service := m.deps.Service
	actor := m.deps.User
	return func() tea.Msg {
		_, err := service.AddCard(context.Background(), actor, card)
		return cardMutatedMsg{err: err}
	}
}

// updateCard runs a card edit through the service.
func (m Model) updateCard(card model.Card) tea.Cmd {
	service := m.deps.Service
	actor := m.deps.User
	return func() tea.Msg {
		err := service.UpdateCard(context.Background(), actor, card)
		return cardMutatedMsg{err: err}
	}
}

// moveCard runs a card move through the service.
func (m Model) moveCard(cardID, toBoardID string) tea.Cmd {
	service := m.deps.Service
	actor := m.deps.User
	return func() tea.Msg {
		_, err := service.MoveCard(context.Background(), actor, cardID, toBoardID)
		return cardMutatedMsg{err: err}
	}
}

// waitForActivity blocks on the feed's update channel.
func (m Model) waitForActivity() tea.Cmd {
	updates := m.deps.Feed.Updates()
	return func() tea.Msg {
		<-updates
		return activityMsg{}
	}
}

// waitForToasts blocks on the toast manager's update channel.
func (m Model) waitForToasts() tea.Cmd {
	updates := m.deps.Toasts.Updates()
	return func() tea.Msg {
		<-updates
		return toastsMsg{}
	}
}

// scheduleTick arranges the next periodic redraw.
func (m Model) scheduleTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
