// Package kanban implements the domain operations of the hub: board and
// card mutations, document edits, and project shares. Each operation
// persists its change, publishes the matching realtime event, and decides
// whether the change is notification-worthy. The bus never creates
// notifications on its own; this service is the layer that translates
// selected events into them.
package kanban

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nhle/project-hub/internal/model"
	"github.com/nhle/project-hub/internal/notify"
	"github.com/nhle/project-hub/internal/permissions"
	"github.com/nhle/project-hub/internal/realtime"
	"github.com/nhle/project-hub/internal/store"
)

// Service executes domain operations on behalf of an acting user.
type Service struct {
	store         store.Store
	bus           *realtime.Bus
	notifications *notify.Store
}

// NewService creates a kanban service over the given collaborators.
func NewService(s store.Store, bus *realtime.Bus, notifications *notify.Store) *Service {
	return &Service{
		store:         s,
		bus:           bus,
		notifications: notifications,
	}
}

// AddBoard creates a new board column and announces it on the project
// channel. Board creation is activity, not a notification.
func (s *Service) AddBoard(ctx context.Context, projectID, title string) (model.Board, error) {
	board := model.Board{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Title:     title,
	}
	if err := s.store.CreateBoard(ctx, board); err != nil {
		return model.Board{}, fmt.Errorf("adding board: %w", err)
	}

	s.bus.Publish(projectID, model.EventBoardAdd, map[string]any{
		"title": board.Title,
	})

	return board, nil
}

// AddCard creates a card and announces it. When the card is assigned to
// someone other than the actor, the assignee gets a task_assigned
// notification.
func (s *Service) AddCard(ctx context.Context, actor model.User, card model.Card) (model.Card, error) {
	if card.ID == "" {
		card.ID = uuid.New().String()
	}
	if err := s.store.CreateCard(ctx, card); err != nil {
		return model.Card{}, fmt.Errorf("adding card: %w", err)
	}

	s.bus.Publish(card.ProjectID, model.EventCardAdd, map[string]any{
		"title": card.Title,
	})

	if card.AssigneeID != "" && card.AssigneeID != actor.ID {
		s.notifications.Add(model.Notification{
			UserID:    card.AssigneeID,
			Type:      model.NotificationTaskAssigned,
			Title:     "Task Assigned",
			Message:   fmt.Sprintf("You were assigned %q", card.Title),
			TaskID:    card.ID,
			ProjectID: card.ProjectID,
		})
	}

	return card, nil
}

// MoveCard moves a card to another board and announces it. The assignee
// is notified unless they performed the move themselves.
func (s *Service) MoveCard(ctx context.Context, actor model.User, cardID, toBoardID string) (*model.Card, error) {
	card, err := s.store.GetCardByID(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("moving card: %w", err)
	}

	card.BoardID = toBoardID
	if err := s.store.UpdateCard(ctx, *card); err != nil {
		return nil, fmt.Errorf("moving card: %w", err)
	}

	s.bus.Publish(card.ProjectID, model.EventCardMove, map[string]any{
		"taskId": card.ID,
	})

	if card.AssigneeID != "" && card.AssigneeID != actor.ID {
		s.notifications.Add(model.Notification{
			UserID:    card.AssigneeID,
			Type:      model.NotificationTaskMoved,
			Title:     "Task Moved",
			Message:   fmt.Sprintf("%q was moved by %s", card.Title, actor.Name),
			TaskID:    card.ID,
			ProjectID: card.ProjectID,
		})
	}

	return card, nil
}

// UpdateCard saves card edits and announces them. The assignee is
// notified unless they made the edit.
func (s *Service) UpdateCard(ctx context.Context, actor model.User, card model.Card) error {
	if err := s.store.UpdateCard(ctx, card); err != nil {
		return fmt.Errorf("updating card: %w", err)
	}

	s.bus.Publish(card.ProjectID, model.EventCardUpdate, map[string]any{})

	if card.AssigneeID != "" && card.AssigneeID != actor.ID {
		s.notifications.Add(model.Notification{
			UserID:    card.AssigneeID,
			Type:      model.NotificationTaskUpdated,
			Title:     "Task Updated",
			Message:   fmt.Sprintf("%q was updated by %s", card.Title, actor.Name),
			TaskID:    card.ID,
			ProjectID: card.ProjectID,
		})
	}

	return nil
}

// AssignCard hands a card to a new assignee. The new assignee is notified
// unless they assigned it to themselves.
func (s *Service) AssignCard(ctx context.Context, actor model.User, cardID, assigneeID string) error {
	card, err := s.store.GetCardByID(ctx, cardID)
	if err != nil {
		return fmt.Errorf("assigning card: %w", err)
	}

	card.AssigneeID = assigneeID
	if err := s.store.UpdateCard(ctx, *card); err != nil {
		return fmt.Errorf("assigning card: %w", err)
	}

	s.bus.Publish(card.ProjectID, model.EventCardUpdate, map[string]any{})

	if assigneeID != "" && assigneeID != actor.ID {
		s.notifications.Add(model.Notification{
			UserID:    assigneeID,
			Type:      model.NotificationTaskAssigned,
			Title:     "Task Assigned",
			Message:   fmt.Sprintf("You were assigned %q", card.Title),
			TaskID:    card.ID,
			ProjectID: card.ProjectID,
		})
	}

	return nil
}

// UpdateDocument saves document edits and announces them with the
// editor's display name. Document edits produce activity only.
func (s *Service) UpdateDocument(ctx context.Context, actor model.User, doc model.Document) error {
	doc.UpdatedBy = actor.Name
	if err := s.store.UpdateDocument(ctx, doc); err != nil {
		return fmt.Errorf("updating document: %w", err)
	}

	s.bus.Publish(doc.ProjectID, model.EventDocumentUpdate, map[string]any{
		"userName": actor.Name,
	})

	return nil
}

// ShareProject grants a user a role on a project. The actor needs share
// permission; this is the only role check the hub enforces.
func (s *Service) ShareProject(ctx context.Context, actor model.User, projectID string, target model.User, role permissions.Role) error {
	project, err := s.store.GetProjectByID(ctx, projectID)
	if err != nil {
		return fmt.Errorf("sharing project: %w", err)
	}

	if !permissions.CanShare(permissions.RoleFor(project, actor.ID)) {
		return fmt.Errorf("user %s cannot share project %s", actor.ID, projectID)
	}

	if err := s.store.UpsertShare(ctx, model.Share{
		ProjectID: projectID,
		UserID:    target.ID,
		Role:      string(role),
	}); err != nil {
		return fmt.Errorf("sharing project: %w", err)
	}

	s.bus.Publish(projectID, model.EventActivityLog, map[string]any{
		"message": fmt.Sprintf("%s shared the project with %s", actor.Name, target.Name),
	})

	return nil
}

// LogActivity publishes a free-form activity line on a project channel.
func (s *Service) LogActivity(projectID, message string) {
	s.bus.Publish(projectID, model.EventActivityLog, map[string]any{
		"message": message,
	})
}
