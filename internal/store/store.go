package store

import (
	"context"

	"github.com/nhle/project-hub/internal/model"
)

// CardFilter controls filtering and sorting for card queries.
type CardFilter struct {
	BoardID    *string
	AssigneeID *string
	Query      *string
	Limit      int
}

// Store defines the persistence interface for projects, boards, cards,
// documents, shares, and notifications.
type Store interface {
	// === Projects ===

	CreateProject(ctx context.Context, project model.Project) error
	UpdateProject(ctx context.Context, project model.Project) error
	GetProjectByID(ctx context.Context, id string) (*model.Project, error)
	GetProjects(ctx context.Context) ([]model.Project, error)

	// === Shares ===

	UpsertShare(ctx context.Context, share model.Share) error
	GetShares(ctx context.Context, projectID string) ([]model.Share, error)

	// === Boards ===

	CreateBoard(ctx context.Context, board model.Board) error
	GetBoards(ctx context.Context, projectID string) ([]model.Board, error)

	// === Cards ===

	CreateCard(ctx context.Context, card model.Card) error
	UpdateCard(ctx context.Context, card model.Card) error
	GetCardByID(ctx context.Context, id string) (*model.Card, error)
	GetCards(ctx context.Context, projectID string, filter CardFilter) ([]model.Card, error)

	// === Documents ===

	CreateDocument(ctx context.Context, doc model.Document) error
	UpdateDocument(ctx context.Context, doc model.Document) error
	GetDocumentByID(ctx context.Context, id string) (*model.Document, error)
	GetDocuments(ctx context.Context, projectID string) ([]model.Document, error)

	// === Notifications ===
	//
	// These four methods satisfy notify.Persister. Flags only ever move
	// from 0 to 1; no delete statement exists for notifications.

	CreateNotification(ctx context.Context, n model.Notification) error
	MarkNotificationRead(ctx context.Context, id string) error
	MarkNotificationDisplayed(ctx context.Context, id string) error
	ListNotifications(ctx context.Context) ([]model.Notification, error)
}
