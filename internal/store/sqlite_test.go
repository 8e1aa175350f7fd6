package store

import (
	"context"
	"testing"

	"github.com/nhle/project-hub/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})
	return s
}

func seedProject(t *testing.T, s *SQLiteStore) model.Project {
	t.Helper()

	project := model.Project{
		ID:      "p1",
		Name:    "Apollo",
		OwnerID: "alice",
	}
	if err := s.CreateProject(context.Background(), project); err != nil {
		t.Fatalf("creating project: %v", err)
	}
	return project
}

func TestProjectRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedProject(t, s)

	if err := s.UpsertShare(ctx, model.Share{
		ProjectID: "p1", UserID: "bob", Role: "editor",
	}); err != nil {
		t.Fatalf("upserting share: %v", err)
	}

	got, err := s.GetProjectByID(ctx, "p1")
	if err != nil {
		t.Fatalf("getting project: %v", err)
	}
	if got.Name != "Apollo" || got.OwnerID != "alice" {
		t.Errorf("unexpected project: %+v", got)
	}
	if len(got.Shares) != 1 || got.Shares[0].UserID != "bob" || got.Shares[0].Role != "editor" {
		t.Errorf("unexpected shares: %+v", got.Shares)
	}
}

func TestUpsertShareUpdatesRole(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedProject(t, s)

	for _, role := range []string{"viewer", "admin"} {
		if err := s.UpsertShare(ctx, model.Share{
			ProjectID: "p1", UserID: "bob", Role: role,
		}); err != nil {
			t.Fatalf("upserting share with role %s: %v", role, err)
		}
	}

	shares, err := s.GetShares(ctx, "p1")
	if err != nil {
		t.Fatalf("getting shares: %v", err)
	}
	if len(shares) != 1 {
		t.Fatalf("expected 1 share, got %d", len(shares))
	}
	if shares[0].Role != "admin" {
		t.Errorf("expected role admin after upsert, got %s", shares[0].Role)
	}
}

func TestBoardsOrderedBySortOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedProject(t, s)

	for _, title := range []string{"To Do", "In Progress", "Done"} {
		if err := s.CreateBoard(ctx, model.Board{ProjectID: "p1", Title: title}); err != nil {
			t.Fatalf("creating board %s: %v", title, err)
		}
	}

	boards, err := s.GetBoards(ctx, "p1")
	if err != nil {
		t.Fatalf("getting boards: %v", err)
	}
	if len(boards) != 3 {
		t.Fatalf("expected 3 boards, got %d", len(boards))
	}
	want := []string{"To Do", "In Progress", "Done"}
	for i, b := range boards {
		if b.Title != want[i] {
			t.Errorf("board %d: expected %s, got %s", i, want[i], b.Title)
		}
	}
}

func TestCardMoveAcrossBoards(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedProject(t, s)

	if err := s.CreateBoard(ctx, model.Board{ID: "b1", ProjectID: "p1", Title: "To Do"}); err != nil {
		t.Fatalf("creating board: %v", err)
	}
	if err := s.CreateBoard(ctx, model.Board{ID: "b2", ProjectID: "p1", Title: "Done"}); err != nil {
		t.Fatalf("creating board: %v", err)
	}

	card := model.Card{ID: "c1", ProjectID: "p1", BoardID: "b1", Title: "Fix bug", AssigneeID: "bob"}
	if err := s.CreateCard(ctx, card); err != nil {
		t.Fatalf("creating card: %v", err)
	}

	card.BoardID = "b2"
	if err := s.UpdateCard(ctx, card); err != nil {
		t.Fatalf("moving card: %v", err)
	}

	got, err := s.GetCardByID(ctx, "c1")
	if err != nil {
		t.Fatalf("getting card: %v", err)
	}
	if got.BoardID != "b2" {
		t.Errorf("expected card on board b2, got %s", got.BoardID)
	}

	boardID := "b2"
	cards, err := s.GetCards(ctx, "p1", CardFilter{BoardID: &boardID})
	if err != nil {
		t.Fatalf("getting cards: %v", err)
	}
	if len(cards) != 1 || cards[0].ID != "c1" {
		t.Errorf("expected c1 on b2, got %+v", cards)
	}
}

func TestUpdateMissingCardFails(t *testing.T) {
	s := newTestStore(t)
	seedProject(t, s)

	err := s.UpdateCard(context.Background(), model.Card{ID: "nope", Title: "x"})
	if err == nil {
		t.Fatal("expected error updating missing card")
	}
}

func TestDocumentVersionBumpsOnUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedProject(t, s)

	doc := model.Document{ID: "d1", ProjectID: "p1", Title: "Design notes", Content: "v1"}
	if err := s.CreateDocument(ctx, doc); err != nil {
		t.Fatalf("creating document: %v", err)
	}

	doc.Content = "v2"
	doc.UpdatedBy = "Bob"
	if err := s.UpdateDocument(ctx, doc); err != nil {
		t.Fatalf("updating document: %v", err)
	}

	got, err := s.GetDocumentByID(ctx, "d1")
	if err != nil {
		t.Fatalf("getting document: %v", err)
	}
	if got.Version != 2 {
		t.Errorf("expected version 2, got %d", got.Version)
	}
	if got.Content != "v2" || got.UpdatedBy != "Bob" {
		t.Errorf("unexpected document: %+v", got)
	}
}

func TestNotificationPersistenceRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	n := model.Notification{
		ID:        "notification-1",
		UserID:    "u1",
		Type:      model.NotificationTaskMoved,
		Title:     "Task Moved",
		Message:   `"Fix bug" was moved to Done`,
		TaskID:    "c1",
		ProjectID: "p1",
		Timestamp: 1700000000000,
	}
	if err := s.CreateNotification(ctx, n); err != nil {
		t.Fatalf("creating notification: %v", err)
	}

	if err := s.MarkNotificationDisplayed(ctx, "notification-1"); err != nil {
		t.Fatalf("marking displayed: %v", err)
	}
	if err := s.MarkNotificationRead(ctx, "notification-1"); err != nil {
		t.Fatalf("marking read: %v", err)
	}

	list, err := s.ListNotifications(ctx)
	if err != nil {
		t.Fatalf("listing notifications: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(list))
	}

	got := list[0]
	if got.UserID != n.UserID || got.Type != n.Type || got.Title != n.Title ||
		got.Message != n.Message || got.TaskID != n.TaskID ||
		got.ProjectID != n.ProjectID || got.Timestamp != n.Timestamp {
		t.Errorf("round-trip mismatch: %+v", got)
	}
	if !got.Read || !got.Displayed {
		t.Errorf("expected read and displayed flags preserved, got %+v", got)
	}
}
