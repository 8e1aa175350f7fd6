package toast

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nhle/project-hub/internal/model"
	"github.com/nhle/project-hub/internal/notify"
)

func newTestSetup(t *testing.T, lifetime time.Duration) (*notify.Store, *Manager) {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	store, err := notify.NewStore(nil, log)
	if err != nil {
		t.Fatalf("creating notify store: %v", err)
	}

	m := NewManager(store, "u1", time.Hour, lifetime, log)
	t.Cleanup(m.Stop)
	return store, m
}

func addNotification(store *notify.Store, title string) model.Notification {
	return store.Add(model.Notification{
		UserID:    "u1",
		Type:      model.NotificationTaskMoved,
		Title:     title,
		Message:   title,
		ProjectID: "p1",
	})
}

func TestTickDrainsExactlyOneOldestPerTick(t *testing.T) {
	store, m := newTestSetup(t, time.Hour)

	addNotification(store, "first")
	addNotification(store, "second")
	addNotification(store, "third")

	m.tick()

	visible := m.Visible()
	if len(visible) != 1 {
		t.Fatalf("expected 1 toast after first tick, got %d", len(visible))
	}
	if visible[0].Title != "first" {
		t.Errorf("expected oldest notification first, got %q", visible[0].Title)
	}
	if remaining := store.Undisplayed("u1"); len(remaining) != 2 {
		t.Errorf("expected 2 undisplayed left, got %d", len(remaining))
	}

	m.tick()

	visible = m.Visible()
	if len(visible) != 2 {
		t.Fatalf("expected 2 toasts after second tick, got %d", len(visible))
	}
	if visible[1].Title != "second" {
		t.Errorf("expected next oldest second, got %q", visible[1].Title)
	}
}

func TestTickWithEmptyQueueIsQuiet(t *testing.T) {
	_, m := newTestSetup(t, time.Hour)

	m.tick()

	if len(m.Visible()) != 0 {
		t.Errorf("expected no toasts on empty queue")
	}
}

func TestTickMarksDisplayedButNotRead(t *testing.T) {
	store, m := newTestSetup(t, time.Hour)
	n := addNotification(store, "one")

	m.tick()

	all := store.All("u1")
	if len(all) != 1 || all[0].ID != n.ID {
		t.Fatalf("unexpected notifications: %+v", all)
	}
	if !all[0].Displayed {
		t.Error("expected notification marked displayed after surfacing")
	}
	if all[0].Read {
		t.Error("displaying a toast must not mark the notification read")
	}
}

func TestToastAutoExpires(t *testing.T) {
	store, m := newTestSetup(t, 20*time.Millisecond)
	addNotification(store, "ephemeral")

	m.tick()
	if len(m.Visible()) != 1 {
		t.Fatalf("expected toast visible immediately after tick")
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(m.Visible()) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("toast never auto-expired")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestDismissRemovesImmediatelyAndCancelsExpiry(t *testing.T) {
	store, m := newTestSetup(t, time.Hour)
	n := addNotification(store, "one")

	m.tick()
	m.Dismiss(n.ID)

	if len(m.Visible()) != 0 {
		t.Fatalf("expected toast removed on dismiss")
	}
	m.mu.Lock()
	pending := len(m.timers)
	m.mu.Unlock()
	if pending != 0 {
		t.Errorf("expected pending expiry timer cancelled, %d left", pending)
	}

	// Dismissing again must not error or disturb anything.
	m.Dismiss(n.ID)

	// The displayed flag stays set.
	if len(store.Undisplayed("u1")) != 0 {
		t.Error("dismiss must not clear the displayed flag")
	}
}

func TestStartMarksOnlineAndStopDoesNotMarkOffline(t *testing.T) {
	store, m := newTestSetup(t, time.Hour)

	if store.IsUserOnline("u1") {
		t.Fatal("expected user offline before start")
	}

	m.Start()
	if !store.IsUserOnline("u1") {
		t.Error("expected user online after start")
	}

	m.Stop()
	if !store.IsUserOnline("u1") {
		t.Error("stop must not retract presence")
	}
}

func TestStopCancelsPendingTimers(t *testing.T) {
	store, m := newTestSetup(t, time.Hour)
	addNotification(store, "one")
	addNotification(store, "two")

	m.Start()
	m.tick()
	m.tick()
	m.Stop()

	m.mu.Lock()
	pending := len(m.timers)
	m.mu.Unlock()
	if pending != 0 {
		t.Errorf("expected all timers cleared on stop, %d left", pending)
	}

	// Stop is idempotent.
	m.Stop()
}
