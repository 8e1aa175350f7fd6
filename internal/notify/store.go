// Package notify owns the notification collection and the online-user
// presence set. All mutation goes through the named operations on Store;
// nothing else touches the collection directly.
package notify

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nhle/project-hub/internal/model"
)

// Persister mirrors notification mutations to durable storage. The online
// set is deliberately not part of this interface: presence resets on every
// process restart.
type Persister interface {
	CreateNotification(ctx context.Context, n model.Notification) error
	MarkNotificationRead(ctx context.Context, id string) error
	MarkNotificationDisplayed(ctx context.Context, id string) error
	ListNotifications(ctx context.Context) ([]model.Notification, error)
}

// Store holds all notifications and the presence set for the process.
// Notifications are append-only; their Read and Displayed flags are
// monotonic and never revert to false. No delete operation exists.
type Store struct {
	mu            sync.Mutex
	notifications []model.Notification
	online        map[string]struct{}
	persist       Persister
	log           logrus.FieldLogger
}

// NewStore creates a notification store. If persist is non-nil, previously
// saved notifications are loaded; the online set always starts empty.
func NewStore(persist Persister, log logrus.FieldLogger) (*Store, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	s := &Store{
		online:  make(map[string]struct{}),
		persist: persist,
		log:     log,
	}

	if persist != nil {
		saved, err := persist.ListNotifications(context.Background())
		if err != nil {
			return nil, fmt.Errorf("loading persisted notifications: %w", err)
		}
		s.notifications = saved
	}

	return s, nil
}

// Add creates a notification from the given partial record. The ID,
// timestamp, and lifecycle flags are always assigned here regardless of
// what the caller filled in. Add never fails; persistence errors are
// logged and the in-memory collection stays authoritative.
func (s *Store) Add(n model.Notification) model.Notification {
	n.ID = "notification-" + uuid.New().String()
	n.Timestamp = model.NowMillis()
	n.Read = false
	n.Displayed = false

	s.mu.Lock()
	s.notifications = append(s.notifications, n)
	s.mu.Unlock()

	if s.persist != nil {
		if err := s.persist.CreateNotification(context.Background(), n); err != nil {
			s.log.WithError(err).WithField("notification_id", n.ID).
				Warn("notify: persisting notification failed")
		}
	}

	return n
}

// MarkAsRead sets the read flag on the matching notification. Unknown IDs
// and already-read notifications are no-ops, not errors.
func (s *Store) MarkAsRead(id string) {
	s.markFlag(id, func(n *model.Notification) bool {
		if n.Read {
			return false
		}
		n.Read = true
		return true
	}, func(ctx context.Context) error {
		return s.persist.MarkNotificationRead(ctx, id)
	})
}

// MarkAsDisplayed sets the displayed flag on the matching notification.
// Unknown IDs and already-displayed notifications are no-ops.
func (s *Store) MarkAsDisplayed(id string) {
	s.markFlag(id, func(n *model.Notification) bool {
		if n.Displayed {
			return false
		}
		n.Displayed = true
		return true
	}, func(ctx context.Context) error {
		return s.persist.MarkNotificationDisplayed(ctx, id)
	})
}

// markFlag applies a flag mutation to the notification with the given ID
// and mirrors it to the persister when something actually changed.
func (s *Store) markFlag(id string, apply func(*model.Notification) bool, save func(context.Context) error) {
	s.mu.Lock()
	changed := false
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			changed = apply(&s.notifications[i])
			break
		}
	}
	s.mu.Unlock()

	if changed && s.persist != nil {
		if err := save(context.Background()); err != nil {
			s.log.WithError(err).WithField("notification_id", id).
				Warn("notify: persisting flag update failed")
		}
	}
}

// SetUserOnline adds a user to the presence set. Repeated calls are
// idempotent.
func (s *Store) SetUserOnline(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.online[userID] = struct{}{}
}

// SetUserOffline removes a user from the presence set. Removing an absent
// user is a no-op.
func (s *Store) SetUserOffline(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.online, userID)
}

// IsUserOnline reports whether the user is currently in the presence set.
func (s *Store) IsUserOnline(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.online[userID]
	return ok
}

// Unread returns the user's unread notifications, newest first. This feeds
// the notification center, which leads with the most recent item.
func (s *Store) Unread(userID string) []model.Notification {
	return s.filtered(userID, func(n model.Notification) bool {
		return !n.Read
	}, false)
}

// Undisplayed returns the user's notifications that have not yet been
// surfaced as a toast, oldest first. The ascending order is intentional:
// this is the FIFO delivery queue for the toast loop, so toasts appear in
// the order the underlying changes occurred.
func (s *Store) Undisplayed(userID string) []model.Notification {
	return s.filtered(userID, func(n model.Notification) bool {
		return !n.Displayed
	}, true)
}

// All returns the user's full notification history, newest first.
func (s *Store) All(userID string) []model.Notification {
	return s.filtered(userID, func(model.Notification) bool {
		return true
	}, false)
}

// filtered returns a sorted copy of the user's notifications matching the
// predicate. Ascending sorts oldest first; descending newest first. Equal
// timestamps keep insertion order.
func (s *Store) filtered(userID string, keep func(model.Notification) bool, ascending bool) []model.Notification {
	s.mu.Lock()
	var out []model.Notification
	for _, n := range s.notifications {
		if n.UserID == userID && keep(n) {
			out = append(out, n)
		}
	}
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		if ascending {
			return out[i].Timestamp < out[j].Timestamp
		}
		return out[i].Timestamp > out[j].Timestamp
	})

	return out
}
