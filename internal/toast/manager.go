// Package toast drains undisplayed notifications for the active user and
// manages the on-screen lifetime of each surfaced toast.
package toast

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nhle/project-hub/internal/notify"
)

// Toast is a transient visible notification.
type Toast struct {
	ID      string
	Title   string
	Message string
}

// Manager polls the notification store at a fixed interval and surfaces at
// most one new toast per tick, so a backlog accumulated while the user was
// away drains at a readable cadence instead of flooding the screen.
//
// Start marks the user online; Stop does not mark them offline. Presence
// is added on mount but not retracted on this path.
type Manager struct {
	store    *notify.Store
	userID   string
	interval time.Duration
	lifetime time.Duration
	log      logrus.FieldLogger

	mu      sync.Mutex
	visible []Toast
	timers  map[string]*time.Timer
	running bool
	stopCh  chan struct{}
	ticker  *time.Ticker
	updates chan struct{}
}

// NewManager creates a toast manager for the given user. The interval is
// the poll period; the lifetime is how long each toast stays visible.
func NewManager(store *notify.Store, userID string, interval, lifetime time.Duration, log logrus.FieldLogger) *Manager {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Manager{
		store:    store,
		userID:   userID,
		interval: interval,
		lifetime: lifetime,
		log:      log,
		timers:   make(map[string]*time.Timer),
		updates:  make(chan struct{}, 1),
	}
}

// Start marks the user online and begins polling. Calling Start on a
// running manager is a no-op.
func (m *Manager) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.stopCh = make(chan struct{})
	m.ticker = time.NewTicker(m.interval)
	m.mu.Unlock()

	m.store.SetUserOnline(m.userID)

	go m.run()
}

// run is the polling loop.
func (m *Manager) run() {
	for {
		select {
		case <-m.stopCh:
			return
		case <-m.ticker.C:
			m.tick()
		}
	}
}

// tick performs one poll cycle: take the oldest undisplayed notification,
// surface it, mark it displayed, and schedule its expiry. At most one
// notification is drained per tick.
func (m *Manager) tick() {
	undisplayed := m.store.Undisplayed(m.userID)
	if len(undisplayed) == 0 {
		return
	}

	n := undisplayed[0]

	m.mu.Lock()
	m.visible = append(m.visible, Toast{
		ID:      n.ID,
		Title:   n.Title,
		Message: n.Message,
	})
	m.timers[n.ID] = time.AfterFunc(m.lifetime, func() {
		m.remove(n.ID, false)
	})
	m.mu.Unlock()

	// Marked displayed immediately so the next tick selects the next
	// oldest entry instead of this one again.
	m.store.MarkAsDisplayed(n.ID)

	m.notifyUpdate()
}

// Dismiss removes a toast immediately on user action and cancels its
// pending auto-removal. The displayed flag is untouched (already set).
func (m *Manager) Dismiss(id string) {
	m.remove(id, true)
}

// remove takes a toast off the visible list. When cancelTimer is set the
// pending expiry timer is stopped first; expiry itself only clears its own
// timer handle. Removing an already-removed toast is a no-op.
func (m *Manager) remove(id string, cancelTimer bool) {
	m.mu.Lock()
	if t, ok := m.timers[id]; ok {
		if cancelTimer {
			t.Stop()
		}
		delete(m.timers, id)
	}

	removed := false
	for i, toast := range m.visible {
		if toast.ID == id {
			m.visible = append(m.visible[:i:i], m.visible[i+1:]...)
			removed = true
			break
		}
	}
	m.mu.Unlock()

	if removed {
		m.notifyUpdate()
	}
}

// Stop halts polling and cancels every pending expiry timer so no callback
// fires after teardown. It does not mark the user offline.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	close(m.stopCh)
	m.ticker.Stop()

	for id, t := range m.timers {
		t.Stop()
		delete(m.timers, id)
	}
	m.mu.Unlock()
}

// Visible returns a copy of the currently visible toasts in surfacing
// order.
func (m *Manager) Visible() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Toast, len(m.visible))
	copy(out, m.visible)
	return out
}

// Updates signals after each change to the visible list.
func (m *Manager) Updates() <-chan struct{} {
	return m.updates
}

// notifyUpdate wakes the UI without blocking the loop.
func (m *Manager) notifyUpdate() {
	select {
	case m.updates <- struct{}{}:
	default:
	}
}
