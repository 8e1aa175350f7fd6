// Package realtime provides the in-process publish/subscribe bus that
// connects domain services to UI projections. Channels are keyed by
// project ID; delivery is synchronous, at-most-once, and FIFO per channel.
package realtime

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/nhle/project-hub/internal/model"
)

// Handler receives events published on a subscribed project channel.
type Handler func(event model.Event)

// subscription ties a handler to a project channel with a stable
// registration order.
type subscription struct {
	id      int
	handler Handler
}

// Bus is an in-process event bus. It owns no event state: events with no
// registered subscriber at publish time are dropped.
//
// Handlers run synchronously on the publishing goroutine, in subscription
// order. A handler publishing back onto the same channel during dispatch
// will not deadlock, but the relative ordering of the nested event is
// unspecified; avoid re-entrant publishes.
type Bus struct {
	mu     sync.Mutex
	subs   map[string][]subscription
	nextID int
	log    logrus.FieldLogger
}

// NewBus creates an empty event bus. The logger records recovered
// subscriber panics; pass nil to use the standard logger.
func NewBus(log logrus.FieldLogger) *Bus {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Bus{
		subs: make(map[string][]subscription),
		log:  log,
	}
}

// Subscribe registers a handler for all events published on the given
// project channel and returns an unsubscribe capability. Calling the
// returned function stops delivery; calling it more than once is a no-op.
func (b *Bus) Subscribe(projectID string, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := subscription{id: b.nextID, handler: handler}
	b.subs[projectID] = append(b.subs[projectID], sub)

	var once sync.Once
	return func() {
		once.Do(func() {
			b.unsubscribe(projectID, sub.id)
		})
	}
}

// Publish constructs an event with the current wall-clock timestamp and
// delivers it to every subscriber of the project channel, in subscription
// order. A panicking handler is recovered and logged so that remaining
// handlers still receive the event.
func (b *Bus) Publish(projectID string, eventType model.EventType, payload map[string]any) {
	event := model.Event{
		ProjectID: projectID,
		Type:      eventType,
		Payload:   payload,
		Timestamp: model.NowMillis(),
	}

	// Snapshot subscribers so handlers can subscribe/unsubscribe
	// without holding the bus lock during dispatch.
	b.mu.Lock()
	subs := make([]subscription, len(b.subs[projectID]))
	copy(subs, b.subs[projectID])
	b.mu.Unlock()

	for _, sub := range subs {
		b.dispatch(sub, event)
	}
}

// dispatch invokes a single handler, isolating panics from the rest of
// the subscriber list.
func (b *Bus) dispatch(sub subscription, event model.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.WithFields(logrus.Fields{
				"project_id": event.ProjectID,
				"event_type": event.Type,
				"panic":      r,
			}).Error("realtime: subscriber panicked during dispatch")
		}
	}()

	sub.handler(event)
}

// unsubscribe removes a single registration from a project channel.
func (b *Bus) unsubscribe(projectID string, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[projectID]
	for i, sub := range subs {
		if sub.id == id {
			b.subs[projectID] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.subs[projectID]) == 0 {
		delete(b.subs, projectID)
	}
}

// SubscriberCount reports the number of active subscriptions on a project
// channel. Intended for diagnostics and tests.
func (b *Bus) SubscriberCount(projectID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[projectID])
}
