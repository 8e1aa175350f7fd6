// Package activity projects bus events into a bounded, human-readable
// activity timeline. The feed is a rolling UI projection, not a durable
// log: only the most recent entries are retained, newest first.
package activity

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nhle/project-hub/internal/model"
	"github.com/nhle/project-hub/internal/realtime"
)

// maxEntries bounds the ring of retained activity entries.
const maxEntries = 50

// Entry is a single formatted activity line.
type Entry struct {
	// ID is derived from the event timestamp plus a random suffix.
	ID string

	// Event is the originating bus event.
	Event model.Event

	// DisplayText is the precomputed human-readable line.
	DisplayText string
}

// Feed subscribes to one project channel and keeps the most recent
// activity entries. Close releases the subscription; it is safe to call
// more than once.
type Feed struct {
	mu          sync.Mutex
	entries     []Entry
	unsubscribe func()
	updates     chan struct{}
	closeOnce   sync.Once
	log         logrus.FieldLogger
}

// NewFeed creates a feed subscribed to the given project channel.
func NewFeed(bus *realtime.Bus, projectID string, log logrus.FieldLogger) *Feed {
	if log == nil {
		log = logrus.StandardLogger()
	}

	f := &Feed{
		updates: make(chan struct{}, 1),
		log:     log,
	}
	f.unsubscribe = bus.Subscribe(projectID, f.handle)
	return f
}

// handle formats and records one incoming event.
func (f *Feed) handle(event model.Event) {
	entry := Entry{
		ID:          fmt.Sprintf("%d-%s", event.Timestamp, uuid.New().String()),
		Event:       event,
		DisplayText: f.safeFormat(event),
	}

	f.mu.Lock()
	f.entries = append([]Entry{entry}, f.entries...)
	if len(f.entries) > maxEntries {
		f.entries = f.entries[:maxEntries]
	}
	f.mu.Unlock()

	// Wake the UI without blocking the publisher.
	select {
	case f.updates <- struct{}{}:
	default:
	}
}

// safeFormat never fails: a panic while extracting display text is
// recovered and substituted with the generic fallback.
func (f *Feed) safeFormat(event model.Event) (text string) {
	defer func() {
		if r := recover(); r != nil {
			f.log.WithFields(logrus.Fields{
				"event_type": event.Type,
				"panic":      r,
			}).Warn("activity: formatting event failed")
			text = fmt.Sprintf("Event: %s", event.Type)
		}
	}()

	return FormatEvent(event)
}

// Entries returns a copy of the current entries, newest first.
func (f *Feed) Entries() []Entry {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]Entry, len(f.entries))
	copy(out, f.entries)
	return out
}

// Updates signals after each recorded entry. The channel is never closed;
// reads must be paired with a shutdown signal elsewhere.
func (f *Feed) Updates() <-chan struct{} {
	return f.updates
}

// Close unsubscribes from the bus. Idempotent.
func (f *Feed) Close() {
	f.closeOnce.Do(f.unsubscribe)
}

// FormatEvent maps an event to its display line. Unknown event types fall
// back to a generic string; missing payload fields fall back to
// placeholder values. It never fails on malformed payloads.
func FormatEvent(event model.Event) string {
	switch event.Type {
	case model.EventCardMove:
		return fmt.Sprintf("Card %q was moved", payloadString(event.Payload, "taskId", "unknown"))
	case model.EventCardAdd:
		return fmt.Sprintf("New card %q was added", payloadString(event.Payload, "title", "untitled"))
	case model.EventCardUpdate:
		return "Card was updated"
	case model.EventBoardAdd:
		return fmt.Sprintf("New board %q was created", payloadString(event.Payload, "title", "untitled"))
	case model.EventDocumentUpdate:
		return fmt.Sprintf("Document was updated by %s", payloadString(event.Payload, "userName", "Anonymous"))
	case model.EventActivityLog:
		return payloadString(event.Payload, "message", "Activity logged")
	default:
		return fmt.Sprintf("Event: %s", event.Type)
	}
}

// payloadString extracts a payload field as a string, tolerating missing
// keys and non-string values.
func payloadString(payload map[string]any, key, fallback string) string {
	v, ok := payload[key]
	if !ok || v == nil {
		return fallback
	}
	if s, ok := v.(string); ok {
		if s == "" {
			return fallback
		}
		return s
	}
	return fmt.Sprint(v)
}

// RelativeTime renders an event timestamp relative to now ("Just now",
// "5 minutes ago"). It is computed at render time, so the same entry ages
// as the wall clock advances.
func RelativeTime(timestampMs int64, now time.Time) string {
	diff := now.Sub(time.UnixMilli(timestampMs))

	switch {
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		minutes := int(diff.Minutes())
		if minutes == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", minutes)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	default:
		return time.UnixMilli(timestampMs).Local().Format("Jan 2, 2006 15:04")
	}
}
