package model

import "time"

// EventType identifies the kind of realtime event flowing through the bus.
type EventType string

const (
	EventCardMove       EventType = "kanban:card:move"
	EventCardAdd        EventType = "kanban:card:add"
	EventCardUpdate     EventType = "kanban:card:update"
	EventBoardAdd       EventType = "kanban:board:add"
	EventDocumentUpdate EventType = "document:update"
	EventActivityLog    EventType = "activity:log"
)

// Event is an immutable record delivered to subscribers of a project
// channel. Events are transient: the bus does not persist or replay them.
type Event struct {
	// ProjectID is the channel this event was published on.
	ProjectID string `json:"project_id"`

	// Type is the event kind (use Event* constants).
	Type EventType `json:"event_type"`

	// Payload holds event-specific fields keyed by name. Its shape
	// depends on Type; consumers must tolerate missing keys.
	Payload map[string]any `json:"payload"`

	// Timestamp is the wall-clock publish time in milliseconds.
	Timestamp int64 `json:"timestamp"`
}

// NowMillis returns the current wall-clock time in milliseconds, the
// timestamp unit used by events and notifications.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
