package model

// NotificationType identifies what kind of change a notification reports.
type NotificationType string

const (
	NotificationTaskAssigned NotificationType = "task_assigned"
	NotificationTaskUpdated  NotificationType = "task_updated"
	NotificationTaskMoved    NotificationType = "task_moved"
)

// Notification is an alert targeted at a single user about activity on a
// project. Its two lifecycle flags are independent and monotonic: once
// Displayed or Read is true it never reverts. Notifications are never
// deleted.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id" db:"id"`

	// UserID is the recipient of this notification.
	UserID string `json:"user_id" db:"user_id"`

	// Type is the notification kind (use Notification* constants).
	Type NotificationType `json:"type" db:"type"`

	// Title is the short headline shown in toasts and the center.
	Title string `json:"title" db:"title"`

	// Message is the full human-readable notification text.
	Message string `json:"message" db:"message"`

	// TaskID optionally links this notification to the originating card.
	TaskID string `json:"task_id,omitempty" db:"task_id"`

	// ProjectID is the project the originating change belongs to.
	ProjectID string `json:"project_id" db:"project_id"`

	// Timestamp is the creation time in milliseconds.
	Timestamp int64 `json:"timestamp" db:"timestamp"`

	// Read indicates the user has acknowledged this notification.
	Read bool `json:"read" db:"read"`

	// Displayed indicates a toast has been shown for this notification.
	// A notification can be read without ever having been displayed.
	Displayed bool `json:"displayed" db:"displayed"`
}
