package model

import "time"

// Board is a single Kanban column within a project.
type Board struct {
	ID        string    `json:"id" db:"id"`
	ProjectID string    `json:"project_id" db:"project_id"`
	Title     string    `json:"title" db:"title"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Card is a Kanban work item living on a board.
type Card struct {
	// ID is the unique identifier for this card.
	ID string `json:"id" db:"id"`

	// ProjectID is the owning project.
	ProjectID string `json:"project_id" db:"project_id"`

	// BoardID is the column this card currently sits on.
	BoardID string `json:"board_id" db:"board_id"`

	// Title is the human-readable summary of the card.
	Title string `json:"title" db:"title"`

	// Description is the full body text.
	Description string `json:"description" db:"description"`

	// AssigneeID is the user assigned to this card, or empty.
	AssigneeID string `json:"assignee_id" db:"assignee_id"`

	// SortOrder positions the card within its board.
	SortOrder int `json:"sort_order" db:"sort_order"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
