package model

// User is a collaborator known to the hub. Authentication is out of
// scope; the current user is picked from configuration.
type User struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
