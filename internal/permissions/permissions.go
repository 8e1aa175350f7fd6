// Package permissions provides simple role lookups for projects. There is
// no enforcement layer beyond these predicates.
package permissions

import "github.com/nhle/project-hub/internal/model"

// Role is a user's access level on a project. The zero value means no
// access.
type Role string

const (
	RoleNone   Role = ""
	RoleViewer Role = "viewer"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
	RoleOwner  Role = "owner"
)

// RoleFor returns the user's role on a project: owner if they own it,
// otherwise whatever share they hold, otherwise none.
func RoleFor(project *model.Project, userID string) Role {
	if project == nil {
		return RoleNone
	}
	if project.OwnerID == userID {
		return RoleOwner
	}
	for _, share := range project.Shares {
		if share.UserID == userID {
			return Role(share.Role)
		}
	}
	return RoleNone
}

// CanView reports whether the role grants read access.
func CanView(role Role) bool {
	return role != RoleNone
}

// CanEdit reports whether the role can edit documents and move cards.
func CanEdit(role Role) bool {
	return role == RoleEditor || role == RoleAdmin || role == RoleOwner
}

// CanShare reports whether the role can share the project with others.
func CanShare(role Role) bool {
	return role == RoleAdmin || role == RoleOwner
}

// IsOwner reports whether the role is full owner access.
func IsOwner(role Role) bool {
	return role == RoleOwner
}
