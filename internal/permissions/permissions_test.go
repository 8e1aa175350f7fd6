package permissions

import (
	"testing"

	"github.com/nhle/project-hub/internal/model"
)

func TestRoleFor(t *testing.T) {
	project := &model.Project{
		ID:      "p1",
		OwnerID: "alice",
		Shares: []model.Share{
			{ProjectID: "p1", UserID: "bob", Role: "editor"},
			{ProjectID: "p1", UserID: "carol", Role: "viewer"},
		},
	}

	cases := []struct {
		userID string
		want   Role
	}{
		{"alice", RoleOwner},
		{"bob", RoleEditor},
		{"carol", RoleViewer},
		{"dave", RoleNone},
	}
	for _, tc := range cases {
		if got := RoleFor(project, tc.userID); got != tc.want {
			t.Errorf("RoleFor(%s): expected %q, got %q", tc.userID, tc.want, got)
		}
	}

	if got := RoleFor(nil, "alice"); got != RoleNone {
		t.Errorf("expected none for nil project, got %q", got)
	}
}

func TestPredicates(t *testing.T) {
	cases := []struct {
		role     Role
		view     bool
		edit     bool
		share    bool
		owner    bool
	}{
		{RoleNone, false, false, false, false},
		{RoleViewer, true, false, false, false},
		{RoleEditor, true, true, false, false},
		{RoleAdmin, true, true, true, false},
		{RoleOwner, true, true, true, true},
	}

	for _, tc := range cases {
		if got := CanView(tc.role); got != tc.view {
			t.Errorf("CanView(%q): expected %v", tc.role, tc.view)
		}
		if got := CanEdit(tc.role); got != tc.edit {
			t.Errorf("CanEdit(%q): expected %v", tc.role, tc.edit)
		}
		if got := CanShare(tc.role); got != tc.share {
			t.Errorf("CanShare(%q): expected %v", tc.role, tc.share)
		}
		if got := IsOwner(tc.role); got != tc.owner {
			t.Errorf("IsOwner(%q): expected %v", tc.role, tc.owner)
		}
	}
}
