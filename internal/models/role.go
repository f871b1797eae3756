package models

import (
	"time"
)

// Role is a ranked permission level inside one workspace. The integer rank
// gives a total order; higher ranks grant everything lower ranks do.
type Role int

const (
	RoleNotApplicable    Role = 0
	RoleReader           Role = 1
	RoleContributor      Role = 2
	RoleContentManager   Role = 4
	RoleWorkspaceManager Role = 8
)

func (r Role) Slug() string {
	switch r {
	case RoleReader:
		return "reader"
	case RoleContributor:
		return "contributor"
	case RoleContentManager:
		return "content-manager"
	case RoleWorkspaceManager:
		return "workspace-manager"
	default:
		return "not-applicable"
	}
}

// ParseRole maps a role slug to its rank. Unknown slugs map to
// RoleNotApplicable so callers can treat them as "no role".
func ParseRole(slug string) Role {
	switch slug {
	case "reader":
		return RoleReader
	case "contributor":
		return RoleContributor
	case "content-manager":
		return RoleContentManager
	case "workspace-manager":
		return RoleWorkspaceManager
	default:
		return RoleNotApplicable
	}
}

func (r Role) Meets(minimum Role) bool {
	return r >= minimum
}

// UserRoleInWorkspace is one membership row: exactly one per
// (user, workspace) pair while active.
type UserRoleInWorkspace struct {
	UserID      int64     `json:"user_id"`
	WorkspaceID int64     `json:"workspace_id"`
	Role        Role      `json:"-"`
	DoNotify    bool      `json:"do_notify"`
	CreatedAt   time.Time `json:"created_at"`
	User        *User     `json:"user,omitempty"`
}
