package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the team-management role of a member. Roles are totally ordered:
// admin < super_admin.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// Level returns the position of the role in the hierarchy. Unknown roles
// rank below every known role.
func (r Role) Level() int {
	switch r {
	case RoleAdmin:
		return 1
	case RoleSuperAdmin:
		return 2
	default:
		return 0
	}
}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Permission names grantable through a role.
const (
	PermissionViewTeam      = "team:view"
	PermissionManageTeam    = "team:manage"
	PermissionAssignRoles   = "team:assign_roles"
	PermissionViewAnalytics = "analytics:view"
	PermissionExportData    = "data:export"
	PermissionModerate      = "content:moderate"
)

// PermissionsForRole returns the fixed permission set for a role.
// Permissions are always derived from the role, never stored independently;
// changing a member's role recomputes them.
func PermissionsForRole(r Role) []string {
	switch r {
	case RoleSuperAdmin:
		return []string{
			PermissionViewTeam,
			PermissionManageTeam,
			PermissionAssignRoles,
			PermissionViewAnalytics,
			PermissionExportData,
			PermissionModerate,
		}
	case RoleAdmin:
		return []string{
			PermissionViewTeam,
			PermissionViewAnalytics,
			PermissionModerate,
		}
	default:
		return nil
	}
}

// TeamMember represents a member of the administration team. Email is the
// unique key, stored normalized.
type TeamMember struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	Email       string         `json:"email" db:"email"`
	DisplayName string         `json:"display_name" db:"display_name"`
	Role        Role           `json:"role" db:"role"`
	IsActive    bool           `json:"is_active" db:"is_active"`
	AddedBy     string         `json:"added_by" db:"added_by"`
	AddedAt     time.Time      `json:"added_at" db:"added_at"`
	LastLogin   *time.Time     `json:"last_login,omitempty" db:"last_login"`
	Permissions StringList     `json:"permissions" db:"permissions"`
	Department  string         `json:"department,omitempty" db:"department"`
	Notes       string         `json:"notes,omitempty" db:"notes"`
}

// NormalizeEmail canonicalizes an email for use as a directory key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Principal is the authenticated identity supplied by the identity provider.
type Principal struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}
