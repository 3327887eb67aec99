package model

import "strings"

// Role is the closed set of roles a console user can hold.  The value is
// stored as-is in users.role and in the "role" claim of access tokens.
type Role string

const (
	RoleSuperAdmin    Role = "super_admin"
	RoleTripAdmin     Role = "trip_admin"
	RoleContentEditor Role = "content_editor"
	RoleMediaManager  Role = "media_manager"
	RoleViewer        Role = "viewer"
)

// AllRoles lists every role, most privileged first.
var AllRoles = []Role{RoleSuperAdmin, RoleTripAdmin, RoleContentEditor, RoleMediaManager, RoleViewer}

// ParseRole normalizes s and reports whether it names a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}

// Valid reports whether r is one of the five known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleTripAdmin, RoleContentEditor, RoleMediaManager, RoleViewer:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// Role gates.  Each list is a strict superset of the one below it.
var (
	AuthenticatedRoles = AllRoles
	MediaManagerRoles  = []Role{RoleSuperAdmin, RoleTripAdmin, RoleContentEditor, RoleMediaManager}
	ContentEditorRoles = []Role{RoleSuperAdmin, RoleTripAdmin, RoleContentEditor}
	TripAdminRoles     = []Role{RoleSuperAdmin, RoleTripAdmin}
	SuperAdminRoles    = []Role{RoleSuperAdmin}
)
