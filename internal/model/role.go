package model

// Permission names understood by the permission gate.
const (
	PermView   = "view"
	PermAdd    = "add"
	PermEdit   = "edit"
	PermDelete = "delete"
	PermExport = "export"
	PermImport = "import"
	PermBackup = "backup"
)

// Role groups a display name with its permission set.
type Role struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// Roles is the static role table. There is no dynamic policy: a role
// either appears here or grants nothing.
var Roles = map[string]Role{
	"admin": {
		Name:        "Administrator",
		Permissions: []string{PermView, PermAdd, PermEdit, PermDelete, PermExport, PermImport, PermBackup},
	},
	"employee": {
		Name:        "Employee",
		Permissions: []string{PermView, PermAdd, PermEdit, PermExport},
	},
	"viewer": {
		Name:        "Viewer",
		Permissions: []string{PermView},
	},
}

// ValidRole reports whether the role name exists in the static table.
func ValidRole(role string) bool {
	_, ok := Roles[role]
	return ok
}

// HasPermission reports whether the role grants the permission. Unknown
// roles grant nothing.
func HasPermission(role, permission string) bool {
	r, ok := Roles[role]
	if !ok {
		return false
	}
	for _, p := range r.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// RoleName returns the display name for a role, falling back to the
// role key itself when unknown.
func RoleName(role string) string {
	if r, ok := Roles[role]; ok {
		return r.Name
	}
	return role
}

// RolePermissions returns the permission set for a role (nil when the
// role is unknown).
func RolePermissions(role string) []string {
	if r, ok := Roles[role]; ok {
		return r.Permissions
	}
	return nil
}
