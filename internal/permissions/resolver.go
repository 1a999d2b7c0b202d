// Package permissions resolves whether a user holds a document permission.
package permissions

import "doctrack/backend/internal/models"

// HasPermission grants p when the user's own flag is set, falling back to the
// default of the user's designation. An individual false never masks a
// designation grant.
func HasPermission(user *models.User, p models.Permission) bool {
	if user == nil || !p.Valid() {
		return false
	}
	if user.Permissions.Allows(p) {
		return true
	}
	defaults, ok := user.DesignationPermissions[user.Designation]
	return ok && defaults.Allows(p)
}

// Effective returns the resolved value of every permission for user.
func Effective(user *models.User) models.PermissionSet {
	return models.PermissionSet{
		View:   HasPermission(user, models.PermissionView),
		Upload: HasPermission(user, models.PermissionUpload),
		Edit:   HasPermission(user, models.PermissionEdit),
		Delete: HasPermission(user, models.PermissionDelete),
	}
}
