package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"doctrack/backend/internal/models"
)

func staff(individual models.PermissionSet, defaults models.DesignationPermissions) *models.User {
	return &models.User{
		Role:                   models.RoleStaff,
		Designation:            models.DesignationAccountant,
		Permissions:            individual,
		DesignationPermissions: defaults,
	}
}

func TestHasPermission_TruthTable(t *testing.T) {
	cases := []struct {
		name        string
		individual  bool
		designation *bool
		want        bool
	}{
		{"both false", false, ptr(false), false},
		{"designation absent", false, nil, false},
		{"individual only", true, ptr(false), true},
		{"designation only", false, ptr(true), true},
		{"both true", true, ptr(true), true},
		{"individual with no designation entry", true, nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var defaults models.DesignationPermissions
			if tc.designation != nil {
				defaults = models.DesignationPermissions{
					models.DesignationAccountant: {View: *tc.designation},
				}
			}
			u := staff(models.PermissionSet{View: tc.individual}, defaults)
			assert.Equal(t, tc.want, HasPermission(u, models.PermissionView))
		})
	}
}

func TestHasPermission_OnlyOwnDesignationCounts(t *testing.T) {
	u := staff(models.PermissionSet{}, models.DesignationPermissions{
		models.DesignationJournalEntryClerk: {View: true, Upload: true, Edit: true, Delete: true},
	})
	for _, p := range models.Permissions {
		assert.False(t, HasPermission(u, p), p)
	}
}

func TestHasPermission_PermissionsAreIndependent(t *testing.T) {
	u := staff(models.PermissionSet{Upload: true}, models.DesignationPermissions{
		models.DesignationAccountant: {Delete: true},
	})
	assert.False(t, HasPermission(u, models.PermissionView))
	assert.True(t, HasPermission(u, models.PermissionUpload))
	assert.False(t, HasPermission(u, models.PermissionEdit))
	assert.True(t, HasPermission(u, models.PermissionDelete))

	assert.Equal(t, models.PermissionSet{Upload: true, Delete: true}, Effective(u))
}

func TestHasPermission_Invalid(t *testing.T) {
	assert.False(t, HasPermission(nil, models.PermissionView))
	u := staff(models.PermissionSet{View: true, Upload: true, Edit: true, Delete: true}, nil)
	assert.False(t, HasPermission(u, models.Permission("admin")))
}

func ptr(b bool) *bool { return &b }
