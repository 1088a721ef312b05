package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	for _, perm := range []string{PermView, PermAdd, PermEdit, PermDelete, PermExport, PermImport, PermBackup} {
		assert.True(t, HasPermission("admin", perm), "admin should hold %s", perm)
	}

	assert.True(t, HasPermission("employee", PermAdd))
	assert.True(t, HasPermission("employee", PermExport))
	assert.False(t, HasPermission("employee", PermDelete))
	assert.False(t, HasPermission("employee", PermBackup))

	assert.True(t, HasPermission("viewer", PermView))
	assert.False(t, HasPermission("viewer", PermEdit))

	assert.False(t, HasPermission("nosuchrole", PermView))
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole("admin"))
	assert.True(t, ValidRole("employee"))
	assert.True(t, ValidRole("viewer"))
	assert.False(t, ValidRole("root"))
	assert.False(t, ValidRole(""))
}

func TestRoleName(t *testing.T) {
	assert.Equal(t, "Administrator", RoleName("admin"))
	assert.Equal(t, "mystery", RoleName("mystery"))
}

func TestDeriveStatus(t *testing.T) {
	assert.Equal(t, StatusAvailable, DeriveStatus(1))
	assert.Equal(t, StatusAvailable, DeriveStatus(100))
	assert.Equal(t, StatusOutOfStock, DeriveStatus(0))
	assert.Equal(t, StatusOutOfStock, DeriveStatus(-1))
}
