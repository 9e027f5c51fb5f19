package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleStaff, ParseRole("STAFF"))
	assert.Equal(t, RoleAdmin, ParseRole("ADMIN"))
	assert.Equal(t, RoleSuperadmin, ParseRole("SUPERADMIN"))
	assert.Equal(t, RoleNone, ParseRole("NONE"))

	// Unknown values degrade to NONE instead of failing
	assert.Equal(t, RoleNone, ParseRole("staff"))
	assert.Equal(t, RoleNone, ParseRole("OFFICER"))
	assert.Equal(t, RoleNone, ParseRole(""))
}

func TestMeetsMinimum(t *testing.T) {
	assert.True(t, RoleStaff.MeetsMinimum(RoleStaff))
	assert.True(t, RoleAdmin.MeetsMinimum(RoleStaff))
	assert.True(t, RoleSuperadmin.MeetsMinimum(RoleAdmin))
	assert.True(t, RoleSuperadmin.MeetsMinimum(RoleSuperadmin))

	assert.False(t, RoleNone.MeetsMinimum(RoleStaff))
	assert.False(t, RoleStaff.MeetsMinimum(RoleAdmin))
	assert.False(t, RoleAdmin.MeetsMinimum(RoleSuperadmin))

	// Everyone meets the NONE floor
	assert.True(t, RoleNone.MeetsMinimum(RoleNone))
	assert.True(t, RoleStaff.MeetsMinimum(RoleNone))
}

func TestRoleIsValid(t *testing.T) {
	for _, r := range []Role{RoleNone, RoleStaff, RoleAdmin, RoleSuperadmin} {
		assert.True(t, r.IsValid(), string(r))
	}
	assert.False(t, Role("MANAGER").IsValid())
}
