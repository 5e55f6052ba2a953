// Copyright (c) 2026 Kritika. All rights reserved.
// Author: dev@kritika.app

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kritika-app/kritika/internal/platform/sec"
)

/*
TestUserRole_Valid verifies that only the three known roles validate.
*/
func TestUserRole_Valid(t *testing.T) {
	assert.True(t, sec.RoleUser.Valid())
	assert.True(t, sec.RoleModerator.Valid())
	assert.True(t, sec.RoleAdmin.Valid())

	assert.False(t, sec.UserRole("superuser").Valid())
	assert.False(t, sec.UserRole("").Valid())
	assert.False(t, sec.UserRole("Admin").Valid())
}

/*
TestUserRole_AtLeast verifies the hierarchy user < moderator < admin, and
that an unknown role sits below everything.
*/
func TestUserRole_AtLeast(t *testing.T) {
	tests := []struct {
		name   string
		role   sec.UserRole
		target sec.UserRole
		want   bool
	}{
		{"admin_vs_moderator", sec.RoleAdmin, sec.RoleModerator, true},
		{"admin_vs_admin", sec.RoleAdmin, sec.RoleAdmin, true},
		{"moderator_vs_admin", sec.RoleModerator, sec.RoleAdmin, false},
		{"moderator_vs_user", sec.RoleModerator, sec.RoleUser, true},
		{"user_vs_moderator", sec.RoleUser, sec.RoleModerator, false},
		{"user_vs_user", sec.RoleUser, sec.RoleUser, true},
		{"unknown_vs_user", sec.UserRole("ghost"), sec.RoleUser, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.AtLeast(tt.target))
		})
	}
}
