// Copyright (c) 2026 Kritika. All rights reserved.
// Author: dev@kritika.app

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
//
// Roles serialize as the literal strings "user", "moderator", "admin".
type UserRole string

const (
	// Unrestricted access to catalog, users, and content
	RoleAdmin UserRole = "admin"

	// Can edit or remove any review and comment, but not catalog or accounts
	RoleModerator UserRole = "moderator"

	// Default role for registered accounts
	RoleUser UserRole = "user"
)

// Valid reports whether r is one of the three known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleUser:
		return true
	}
	return false
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {

	// Linear scale (10-30) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 30
	case RoleModerator:
		return 20
	case RoleUser:
		return 10
	default:
		return 0
	}
}
