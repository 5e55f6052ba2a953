package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kritika-app/kritika/internal/access"
	"github.com/kritika-app/kritika/internal/platform/apperr"
	"github.com/kritika-app/kritika/internal/platform/sec"
)

var (
	anonymous *access.Actor
	regular   = &access.Actor{ID: "user-1", Role: sec.RoleUser}
	moderator = &access.Actor{ID: "mod-1", Role: sec.RoleModerator}
	admin     = &access.Actor{ID: "admin-1", Role: sec.RoleAdmin}
)

// code extracts the machine-readable error code, or "" for nil.
func code(err error) string {
	if err == nil {
		return ""
	}
	ae := apperr.As(err)
	if ae == nil {
		return "UNKNOWN"
	}
	return ae.Code
}

/*
TestCheck_Catalog verifies that the catalog is world-readable but only
writable by admins.
*/
func TestCheck_Catalog(t *testing.T) {
	tests := []struct {
		name     string
		actor    *access.Actor
		action   access.Action
		wantCode string
	}{
		{"anonymous_read", anonymous, access.ActionRead, ""},
		{"user_read", regular, access.ActionRead, ""},
		{"anonymous_create", anonymous, access.ActionCreate, "UNAUTHORIZED"},
		{"user_create", regular, access.ActionCreate, "FORBIDDEN"},
		{"moderator_create", moderator, access.ActionCreate, "FORBIDDEN"},
		{"admin_create", admin, access.ActionCreate, ""},
		{"moderator_delete", moderator, access.ActionDelete, "FORBIDDEN"},
		{"admin_delete", admin, access.ActionDelete, ""},
		{"admin_update", admin, access.ActionUpdate, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := access.Check(tt.actor, tt.action, access.ResourceCatalog, "")
			assert.Equal(t, tt.wantCode, code(err))
		})
	}
}

/*
TestCheck_Review verifies ownership rules for reviews: anyone reads, any
authenticated account creates, and only the author, a moderator, or an admin
may modify.
*/
func TestCheck_Review(t *testing.T) {
	const ownerID = "user-1"

	tests := []struct {
		name     string
		actor    *access.Actor
		action   access.Action
		wantCode string
	}{
		{"anonymous_read", anonymous, access.ActionRead, ""},
		{"anonymous_create", anonymous, access.ActionCreate, "UNAUTHORIZED"},
		{"user_create", regular, access.ActionCreate, ""},
		{"owner_update", regular, access.ActionUpdate, ""},
		{"owner_delete", regular, access.ActionDelete, ""},
		{"stranger_update", &access.Actor{ID: "user-2", Role: sec.RoleUser}, access.ActionUpdate, "FORBIDDEN"},
		{"stranger_delete", &access.Actor{ID: "user-2", Role: sec.RoleUser}, access.ActionDelete, "FORBIDDEN"},
		{"moderator_update", moderator, access.ActionUpdate, ""},
		{"moderator_delete", moderator, access.ActionDelete, ""},
		{"admin_delete", admin, access.ActionDelete, ""},
		{"anonymous_delete", anonymous, access.ActionDelete, "UNAUTHORIZED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := access.Check(tt.actor, tt.action, access.ResourceReview, ownerID)
			assert.Equal(t, tt.wantCode, code(err))
		})
	}
}

/*
TestCheck_Comment verifies that comments follow the same ownership model
as reviews.
*/
func TestCheck_Comment(t *testing.T) {
	const ownerID = "user-1"

	// Owner may edit, a stranger may not, a moderator may.
	assert.NoError(t, access.Check(regular, access.ActionUpdate, access.ResourceComment, ownerID))
	assert.Error(t, access.Check(&access.Actor{ID: "user-9", Role: sec.RoleUser}, access.ActionUpdate, access.ResourceComment, ownerID))
	assert.NoError(t, access.Check(moderator, access.ActionDelete, access.ResourceComment, ownerID))
	assert.NoError(t, access.Check(anonymous, access.ActionRead, access.ResourceComment, ownerID))
}

/*
TestCheck_Account verifies that the user management surface is admin-only,
including reads.
*/
func TestCheck_Account(t *testing.T) {
	tests := []struct {
		name     string
		actor    *access.Actor
		action   access.Action
		wantCode string
	}{
		{"anonymous_read", anonymous, access.ActionRead, "UNAUTHORIZED"},
		{"user_read", regular, access.ActionRead, "FORBIDDEN"},
		{"moderator_read", moderator, access.ActionRead, "FORBIDDEN"},
		{"admin_read", admin, access.ActionRead, ""},
		{"admin_create", admin, access.ActionCreate, ""},
		{"admin_delete", admin, access.ActionDelete, ""},
		{"moderator_delete", moderator, access.ActionDelete, "FORBIDDEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := access.Check(tt.actor, tt.action, access.ResourceAccount, "")
			assert.Equal(t, tt.wantCode, code(err))
		})
	}
}

/*
TestCheck_Self verifies that only the account owner can touch their own
profile; even admins go through the account surface instead.
*/
func TestCheck_Self(t *testing.T) {
	assert.NoError(t, access.Check(regular, access.ActionUpdate, access.ResourceSelf, "user-1"))
	assert.Equal(t, "FORBIDDEN", code(access.Check(admin, access.ActionUpdate, access.ResourceSelf, "user-1")))
	assert.Equal(t, "UNAUTHORIZED", code(access.Check(anonymous, access.ActionRead, access.ResourceSelf, "user-1")))
}

/*
TestCheck_DenyByDefault verifies that unknown action/resource combinations
are rejected rather than silently allowed.
*/
func TestCheck_DenyByDefault(t *testing.T) {
	err := access.Check(admin, access.Action("replicate"), access.Resource("cluster"), "")
	assert.Equal(t, "FORBIDDEN", code(err))
}
