// Copyright (c) 2026 Kritika. All rights reserved.
// Author: dev@kritika.app

package account_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kritika-app/kritika/internal/access"
	"github.com/kritika-app/kritika/internal/platform/apperr"
	"github.com/kritika-app/kritika/internal/platform/sec"
	"github.com/kritika-app/kritika/internal/users/account"
	"github.com/kritika-app/kritika/pkg/pagination"
)

// # Test Doubles

type fakeRepository struct {
	byID       map[string]*account.User
	byUsername map[string]*account.User
	updated    []*account.User
	deleted    []string
}

func newFakeRepository(users ...*account.User) *fakeRepository {
	repo := &fakeRepository{
		byID:       map[string]*account.User{},
		byUsername: map[string]*account.User{},
	}
	for _, user := range users {
		repo.byID[user.ID] = user
		repo.byUsername[user.Username] = user
	}
	return repo
}

func (r *fakeRepository) FindByID(_ context.Context, id string) (*account.User, error) {
	if user, ok := r.byID[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeRepository) FindByUsername(_ context.Context, username string) (*account.User, error) {
	if user, ok := r.byUsername[username]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeRepository) FindByEmail(_ context.Context, email string) (*account.User, error) {
	for _, user := range r.byID {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeRepository) List(_ context.Context, _ string, _ pagination.Params) ([]*account.User, int, error) {
	users := make([]*account.User, 0, len(r.byID))
	for _, user := range r.byID {
		users = append(users, user)
	}
	return users, len(users), nil
}

func (r *fakeRepository) Create(_ context.Context, user *account.User) error {
	r.byID[user.ID] = user
	r.byUsername[user.Username] = user
	return nil
}

func (r *fakeRepository) Update(_ context.Context, user *account.User) error {
	r.updated = append(r.updated, user)
	return nil
}

func (r *fakeRepository) DeleteByUsername(_ context.Context, username string) error {
	if _, ok := r.byUsername[username]; !ok {
		return apperr.NotFound("User")
	}
	r.deleted = append(r.deleted, username)
	return nil
}

// # Fixtures

var (
	adminActor   = &access.Actor{ID: "admin-1", Role: sec.RoleAdmin}
	regularActor = &access.Actor{ID: "user-1", Role: sec.RoleUser}
)

func newService(t *testing.T, users ...*account.User) (*account.Service, *fakeRepository) {
	t.Helper()
	repo := newFakeRepository(users...)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return account.NewService(repo, logger), repo
}

func regularUser() *account.User {
	return &account.User{
		ID:       "user-1",
		Username: "alice",
		Email:    "alice@example.com",
		Role:     sec.RoleUser,
	}
}

func ptr(s string) *string { return &s }

// # Admin Directory

/*
TestCreateUser_AdminOnly verifies that the directory create surface is
restricted to admins.
*/
func TestCreateUser_AdminOnly(t *testing.T) {
	service, _ := newService(t)
	input := account.CreateUserInput{Username: "bob", Email: "bob@example.com"}

	_, err := service.CreateUser(context.Background(), regularActor, input)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	_, err = service.CreateUser(context.Background(), nil, input)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)

	created, err := service.CreateUser(context.Background(), adminActor, input)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleUser, created.Role)
	assert.NotEmpty(t, created.ID)
}

/*
TestCreateUser_RoleAssignment verifies an admin can pre-assign moderator or
admin, and that unknown roles are rejected.
*/
func TestCreateUser_RoleAssignment(t *testing.T) {
	service, _ := newService(t)

	created, err := service.CreateUser(context.Background(), adminActor, account.CreateUserInput{
		Username: "mod",
		Email:    "mod@example.com",
		Role:     "moderator",
	})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleModerator, created.Role)

	_, err = service.CreateUser(context.Background(), adminActor, account.CreateUserInput{
		Username: "x",
		Email:    "x@example.com",
		Role:     "superuser",
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

/*
TestListUsers_AdminOnly verifies the directory listing is hidden from
non-admins.
*/
func TestListUsers_AdminOnly(t *testing.T) {
	service, _ := newService(t, regularUser())

	_, _, err := service.ListUsers(context.Background(), regularActor, account.ListFilter{Page: pagination.Params{Page: 1, Limit: 20}})
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	users, meta, err := service.ListUsers(context.Background(), adminActor, account.ListFilter{Page: pagination.Params{Page: 1, Limit: 20}})
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, 1, meta.Total)
}

/*
TestUpdateUser_RoleChange verifies an admin can promote an account through
the directory surface.
*/
func TestUpdateUser_RoleChange(t *testing.T) {
	service, repo := newService(t, regularUser())

	updated, err := service.UpdateUser(context.Background(), adminActor, "alice", account.UpdateUserInput{
		Role: ptr("moderator"),
	})

	require.NoError(t, err)
	assert.Equal(t, sec.RoleModerator, updated.Role)
	require.Len(t, repo.updated, 1)
}

/*
TestDeleteUser_AdminOnly verifies deletes go through for admins and nobody
else.
*/
func TestDeleteUser_AdminOnly(t *testing.T) {
	service, repo := newService(t, regularUser())

	err := service.DeleteUser(context.Background(), regularActor, "alice")
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	err = service.DeleteUser(context.Background(), adminActor, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, repo.deleted)
}

// # Self-Service Profile

/*
TestGetSelf verifies the authenticated profile read and the anonymous
rejection.
*/
func TestGetSelf(t *testing.T) {
	service, _ := newService(t, regularUser())

	user, err := service.GetSelf(context.Background(), regularActor)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = service.GetSelf(context.Background(), nil)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}

/*
TestUpdateSelf_PatchesProfile verifies partial updates: touched fields
change, untouched fields survive.
*/
func TestUpdateSelf_PatchesProfile(t *testing.T) {
	service, repo := newService(t, regularUser())

	updated, err := service.UpdateSelf(context.Background(), regularActor, account.UpdateUserInput{
		FirstName: ptr("Alice"),
		Bio:       ptr("Reader of everything."),
	})

	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.FirstName)
	assert.Equal(t, "Reader of everything.", updated.Bio)
	assert.Equal(t, "alice", updated.Username)
	assert.Equal(t, "alice@example.com", updated.Email)
	require.Len(t, repo.updated, 1)
}

/*
TestUpdateSelf_RoleIsImmutable verifies that the self surface rejects any
role value, blocking privilege escalation.
*/
func TestUpdateSelf_RoleIsImmutable(t *testing.T) {
	service, repo := newService(t, regularUser())

	_, err := service.UpdateSelf(context.Background(), regularActor, account.UpdateUserInput{
		Role: ptr("admin"),
	})

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	assert.Empty(t, repo.updated)
}

/*
TestUpdateSelf_ValidatesFields verifies reserved usernames and malformed
emails are rejected on the self surface too.
*/
func TestUpdateSelf_ValidatesFields(t *testing.T) {
	tests := []struct {
		name  string
		input account.UpdateUserInput
	}{
		{"reserved_username", account.UpdateUserInput{Username: ptr("me")}},
		{"empty_username", account.UpdateUserInput{Username: ptr("")}},
		{"malformed_email", account.UpdateUserInput{Email: ptr("not-an-address")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo := newService(t, regularUser())

			_, err := service.UpdateSelf(context.Background(), regularActor, tt.input)

			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
			assert.Empty(t, repo.updated)
		})
	}
}
