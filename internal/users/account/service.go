// Copyright (c) 2026 Kritika. All rights reserved.
// Author: dev@kritika.app

package account

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kritika-app/kritika/internal/access"
	"github.com/kritika-app/kritika/internal/platform/sec"
	"github.com/kritika-app/kritika/internal/platform/validate"
	"github.com/kritika-app/kritika/pkg/pagination"
	"github.com/kritika-app/kritika/pkg/uuid"
)

// # Service Layer

// Service orchestrates the administrative user directory and the
// self-service profile surface.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		logger:     logger,
	}
}

// # Admin Directory

/*
ListUsers returns a page of accounts ordered by username.

Parameters:
  - context: context.Context
  - actor: *access.Actor (must be admin)
  - filter: ListFilter

Returns:
  - []*User: Page of accounts
  - pagination.Meta: Page metadata
  - error: Authorization or storage failures
*/
func (service *Service) ListUsers(context context.Context, actor *access.Actor, filter ListFilter) ([]*User, pagination.Meta, error) {
	if err := access.Check(actor, access.ActionRead, access.ResourceAccount, ""); err != nil {
		return nil, pagination.Meta{}, err
	}

	users, total, err := service.repository.List(context, filter.Search, filter.Page)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("account_service_list_failed: %w", err)
	}

	return users, pagination.NewMeta(filter.Page.Page, filter.Page.Limit, total), nil
}

// CreateUserInput carries the fields an admin may set on a new account.
type CreateUserInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Role      string `json:"role"`
}

/*
CreateUser registers a new account through the admin surface.

Unlike signup, the admin may assign any role up front. The new account still
authenticates via the standard confirmation-code flow.

Parameters:
  - context: context.Context
  - actor: *access.Actor (must be admin)
  - input: CreateUserInput

Returns:
  - *User: The created account
  - error: Authorization, validation, conflict, or storage failures
*/
func (service *Service) CreateUser(context context.Context, actor *access.Actor, input CreateUserInput) (*User, error) {
	if err := access.Check(actor, access.ActionCreate, access.ResourceAccount, ""); err != nil {
		return nil, err
	}

	if input.Role == "" {
		input.Role = string(sec.RoleUser)
	}

	v := &validate.Validator{}
	err := v.
		Required("username", input.Username).
		MaxLen("username", input.Username, MaxUsernameLen).
		Username("username", input.Username).
		Required("email", input.Email).
		MaxLen("email", input.Email, MaxEmailLen).
		Email("email", input.Email).
		MaxLen("first_name", input.FirstName, MaxNameLen).
		MaxLen("last_name", input.LastName, MaxNameLen).
		OneOf("role", input.Role, string(sec.RoleUser), string(sec.RoleModerator), string(sec.RoleAdmin)).
		Err()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &User{
		ID:        uuid.New(),
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      sec.UserRole(input.Role),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := service.repository.Create(context, user); err != nil {
		return nil, fmt.Errorf("account_service_create_failed: %w", err)
	}

	service.logger.Info("account_created",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)

	return user, nil
}

/*
GetUser retrieves a single account by username.

Parameters:
  - context: context.Context
  - actor: *access.Actor (must be admin)
  - username: string

Returns:
  - *User: The account
  - error: Authorization, not-found, or storage failures
*/
func (service *Service) GetUser(context context.Context, actor *access.Actor, username string) (*User, error) {
	if err := access.Check(actor, access.ActionRead, access.ResourceAccount, ""); err != nil {
		return nil, err
	}

	return service.repository.FindByUsername(context, username)
}

// UpdateUserInput defines the mutable subset of account fields. Nil pointers
// leave the stored value untouched.
type UpdateUserInput struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role"`
}

/*
UpdateUser applies a partial set of changes to an account, including role
changes.

Parameters:
  - context: context.Context
  - actor: *access.Actor (must be admin)
  - username: string (the target account)
  - input: UpdateUserInput

Returns:
  - *User: The updated account
  - error: Authorization, validation, conflict, or storage failures
*/
func (service *Service) UpdateUser(context context.Context, actor *access.Actor, username string, input UpdateUserInput) (*User, error) {
	if err := access.Check(actor, access.ActionUpdate, access.ResourceAccount, ""); err != nil {
		return nil, err
	}

	user, err := service.repository.FindByUsername(context, username)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_lookup_failed: %w", err)
	}

	if err := applyProfilePatch(user, input); err != nil {
		return nil, err
	}

	if input.Role != nil {
		v := &validate.Validator{}
		if err := v.OneOf("role", *input.Role, string(sec.RoleUser), string(sec.RoleModerator), string(sec.RoleAdmin)).Err(); err != nil {
			return nil, err
		}
		user.Role = sec.UserRole(*input.Role)
	}

	user.UpdatedAt = time.Now()
	if err := service.repository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.Info("account_updated", slog.String("user_id", user.ID))

	return user, nil
}

/*
DeleteUser removes an account permanently. Owned reviews and comments are
removed by the database cascade.

Parameters:
  - context: context.Context
  - actor: *access.Actor (must be admin)
  - username: string

Returns:
  - error: Authorization, not-found, or storage failures
*/
func (service *Service) DeleteUser(context context.Context, actor *access.Actor, username string) error {
	if err := access.Check(actor, access.ActionDelete, access.ResourceAccount, ""); err != nil {
		return err
	}

	if err := service.repository.DeleteByUsername(context, username); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	service.logger.Warn("account_deleted", slog.String("username", username))

	return nil
}

// # Self-Service Profile

/*
GetSelf retrieves the authenticated user's own profile.

Parameters:
  - context: context.Context
  - actor: *access.Actor

Returns:
  - *User: The profile
  - error: Authorization or storage failures
*/
func (service *Service) GetSelf(context context.Context, actor *access.Actor) (*User, error) {
	if actor == nil {
		return nil, access.Check(actor, access.ActionRead, access.ResourceSelf, "")
	}
	if err := access.Check(actor, access.ActionRead, access.ResourceSelf, actor.ID); err != nil {
		return nil, err
	}

	return service.repository.FindByID(context, actor.ID)
}

/*
UpdateSelf applies a partial profile update to the authenticated user's own
account.

The role field is immutable here: a request body carrying "role" is rejected
so privilege escalation through the self surface is impossible.

Parameters:
  - context: context.Context
  - actor: *access.Actor
  - input: UpdateUserInput

Returns:
  - *User: The updated profile
  - error: Authorization, validation, conflict, or storage failures
*/
func (service *Service) UpdateSelf(context context.Context, actor *access.Actor, input UpdateUserInput) (*User, error) {
	if actor == nil {
		return nil, access.Check(actor, access.ActionUpdate, access.ResourceSelf, "")
	}
	if err := access.Check(actor, access.ActionUpdate, access.ResourceSelf, actor.ID); err != nil {
		return nil, err
	}

	if input.Role != nil {
		return nil, validate.RequiredError("role", "Role cannot be changed on your own profile")
	}

	user, err := service.repository.FindByID(context, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("account_service_self_lookup_failed: %w", err)
	}

	if err := applyProfilePatch(user, input); err != nil {
		return nil, err
	}

	user.UpdatedAt = time.Now()
	if err := service.repository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_self_update_failed: %w", err)
	}

	service.logger.Info("profile_updated", slog.String("user_id", user.ID))

	return user, nil
}

// applyProfilePatch validates and applies the non-role fields of a patch.
//
// Changing the username or email rotates the account's confirmation code,
// since the code is derived from the stamped state.
func applyProfilePatch(user *User, input UpdateUserInput) error {
	v := &validate.Validator{}

	if input.Username != nil {
		v.Required("username", *input.Username).
			MaxLen("username", *input.Username, MaxUsernameLen).
			Username("username", *input.Username)
	}
	if input.Email != nil {
		v.Required("email", *input.Email).
			MaxLen("email", *input.Email, MaxEmailLen).
			Email("email", *input.Email)
	}
	if input.FirstName != nil {
		v.MaxLen("first_name", *input.FirstName, MaxNameLen)
	}
	if input.LastName != nil {
		v.MaxLen("last_name", *input.LastName, MaxNameLen)
	}

	if err := v.Err(); err != nil {
		return err
	}

	if input.Username != nil {
		user.Username = *input.Username
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}

	return nil
}
