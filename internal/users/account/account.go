// Copyright (c) 2026 Kritika. All rights reserved.
// Author: dev@kritika.app

/*
Package account handles user identity records and profile management.

It provides the administrative user directory (list, create, update, delete)
and the self-service profile surface ("/users/me"). The signup flow in the
auth package creates records through the same repository.

# Architecture

  - Entity: User is the single identity record shared by auth and content.
  - Roles: "user", "moderator", "admin" (see [sec.UserRole]).
  - Security: Role changes are only possible through the admin surface;
    self-service updates can never escalate privileges.
*/
package account

import (
	"context"
	"time"

	"github.com/kritika-app/kritika/internal/platform/sec"
	"github.com/kritika-app/kritika/pkg/pagination"
)

// # Domain Entities

// User is the canonical identity record.
type User struct {
	ID        string       `json:"id"`
	Username  string       `json:"username"`
	Email     string       `json:"email"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	Bio       string       `json:"bio"`
	Role      sec.UserRole `json:"role"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Stamp snapshots the mutable fields a confirmation code is derived from.
func (u *User) Stamp() sec.UserStamp {
	return sec.UserStamp{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     string(u.Role),
	}
}

// # Field Limits

const (
	// MaxUsernameLen mirrors the column width of accounts.username.
	MaxUsernameLen = 150
	// MaxEmailLen mirrors the column width of accounts.email.
	MaxEmailLen = 254
	// MaxNameLen bounds first and last names.
	MaxNameLen = 150
)

// # Repository Contracts

// Repository defines the persistence contract for user accounts.
type Repository interface {
	/*
		FindByID retrieves a user record by their unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByUsername retrieves a user record by their unique username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		FindByEmail retrieves a user record by their unique email address.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		List returns a page of users ordered by username.

		Parameters:
		  - context: context.Context
		  - search: string (Optional substring filter on username)
		  - params: pagination.Params

		Returns:
		  - []*User: Page of accounts
		  - int: Total match count across all pages
		  - error: Storage failures
	*/
	List(context context.Context, search string, params pagination.Params) ([]*User, int, error)

	/*
		Create inserts a new user record.

		Parameters:
		  - context: context.Context
		  - user: *User (ID and timestamps must be pre-populated)

		Returns:
		  - error: apperr.Conflict on duplicate username/email, or storage failures
	*/
	Create(context context.Context, user *User) error

	/*
		Update persists the mutable fields of an existing user.

		Parameters:
		  - context: context.Context
		  - user: *User (Hydrated entity with changes)

		Returns:
		  - error: apperr.Conflict on duplicate username/email, or storage failures
	*/
	Update(context context.Context, user *User) error

	/*
		DeleteByUsername removes a user record permanently.

		Owned reviews and comments are removed by the database cascade.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - error: apperr.NotFound if no such user, or storage failures
	*/
	DeleteByUsername(context context.Context, username string) error
}

// ListFilter bundles the directory listing options.
type ListFilter struct {
	Search string
	Page   pagination.Params
}
