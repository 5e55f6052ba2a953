// Copyright (c) 2026 Kritika. All rights reserved.
// Author: dev@kritika.app

package auth

import (
	"context"
	"time"

	"github.com/kritika-app/kritika/internal/users/account"
)

// AccountStore is the slice of the account repository the auth flow needs.
// Implemented by [account.PostgresRepository].
type AccountStore interface {
	/*
		FindByUsername retrieves an account by its unique username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *account.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByUsername(context context.Context, username string) (*account.User, error)

	/*
		FindByEmail retrieves an account by its unique email address.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *account.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByEmail(context context.Context, email string) (*account.User, error)

	/*
		Create inserts a new account record.

		Parameters:
		  - context: context.Context
		  - user: *account.User

		Returns:
		  - error: apperr.Conflict on duplicate username/email, or storage failures
	*/
	Create(context context.Context, user *account.User) error
}

// ThrottleStore counts confirmation-code deliveries per address inside a
// sliding window.
type ThrottleStore interface {
	/*
		Bump increments the delivery counter for an address and returns the
		new count. The counter expires after the window elapses.

		Parameters:
		  - context: context.Context
		  - email: string (the throttle key)
		  - window: time.Duration

		Returns:
		  - int64: Deliveries recorded in the current window, including this one
		  - error: Connectivity failures
	*/
	Bump(context context.Context, email string, window time.Duration) (int64, error)
}
