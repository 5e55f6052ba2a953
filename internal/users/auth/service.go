// Copyright (c) 2026 Kritika. All rights reserved.
// Author: dev@kritika.app

/*
Package auth implements passwordless signup and token exchange.

There are no passwords anywhere in the system. Signup records (or re-finds)
an account and emails it a confirmation code; exchanging username + code
yields an RSA-signed JWT access token.

Architecture:

  - Service: Orchestrates business logic (Signup, Token).
  - Repository: Abstracted interfaces for Postgres (accounts) and Redis (throttle).
  - Security: Codes are derived from account state (see sec.CodeIssuer),
    never stored; any profile mutation rotates them implicitly.
*/
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kritika-app/kritika/internal/platform/apperr"
	"github.com/kritika-app/kritika/internal/platform/constants"
	"github.com/kritika-app/kritika/internal/platform/sec"
	"github.com/kritika-app/kritika/internal/platform/validate"
	"github.com/kritika-app/kritika/internal/users/account"
	"github.com/kritika-app/kritika/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - username: The username of the account.
	//   - role: The role of the account.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateAccessToken(userID, username, role string, timeToLive time.Duration) (string, error)
}

// CodeProvider derives and verifies confirmation codes from account state.
// Implemented by [sec.CodeIssuer].
type CodeProvider interface {
	Derive(stamp sec.UserStamp) string
	Verify(stamp sec.UserStamp, code string) bool
}

// Mailer delivers confirmation codes. Implemented by the mailer package.
type Mailer interface {
	SendConfirmationCode(context context.Context, email, username, code string) error
}

// Service implements the signup and token-exchange use cases.
type Service struct {
	accountStore  AccountStore
	throttleStore ThrottleStore
	codeProvider  CodeProvider
	tokenProvider TokenProvider
	mailer        Mailer
	logger        *slog.Logger
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(
	accountStore AccountStore,
	throttleStore ThrottleStore,
	codeProvider CodeProvider,
	tokenProvider TokenProvider,
	mailer Mailer,
	logger *slog.Logger,
) *Service {
	return &Service{
		accountStore:  accountStore,
		throttleStore: throttleStore,
		codeProvider:  codeProvider,
		tokenProvider: tokenProvider,
		mailer:        mailer,
		logger:        logger,
	}
}

// # Signup Flow

// SignupInput holds the data required to request a confirmation code.
type SignupInput struct {
	Username string
	Email    string
}

// SignupResult echoes the registered identity back to the client.
type SignupResult struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

/*
Signup registers an account (or re-finds an existing one) and emails its
confirmation code.

Description: The flow is get-or-create and idempotent for a matching
(username, email) pair, so a user who lost the code simply signs up again.
A pair that collides with someone else's username or email is a Conflict.

Parameters:
  - context: context.Context
  - input: SignupInput

Returns:
  - *SignupResult: The accepted identity
  - error: Validation, Conflict, RateLimited, or storage failures
*/
func (service *Service) Signup(context context.Context, input SignupInput) (*SignupResult, error) {

	v := &validate.Validator{}
	err := v.
		Required("username", input.Username).
		MaxLen("username", input.Username, account.MaxUsernameLen).
		Username("username", input.Username).
		Required("email", input.Email).
		MaxLen("email", input.Email, account.MaxEmailLen).
		Email("email", input.Email).
		Err()
	if err != nil {
		return nil, err
	}

	// Cap code deliveries per address so signup cannot be used to spam a mailbox.
	deliveries, err := service.throttleStore.Bump(context, input.Email, constants.SignupThrottleWindow)
	if err != nil {
		return nil, fmt.Errorf("auth_service_throttle_failed: %w", err)
	}
	if deliveries > constants.SignupThrottleLimit {
		return nil, apperr.RateLimited(int(constants.SignupThrottleWindow.Seconds()))
	}

	user, err := service.getOrCreate(context, input)
	if err != nil {
		return nil, err
	}

	// Delivery is best-effort: the account exists either way, and a retry of
	// signup re-issues the identical code.
	code := service.codeProvider.Derive(user.Stamp())
	if err := service.mailer.SendConfirmationCode(context, user.Email, user.Username, code); err != nil {
		service.logger.Warn("confirmation_mail_failed",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	service.logger.Info("signup_code_issued", slog.String("user_id", user.ID))

	return &SignupResult{Username: user.Username, Email: user.Email}, nil
}

// getOrCreate resolves the signup pair to an account, creating one if needed.
func (service *Service) getOrCreate(context context.Context, input SignupInput) (*account.User, error) {

	existing, err := service.accountStore.FindByUsername(context, input.Username)
	if err == nil {
		if existing.Email != input.Email {
			return nil, apperr.Conflict("Username is already taken")
		}
		return existing, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("auth_service_signup_lookup_failed: %w", err)
	}

	if _, err := service.accountStore.FindByEmail(context, input.Email); err == nil {
		return nil, apperr.Conflict("Email address is already registered")
	} else if !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("auth_service_signup_lookup_failed: %w", err)
	}

	now := time.Now()
	user := &account.User{
		ID:        uuid.New(),
		Username:  input.Username,
		Email:     input.Email,
		Role:      sec.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// A concurrent signup with the same pair may win the insert race; the
	// unique indexes turn the loser into a Conflict here.
	if err := service.accountStore.Create(context, user); err != nil {
		if apperr.IsConflict(err) {
			return nil, err
		}
		return nil, fmt.Errorf("auth_service_signup_create_failed: %w", err)
	}

	service.logger.Info("account_registered", slog.String("user_id", user.ID))

	return user, nil
}

// # Token Exchange

// TokenInput holds the credentials for a code-to-JWT exchange.
type TokenInput struct {
	Username         string
	ConfirmationCode string
}

// TokenResult carries the issued access token.
type TokenResult struct {
	Token string `json:"token"`
}

/*
Token exchanges a username and confirmation code for a JWT access token.

Description: An unknown username is a NotFound (the account must sign up
first); a known username with a wrong code is an InvalidCredentials without
detail on which half failed.

Parameters:
  - context: context.Context
  - input: TokenInput

Returns:
  - *TokenResult: Signed JWT
  - error: Validation, NotFound, InvalidCredentials, or signing failures
*/
func (service *Service) Token(context context.Context, input TokenInput) (*TokenResult, error) {

	v := &validate.Validator{}
	err := v.
		Required("username", input.Username).
		Required("confirmation_code", input.ConfirmationCode).
		Err()
	if err != nil {
		return nil, err
	}

	user, err := service.accountStore.FindByUsername(context, input.Username)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("auth_service_token_lookup_failed: %w", err)
	}

	if !service.codeProvider.Verify(user.Stamp(), input.ConfirmationCode) {
		service.logger.Warn("confirmation_code_rejected", slog.String("user_id", user.ID))
		return nil, apperr.InvalidCredentials()
	}

	token, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Username, string(user.Role), AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_sign_failed: %w", err)
	}

	service.logger.Info("access_token_issued", slog.String("user_id", user.ID))

	return &TokenResult{Token: token}, nil
}
