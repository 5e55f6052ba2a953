// Copyright (c) 2026 Kritika. All rights reserved.
// Author: dev@kritika.app

package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kritika-app/kritika/internal/platform/apperr"
	"github.com/kritika-app/kritika/internal/platform/sec"
	"github.com/kritika-app/kritika/internal/users/account"
	"github.com/kritika-app/kritika/internal/users/auth"
)

// # Test Doubles

type fakeAccountStore struct {
	byUsername map[string]*account.User
	byEmail    map[string]*account.User
	createErr  error
	created    []*account.User
}

func newFakeAccountStore(users ...*account.User) *fakeAccountStore {
	store := &fakeAccountStore{
		byUsername: map[string]*account.User{},
		byEmail:    map[string]*account.User{},
	}
	for _, user := range users {
		store.byUsername[user.Username] = user
		store.byEmail[user.Email] = user
	}
	return store
}

func (s *fakeAccountStore) FindByUsername(_ context.Context, username string) (*account.User, error) {
	if user, ok := s.byUsername[username]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (s *fakeAccountStore) FindByEmail(_ context.Context, email string) (*account.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (s *fakeAccountStore) Create(_ context.Context, user *account.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.byUsername[user.Username] = user
	s.byEmail[user.Email] = user
	s.created = append(s.created, user)
	return nil
}

type fakeThrottleStore struct {
	count int64
	err   error
}

func (s *fakeThrottleStore) Bump(_ context.Context, _ string, _ time.Duration) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.count++
	return s.count, nil
}

type fakeMailer struct {
	err       error
	sentEmail string
	sentCode  string
	calls     int
}

func (m *fakeMailer) SendConfirmationCode(_ context.Context, email, _ /* username */, code string) error {
	m.calls++
	m.sentEmail = email
	m.sentCode = code
	return m.err
}

type fakeTokenProvider struct {
	err        error
	lastUserID string
	lastRole   string
}

func (p *fakeTokenProvider) GenerateAccessToken(userID, _ /* username */, role string, _ time.Duration) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	p.lastUserID = userID
	p.lastRole = role
	return "signed.jwt.token", nil
}

// # Fixtures

type authFixture struct {
	service  *auth.Service
	accounts *fakeAccountStore
	throttle *fakeThrottleStore
	mailer   *fakeMailer
	tokens   *fakeTokenProvider
	codes    *sec.CodeIssuer
}

func newAuthFixture(t *testing.T, users ...*account.User) *authFixture {
	t.Helper()

	codes, err := sec.NewCodeIssuer("test-secret")
	require.NoError(t, err)

	fixture := &authFixture{
		accounts: newFakeAccountStore(users...),
		throttle: &fakeThrottleStore{},
		mailer:   &fakeMailer{},
		tokens:   &fakeTokenProvider{},
		codes:    codes,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fixture.service = auth.NewService(fixture.accounts, fixture.throttle, codes, fixture.tokens, fixture.mailer, logger)
	return fixture
}

func existingUser() *account.User {
	return &account.User{
		ID:       "0191a2b3-0000-7000-8000-000000000001",
		Username: "alice",
		Email:    "alice@example.com",
		Role:     sec.RoleUser,
	}
}

// # Signup

/*
TestSignup_RegistersNewAccount verifies the happy path: account created with
the default role and the derived confirmation code mailed to the address.
*/
func TestSignup_RegistersNewAccount(t *testing.T) {
	fixture := newAuthFixture(t)

	result, err := fixture.service.Signup(context.Background(), auth.SignupInput{
		Username: "alice",
		Email:    "alice@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "alice", result.Username)
	assert.Equal(t, "alice@example.com", result.Email)

	require.Len(t, fixture.accounts.created, 1)
	created := fixture.accounts.created[0]
	assert.Equal(t, sec.RoleUser, created.Role)
	assert.NotEmpty(t, created.ID)

	assert.Equal(t, 1, fixture.mailer.calls)
	assert.Equal(t, "alice@example.com", fixture.mailer.sentEmail)
	assert.Equal(t, fixture.codes.Derive(created.Stamp()), fixture.mailer.sentCode)
}

/*
TestSignup_IdempotentResend verifies that a matching (username, email) pair
re-sends the code for the existing account instead of failing.
*/
func TestSignup_IdempotentResend(t *testing.T) {
	user := existingUser()
	fixture := newAuthFixture(t, user)

	result, err := fixture.service.Signup(context.Background(), auth.SignupInput{
		Username: "alice",
		Email:    "alice@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "alice", result.Username)
	assert.Empty(t, fixture.accounts.created)
	assert.Equal(t, 1, fixture.mailer.calls)
	assert.Equal(t, fixture.codes.Derive(user.Stamp()), fixture.mailer.sentCode)
}

/*
TestSignup_UsernameTaken verifies that a known username paired with a
different email is a Conflict.
*/
func TestSignup_UsernameTaken(t *testing.T) {
	fixture := newAuthFixture(t, existingUser())

	_, err := fixture.service.Signup(context.Background(), auth.SignupInput{
		Username: "alice",
		Email:    "intruder@example.com",
	})

	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
	assert.Zero(t, fixture.mailer.calls)
}

/*
TestSignup_EmailTaken verifies that a fresh username paired with an already
registered email is a Conflict.
*/
func TestSignup_EmailTaken(t *testing.T) {
	fixture := newAuthFixture(t, existingUser())

	_, err := fixture.service.Signup(context.Background(), auth.SignupInput{
		Username: "alice2",
		Email:    "alice@example.com",
	})

	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
	assert.Zero(t, fixture.mailer.calls)
}

/*
TestSignup_Validation verifies field rules, including the reserved "me"
username.
*/
func TestSignup_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input auth.SignupInput
	}{
		{"empty_username", auth.SignupInput{Username: "", Email: "a@example.com"}},
		{"reserved_me", auth.SignupInput{Username: "me", Email: "a@example.com"}},
		{"illegal_characters", auth.SignupInput{Username: "no spaces", Email: "a@example.com"}},
		{"empty_email", auth.SignupInput{Username: "alice", Email: ""}},
		{"malformed_email", auth.SignupInput{Username: "alice", Email: "not-an-address"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := newAuthFixture(t)

			_, err := fixture.service.Signup(context.Background(), tt.input)

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
			assert.Zero(t, fixture.mailer.calls)
		})
	}
}

/*
TestSignup_Throttled verifies that too many deliveries for one address yield
RATE_LIMITED without touching the mailbox again.
*/
func TestSignup_Throttled(t *testing.T) {
	fixture := newAuthFixture(t, existingUser())
	fixture.throttle.count = 5 // next Bump returns 6

	_, err := fixture.service.Signup(context.Background(), auth.SignupInput{
		Username: "alice",
		Email:    "alice@example.com",
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "RATE_LIMITED", ae.Code)
	assert.Zero(t, fixture.mailer.calls)
}

/*
TestSignup_MailFailureIsTolerated verifies that a delivery error does not
fail the signup: the account exists and a retry re-issues the same code.
*/
func TestSignup_MailFailureIsTolerated(t *testing.T) {
	fixture := newAuthFixture(t)
	fixture.mailer.err = errors.New("smtp: connection refused")

	result, err := fixture.service.Signup(context.Background(), auth.SignupInput{
		Username: "alice",
		Email:    "alice@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "alice", result.Username)
	require.Len(t, fixture.accounts.created, 1)
}

// # Token Exchange

/*
TestToken_IssuesAccessToken verifies the exchange of a valid username and
confirmation code for a signed JWT.
*/
func TestToken_IssuesAccessToken(t *testing.T) {
	user := existingUser()
	fixture := newAuthFixture(t, user)
	code := fixture.codes.Derive(user.Stamp())

	result, err := fixture.service.Token(context.Background(), auth.TokenInput{
		Username:         "alice",
		ConfirmationCode: code,
	})

	require.NoError(t, err)
	assert.Equal(t, "signed.jwt.token", result.Token)
	assert.Equal(t, user.ID, fixture.tokens.lastUserID)
	assert.Equal(t, "user", fixture.tokens.lastRole)
}

/*
TestToken_UnknownUsername verifies that an unregistered username is a 404,
not an invalid-credentials response.
*/
func TestToken_UnknownUsername(t *testing.T) {
	fixture := newAuthFixture(t)

	_, err := fixture.service.Token(context.Background(), auth.TokenInput{
		Username:         "nobody",
		ConfirmationCode: "deadbeefdeadbeefdeadbeefdeadbeef",
	})

	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestToken_WrongCode verifies rejection of a known username with a wrong code.
*/
func TestToken_WrongCode(t *testing.T) {
	fixture := newAuthFixture(t, existingUser())

	_, err := fixture.service.Token(context.Background(), auth.TokenInput{
		Username:         "alice",
		ConfirmationCode: "deadbeefdeadbeefdeadbeefdeadbeef",
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "INVALID_CREDENTIALS", ae.Code)
}

/*
TestToken_CodeRotatesWithProfile verifies that a profile mutation invalidates
previously issued codes.
*/
func TestToken_CodeRotatesWithProfile(t *testing.T) {
	user := existingUser()
	fixture := newAuthFixture(t, user)
	staleCode := fixture.codes.Derive(user.Stamp())

	// Email change rotates the stamp.
	user.Email = "renamed@example.com"

	_, err := fixture.service.Token(context.Background(), auth.TokenInput{
		Username:         "alice",
		ConfirmationCode: staleCode,
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "INVALID_CREDENTIALS", ae.Code)
}

/*
TestToken_MissingFields verifies that blank halves are a validation error
before any lookup happens.
*/
func TestToken_MissingFields(t *testing.T) {
	fixture := newAuthFixture(t)

	_, err := fixture.service.Token(context.Background(), auth.TokenInput{})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Len(t, ae.Details, 2)
}
