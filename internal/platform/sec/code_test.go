// Copyright (c) 2026 Kritika. All rights reserved.
// Author: dev@kritika.app

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kritika-app/kritika/internal/platform/sec"
)

func newIssuer(t *testing.T) *sec.CodeIssuer {
	t.Helper()
	issuer, err := sec.NewCodeIssuer("test-server-secret")
	require.NoError(t, err)
	return issuer
}

var testStamp = sec.UserStamp{
	ID:       "0191a2b3-0000-7000-8000-000000000001",
	Username: "alice",
	Email:    "alice@example.com",
	Role:     "user",
}

/*
TestCodeIssuer_DeriveIsDeterministic verifies that the same account state
always yields the same code, so signup can re-issue it at any time.
*/
func TestCodeIssuer_DeriveIsDeterministic(t *testing.T) {
	issuer := newIssuer(t)

	first := issuer.Derive(testStamp)
	second := issuer.Derive(testStamp)

	assert.Equal(t, first, second)
	assert.Len(t, first, 32)
	assert.Regexp(t, "^[0-9a-f]+$", first)
}

/*
TestCodeIssuer_Verify verifies acceptance of the derived code and rejection
of anything else.
*/
func TestCodeIssuer_Verify(t *testing.T) {
	issuer := newIssuer(t)
	code := issuer.Derive(testStamp)

	assert.True(t, issuer.Verify(testStamp, code))
	assert.False(t, issuer.Verify(testStamp, "deadbeefdeadbeefdeadbeefdeadbeef"))
	assert.False(t, issuer.Verify(testStamp, ""))
	assert.False(t, issuer.Verify(testStamp, code[:16]))
}

/*
TestCodeIssuer_StateRotation verifies that changing any stamped field
invalidates previously issued codes.
*/
func TestCodeIssuer_StateRotation(t *testing.T) {
	issuer := newIssuer(t)
	original := issuer.Derive(testStamp)

	mutations := []struct {
		name   string
		mutate func(s sec.UserStamp) sec.UserStamp
	}{
		{"username", func(s sec.UserStamp) sec.UserStamp { s.Username = "alice2"; return s }},
		{"email", func(s sec.UserStamp) sec.UserStamp { s.Email = "other@example.com"; return s }},
		{"role", func(s sec.UserStamp) sec.UserStamp { s.Role = "moderator"; return s }},
		{"id", func(s sec.UserStamp) sec.UserStamp { s.ID = "0191a2b3-0000-7000-8000-000000000002"; return s }},
	}

	for _, tt := range mutations {
		t.Run(tt.name, func(t *testing.T) {
			mutated := tt.mutate(testStamp)
			assert.NotEqual(t, original, issuer.Derive(mutated))
			assert.False(t, issuer.Verify(mutated, original))
		})
	}
}

/*
TestCodeIssuer_KeyedBySecret verifies that two servers with different secrets
never accept each other's codes.
*/
func TestCodeIssuer_KeyedBySecret(t *testing.T) {
	issuerA, err := sec.NewCodeIssuer("secret-a")
	require.NoError(t, err)
	issuerB, err := sec.NewCodeIssuer("secret-b")
	require.NoError(t, err)

	codeA := issuerA.Derive(testStamp)
	assert.False(t, issuerB.Verify(testStamp, codeA))
}

/*
TestNewCodeIssuer_RejectsEmptySecret verifies startup fails fast on a blank
confirmation secret.
*/
func TestNewCodeIssuer_RejectsEmptySecret(t *testing.T) {
	_, err := sec.NewCodeIssuer("")
	assert.Error(t, err)

	_, err = sec.NewCodeIssuer("   ")
	assert.Error(t, err)
}
