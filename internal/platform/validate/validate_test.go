// Copyright (c) 2026 Kritika. All rights reserved.
// Author: dev@kritika.app

package validate_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kritika-app/kritika/internal/platform/apperr"
	"github.com/kritika-app/kritika/internal/platform/validate"
)

/*
TestValidator_Required verifies the Required rule, including whitespace-only
values.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"present", "hello", false},
		{"empty", "", true},
		{"whitespace_only", "   \t", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			err := v.Required("field", tt.value).Err()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

/*
TestValidator_Username verifies the account-name alphabet and the reserved
literal list.
*/
func TestValidator_Username(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"simple", "alice", false},
		{"with_allowed_symbols", "a.b@c+d-e_f", false},
		{"digits", "user2026", false},
		{"space", "alice smith", true},
		{"slash", "alice/bob", true},
		{"hash", "alice#1", true},
		{"reserved_me", "me", true},
		{"me_prefix_is_fine", "medusa", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			err := v.Username("username", tt.value).Err()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

/*
TestValidator_Range verifies inclusive bounds, matching the 1-10 review score
scale.
*/
func TestValidator_Range(t *testing.T) {
	tests := []struct {
		value   int
		wantErr bool
	}{
		{0, true},
		{1, false},
		{5, false},
		{10, false},
		{11, true},
		{-3, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("value_%d", tt.value), func(t *testing.T) {
			v := &validate.Validator{}
			err := v.Range("score", tt.value, 1, 10).Err()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

/*
TestValidator_YearNotFuture verifies that the current year passes and the
next one fails.
*/
func TestValidator_YearNotFuture(t *testing.T) {
	currentYear := time.Now().Year()

	v := &validate.Validator{}
	assert.NoError(t, v.YearNotFuture("year", currentYear).Err())

	v = &validate.Validator{}
	assert.NoError(t, v.YearNotFuture("year", 1925).Err())

	v = &validate.Validator{}
	assert.Error(t, v.YearNotFuture("year", currentYear+1).Err())
}

/*
TestValidator_Email verifies basic address acceptance and rejection.
*/
func TestValidator_Email(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"plain", "alice@example.com", false},
		{"subdomain", "a.b@mail.example.co", false},
		{"missing_at", "alice.example.com", true},
		{"empty", "", true},
		{"missing_domain", "alice@", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			err := v.Email("email", tt.value).Err()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

/*
TestValidator_Slug verifies the URL slug format.
*/
func TestValidator_Slug(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"simple", "fiction", false},
		{"hyphenated", "science-fiction", false},
		{"digits", "top-10", false},
		{"uppercase", "Fiction", true},
		{"leading_hyphen", "-fiction", true},
		{"trailing_hyphen", "fiction-", true},
		{"double_hyphen", "science--fiction", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			err := v.Slug("slug", tt.value).Err()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

/*
TestValidator_MaxLen verifies that length is counted in runes, not bytes.
*/
func TestValidator_MaxLen(t *testing.T) {
	v := &validate.Validator{}
	assert.NoError(t, v.MaxLen("name", "héllo", 5).Err())

	v = &validate.Validator{}
	assert.Error(t, v.MaxLen("name", "hello!", 5).Err())
}

/*
TestValidator_CollectsAllErrors verifies that a chain reports every failed
field in a single VALIDATION_ERROR, not just the first.
*/
func TestValidator_CollectsAllErrors(t *testing.T) {
	v := &validate.Validator{}
	err := v.
		Required("username", "").
		Required("email", "").
		Range("score", 99, 1, 10).
		Err()

	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Len(t, ae.Details, 3)
	assert.True(t, v.HasErrors())
}

/*
TestValidator_OneOf verifies set membership for role values.
*/
func TestValidator_OneOf(t *testing.T) {
	v := &validate.Validator{}
	assert.NoError(t, v.OneOf("role", "moderator", "user", "moderator", "admin").Err())

	v = &validate.Validator{}
	assert.Error(t, v.OneOf("role", "superuser", "user", "moderator", "admin").Err())
}
