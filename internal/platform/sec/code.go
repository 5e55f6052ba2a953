// Copyright (c) 2026 Kritika. All rights reserved.
// Author: dev@kritika.app

package sec

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

// UserStamp is the snapshot of mutable account state a confirmation code is
// derived from. Changing ANY stamped field invalidates every previously
// issued code for that account.
type UserStamp struct {
	ID       string
	Username string
	Email    string
	Role     string
}

// CodeIssuer derives and verifies confirmation codes.
//
// # Design
//
// The code is not stored anywhere. It is an HMAC-SHA256 over the user's
// stamped state, keyed with a secret derived from the server secret via HKDF.
// Signup can therefore re-issue the code at any time, and any mutation of the
// account record rotates it implicitly.
//
// # Replay
//
// Exchanging a code for an access token reads the account but mutates
// nothing, so an unchanged account keeps accepting the same code and tokens
// may be re-issued for it. This is accepted behavior: the code is delivered
// to the owner's mailbox and expires the moment the record changes.
type CodeIssuer struct {
	key []byte
}

// codeInfo namespaces the HKDF expansion so the same server secret can be
// reused for other derived keys without overlap.
const codeInfo = "kritika/confirmation-code/v1"

// codeLength is the number of hex characters in an issued code.
const codeLength = 32

// NewCodeIssuer expands the server secret into a dedicated HMAC key.
func NewCodeIssuer(serverSecret string) (*CodeIssuer, error) {
	if strings.TrimSpace(serverSecret) == "" {
		return nil, fmt.Errorf("sec: confirmation secret must not be empty")
	}

	reader := hkdf.New(sha256.New, []byte(serverSecret), nil, []byte(codeInfo))
	key := make([]byte, sha256.Size)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("sec: failed to derive confirmation key: %w", err)
	}

	return &CodeIssuer{key: key}, nil
}

// Derive computes the confirmation code for the given account state.
func (issuer *CodeIssuer) Derive(stamp UserStamp) string {
	mac := hmac.New(sha256.New, issuer.key)
	// The separator cannot appear in IDs, usernames, or roles, and emails
	// come last, so the serialization is unambiguous.
	fmt.Fprintf(mac, "%s\n%s\n%s\n%s", stamp.ID, stamp.Username, stamp.Role, stamp.Email)
	return hex.EncodeToString(mac.Sum(nil))[:codeLength]
}

// Verify reports whether code matches the account's current derived code.
// The comparison is constant-time.
func (issuer *CodeIssuer) Verify(stamp UserStamp, code string) bool {
	expected := issuer.Derive(stamp)
	return hmac.Equal([]byte(expected), []byte(code))
}
