// Copyright (c) 2026 Kritika. All rights reserved.
// Author: dev@kritika.app

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kritika-app/kritika/internal/platform/sec"
)

// newTokenService generates a throwaway RSA keypair on disk and builds a
// TokenService from it.
func newTokenService(t *testing.T) *sec.TokenService {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privPath := filepath.Join(dir, "jwt.pem")
	pubPath := filepath.Join(dir, "jwt.pub.pem")

	privBytes := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	require.NoError(t, os.WriteFile(privPath, privBytes, 0o600))

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubBytes := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: pubDER,
	})
	require.NoError(t, os.WriteFile(pubPath, pubBytes, 0o600))

	service, err := sec.NewTokenService(privPath, pubPath, "kritika.app")
	require.NoError(t, err)
	return service
}

/*
TestTokenService_RoundTrip verifies a generated token carries the identity
claims back through verification.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTokenService(t)

	token, err := service.GenerateAccessToken("user-1", "alice", "moderator", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "moderator", claims.Role)
	assert.Equal(t, "kritika.app", claims.Issuer)
}

/*
TestTokenService_RejectsExpired verifies an expired token fails verification.
*/
func TestTokenService_RejectsExpired(t *testing.T) {
	service := newTokenService(t)

	token, err := service.GenerateAccessToken("user-1", "alice", "user", -time.Minute)
	require.NoError(t, err)

	_, err = service.VerifyToken(token)
	assert.Error(t, err)
}

/*
TestTokenService_RejectsForeignSignature verifies tokens signed by a
different keypair are rejected.
*/
func TestTokenService_RejectsForeignSignature(t *testing.T) {
	issuer := newTokenService(t)
	verifier := newTokenService(t) // different keypair

	token, err := issuer.GenerateAccessToken("user-1", "alice", "user", time.Hour)
	require.NoError(t, err)

	_, err = verifier.VerifyToken(token)
	assert.Error(t, err)
}

/*
TestTokenService_RejectsGarbage verifies malformed strings fail cleanly.
*/
func TestTokenService_RejectsGarbage(t *testing.T) {
	service := newTokenService(t)

	_, err := service.VerifyToken("not.a.jwt")
	assert.Error(t, err)

	_, err = service.VerifyToken("")
	assert.Error(t, err)
}
