// Copyright (c) 2026 Kritika. All rights reserved.
// Author: dev@kritika.app

package auth

import "time"

const (
	// AccessTokenTTL is the lifetime of an issued JWT access token.
	AccessTokenTTL = 24 * time.Hour
)
