// Package domain defines authentication domain types and errors.
package domain

import (
	"github.com/allisson/vaultx/internal/errors"
)

// Authentication error definitions.
var (
	// ErrInvalidToken indicates the session token failed signature or claim checks.
	ErrInvalidToken = errors.Wrap(errors.ErrUnauthorized, "invalid token")

	// ErrTokenExpired indicates the session token is past its expiration.
	ErrTokenExpired = errors.Wrap(errors.ErrUnauthorized, "token expired")

	// ErrMissingSecret indicates the JWT signing secret is not configured.
	ErrMissingSecret = errors.New("jwt secret is not configured")
)
