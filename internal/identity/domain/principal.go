// Package domain defines the core identity domain entities and types.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/vaultx/internal/errors"
)

// Principal represents an authenticated owner of vault files. Principals are
// provisioned from an external identity provider; no credentials are stored.
type Principal struct {
	ID              uuid.UUID
	Name            string
	Email           string
	Provider        string
	ProviderSubject string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ProviderProfile is the identity asserted by an external provider after a
// successful authentication.
type ProviderProfile struct {
	Provider string
	Subject  string
	Name     string
	Email    string
}

// Domain-specific errors for identity operations.
var (
	// ErrPrincipalNotFound indicates the requested principal does not exist.
	ErrPrincipalNotFound = errors.Wrap(errors.ErrNotFound, "principal not found")

	// ErrPrincipalAlreadyExists indicates a principal with the same email already exists.
	ErrPrincipalAlreadyExists = errors.Wrap(errors.ErrConflict, "principal already exists")

	// ErrInvalidEmail indicates the email format is invalid.
	ErrInvalidEmail = errors.Wrap(errors.ErrInvalidInput, "invalid email format")

	// ErrEmailRequired indicates the email field is required.
	ErrEmailRequired = errors.Wrap(errors.ErrInvalidInput, "email is required")

	// ErrProviderRequired indicates the provider field is required.
	ErrProviderRequired = errors.Wrap(errors.ErrInvalidInput, "provider is required")
)
