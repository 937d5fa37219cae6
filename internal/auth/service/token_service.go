// Package service provides session token issuance and verification.
package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	authDomain "github.com/allisson/vaultx/internal/auth/domain"
)

// TokenService defines the interface for session token operations.
type TokenService interface {
	// IssueToken creates a signed session token for the principal.
	IssueToken(principalID uuid.UUID) (string, error)

	// VerifyToken validates a session token and returns the principal ID it
	// was issued for.
	VerifyToken(token string) (uuid.UUID, error)
}

// JWTTokenService implements TokenService using HS256-signed JWTs. The token
// subject carries the principal ID; no other identity data is embedded.
type JWTTokenService struct {
	secret     []byte
	expiration time.Duration
}

// NewJWTTokenService creates a JWTTokenService.
func NewJWTTokenService(secret []byte, expiration time.Duration) (*JWTTokenService, error) {
	if len(secret) == 0 {
		return nil, authDomain.ErrMissingSecret
	}

	return &JWTTokenService{
		secret:     secret,
		expiration: expiration,
	}, nil
}

// IssueToken creates a signed session token for the principal.
func (s *JWTTokenService) IssueToken(principalID uuid.UUID) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   principalID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
	})

	return token.SignedString(s.secret)
}

// VerifyToken validates a session token and returns the principal ID.
func (s *JWTTokenService) VerifyToken(tokenString string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, authDomain.ErrTokenExpired
		}
		return uuid.Nil, authDomain.ErrInvalidToken
	}
	if !token.Valid {
		return uuid.Nil, authDomain.ErrInvalidToken
	}

	principalID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, authDomain.ErrInvalidToken
	}

	return principalID, nil
}
