package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/vaultx/internal/auth/domain"
	apperrors "github.com/allisson/vaultx/internal/errors"
)

func TestNewJWTTokenService(t *testing.T) {
	t.Run("valid secret", func(t *testing.T) {
		service, err := NewJWTTokenService([]byte("secret"), time.Hour)
		require.NoError(t, err)
		assert.NotNil(t, service)
	})

	t.Run("empty secret", func(t *testing.T) {
		_, err := NewJWTTokenService(nil, time.Hour)
		assert.ErrorIs(t, err, authDomain.ErrMissingSecret)
	})
}

func TestJWTTokenService_IssueAndVerify(t *testing.T) {
	service, err := NewJWTTokenService([]byte("test-secret"), time.Hour)
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		principalID := uuid.Must(uuid.NewV7())

		token, err := service.IssueToken(principalID)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		verified, err := service.VerifyToken(token)
		require.NoError(t, err)
		assert.Equal(t, principalID, verified)
	})

	t.Run("expired token", func(t *testing.T) {
		expired, err := NewJWTTokenService([]byte("test-secret"), -time.Minute)
		require.NoError(t, err)

		token, err := expired.IssueToken(uuid.Must(uuid.NewV7()))
		require.NoError(t, err)

		_, err = service.VerifyToken(token)
		assert.ErrorIs(t, err, authDomain.ErrTokenExpired)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewJWTTokenService([]byte("other-secret"), time.Hour)
		require.NoError(t, err)

		token, err := other.IssueToken(uuid.Must(uuid.NewV7()))
		require.NoError(t, err)

		_, err = service.VerifyToken(token)
		assert.ErrorIs(t, err, authDomain.ErrInvalidToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := service.VerifyToken("not.a.jwt")
		assert.ErrorIs(t, err, authDomain.ErrInvalidToken)
	})

	t.Run("rejects unsigned tokens", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
			Subject:   uuid.Must(uuid.NewV7()).String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = service.VerifyToken(token)
		assert.ErrorIs(t, err, authDomain.ErrInvalidToken)
	})

	t.Run("rejects non-uuid subject", func(t *testing.T) {
		forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   "admin",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		token, err := forged.SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = service.VerifyToken(token)
		assert.ErrorIs(t, err, authDomain.ErrInvalidToken)
	})
}
