package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authService "github.com/allisson/vaultx/internal/auth/service"
	identityDomain "github.com/allisson/vaultx/internal/identity/domain"
)

// MockIdentityUseCase is a mock implementation of identityUseCase.UseCase
type MockIdentityUseCase struct {
	mock.Mock
}

func (m *MockIdentityUseCase) ProvisionPrincipal(
	ctx context.Context,
	profile identityDomain.ProviderProfile,
) (*identityDomain.Principal, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.Principal), args.Error(1)
}

func (m *MockIdentityUseCase) GetPrincipalByID(
	ctx context.Context,
	id uuid.UUID,
) (*identityDomain.Principal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.Principal), args.Error(1)
}

func (m *MockIdentityUseCase) GetPrincipalByEmail(
	ctx context.Context,
	email string,
) (*identityDomain.Principal, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.Principal), args.Error(1)
}

func setupAuthRouter(t *testing.T, identityUC *MockIdentityUseCase) (*gin.Engine, authService.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokenService, err := authService.NewJWTTokenService([]byte("test-secret"), time.Hour)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := gin.New()
	router.Use(AuthenticationMiddleware(tokenService, identityUC, logger))
	router.GET("/protected", func(c *gin.Context) {
		principal, ok := GetPrincipal(c.Request.Context())
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"principal_id": principal.ID.String()})
	})

	return router, tokenService
}

func TestAuthenticationMiddleware(t *testing.T) {
	t.Run("valid token reaches the handler", func(t *testing.T) {
		identityUC := &MockIdentityUseCase{}
		router, tokenService := setupAuthRouter(t, identityUC)

		principalID := uuid.Must(uuid.NewV7())
		identityUC.On("GetPrincipalByID", mock.Anything, principalID).
			Return(&identityDomain.Principal{ID: principalID}, nil)

		token, err := tokenService.IssueToken(principalID)
		require.NoError(t, err)

		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), principalID.String())
	})

	t.Run("missing header", func(t *testing.T) {
		identityUC := &MockIdentityUseCase{}
		router, _ := setupAuthRouter(t, identityUC)

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/protected", nil))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		identityUC := &MockIdentityUseCase{}
		router, _ := setupAuthRouter(t, identityUC)

		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("case-insensitive bearer prefix", func(t *testing.T) {
		identityUC := &MockIdentityUseCase{}
		router, tokenService := setupAuthRouter(t, identityUC)

		principalID := uuid.Must(uuid.NewV7())
		identityUC.On("GetPrincipalByID", mock.Anything, principalID).
			Return(&identityDomain.Principal{ID: principalID}, nil)

		token, err := tokenService.IssueToken(principalID)
		require.NoError(t, err)

		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "BEARER "+token)
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		identityUC := &MockIdentityUseCase{}
		router, _ := setupAuthRouter(t, identityUC)

		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("token for deleted principal", func(t *testing.T) {
		identityUC := &MockIdentityUseCase{}
		router, tokenService := setupAuthRouter(t, identityUC)

		principalID := uuid.Must(uuid.NewV7())
		identityUC.On("GetPrincipalByID", mock.Anything, principalID).
			Return(nil, identityDomain.ErrPrincipalNotFound)

		token, err := tokenService.IssueToken(principalID)
		require.NoError(t, err)

		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(recorder, req)

		// 401, not 404: the resource exists, the caller just cannot prove identity.
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}
