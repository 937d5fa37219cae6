package http

import (
	"bytes"
	"context"
	"encoding/json"
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

	authHTTP "github.com/allisson/vaultx/internal/auth/http"
	cryptoDomain "github.com/allisson/vaultx/internal/crypto/domain"
	filesDomain "github.com/allisson/vaultx/internal/files/domain"
	"github.com/allisson/vaultx/internal/files/http/dto"
	filesUseCase "github.com/allisson/vaultx/internal/files/usecase"
	"github.com/allisson/vaultx/internal/httputil"
	identityDomain "github.com/allisson/vaultx/internal/identity/domain"
)

// MockFileUseCase is a mock implementation of filesUseCase.FileUseCase
type MockFileUseCase struct {
	mock.Mock
}

func (m *MockFileUseCase) Upload(
	ctx context.Context,
	ownerID uuid.UUID,
	filename string,
	plaintext []byte,
) (*filesDomain.FileRecord, error) {
	args := m.Called(ctx, ownerID, filename, plaintext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*filesDomain.FileRecord), args.Error(1)
}

func (m *MockFileUseCase) Download(
	ctx context.Context,
	ownerID, fileID uuid.UUID,
) (*filesUseCase.DownloadedFile, error) {
	args := m.Called(ctx, ownerID, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*filesUseCase.DownloadedFile), args.Error(1)
}

func (m *MockFileUseCase) Get(
	ctx context.Context,
	ownerID, fileID uuid.UUID,
) (*filesDomain.FileRecord, error) {
	args := m.Called(ctx, ownerID, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*filesDomain.FileRecord), args.Error(1)
}

func (m *MockFileUseCase) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	offset, limit int,
) ([]*filesDomain.FileRecord, error) {
	args := m.Called(ctx, ownerID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*filesDomain.FileRecord), args.Error(1)
}

func (m *MockFileUseCase) Delete(ctx context.Context, ownerID, fileID uuid.UUID) error {
	args := m.Called(ctx, ownerID, fileID)
	return args.Error(0)
}

func (m *MockFileUseCase) SweepOrphans(
	ctx context.Context,
	gracePeriod time.Duration,
) (*filesUseCase.SweepResult, error) {
	args := m.Called(ctx, gracePeriod)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*filesUseCase.SweepResult), args.Error(1)
}

var _ filesUseCase.FileUseCase = (*MockFileUseCase)(nil)

// setupTestHandler creates a test handler with mocked dependencies.
func setupTestHandler(t *testing.T) (*FileHandler, *MockFileUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockUseCase := &MockFileUseCase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewFileHandler(mockUseCase, logger), mockUseCase
}

// createTestContext builds a gin test context with an authenticated principal.
func createTestContext(
	method, path string,
	body interface{},
	principal *identityDomain.Principal,
) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	if principal != nil {
		req = req.WithContext(authHTTP.WithPrincipal(req.Context(), principal))
	}
	c.Request = req

	return c, w
}

func testPrincipal() *identityDomain.Principal {
	return &identityDomain.Principal{
		ID:    uuid.Must(uuid.NewV7()),
		Email: "user@example.com",
	}
}

func TestFileHandler_UploadHandler(t *testing.T) {
	t.Run("Success_ValidRequest", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		principal := testPrincipal()

		record := &filesDomain.FileRecord{
			ID:        uuid.Must(uuid.NewV7()),
			OwnerID:   principal.ID,
			Filename:  "notes.txt",
			Size:      5,
			Algorithm: cryptoDomain.AESGCM,
			CreatedAt: time.Now().UTC(),
		}
		mockUseCase.On("Upload", mock.Anything, principal.ID, "notes.txt", []byte("hello")).
			Return(record, nil)

		request := dto.UploadFileRequest{Filename: "notes.txt", Content: []byte("hello")}
		c, w := createTestContext(http.MethodPost, "/v1/files", request, principal)

		handler.UploadHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.FileResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, record.ID.String(), response.ID)
		assert.Equal(t, "notes.txt", response.Filename)
		assert.Equal(t, int64(5), response.Size)
		assert.Equal(t, "aes-gcm", response.Algorithm)

		// Key material must never appear in responses
		assert.NotContains(t, w.Body.String(), "wrapped_key")
		assert.NotContains(t, w.Body.String(), "nonce")
	})

	t.Run("Error_MissingPrincipal", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		request := dto.UploadFileRequest{Filename: "notes.txt", Content: []byte("hello")}
		c, w := createTestContext(http.MethodPost, "/v1/files", request, nil)

		handler.UploadHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockUseCase.AssertNotCalled(t, "Upload")
	})

	t.Run("Error_InvalidJSON", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/files", nil, testPrincipal())

		handler.UploadHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "Upload")
	})

	t.Run("Error_InvalidFilename", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		request := dto.UploadFileRequest{Filename: "../../etc/passwd", Content: []byte("x")}
		c, w := createTestContext(http.MethodPost, "/v1/files", request, testPrincipal())

		handler.UploadHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "Upload")
	})

	t.Run("Error_FileTooLarge", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		principal := testPrincipal()

		mockUseCase.On("Upload", mock.Anything, principal.ID, "big.bin", mock.Anything).
			Return(nil, filesDomain.ErrFileTooLarge)

		request := dto.UploadFileRequest{Filename: "big.bin", Content: []byte("payload")}
		c, w := createTestContext(http.MethodPost, "/v1/files", request, principal)

		handler.UploadHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_StorageUnavailable", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		principal := testPrincipal()

		mockUseCase.On("Upload", mock.Anything, principal.ID, "notes.txt", mock.Anything).
			Return(nil, filesDomain.ErrStorageWriteFailed)

		request := dto.UploadFileRequest{Filename: "notes.txt", Content: []byte("hello")}
		c, w := createTestContext(http.MethodPost, "/v1/files", request, principal)

		handler.UploadHandler(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestFileHandler_GetHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		principal := testPrincipal()
		fileID := uuid.Must(uuid.NewV7())

		record := &filesDomain.FileRecord{
			ID:        fileID,
			OwnerID:   principal.ID,
			Filename:  "notes.txt",
			Algorithm: cryptoDomain.ChaCha20,
		}
		mockUseCase.On("Get", mock.Anything, principal.ID, fileID).Return(record, nil)

		c, w := createTestContext(http.MethodGet, "/v1/files/"+fileID.String(), nil, principal)
		c.Params = gin.Params{{Key: "id", Value: fileID.String()}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.FileResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, fileID.String(), response.ID)
	})

	t.Run("Error_InvalidID", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/files/not-a-uuid", nil, testPrincipal())
		c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "Get")
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		principal := testPrincipal()
		fileID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Get", mock.Anything, principal.ID, fileID).
			Return(nil, filesDomain.ErrFileNotFound)

		c, w := createTestContext(http.MethodGet, "/v1/files/"+fileID.String(), nil, principal)
		c.Params = gin.Params{{Key: "id", Value: fileID.String()}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Error_NotOwner", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		principal := testPrincipal()
		fileID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Get", mock.Anything, principal.ID, fileID).
			Return(nil, filesDomain.ErrNotFileOwner)

		c, w := createTestContext(http.MethodGet, "/v1/files/"+fileID.String(), nil, principal)
		c.Params = gin.Params{{Key: "id", Value: fileID.String()}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestFileHandler_DownloadHandler(t *testing.T) {
	t.Run("Success_ReturnsPlaintext", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		principal := testPrincipal()
		fileID := uuid.Must(uuid.NewV7())

		downloaded := &filesUseCase.DownloadedFile{
			Record: &filesDomain.FileRecord{
				ID:       fileID,
				OwnerID:  principal.ID,
				Filename: "notes.txt",
				Size:     5,
			},
			Plaintext: []byte("hello"),
		}
		mockUseCase.On("Download", mock.Anything, principal.ID, fileID).Return(downloaded, nil)

		c, w := createTestContext(
			http.MethodGet, "/v1/files/"+fileID.String()+"/content", nil, principal,
		)
		c.Params = gin.Params{{Key: "id", Value: fileID.String()}}

		handler.DownloadHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.DownloadFileResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, []byte("hello"), response.Content)
		assert.Equal(t, "notes.txt", response.Filename)
	})

	t.Run("Error_DecryptionFailed", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		principal := testPrincipal()
		fileID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Download", mock.Anything, principal.ID, fileID).
			Return(nil, cryptoDomain.ErrDecryptionFailed)

		c, w := createTestContext(
			http.MethodGet, "/v1/files/"+fileID.String()+"/content", nil, principal,
		)
		c.Params = gin.Params{{Key: "id", Value: fileID.String()}}

		handler.DownloadHandler(c)

		// Decryption failures are internal errors and never explain themselves
		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var response httputil.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.NotContains(t, response.Message, "decrypt")
	})

	t.Run("Error_BlobMissing", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		principal := testPrincipal()
		fileID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Download", mock.Anything, principal.ID, fileID).
			Return(nil, filesDomain.ErrBlobMissing)

		c, w := createTestContext(
			http.MethodGet, "/v1/files/"+fileID.String()+"/content", nil, principal,
		)
		c.Params = gin.Params{{Key: "id", Value: fileID.String()}}

		handler.DownloadHandler(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestFileHandler_ListHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		principal := testPrincipal()

		records := []*filesDomain.FileRecord{
			{ID: uuid.Must(uuid.NewV7()), OwnerID: principal.ID, Filename: "a.txt"},
			{ID: uuid.Must(uuid.NewV7()), OwnerID: principal.ID, Filename: "b.txt"},
		}
		mockUseCase.On("ListByOwner", mock.Anything, principal.ID, 0, 50).Return(records, nil)

		c, w := createTestContext(http.MethodGet, "/v1/files", nil, principal)

		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.ListFilesResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Len(t, response.Data, 2)
	})

	t.Run("Success_WithPagination", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		principal := testPrincipal()

		mockUseCase.On("ListByOwner", mock.Anything, principal.ID, 10, 5).
			Return([]*filesDomain.FileRecord{}, nil)

		c, w := createTestContext(http.MethodGet, "/v1/files?offset=10&limit=5", nil, principal)

		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_InvalidPagination", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/files?offset=abc", nil, testPrincipal())

		handler.ListHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "ListByOwner")
	})
}

func TestFileHandler_DeleteHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		principal := testPrincipal()
		fileID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Delete", mock.Anything, principal.ID, fileID).Return(nil)

		c, w := createTestContext(
			http.MethodDelete, "/v1/files/"+fileID.String(), nil, principal,
		)
		c.Params = gin.Params{{Key: "id", Value: fileID.String()}}

		handler.DeleteHandler(c)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.Bytes())
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		principal := testPrincipal()
		fileID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Delete", mock.Anything, principal.ID, fileID).
			Return(filesDomain.ErrFileNotFound)

		c, w := createTestContext(
			http.MethodDelete, "/v1/files/"+fileID.String(), nil, principal,
		)
		c.Params = gin.Params{{Key: "id", Value: fileID.String()}}

		handler.DeleteHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
