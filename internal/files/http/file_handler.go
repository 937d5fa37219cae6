// Package http provides HTTP handlers for encrypted file operations.
// Files are encrypted before they reach blob storage and decrypted on download.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/vaultx/internal/auth/http"
	cryptoDomain "github.com/allisson/vaultx/internal/crypto/domain"
	apperrors "github.com/allisson/vaultx/internal/errors"
	"github.com/allisson/vaultx/internal/files/http/dto"
	filesUseCase "github.com/allisson/vaultx/internal/files/usecase"
	"github.com/allisson/vaultx/internal/httputil"
	customValidation "github.com/allisson/vaultx/internal/validation"
)

// errStoredFileUnreadable replaces decryption and envelope errors on the
// download path so the response carries no detail about the stored data.
var errStoredFileUnreadable = apperrors.New("stored file unreadable")

// FileHandler handles HTTP requests for encrypted file operations.
type FileHandler struct {
	fileUseCase filesUseCase.FileUseCase
	logger      *slog.Logger
}

// NewFileHandler creates a new file handler with required dependencies.
func NewFileHandler(fileUseCase filesUseCase.FileUseCase, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		fileUseCase: fileUseCase,
		logger:      logger,
	}
}

// principalID extracts the authenticated principal from the request context.
// The authentication middleware must run before any handler that calls this.
func (h *FileHandler) principalID(c *gin.Context) (uuid.UUID, bool) {
	principal, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return uuid.Nil, false
	}
	return principal.ID, true
}

// fileID parses the file id from the URL parameter.
func (h *FileHandler) fileID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(
			c,
			fmt.Errorf("invalid file id: %w", err),
			h.logger,
		)
		return uuid.Nil, false
	}
	return id, true
}

// UploadHandler encrypts and stores a new file.
// POST /v1/files
// Returns 201 Created with file metadata. Key material is never included.
func (h *FileHandler) UploadHandler(c *gin.Context) {
	ownerID, ok := h.principalID(c)
	if !ok {
		return
	}

	var req dto.UploadFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	record, err := h.fileUseCase.Upload(c.Request.Context(), ownerID, req.Filename, req.Content)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapFileToResponse(record))
}

// GetHandler retrieves file metadata by id.
// GET /v1/files/:id
// Returns 200 OK with metadata only. The ciphertext stays in blob storage.
func (h *FileHandler) GetHandler(c *gin.Context) {
	ownerID, ok := h.principalID(c)
	if !ok {
		return
	}

	fileID, ok := h.fileID(c)
	if !ok {
		return
	}

	record, err := h.fileUseCase.Get(c.Request.Context(), ownerID, fileID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapFileToResponse(record))
}

// DownloadHandler retrieves and decrypts a file by id.
// GET /v1/files/:id/content
// Returns 200 OK with plaintext content. SECURITY: Plaintext is zeroed after response.
func (h *FileHandler) DownloadHandler(c *gin.Context) {
	ownerID, ok := h.principalID(c)
	if !ok {
		return
	}

	fileID, ok := h.fileID(c)
	if !ok {
		return
	}

	downloaded, err := h.fileUseCase.Download(c.Request.Context(), ownerID, fileID)
	if err != nil {
		// Undecryptable or truncated stored data is a server-side integrity
		// incident. The client request was valid, so no 4xx applies and no
		// detail about the stored envelope leaves the service.
		if apperrors.Is(err, cryptoDomain.ErrDecryptionFailed) ||
			apperrors.Is(err, cryptoDomain.ErrMalformedEnvelope) {
			h.logger.Error("stored file unreadable",
				slog.String("file_id", fileID.String()),
				slog.Any("error", err),
			)
			httputil.HandleErrorGin(c, errStoredFileUnreadable, h.logger)
			return
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	// SECURITY: Zero plaintext after mapping to response
	defer cryptoDomain.Zero(downloaded.Plaintext)

	c.JSON(http.StatusOK, dto.MapFileToDownloadResponse(downloaded))
}

// ListHandler retrieves the authenticated principal's files with pagination support.
// GET /v1/files?offset=0&limit=50
// Returns 200 OK with paginated file metadata.
func (h *FileHandler) ListHandler(c *gin.Context) {
	ownerID, ok := h.principalID(c)
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	records, err := h.fileUseCase.ListByOwner(c.Request.Context(), ownerID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapFilesToListResponse(records))
}

// DeleteHandler removes a file record and its stored ciphertext.
// DELETE /v1/files/:id
// Returns 204 No Content.
func (h *FileHandler) DeleteHandler(c *gin.Context) {
	ownerID, ok := h.principalID(c)
	if !ok {
		return
	}

	fileID, ok := h.fileID(c)
	if !ok {
		return
	}

	if err := h.fileUseCase.Delete(c.Request.Context(), ownerID, fileID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
