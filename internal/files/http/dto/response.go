// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	filesDomain "github.com/allisson/vaultx/internal/files/domain"
	filesUseCase "github.com/allisson/vaultx/internal/files/usecase"
)

// FileResponse represents file metadata in API responses.
// Key material (wrapped keys, nonces, auth tags) is never exposed over the API.
type FileResponse struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Size      int64     `json:"size"`
	Algorithm string    `json:"algorithm"`
	CreatedAt time.Time `json:"created_at"`
}

// DownloadFileResponse represents a decrypted file in API responses.
// SECURITY: Content contains plaintext. Caller must zero the plaintext from
// the domain object after mapping using cryptoDomain.Zero.
type DownloadFileResponse struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Size      int64     `json:"size"`
	Content   []byte    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// MapFileToResponse converts a domain file record to an API response.
func MapFileToResponse(file *filesDomain.FileRecord) FileResponse {
	return FileResponse{
		ID:        file.ID.String(),
		Filename:  file.Filename,
		Size:      file.Size,
		Algorithm: string(file.Algorithm),
		CreatedAt: file.CreatedAt,
	}
}

// MapFileToDownloadResponse converts a decrypted file to an API response.
func MapFileToDownloadResponse(downloaded *filesUseCase.DownloadedFile) DownloadFileResponse {
	return DownloadFileResponse{
		ID:        downloaded.Record.ID.String(),
		Filename:  downloaded.Record.Filename,
		Size:      downloaded.Record.Size,
		Content:   downloaded.Plaintext,
		CreatedAt: downloaded.Record.CreatedAt,
	}
}
