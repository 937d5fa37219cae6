// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	filesDomain "github.com/allisson/vaultx/internal/files/domain"
)

// ListFilesResponse represents a paginated list of files in API responses.
type ListFilesResponse struct {
	Data []FileResponse `json:"data"`
}

// MapFilesToListResponse converts a slice of domain file records to a list response.
func MapFilesToListResponse(files []*filesDomain.FileRecord) ListFilesResponse {
	data := make([]FileResponse, 0, len(files))
	for _, file := range files {
		data = append(data, MapFileToResponse(file))
	}

	return ListFilesResponse{
		Data: data,
	}
}
