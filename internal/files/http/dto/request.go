// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/vaultx/internal/validation"
)

// UploadFileRequest contains the parameters for uploading a file.
// Content is base64-encoded in the JSON body and decoded by the binding layer.
type UploadFileRequest struct {
	Filename string `json:"filename" binding:"required"`
	Content  []byte `json:"content"`
}

// Validate checks if the upload file request is valid.
func (r *UploadFileRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Filename,
			validation.Required,
			customValidation.Filename,
		),
	)
}
