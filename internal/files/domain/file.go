// Package domain defines the core file vault domain entities and types.
package domain

import (
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/vaultx/internal/crypto/domain"
	"github.com/allisson/vaultx/internal/errors"
)

// FileRecord is the metadata for one encrypted file.
//
// The blob store holds the envelope (nonce, tag and ciphertext); this record
// holds everything needed to find and decrypt it. The per-file key is stored
// only in wrapped form. Nonce and AuthTag are duplicated from the envelope so
// a record is self-describing during audits and recovery; the envelope is the
// source of truth on the decryption path.
type FileRecord struct {
	ID            uuid.UUID
	OwnerID       uuid.UUID
	Filename      string
	StorageKey    string
	Size          int64
	Algorithm     cryptoDomain.Algorithm
	Nonce         []byte
	AuthTag       []byte
	WrappedKey    []byte
	WrapNonce     []byte
	WrapAlgorithm cryptoDomain.Algorithm
	MasterKeyID   string
	CreatedAt     time.Time
}

// WrappedFileKey assembles the key wrapping fields into a WrappedKey value.
func (f *FileRecord) WrappedFileKey() *cryptoDomain.WrappedKey {
	return &cryptoDomain.WrappedKey{
		Ciphertext:  f.WrappedKey,
		Nonce:       f.WrapNonce,
		Algorithm:   f.WrapAlgorithm,
		MasterKeyID: f.MasterKeyID,
	}
}

// Domain-specific errors for file operations.
var (
	// ErrFileNotFound indicates the requested file record does not exist.
	ErrFileNotFound = errors.Wrap(errors.ErrNotFound, "file not found")

	// ErrNotFileOwner indicates the caller does not own the requested file.
	ErrNotFileOwner = errors.Wrap(errors.ErrForbidden, "not the file owner")

	// ErrStorageKeyConflict indicates a record already exists under the storage key.
	// Storage keys are never overwritten.
	ErrStorageKeyConflict = errors.Wrap(errors.ErrConflict, "storage key already exists")

	// ErrFileTooLarge indicates the upload exceeds the configured size limit.
	ErrFileTooLarge = errors.Wrap(errors.ErrInvalidInput, "file too large")

	// ErrFilenameRequired indicates the filename field is required.
	ErrFilenameRequired = errors.Wrap(errors.ErrInvalidInput, "filename is required")

	// ErrStorageWriteFailed indicates the encrypted envelope could not be written
	// to the blob store after exhausting retries. No metadata record exists, so
	// the upload left no trace.
	ErrStorageWriteFailed = errors.Wrap(errors.ErrUnavailable, "storage write failed")

	// ErrMetadataWriteFailed indicates the envelope was written but the metadata
	// record could not be created. The blob is orphaned until the sweep job
	// removes it; the upload must be treated as failed.
	ErrMetadataWriteFailed = errors.Wrap(errors.ErrUnavailable, "metadata write failed")

	// ErrBlobMissing indicates a metadata record exists but its envelope is gone
	// from the blob store. This is an integrity incident, not a user error.
	ErrBlobMissing = errors.New("stored blob is missing")
)
