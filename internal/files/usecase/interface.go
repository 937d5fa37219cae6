// Package usecase defines the interfaces and implementations for the encrypt-then-store
// file pipeline: uploads are encrypted before anything touches the blob store, and the
// metadata record is only written after the encrypted envelope is durably stored.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	filesDomain "github.com/allisson/vaultx/internal/files/domain"
)

// FileRepository defines the interface for file record persistence operations.
type FileRepository interface {
	Create(ctx context.Context, file *filesDomain.FileRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*filesDomain.FileRecord, error)
	GetByStorageKey(ctx context.Context, storageKey string) (*filesDomain.FileRecord, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]*filesDomain.FileRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ObjectNamer generates collision-free storage keys for uploads.
type ObjectNamer interface {
	NewObjectKey(filename string) string
	Prefix() string
}

// DownloadedFile is a decrypted file together with its metadata record.
//
// Security note: Plaintext must be zeroed by the caller after use.
type DownloadedFile struct {
	Record    *filesDomain.FileRecord
	Plaintext []byte
}

// SweepResult summarizes one orphaned-blob sweep run.
type SweepResult struct {
	Scanned int
	Deleted int
}

// FileUseCase defines the interface for file vault business logic.
type FileUseCase interface {
	// Upload encrypts plaintext and persists it: blob first, metadata second.
	// Failure before the blob write leaves no trace; failure between the two
	// writes leaves an orphaned blob and returns ErrMetadataWriteFailed.
	Upload(ctx context.Context, ownerID uuid.UUID, filename string, plaintext []byte) (*filesDomain.FileRecord, error)

	// Download retrieves and decrypts a file. Only the owner may download it.
	Download(ctx context.Context, ownerID, fileID uuid.UUID) (*DownloadedFile, error)

	// Get retrieves a file's metadata record. Only the owner may read it.
	Get(ctx context.Context, ownerID, fileID uuid.UUID) (*filesDomain.FileRecord, error)

	// ListByOwner retrieves the caller's file records, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]*filesDomain.FileRecord, error)

	// Delete removes a file's metadata record and then its blob. A failed blob
	// delete leaves an orphan for the sweep job.
	Delete(ctx context.Context, ownerID, fileID uuid.UUID) error

	// SweepOrphans deletes blobs older than gracePeriod that have no metadata
	// record, compensating for uploads that failed between the two writes.
	SweepOrphans(ctx context.Context, gracePeriod time.Duration) (*SweepResult, error)
}
