// Package storage provides the blob store used to persist encrypted file
// envelopes, backed by gocloud.dev/blob.
package storage

import (
	"context"
	"time"

	"github.com/allisson/vaultx/internal/errors"
)

// Blob store error definitions.
var (
	// ErrBlobNotFound indicates no blob exists under the requested key.
	ErrBlobNotFound = errors.Wrap(errors.ErrNotFound, "blob not found")

	// ErrBlobStoreUnavailable indicates a transient blob store failure.
	// Writes that fail with this error may be retried.
	ErrBlobStoreUnavailable = errors.Wrap(errors.ErrUnavailable, "blob store unavailable")
)

// BlobInfo describes a stored blob during listing.
type BlobInfo struct {
	Key     string
	Size    int64
	ModTime time.Time
}

// BlobStore defines the interface for opaque blob persistence. Values are
// stored and returned as raw bytes; the store never inspects envelope contents.
type BlobStore interface {
	// Put stores data under key. An existing blob under the same key is
	// overwritten, so callers must use collision-free keys.
	Put(ctx context.Context, key string, data []byte) error

	// Get retrieves the blob stored under key.
	// Returns ErrBlobNotFound if no blob exists under the key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Exists reports whether a blob exists under key.
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes the blob stored under key.
	// Returns ErrBlobNotFound if no blob exists under the key.
	Delete(ctx context.Context, key string) error

	// List returns all blobs whose keys start with prefix.
	List(ctx context.Context, prefix string) ([]BlobInfo, error)

	// Close releases the underlying bucket resources.
	Close() error
}
