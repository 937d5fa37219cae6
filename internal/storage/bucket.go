package storage

import (
	"context"
	"fmt"
	"io"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	// Register all blob provider drivers
	_ "gocloud.dev/blob/azureblob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
)

// EnvelopeContentType is recorded on every stored blob. Envelopes are opaque
// ciphertext, never the uploaded file's own media type.
const EnvelopeContentType = "application/octet-stream"

// BucketBlobStore implements BlobStore using gocloud.dev/blob.
type BucketBlobStore struct {
	bucket *blob.Bucket
}

// NewBucketBlobStore wraps an already opened bucket. Useful for tests with memblob.
func NewBucketBlobStore(bucket *blob.Bucket) *BucketBlobStore {
	return &BucketBlobStore{bucket: bucket}
}

// OpenBlobStore opens the bucket identified by bucketURL.
// Supports: gs://, s3://, azblob://, file://, mem://
func OpenBlobStore(ctx context.Context, bucketURL string) (*BucketBlobStore, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open blob bucket: %w", err)
	}
	return &BucketBlobStore{bucket: bucket}, nil
}

// Put stores data under key with the envelope content type.
func (b *BucketBlobStore) Put(ctx context.Context, key string, data []byte) error {
	opts := &blob.WriterOptions{ContentType: EnvelopeContentType}
	if err := b.bucket.WriteAll(ctx, key, data, opts); err != nil {
		return mapBucketError(err, key)
	}
	return nil
}

// Get retrieves the blob stored under key.
func (b *BucketBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := b.bucket.ReadAll(ctx, key)
	if err != nil {
		return nil, mapBucketError(err, key)
	}
	return data, nil
}

// Exists reports whether a blob exists under key.
func (b *BucketBlobStore) Exists(ctx context.Context, key string) (bool, error) {
	exists, err := b.bucket.Exists(ctx, key)
	if err != nil {
		return false, mapBucketError(err, key)
	}
	return exists, nil
}

// Delete removes the blob stored under key.
func (b *BucketBlobStore) Delete(ctx context.Context, key string) error {
	if err := b.bucket.Delete(ctx, key); err != nil {
		return mapBucketError(err, key)
	}
	return nil
}

// List returns all blobs whose keys start with prefix.
func (b *BucketBlobStore) List(ctx context.Context, prefix string) ([]BlobInfo, error) {
	var infos []BlobInfo

	iter := b.bucket.List(&blob.ListOptions{Prefix: prefix})
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, mapBucketError(err, prefix)
		}
		infos = append(infos, BlobInfo{
			Key:     obj.Key,
			Size:    obj.Size,
			ModTime: obj.ModTime,
		})
	}

	return infos, nil
}

// Close releases the underlying bucket resources.
func (b *BucketBlobStore) Close() error {
	return b.bucket.Close()
}

// mapBucketError translates gocloud error codes into blob store errors so
// callers can distinguish a missing blob from a transient provider failure.
func mapBucketError(err error, key string) error {
	if gcerrors.Code(err) == gcerrors.NotFound {
		return fmt.Errorf("%w: %s", ErrBlobNotFound, key)
	}
	return fmt.Errorf("%w: %v", ErrBlobStoreUnavailable, err)
}
