package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	filesDomain "github.com/allisson/vaultx/internal/files/domain"
	"github.com/allisson/vaultx/internal/metrics"
)

// fileUseCaseWithMetrics decorates FileUseCase with metrics instrumentation.
type fileUseCaseWithMetrics struct {
	next    FileUseCase
	metrics metrics.BusinessMetrics
}

// NewFileUseCaseWithMetrics wraps a FileUseCase with metrics recording.
func NewFileUseCaseWithMetrics(useCase FileUseCase, m metrics.BusinessMetrics) FileUseCase {
	return &fileUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (f *fileUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	f.metrics.RecordOperation(ctx, "files", operation, status)
	f.metrics.RecordDuration(ctx, "files", operation, time.Since(start), status)
}

// Upload records metrics for upload operations.
func (f *fileUseCaseWithMetrics) Upload(
	ctx context.Context,
	ownerID uuid.UUID,
	filename string,
	plaintext []byte,
) (*filesDomain.FileRecord, error) {
	start := time.Now()
	record, err := f.next.Upload(ctx, ownerID, filename, plaintext)
	f.record(ctx, "file_upload", start, err)
	return record, err
}

// Download records metrics for download operations.
func (f *fileUseCaseWithMetrics) Download(
	ctx context.Context,
	ownerID, fileID uuid.UUID,
) (*DownloadedFile, error) {
	start := time.Now()
	downloaded, err := f.next.Download(ctx, ownerID, fileID)
	f.record(ctx, "file_download", start, err)
	return downloaded, err
}

// Get records metrics for metadata retrieval operations.
func (f *fileUseCaseWithMetrics) Get(
	ctx context.Context,
	ownerID, fileID uuid.UUID,
) (*filesDomain.FileRecord, error) {
	start := time.Now()
	record, err := f.next.Get(ctx, ownerID, fileID)
	f.record(ctx, "file_get", start, err)
	return record, err
}

// ListByOwner records metrics for listing operations.
func (f *fileUseCaseWithMetrics) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	offset, limit int,
) ([]*filesDomain.FileRecord, error) {
	start := time.Now()
	records, err := f.next.ListByOwner(ctx, ownerID, offset, limit)
	f.record(ctx, "file_list", start, err)
	return records, err
}

// Delete records metrics for delete operations.
func (f *fileUseCaseWithMetrics) Delete(ctx context.Context, ownerID, fileID uuid.UUID) error {
	start := time.Now()
	err := f.next.Delete(ctx, ownerID, fileID)
	f.record(ctx, "file_delete", start, err)
	return err
}

// SweepOrphans records metrics for orphan sweep runs.
func (f *fileUseCaseWithMetrics) SweepOrphans(
	ctx context.Context,
	gracePeriod time.Duration,
) (*SweepResult, error) {
	start := time.Now()
	result, err := f.next.SweepOrphans(ctx, gracePeriod)
	f.record(ctx, "orphan_sweep", start, err)
	return result, err
}
