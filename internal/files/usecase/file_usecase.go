package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/vaultx/internal/crypto/domain"
	cryptoService "github.com/allisson/vaultx/internal/crypto/service"
	"github.com/allisson/vaultx/internal/database"
	apperrors "github.com/allisson/vaultx/internal/errors"
	filesDomain "github.com/allisson/vaultx/internal/files/domain"
	"github.com/allisson/vaultx/internal/storage"
	appValidation "github.com/allisson/vaultx/internal/validation"
)

// fileUseCase implements the FileUseCase interface.
type fileUseCase struct {
	txManager          database.TxManager
	fileRepo           FileRepository
	blobStore          storage.BlobStore
	fileCipher         cryptoService.FileCipher
	keyWrapper         cryptoService.KeyWrapper
	namer              ObjectNamer
	logger             *slog.Logger
	maxUploadBytes     int64
	maxWriteRetries    int
	writeRetryInterval time.Duration
}

// NewFileUseCase creates a new FileUseCase.
func NewFileUseCase(
	txManager database.TxManager,
	fileRepo FileRepository,
	blobStore storage.BlobStore,
	fileCipher cryptoService.FileCipher,
	keyWrapper cryptoService.KeyWrapper,
	namer ObjectNamer,
	logger *slog.Logger,
	maxUploadBytes int64,
	maxWriteRetries int,
	writeRetryInterval time.Duration,
) FileUseCase {
	return &fileUseCase{
		txManager:          txManager,
		fileRepo:           fileRepo,
		blobStore:          blobStore,
		fileCipher:         fileCipher,
		keyWrapper:         keyWrapper,
		namer:              namer,
		logger:             logger,
		maxUploadBytes:     maxUploadBytes,
		maxWriteRetries:    maxWriteRetries,
		writeRetryInterval: writeRetryInterval,
	}
}

func (f *fileUseCase) validateUpload(filename string, plaintext []byte) error {
	err := validation.Validate(filename,
		validation.Required.Error("filename is required"),
		appValidation.Filename,
	)
	if err != nil {
		return appValidation.WrapValidationError(err)
	}

	if f.maxUploadBytes > 0 && int64(len(plaintext)) > f.maxUploadBytes {
		return fmt.Errorf(
			"%w: %d bytes exceeds limit of %d",
			filesDomain.ErrFileTooLarge,
			len(plaintext),
			f.maxUploadBytes,
		)
	}

	return nil
}

// Upload encrypts plaintext and persists it in two steps: the encrypted
// envelope goes to the blob store first, the metadata record second. Metadata
// is never visible for a file whose bytes are not durably stored.
func (f *fileUseCase) Upload(
	ctx context.Context,
	ownerID uuid.UUID,
	filename string,
	plaintext []byte,
) (*filesDomain.FileRecord, error) {
	if err := f.validateUpload(filename, plaintext); err != nil {
		return nil, err
	}

	enc, err := f.fileCipher.Encrypt(ctx, plaintext)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(enc.Key)

	wrapped, err := f.keyWrapper.Wrap(ctx, enc.Key)
	if err != nil {
		return nil, err
	}

	envelope := cryptoService.SerializeEnvelope(enc.Nonce, enc.Tag, enc.Ciphertext)
	storageKey := f.namer.NewObjectKey(filename)

	if err := f.putWithRetry(ctx, storageKey, envelope); err != nil {
		// Nothing was persisted: no blob, no metadata.
		return nil, err
	}

	record := &filesDomain.FileRecord{
		ID:            uuid.Must(uuid.NewV7()),
		OwnerID:       ownerID,
		Filename:      filename,
		StorageKey:    storageKey,
		Size:          int64(len(plaintext)),
		Algorithm:     enc.Algorithm,
		Nonce:         enc.Nonce,
		AuthTag:       enc.Tag,
		WrappedKey:    wrapped.Ciphertext,
		WrapNonce:     wrapped.Nonce,
		WrapAlgorithm: wrapped.Algorithm,
		MasterKeyID:   wrapped.MasterKeyID,
		CreatedAt:     time.Now().UTC(),
	}

	err = f.txManager.WithTx(ctx, func(txCtx context.Context) error {
		return f.fileRepo.Create(txCtx, record)
	})
	if err != nil {
		// The blob is already durable, so this failure orphans it until the
		// sweep job runs. The upload itself must read as failed.
		f.logger.Warn("metadata write failed, blob orphaned",
			slog.String("storage_key", storageKey),
			slog.String("error", err.Error()),
		)
		if apperrors.Is(err, apperrors.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", filesDomain.ErrMetadataWriteFailed, err)
	}

	return record, nil
}

// putWithRetry writes the envelope, retrying transient blob store failures a
// bounded number of times. Permanent failures are never retried.
func (f *fileUseCase) putWithRetry(ctx context.Context, storageKey string, envelope []byte) error {
	var lastErr error

	for attempt := 0; attempt <= f.maxWriteRetries; attempt++ {
		if attempt > 0 {
			f.logger.Warn("retrying blob write",
				slog.String("storage_key", storageKey),
				slog.Int("attempt", attempt),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(f.writeRetryInterval):
			}
		}

		lastErr = f.blobStore.Put(ctx, storageKey, envelope)
		if lastErr == nil {
			return nil
		}
		if !apperrors.Is(lastErr, apperrors.ErrUnavailable) {
			break
		}
	}

	return fmt.Errorf("%w: %v", filesDomain.ErrStorageWriteFailed, lastErr)
}

// Download retrieves and decrypts a file for its owner.
func (f *fileUseCase) Download(
	ctx context.Context,
	ownerID, fileID uuid.UUID,
) (*DownloadedFile, error) {
	record, err := f.getOwned(ctx, ownerID, fileID)
	if err != nil {
		return nil, err
	}

	envelopeBytes, err := f.blobStore.Get(ctx, record.StorageKey)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			// Metadata without a blob is an integrity incident, not a 404.
			f.logger.Error("blob missing for file record",
				slog.String("file_id", record.ID.String()),
				slog.String("storage_key", record.StorageKey),
			)
			return nil, filesDomain.ErrBlobMissing
		}
		return nil, err
	}

	envelope, err := cryptoService.ParseEnvelope(envelopeBytes)
	if err != nil {
		return nil, err
	}

	fileKey, err := f.keyWrapper.Unwrap(ctx, record.WrappedFileKey())
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(fileKey)

	plaintext, err := f.fileCipher.Decrypt(
		ctx,
		record.Algorithm,
		fileKey,
		envelope.Nonce,
		envelope.Tag,
		envelope.Ciphertext,
	)
	if err != nil {
		return nil, err
	}

	if int64(len(plaintext)) != record.Size {
		f.logger.Warn("decrypted size differs from recorded size",
			slog.String("file_id", record.ID.String()),
			slog.Int64("recorded", record.Size),
			slog.Int("actual", len(plaintext)),
		)
	}

	return &DownloadedFile{
		Record:    record,
		Plaintext: plaintext,
	}, nil
}

// Get retrieves a file's metadata record for its owner.
func (f *fileUseCase) Get(
	ctx context.Context,
	ownerID, fileID uuid.UUID,
) (*filesDomain.FileRecord, error) {
	return f.getOwned(ctx, ownerID, fileID)
}

// getOwned loads a record and enforces ownership.
func (f *fileUseCase) getOwned(
	ctx context.Context,
	ownerID, fileID uuid.UUID,
) (*filesDomain.FileRecord, error) {
	record, err := f.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if record.OwnerID != ownerID {
		return nil, filesDomain.ErrNotFileOwner
	}
	return record, nil
}

// ListByOwner retrieves the caller's file records, newest first.
func (f *fileUseCase) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	offset, limit int,
) ([]*filesDomain.FileRecord, error) {
	return f.fileRepo.ListByOwner(ctx, ownerID, offset, limit)
}

// Delete removes a file's metadata record, then its blob. The metadata delete
// runs first so a half-finished delete degrades into an orphaned blob, which
// the sweep job cleans up, rather than a dangling record.
func (f *fileUseCase) Delete(ctx context.Context, ownerID, fileID uuid.UUID) error {
	record, err := f.getOwned(ctx, ownerID, fileID)
	if err != nil {
		return err
	}

	err = f.txManager.WithTx(ctx, func(txCtx context.Context) error {
		return f.fileRepo.Delete(txCtx, record.ID)
	})
	if err != nil {
		return err
	}

	if err := f.blobStore.Delete(ctx, record.StorageKey); err != nil &&
		!apperrors.Is(err, apperrors.ErrNotFound) {
		f.logger.Warn("blob delete failed, blob orphaned",
			slog.String("storage_key", record.StorageKey),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

// SweepOrphans deletes blobs that have no metadata record and are older than
// gracePeriod. The grace period keeps the sweep from racing an in-flight
// upload whose metadata write has not happened yet.
func (f *fileUseCase) SweepOrphans(
	ctx context.Context,
	gracePeriod time.Duration,
) (*SweepResult, error) {
	cutoff := time.Now().Add(-gracePeriod)

	infos, err := f.blobStore.List(ctx, f.namer.Prefix())
	if err != nil {
		return nil, err
	}

	result := &SweepResult{}
	for _, info := range infos {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		result.Scanned++
		if info.ModTime.After(cutoff) {
			continue
		}

		_, err := f.fileRepo.GetByStorageKey(ctx, info.Key)
		if err == nil {
			continue
		}
		if !apperrors.Is(err, apperrors.ErrNotFound) {
			return result, err
		}

		if err := f.blobStore.Delete(ctx, info.Key); err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			return result, err
		}

		f.logger.Info("deleted orphaned blob", slog.String("storage_key", info.Key))
		result.Deleted++
	}

	return result, nil
}
