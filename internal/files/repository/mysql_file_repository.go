package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/allisson/vaultx/internal/database"
	"github.com/allisson/vaultx/internal/files/domain"

	apperrors "github.com/allisson/vaultx/internal/errors"
)

const mysqlFileColumns = `id, owner_id, filename, storage_key, size, algorithm, nonce, auth_tag,
			  wrapped_key, wrap_nonce, wrap_algorithm, master_key_id, created_at`

// MySQLFileRepository handles file record persistence for MySQL
type MySQLFileRepository struct {
	db *sql.DB
}

// NewMySQLFileRepository creates a new MySQLFileRepository
func NewMySQLFileRepository(db *sql.DB) *MySQLFileRepository {
	return &MySQLFileRepository{
		db: db,
	}
}

// Create inserts a new file record
func (r *MySQLFileRepository) Create(ctx context.Context, file *domain.FileRecord) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO files (id, owner_id, filename, storage_key, size, algorithm, nonce, auth_tag,
			  wrapped_key, wrap_nonce, wrap_algorithm, master_key_id, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	// Convert UUIDs to bytes for MySQL BINARY(16)
	idBytes, err := file.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	ownerBytes, err := file.OwnerID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		idBytes,
		ownerBytes,
		file.Filename,
		file.StorageKey,
		file.Size,
		file.Algorithm,
		file.Nonce,
		file.AuthTag,
		file.WrappedKey,
		file.WrapNonce,
		file.WrapAlgorithm,
		file.MasterKeyID,
		file.CreatedAt,
	)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return domain.ErrStorageKeyConflict
		}
		return apperrors.Wrap(err, "failed to create file record")
	}
	return nil
}

// GetByID retrieves a file record by ID
func (r *MySQLFileRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.FileRecord, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mysqlFileColumns + ` FROM files WHERE id = ?`

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	file, err := scanMySQLFile(querier.QueryRowContext(ctx, query, idBytes))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFileNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get file by id")
	}

	return file, nil
}

// GetByStorageKey retrieves a file record by its storage key
func (r *MySQLFileRepository) GetByStorageKey(
	ctx context.Context,
	storageKey string,
) (*domain.FileRecord, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mysqlFileColumns + ` FROM files WHERE storage_key = ?`

	file, err := scanMySQLFile(querier.QueryRowContext(ctx, query, storageKey))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFileNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get file by storage key")
	}

	return file, nil
}

// ListByOwner retrieves file records owned by ownerID, newest first
func (r *MySQLFileRepository) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	offset, limit int,
) ([]*domain.FileRecord, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mysqlFileColumns + ` FROM files
			  WHERE owner_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`

	ownerBytes, err := ownerID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	rows, err := querier.QueryContext(ctx, query, ownerBytes, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list files by owner")
	}
	defer func() { _ = rows.Close() }()

	var files []*domain.FileRecord
	for rows.Next() {
		file, err := scanMySQLFile(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan file record")
		}
		files = append(files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to list files by owner")
	}

	return files, nil
}

// Delete removes a file record
func (r *MySQLFileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM files WHERE id = ?`, idBytes)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete file record")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to check deleted rows")
	}
	if affected == 0 {
		return domain.ErrFileNotFound
	}
	return nil
}

func scanMySQLFile(row rowScanner) (*domain.FileRecord, error) {
	var file domain.FileRecord
	var idBytes, ownerBytes []byte

	err := row.Scan(
		&idBytes,
		&ownerBytes,
		&file.Filename,
		&file.StorageKey,
		&file.Size,
		&file.Algorithm,
		&file.Nonce,
		&file.AuthTag,
		&file.WrappedKey,
		&file.WrapNonce,
		&file.WrapAlgorithm,
		&file.MasterKeyID,
		&file.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	// Convert bytes back to UUIDs
	if err := file.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, err
	}
	if err := file.OwnerID.UnmarshalBinary(ownerBytes); err != nil {
		return nil, err
	}

	return &file, nil
}

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint violation
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// MySQL: "Error 1062: Duplicate entry"
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "1062")
}
