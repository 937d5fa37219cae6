// Package repository provides data persistence implementations for file records.
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

const postgresFileColumns = `id, owner_id, filename, storage_key, size, algorithm, nonce, auth_tag,
			  wrapped_key, wrap_nonce, wrap_algorithm, master_key_id, created_at`

// PostgreSQLFileRepository handles file record persistence for PostgreSQL
type PostgreSQLFileRepository struct {
	db *sql.DB
}

// NewPostgreSQLFileRepository creates a new PostgreSQLFileRepository
func NewPostgreSQLFileRepository(db *sql.DB) *PostgreSQLFileRepository {
	return &PostgreSQLFileRepository{
		db: db,
	}
}

// Create inserts a new file record
func (r *PostgreSQLFileRepository) Create(ctx context.Context, file *domain.FileRecord) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO files (id, owner_id, filename, storage_key, size, algorithm, nonce, auth_tag,
			  wrapped_key, wrap_nonce, wrap_algorithm, master_key_id, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := querier.ExecContext(
		ctx,
		query,
		file.ID,
		file.OwnerID,
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
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrStorageKeyConflict
		}
		return apperrors.Wrap(err, "failed to create file record")
	}
	return nil
}

// GetByID retrieves a file record by ID
func (r *PostgreSQLFileRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.FileRecord, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + postgresFileColumns + ` FROM files WHERE id = $1`

	file, err := scanPostgresFile(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFileNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get file by id")
	}

	return file, nil
}

// GetByStorageKey retrieves a file record by its storage key
func (r *PostgreSQLFileRepository) GetByStorageKey(
	ctx context.Context,
	storageKey string,
) (*domain.FileRecord, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + postgresFileColumns + ` FROM files WHERE storage_key = $1`

	file, err := scanPostgresFile(querier.QueryRowContext(ctx, query, storageKey))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFileNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get file by storage key")
	}

	return file, nil
}

// ListByOwner retrieves file records owned by ownerID, newest first
func (r *PostgreSQLFileRepository) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	offset, limit int,
) ([]*domain.FileRecord, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + postgresFileColumns + ` FROM files
			  WHERE owner_id = $1 ORDER BY created_at DESC, id DESC OFFSET $2 LIMIT $3`

	rows, err := querier.QueryContext(ctx, query, ownerID, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list files by owner")
	}
	defer func() { _ = rows.Close() }()

	var files []*domain.FileRecord
	for rows.Next() {
		file, err := scanPostgresFile(rows)
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
func (r *PostgreSQLFileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM files WHERE id = $1`, id)
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

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPostgresFile(row rowScanner) (*domain.FileRecord, error) {
	var file domain.FileRecord
	err := row.Scan(
		&file.ID,
		&file.OwnerID,
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
	return &file, nil
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// PostgreSQL: "duplicate key value violates unique constraint" or "pq: duplicate key"
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}
