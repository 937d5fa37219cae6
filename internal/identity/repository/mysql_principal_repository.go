package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/vaultx/internal/database"
	"github.com/allisson/vaultx/internal/identity/domain"

	apperrors "github.com/allisson/vaultx/internal/errors"
)

// MySQLPrincipalRepository handles principal persistence for MySQL
type MySQLPrincipalRepository struct {
	db *sql.DB
}

// NewMySQLPrincipalRepository creates a new MySQLPrincipalRepository
func NewMySQLPrincipalRepository(db *sql.DB) *MySQLPrincipalRepository {
	return &MySQLPrincipalRepository{
		db: db,
	}
}

// Upsert inserts a principal or refreshes the provider profile of an existing
// one under the same email. MySQL has no RETURNING clause, so the persisted
// row is read back after the write.
func (r *MySQLPrincipalRepository) Upsert(
	ctx context.Context,
	principal *domain.Principal,
) (*domain.Principal, error) {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO principals (id, name, email, provider, provider_subject, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, NOW(), NOW())
			  ON DUPLICATE KEY UPDATE
			  name = VALUES(name),
			  provider = VALUES(provider),
			  provider_subject = VALUES(provider_subject),
			  updated_at = NOW()`

	// Convert UUID to bytes for MySQL BINARY(16)
	uuidBytes, err := principal.ID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		uuidBytes,
		principal.Name,
		principal.Email,
		principal.Provider,
		principal.ProviderSubject,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to upsert principal")
	}

	return r.GetByEmail(ctx, principal.Email)
}

// GetByID retrieves a principal by ID
func (r *MySQLPrincipalRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Principal, error) {
	var principal domain.Principal
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, name, email, provider, provider_subject, created_at, updated_at
			  FROM principals WHERE id = ?`

	// Convert UUID to bytes for MySQL BINARY(16)
	uuidBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	var idBytes []byte
	err = querier.QueryRowContext(ctx, query, uuidBytes).Scan(
		&idBytes,
		&principal.Name,
		&principal.Email,
		&principal.Provider,
		&principal.ProviderSubject,
		&principal.CreatedAt,
		&principal.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPrincipalNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get principal by id")
	}

	// Convert bytes back to UUID
	if err := principal.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}

	return &principal, nil
}

// GetByEmail retrieves a principal by email
func (r *MySQLPrincipalRepository) GetByEmail(
	ctx context.Context,
	email string,
) (*domain.Principal, error) {
	var principal domain.Principal
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, name, email, provider, provider_subject, created_at, updated_at
			  FROM principals WHERE email = ?`

	var idBytes []byte
	err := querier.QueryRowContext(ctx, query, email).Scan(
		&idBytes,
		&principal.Name,
		&principal.Email,
		&principal.Provider,
		&principal.ProviderSubject,
		&principal.CreatedAt,
		&principal.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPrincipalNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get principal by email")
	}

	// Convert bytes back to UUID
	if err := principal.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}

	return &principal, nil
}
