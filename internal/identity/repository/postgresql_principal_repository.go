// Package repository provides data persistence implementations for identity entities.
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

// PostgreSQLPrincipalRepository handles principal persistence for PostgreSQL
type PostgreSQLPrincipalRepository struct {
	db *sql.DB
}

// NewPostgreSQLPrincipalRepository creates a new PostgreSQLPrincipalRepository
func NewPostgreSQLPrincipalRepository(db *sql.DB) *PostgreSQLPrincipalRepository {
	return &PostgreSQLPrincipalRepository{
		db: db,
	}
}

// Upsert inserts a principal or, when one already exists under the same email,
// refreshes its provider profile. The existing principal keeps its ID so file
// ownership survives re-authentication.
func (r *PostgreSQLPrincipalRepository) Upsert(
	ctx context.Context,
	principal *domain.Principal,
) (*domain.Principal, error) {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO principals (id, name, email, provider, provider_subject, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
			  ON CONFLICT (email) DO UPDATE
			  SET name = EXCLUDED.name,
			      provider = EXCLUDED.provider,
			      provider_subject = EXCLUDED.provider_subject,
			      updated_at = NOW()
			  RETURNING id, name, email, provider, provider_subject, created_at, updated_at`

	var persisted domain.Principal
	err := querier.QueryRowContext(
		ctx,
		query,
		principal.ID,
		principal.Name,
		principal.Email,
		principal.Provider,
		principal.ProviderSubject,
	).Scan(
		&persisted.ID,
		&persisted.Name,
		&persisted.Email,
		&persisted.Provider,
		&persisted.ProviderSubject,
		&persisted.CreatedAt,
		&persisted.UpdatedAt,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to upsert principal")
	}

	return &persisted, nil
}

// GetByID retrieves a principal by ID
func (r *PostgreSQLPrincipalRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Principal, error) {
	var principal domain.Principal
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, name, email, provider, provider_subject, created_at, updated_at
			  FROM principals WHERE id = $1`

	err := querier.QueryRowContext(ctx, query, id).Scan(
		&principal.ID,
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

	return &principal, nil
}

// GetByEmail retrieves a principal by email
func (r *PostgreSQLPrincipalRepository) GetByEmail(
	ctx context.Context,
	email string,
) (*domain.Principal, error) {
	var principal domain.Principal
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, name, email, provider, provider_subject, created_at, updated_at
			  FROM principals WHERE email = $1`

	err := querier.QueryRowContext(ctx, query, email).Scan(
		&principal.ID,
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

	return &principal, nil
}
