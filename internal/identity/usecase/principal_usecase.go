// Package usecase implements the identity business logic for provisioning principals.
package usecase

import (
	"context"
	"strings"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	"github.com/allisson/vaultx/internal/identity/domain"
	appValidation "github.com/allisson/vaultx/internal/validation"
)

// UseCase defines the interface for identity business logic operations
type UseCase interface {
	// ProvisionPrincipal records the identity asserted by the external provider,
	// creating a principal on first sight and refreshing the profile afterwards.
	ProvisionPrincipal(ctx context.Context, profile domain.ProviderProfile) (*domain.Principal, error)
	GetPrincipalByID(ctx context.Context, id uuid.UUID) (*domain.Principal, error)
	GetPrincipalByEmail(ctx context.Context, email string) (*domain.Principal, error)
}

// PrincipalRepository interface defines principal repository operations
type PrincipalRepository interface {
	Upsert(ctx context.Context, principal *domain.Principal) (*domain.Principal, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Principal, error)
	GetByEmail(ctx context.Context, email string) (*domain.Principal, error)
}

// PrincipalUseCase handles identity-related business logic
type PrincipalUseCase struct {
	principalRepo PrincipalRepository
}

// NewPrincipalUseCase creates a new PrincipalUseCase
func NewPrincipalUseCase(principalRepo PrincipalRepository) *PrincipalUseCase {
	return &PrincipalUseCase{
		principalRepo: principalRepo,
	}
}

func (uc *PrincipalUseCase) validateProviderProfile(profile domain.ProviderProfile) error {
	err := validation.ValidateStruct(&profile,
		validation.Field(&profile.Provider,
			validation.Required.Error("provider is required"),
			appValidation.NotBlank,
		),
		validation.Field(&profile.Subject,
			validation.Required.Error("subject is required"),
			appValidation.NotBlank,
		),
		validation.Field(&profile.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
		validation.Field(&profile.Name,
			validation.Length(0, 255).Error("name must be at most 255 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// ProvisionPrincipal upserts the principal identified by the provider profile.
func (uc *PrincipalUseCase) ProvisionPrincipal(
	ctx context.Context,
	profile domain.ProviderProfile,
) (*domain.Principal, error) {
	if err := uc.validateProviderProfile(profile); err != nil {
		return nil, err
	}

	principal := &domain.Principal{
		ID:              uuid.Must(uuid.NewV7()),
		Name:            strings.TrimSpace(profile.Name),
		Email:           strings.TrimSpace(strings.ToLower(profile.Email)),
		Provider:        profile.Provider,
		ProviderSubject: profile.Subject,
	}

	return uc.principalRepo.Upsert(ctx, principal)
}

// GetPrincipalByID retrieves a principal by ID
func (uc *PrincipalUseCase) GetPrincipalByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Principal, error) {
	return uc.principalRepo.GetByID(ctx, id)
}

// GetPrincipalByEmail retrieves a principal by email
func (uc *PrincipalUseCase) GetPrincipalByEmail(
	ctx context.Context,
	email string,
) (*domain.Principal, error) {
	return uc.principalRepo.GetByEmail(ctx, email)
}
