package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/allisson/vaultx/internal/app"
	"github.com/allisson/vaultx/internal/config"
	identityDomain "github.com/allisson/vaultx/internal/identity/domain"
)

// RunIssueToken provisions a principal and prints a session token for it.
// Intended for development and operational access, the normal path being an
// external identity provider completing the login flow.
//
// Requirements: Database must be migrated and accessible.
func RunIssueToken(ctx context.Context, w io.Writer, email, name, provider, subject string) error {
	if email == "" {
		return fmt.Errorf("--email is required")
	}
	if provider == "" {
		provider = "cli"
	}
	if subject == "" {
		subject = email
	}

	// Load configuration
	cfg := config.Load()

	// Create DI container
	container := app.NewContainer(cfg)

	// Get logger from container
	logger := container.Logger()

	// Ensure cleanup on exit
	defer closeContainer(container, logger)

	identityUseCase, err := container.IdentityUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize identity use case: %w", err)
	}

	tokenService, err := container.TokenService()
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	principal, err := identityUseCase.ProvisionPrincipal(ctx, identityDomain.ProviderProfile{
		Provider: provider,
		Subject:  subject,
		Name:     name,
		Email:    email,
	})
	if err != nil {
		return fmt.Errorf("failed to provision principal: %w", err)
	}

	token, err := tokenService.IssueToken(principal.ID)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	logger.Info("issued session token",
		slog.String("principal_id", principal.ID.String()),
		slog.String("email", principal.Email),
	)

	fmt.Fprintf(w, "principal_id: %s\n", principal.ID)
	fmt.Fprintf(w, "token: %s\n", token)

	return nil
}
