package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/allisson/vaultx/internal/app"
	"github.com/allisson/vaultx/internal/config"
)

// RunSweepOrphans deletes blobs with no metadata record from the storage bucket.
// An upload that fails after the blob write leaves an orphaned blob behind; this
// command is the compensation for those. Blobs younger than the grace period are
// skipped so in-flight uploads are never touched.
//
// Requirements: Database must be migrated and accessible.
func RunSweepOrphans(ctx context.Context, w io.Writer, gracePeriod time.Duration) error {
	if gracePeriod < 0 {
		return fmt.Errorf("grace period must not be negative, got: %s", gracePeriod)
	}

	// Load configuration
	cfg := config.Load()
	if gracePeriod == 0 {
		gracePeriod = cfg.SweepGracePeriod
	}

	// Create DI container
	container := app.NewContainer(cfg)

	// Get logger from container
	logger := container.Logger()
	logger.Info("sweeping orphaned blobs",
		slog.Duration("grace_period", gracePeriod),
	)

	// Ensure cleanup on exit
	defer closeContainer(container, logger)

	fileUseCase, err := container.FileUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize file use case: %w", err)
	}

	result, err := fileUseCase.SweepOrphans(ctx, gracePeriod)
	if err != nil {
		return fmt.Errorf("failed to sweep orphaned blobs: %w", err)
	}

	fmt.Fprintf(w, "scanned: %d\n", result.Scanned)
	fmt.Fprintf(w, "deleted: %d\n", result.Deleted)

	return nil
}
