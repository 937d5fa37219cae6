package app

import (
	"fmt"

	filesHTTP "github.com/allisson/vaultx/internal/files/http"
	filesRepository "github.com/allisson/vaultx/internal/files/repository"
	filesUseCase "github.com/allisson/vaultx/internal/files/usecase"
	"github.com/allisson/vaultx/internal/storage"
)

// FileRepository returns the file metadata repository instance.
func (c *Container) FileRepository() (filesUseCase.FileRepository, error) {
	var err error
	c.fileRepoInit.Do(func() {
		c.fileRepo, err = c.initFileRepository()
		if err != nil {
			c.initErrors["fileRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["fileRepo"]; exists {
		return nil, storedErr
	}
	return c.fileRepo, nil
}

// FileUseCase returns the file use case instance wrapped with business metrics.
func (c *Container) FileUseCase() (filesUseCase.FileUseCase, error) {
	var err error
	c.fileUseCaseInit.Do(func() {
		c.fileUseCase, err = c.initFileUseCase()
		if err != nil {
			c.initErrors["fileUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["fileUseCase"]; exists {
		return nil, storedErr
	}
	return c.fileUseCase, nil
}

// FileHandler returns the HTTP handler for file operations.
func (c *Container) FileHandler() (*filesHTTP.FileHandler, error) {
	useCase, err := c.FileUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get file use case for file handler: %w", err)
	}
	return filesHTTP.NewFileHandler(useCase, c.Logger()), nil
}

// initFileRepository creates the file repository instance.
func (c *Container) initFileRepository() (filesUseCase.FileRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for file repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return filesRepository.NewMySQLFileRepository(db), nil
	case "postgres":
		return filesRepository.NewPostgreSQLFileRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initFileUseCase creates the file use case with all its dependencies.
func (c *Container) initFileUseCase() (filesUseCase.FileUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for file use case: %w", err)
	}

	fileRepo, err := c.FileRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get file repository for file use case: %w", err)
	}

	blobStore, err := c.BlobStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get blob store for file use case: %w", err)
	}

	keyWrapper, err := c.KeyWrapper()
	if err != nil {
		return nil, fmt.Errorf("failed to get key wrapper for file use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for file use case: %w", err)
	}

	useCase := filesUseCase.NewFileUseCase(
		txManager,
		fileRepo,
		blobStore,
		c.FileCipher(),
		keyWrapper,
		storage.NewObjectKeyNamer(c.config.BlobKeyPrefix),
		c.Logger(),
		c.config.UploadMaxBytes,
		c.config.BlobWriteMaxRetries,
		c.config.BlobWriteRetryInterval,
	)

	return filesUseCase.NewFileUseCaseWithMetrics(useCase, businessMetrics), nil
}
