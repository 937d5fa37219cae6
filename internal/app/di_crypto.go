package app

import (
	"context"
	"fmt"

	cryptoDomain "github.com/allisson/vaultx/internal/crypto/domain"
	cryptoService "github.com/allisson/vaultx/internal/crypto/service"
)

// MasterKeyChain returns the master key chain loaded from the environment.
// Only used when no KMS key URI is configured.
func (c *Container) MasterKeyChain() (*cryptoDomain.MasterKeyChain, error) {
	var err error
	c.keychainInit.Do(func() {
		c.keychain, err = cryptoDomain.LoadMasterKeyChainFromEnv()
		if err != nil {
			c.initErrors["keychain"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keychain"]; exists {
		return nil, storedErr
	}
	return c.keychain, nil
}

// KMSKeeper returns the secrets keeper for the configured KMS provider.
func (c *Container) KMSKeeper() (cryptoDomain.KMSKeeper, error) {
	var err error
	c.kmsKeeperInit.Do(func() {
		kmsService := cryptoService.NewKMSService()
		c.kmsKeeper, err = kmsService.OpenKeeper(context.Background(), c.config.KMSKeyURI)
		if err != nil {
			c.initErrors["kmsKeeper"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["kmsKeeper"]; exists {
		return nil, storedErr
	}
	return c.kmsKeeper, nil
}

// AEADManager returns the AEAD cipher factory.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// FileCipher returns the file encryption service.
func (c *Container) FileCipher() cryptoService.FileCipher {
	c.fileCipherInit.Do(func() {
		c.fileCipher = cryptoService.NewFileCipher(c.AEADManager(), cryptoDomain.AESGCM)
	})
	return c.fileCipher
}

// KeyWrapper returns the file key wrapper.
// When a KMS key URI is configured the per-file keys are wrapped by the external
// keeper, otherwise by the active master key from the environment.
func (c *Container) KeyWrapper() (cryptoService.KeyWrapper, error) {
	var err error
	c.keyWrapperInit.Do(func() {
		c.keyWrapper, err = c.initKeyWrapper()
		if err != nil {
			c.initErrors["keyWrapper"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyWrapper"]; exists {
		return nil, storedErr
	}
	return c.keyWrapper, nil
}

// initKeyWrapper selects the key wrapping strategy based on configuration.
func (c *Container) initKeyWrapper() (cryptoService.KeyWrapper, error) {
	if c.config.KMSKeyURI != "" {
		keeper, err := c.KMSKeeper()
		if err != nil {
			return nil, fmt.Errorf("failed to get kms keeper for key wrapper: %w", err)
		}
		return cryptoService.NewKeeperKeyWrapper(keeper, c.config.KMSKeyURI), nil
	}

	keychain, err := c.MasterKeyChain()
	if err != nil {
		return nil, fmt.Errorf("failed to get master key chain for key wrapper: %w", err)
	}
	return cryptoService.NewMasterKeyWrapper(c.AEADManager(), keychain, cryptoDomain.AESGCM), nil
}
