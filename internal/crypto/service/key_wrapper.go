package service

import (
	"context"
	"fmt"
	"strings"

	cryptoDomain "github.com/allisson/vaultx/internal/crypto/domain"
)

// MasterKeyWrapper implements KeyWrapper using a local master keychain.
//
// New wraps always use the active master key; unwraps look up the key named in
// the wrapped record, so files wrapped before a rotation remain readable as
// long as the old key stays in the chain.
type MasterKeyWrapper struct {
	aeadManager AEADManager
	keychain    *cryptoDomain.MasterKeyChain
	algorithm   cryptoDomain.Algorithm
}

// NewMasterKeyWrapper creates a MasterKeyWrapper using the given wrap algorithm.
func NewMasterKeyWrapper(
	aeadManager AEADManager,
	keychain *cryptoDomain.MasterKeyChain,
	algorithm cryptoDomain.Algorithm,
) *MasterKeyWrapper {
	return &MasterKeyWrapper{
		aeadManager: aeadManager,
		keychain:    keychain,
		algorithm:   algorithm,
	}
}

// Wrap encrypts the file key under the active master key.
func (m *MasterKeyWrapper) Wrap(
	ctx context.Context,
	fileKey []byte,
) (*cryptoDomain.WrappedKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	activeID := m.keychain.ActiveMasterKeyID()
	masterKey, ok := m.keychain.Get(activeID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", cryptoDomain.ErrMasterKeyNotFound, activeID)
	}

	aead, err := m.aeadManager.CreateCipher(masterKey.Key, m.algorithm)
	if err != nil {
		return nil, err
	}

	ciphertext, nonce, err := aead.Encrypt(fileKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap file key: %w", err)
	}

	return &cryptoDomain.WrappedKey{
		Ciphertext:  ciphertext,
		Nonce:       nonce,
		Algorithm:   m.algorithm,
		MasterKeyID: activeID,
	}, nil
}

// Unwrap recovers the plaintext file key using the master key recorded in the wrap.
func (m *MasterKeyWrapper) Unwrap(
	ctx context.Context,
	wrapped *cryptoDomain.WrappedKey,
) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if strings.HasPrefix(wrapped.MasterKeyID, cryptoDomain.KMSKeyIDPrefix) {
		return nil, fmt.Errorf(
			"%w: record was wrapped by a KMS keeper",
			cryptoDomain.ErrMasterKeyNotFound,
		)
	}

	masterKey, ok := m.keychain.Get(wrapped.MasterKeyID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", cryptoDomain.ErrMasterKeyNotFound, wrapped.MasterKeyID)
	}

	aead, err := m.aeadManager.CreateCipher(masterKey.Key, wrapped.Algorithm)
	if err != nil {
		return nil, err
	}

	fileKey, err := aead.Decrypt(wrapped.Ciphertext, wrapped.Nonce, nil)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	return fileKey, nil
}

// KeeperKeyWrapper implements KeyWrapper on a gocloud.dev secrets keeper, so
// file keys are wrapped by an external KMS instead of a locally held master key.
// The keeper manages nonces and key versions internally; the wrapped record
// carries the opaque ciphertext, the keeper URI and placeholder wrap parameters.
type KeeperKeyWrapper struct {
	keeper cryptoDomain.KMSKeeper
	keyURI string
}

// NewKeeperKeyWrapper creates a KeeperKeyWrapper for the given keeper and key URI.
func NewKeeperKeyWrapper(keeper cryptoDomain.KMSKeeper, keyURI string) *KeeperKeyWrapper {
	return &KeeperKeyWrapper{
		keeper: keeper,
		keyURI: keyURI,
	}
}

// Wrap encrypts the file key through the KMS keeper.
func (k *KeeperKeyWrapper) Wrap(
	ctx context.Context,
	fileKey []byte,
) (*cryptoDomain.WrappedKey, error) {
	ciphertext, err := k.keeper.Encrypt(ctx, fileKey)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap file key with KMS keeper: %w", err)
	}

	// The keeper manages nonces internally. The record still binds Nonce and
	// Algorithm to NOT NULL columns, so both carry explicit placeholder values.
	return &cryptoDomain.WrappedKey{
		Ciphertext:  ciphertext,
		Nonce:       []byte{},
		Algorithm:   cryptoDomain.KMSWrapAlgorithm,
		MasterKeyID: cryptoDomain.KMSKeyIDPrefix + k.keyURI,
	}, nil
}

// Unwrap recovers the plaintext file key through the KMS keeper.
func (k *KeeperKeyWrapper) Unwrap(
	ctx context.Context,
	wrapped *cryptoDomain.WrappedKey,
) ([]byte, error) {
	if !strings.HasPrefix(wrapped.MasterKeyID, cryptoDomain.KMSKeyIDPrefix) {
		return nil, fmt.Errorf(
			"%w: record was wrapped by a local master key",
			cryptoDomain.ErrMasterKeyNotFound,
		)
	}

	fileKey, err := k.keeper.Decrypt(ctx, wrapped.Ciphertext)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	return fileKey, nil
}
