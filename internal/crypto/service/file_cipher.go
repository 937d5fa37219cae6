package service

import (
	"context"
	"crypto/rand"
	"fmt"

	cryptoDomain "github.com/allisson/vaultx/internal/crypto/domain"
)

// FileCipherService implements FileCipher on top of the AEADManager.
//
// Every file is encrypted under its own fresh 256-bit key and 96-bit nonce,
// so nonce reuse across files is structurally impossible. The AEAD seal output
// carries the authentication tag appended to the ciphertext; this service
// detaches it so the envelope codec and the metadata record can treat nonce,
// tag and ciphertext as separate fixed-layout fields.
type FileCipherService struct {
	aeadManager AEADManager
	algorithm   cryptoDomain.Algorithm
}

// NewFileCipher creates a FileCipherService using the given algorithm for new files.
func NewFileCipher(aeadManager AEADManager, algorithm cryptoDomain.Algorithm) *FileCipherService {
	return &FileCipherService{
		aeadManager: aeadManager,
		algorithm:   algorithm,
	}
}

// Encrypt encrypts plaintext under a fresh random key and nonce.
//
// The returned ciphertext has exactly the plaintext's length; the 16-byte
// authentication tag is returned as a separate field. The caller owns the
// returned key and must zero it once it has been wrapped for storage.
// Context cancellation is honored before the (potentially large) seal operation.
func (f *FileCipherService) Encrypt(ctx context.Context, plaintext []byte) (*FileEncryption, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate file key: %w", err)
	}

	aead, err := f.aeadManager.CreateCipher(key, f.algorithm)
	if err != nil {
		cryptoDomain.Zero(key)
		return nil, err
	}

	sealed, nonce, err := aead.Encrypt(plaintext, nil)
	if err != nil {
		cryptoDomain.Zero(key)
		return nil, fmt.Errorf("failed to encrypt file: %w", err)
	}

	// Detach the tag from the seal output: sealed = ciphertext ‖ tag.
	split := len(sealed) - cryptoDomain.TagSize
	return &FileEncryption{
		Key:        key,
		Nonce:      nonce,
		Tag:        sealed[split:],
		Ciphertext: sealed[:split],
		Algorithm:  f.algorithm,
	}, nil
}

// Decrypt verifies the tag and recovers the plaintext.
//
// Any mismatch of key, nonce, tag or ciphertext yields ErrDecryptionFailed;
// the error never discloses which component failed verification. This failure
// is permanent and must not be retried.
func (f *FileCipherService) Decrypt(
	ctx context.Context,
	alg cryptoDomain.Algorithm,
	key, nonce, tag, ciphertext []byte,
) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	aead, err := f.aeadManager.CreateCipher(key, alg)
	if err != nil {
		return nil, err
	}

	// Reattach the tag for the AEAD open call.
	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := aead.Decrypt(sealed, nonce, nil)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	return plaintext, nil
}
