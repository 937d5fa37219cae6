// Package service provides cryptographic services for the encrypt-then-store pipeline.
// Implements AEAD ciphers (AES-256-GCM, ChaCha20-Poly1305), the on-disk envelope codec,
// per-file encryption and key wrapping.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/vaultx/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// FileEncryption is the result of encrypting a single file: a fresh key and nonce,
// the detached authentication tag, and ciphertext of the same length as the plaintext.
type FileEncryption struct {
	Key        []byte
	Nonce      []byte
	Tag        []byte
	Ciphertext []byte
	Algorithm  cryptoDomain.Algorithm
}

// FileCipher defines the per-file encryption contract. Every Encrypt call generates
// a fresh random 256-bit key and 96-bit nonce; keys and nonces are never reused
// across files, even for the same owner.
type FileCipher interface {
	// Encrypt encrypts plaintext under a fresh key and nonce and returns the
	// components separately. The caller owns the returned key material and must
	// zero it after use.
	Encrypt(ctx context.Context, plaintext []byte) (*FileEncryption, error)

	// Decrypt reassembles the AEAD input from its components and verifies the tag
	// under the algorithm recorded at encryption time. Returns
	// cryptoDomain.ErrDecryptionFailed on any tag mismatch, without disclosing
	// which component was wrong.
	Decrypt(
		ctx context.Context,
		alg cryptoDomain.Algorithm,
		key, nonce, tag, ciphertext []byte,
	) ([]byte, error)
}

// KeyWrapper defines the interface for protecting per-file keys at rest.
type KeyWrapper interface {
	// Wrap encrypts a plaintext file key for storage in the metadata record.
	Wrap(ctx context.Context, fileKey []byte) (*cryptoDomain.WrappedKey, error)

	// Unwrap recovers the plaintext file key. The caller must zero the returned
	// key after use.
	Unwrap(ctx context.Context, wrapped *cryptoDomain.WrappedKey) ([]byte, error)
}

// KMSService opens gocloud.dev secrets keepers for KMS-backed key wrapping.
type KMSService interface {
	// OpenKeeper opens a secrets keeper for the configured KMS provider.
	// Returns an error if the KMS provider URI is invalid or connection fails.
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}
