package domain

import "context"

// WrappedKey is a per-file encryption key encrypted for storage at rest.
// The plaintext file key is never persisted; only the wrapped form and the
// parameters needed to unwrap it travel with the file's metadata record.
type WrappedKey struct {
	// Ciphertext is the encrypted file key (includes the AEAD tag for master-key
	// wraps; opaque keeper output for KMS wraps).
	Ciphertext []byte
	// Nonce is the wrap nonce. KMS wraps carry a non-nil empty nonce since the
	// keeper manages nonces internally; the field still binds to a NOT NULL column.
	Nonce []byte
	// Algorithm is the AEAD algorithm used for the wrap, or KMSWrapAlgorithm when
	// an external keeper performed it.
	Algorithm Algorithm
	// MasterKeyID identifies the master key used for the wrap, or carries the
	// KMSKeyIDPrefix marker followed by the keeper URI for KMS wraps.
	MasterKeyID string
}

// KMSKeyIDPrefix marks a WrappedKey whose ciphertext was produced by a KMS keeper
// rather than a local master key.
const KMSKeyIDPrefix = "kms:"

// KMSWrapAlgorithm is recorded as the wrap algorithm when a KMS keeper wrapped
// the key. The keeper chooses its own cipher; the record stores only its opaque
// output. Never a valid input to AEADManager.CreateCipher.
const KMSWrapAlgorithm Algorithm = "kms"

// KMSKeeper abstracts a gocloud.dev secrets keeper for wrapping file keys.
// *secrets.Keeper satisfies this interface.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}
