package service

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/vaultx/internal/crypto/domain"
)

func TestFileCipherService_Encrypt(t *testing.T) {
	ctx := context.Background()

	for _, alg := range []cryptoDomain.Algorithm{cryptoDomain.AESGCM, cryptoDomain.ChaCha20} {
		t.Run(string(alg), func(t *testing.T) {
			fileCipher := NewFileCipher(NewAEADManager(), alg)
			plaintext := []byte("hello")

			enc, err := fileCipher.Encrypt(ctx, plaintext)
			require.NoError(t, err)
			assert.Equal(t, cryptoDomain.KeySize, len(enc.Key))
			assert.Equal(t, cryptoDomain.NonceSize, len(enc.Nonce))
			assert.Equal(t, cryptoDomain.TagSize, len(enc.Tag))
			assert.Equal(t, len(plaintext), len(enc.Ciphertext))
			assert.Equal(t, alg, enc.Algorithm)
			assert.NotEqual(t, plaintext, enc.Ciphertext)
		})
	}

	t.Run("empty plaintext", func(t *testing.T) {
		fileCipher := NewFileCipher(NewAEADManager(), cryptoDomain.AESGCM)

		enc, err := fileCipher.Encrypt(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, enc.Ciphertext)
		assert.Equal(t, cryptoDomain.TagSize, len(enc.Tag))
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		fileCipher := NewFileCipher(NewAEADManager(), cryptoDomain.Algorithm("rot13"))

		_, err := fileCipher.Encrypt(ctx, []byte("data"))
		assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedAlgorithm)
	})

	t.Run("cancelled context", func(t *testing.T) {
		fileCipher := NewFileCipher(NewAEADManager(), cryptoDomain.AESGCM)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := fileCipher.Encrypt(cancelled, []byte("data"))
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("keys and nonces are never repeated", func(t *testing.T) {
		fileCipher := NewFileCipher(NewAEADManager(), cryptoDomain.AESGCM)
		keys := make(map[string]struct{})
		nonces := make(map[string]struct{})
		plaintext := []byte("same input every time")

		for range 10000 {
			enc, err := fileCipher.Encrypt(ctx, plaintext)
			require.NoError(t, err)

			key := hex.EncodeToString(enc.Key)
			nonce := hex.EncodeToString(enc.Nonce)
			_, keySeen := keys[key]
			_, nonceSeen := nonces[nonce]
			require.False(t, keySeen, "key reuse detected")
			require.False(t, nonceSeen, "nonce reuse detected")
			keys[key] = struct{}{}
			nonces[nonce] = struct{}{}
		}
	})
}

func TestFileCipherService_Decrypt(t *testing.T) {
	ctx := context.Background()

	for _, alg := range []cryptoDomain.Algorithm{cryptoDomain.AESGCM, cryptoDomain.ChaCha20} {
		t.Run(string(alg)+" round trip", func(t *testing.T) {
			fileCipher := NewFileCipher(NewAEADManager(), alg)
			plaintext := []byte("the contents of notes.txt")

			enc, err := fileCipher.Encrypt(ctx, plaintext)
			require.NoError(t, err)

			decrypted, err := fileCipher.Decrypt(ctx, enc.Algorithm, enc.Key, enc.Nonce, enc.Tag, enc.Ciphertext)
			require.NoError(t, err)
			assert.Equal(t, plaintext, decrypted)
		})
	}

	t.Run("decrypts records from either algorithm regardless of default", func(t *testing.T) {
		chachaCipher := NewFileCipher(NewAEADManager(), cryptoDomain.ChaCha20)
		enc, err := chachaCipher.Encrypt(ctx, []byte("rotated default"))
		require.NoError(t, err)

		aesDefault := NewFileCipher(NewAEADManager(), cryptoDomain.AESGCM)
		decrypted, err := aesDefault.Decrypt(ctx, enc.Algorithm, enc.Key, enc.Nonce, enc.Tag, enc.Ciphertext)
		require.NoError(t, err)
		assert.Equal(t, []byte("rotated default"), decrypted)
	})

	t.Run("tampered ciphertext", func(t *testing.T) {
		fileCipher := NewFileCipher(NewAEADManager(), cryptoDomain.AESGCM)
		enc, err := fileCipher.Encrypt(ctx, []byte("integrity protected"))
		require.NoError(t, err)

		enc.Ciphertext[0] ^= 0x01
		_, err = fileCipher.Decrypt(ctx, enc.Algorithm, enc.Key, enc.Nonce, enc.Tag, enc.Ciphertext)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("tampered tag", func(t *testing.T) {
		fileCipher := NewFileCipher(NewAEADManager(), cryptoDomain.AESGCM)
		enc, err := fileCipher.Encrypt(ctx, []byte("integrity protected"))
		require.NoError(t, err)

		enc.Tag[cryptoDomain.TagSize-1] ^= 0x01
		_, err = fileCipher.Decrypt(ctx, enc.Algorithm, enc.Key, enc.Nonce, enc.Tag, enc.Ciphertext)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("wrong nonce", func(t *testing.T) {
		fileCipher := NewFileCipher(NewAEADManager(), cryptoDomain.AESGCM)
		enc, err := fileCipher.Encrypt(ctx, []byte("integrity protected"))
		require.NoError(t, err)

		wrongNonce := randomBytes(t, cryptoDomain.NonceSize)
		_, err = fileCipher.Decrypt(ctx, enc.Algorithm, enc.Key, wrongNonce, enc.Tag, enc.Ciphertext)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("wrong key", func(t *testing.T) {
		fileCipher := NewFileCipher(NewAEADManager(), cryptoDomain.AESGCM)
		enc, err := fileCipher.Encrypt(ctx, []byte("integrity protected"))
		require.NoError(t, err)

		wrongKey := randomBytes(t, cryptoDomain.KeySize)
		_, err = fileCipher.Decrypt(ctx, enc.Algorithm, wrongKey, enc.Nonce, enc.Tag, enc.Ciphertext)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("failure does not disclose which component mismatched", func(t *testing.T) {
		fileCipher := NewFileCipher(NewAEADManager(), cryptoDomain.AESGCM)
		enc, err := fileCipher.Encrypt(ctx, []byte("integrity protected"))
		require.NoError(t, err)

		wrongKey := randomBytes(t, cryptoDomain.KeySize)
		_, keyErr := fileCipher.Decrypt(ctx, enc.Algorithm, wrongKey, enc.Nonce, enc.Tag, enc.Ciphertext)

		enc.Tag[0] ^= 0x01
		_, tagErr := fileCipher.Decrypt(ctx, enc.Algorithm, enc.Key, enc.Nonce, enc.Tag, enc.Ciphertext)
		assert.Equal(t, keyErr.Error(), tagErr.Error())
	})

	t.Run("cancelled context", func(t *testing.T) {
		fileCipher := NewFileCipher(NewAEADManager(), cryptoDomain.AESGCM)
		enc, err := fileCipher.Encrypt(ctx, []byte("data"))
		require.NoError(t, err)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err = fileCipher.Decrypt(cancelled, enc.Algorithm, enc.Key, enc.Nonce, enc.Tag, enc.Ciphertext)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestFileCipherService_EnvelopeIntegration(t *testing.T) {
	ctx := context.Background()
	fileCipher := NewFileCipher(NewAEADManager(), cryptoDomain.AESGCM)
	plaintext := []byte("hello")

	enc, err := fileCipher.Encrypt(ctx, plaintext)
	require.NoError(t, err)

	envelope := SerializeEnvelope(enc.Nonce, enc.Tag, enc.Ciphertext)
	require.Equal(t, EnvelopeOverhead+len(plaintext), len(envelope))

	parsed, err := ParseEnvelope(envelope)
	require.NoError(t, err)

	decrypted, err := fileCipher.Decrypt(ctx, enc.Algorithm, enc.Key, parsed.Nonce, parsed.Tag, parsed.Ciphertext)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}
