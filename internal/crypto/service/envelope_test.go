package service

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/vaultx/internal/crypto/domain"
)

func randomBytes(t *testing.T, n int) []byte {
	t.Helper()
	b := make([]byte, n)
	_, err := rand.Read(b)
	require.NoError(t, err)
	return b
}

func TestSerializeEnvelope(t *testing.T) {
	nonce := randomBytes(t, cryptoDomain.NonceSize)
	tag := randomBytes(t, cryptoDomain.TagSize)

	t.Run("layout is nonce then tag then ciphertext", func(t *testing.T) {
		ciphertext := []byte("opaque bytes")

		envelope := SerializeEnvelope(nonce, tag, ciphertext)
		require.Equal(t, EnvelopeOverhead+len(ciphertext), len(envelope))
		assert.Equal(t, nonce, envelope[:cryptoDomain.NonceSize])
		assert.Equal(t, tag, envelope[cryptoDomain.NonceSize:EnvelopeOverhead])
		assert.Equal(t, ciphertext, envelope[EnvelopeOverhead:])
	})

	t.Run("empty ciphertext produces overhead-sized envelope", func(t *testing.T) {
		envelope := SerializeEnvelope(nonce, tag, nil)
		assert.Equal(t, EnvelopeOverhead, len(envelope))
	})
}

func TestParseEnvelope(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		nonce := randomBytes(t, cryptoDomain.NonceSize)
		tag := randomBytes(t, cryptoDomain.TagSize)
		ciphertext := randomBytes(t, 1024)

		parsed, err := ParseEnvelope(SerializeEnvelope(nonce, tag, ciphertext))
		require.NoError(t, err)
		assert.Equal(t, nonce, parsed.Nonce)
		assert.Equal(t, tag, parsed.Tag)
		assert.Equal(t, ciphertext, parsed.Ciphertext)
	})

	t.Run("round trip with empty ciphertext", func(t *testing.T) {
		nonce := randomBytes(t, cryptoDomain.NonceSize)
		tag := randomBytes(t, cryptoDomain.TagSize)

		parsed, err := ParseEnvelope(SerializeEnvelope(nonce, tag, nil))
		require.NoError(t, err)
		assert.Equal(t, nonce, parsed.Nonce)
		assert.Equal(t, tag, parsed.Tag)
		assert.Empty(t, parsed.Ciphertext)
	})

	t.Run("input shorter than overhead", func(t *testing.T) {
		for _, size := range []int{0, 1, cryptoDomain.NonceSize, EnvelopeOverhead - 1} {
			_, err := ParseEnvelope(make([]byte, size))
			assert.ErrorIs(t, err, cryptoDomain.ErrMalformedEnvelope, "size %d", size)
		}
	})

	t.Run("exactly overhead-sized input parses", func(t *testing.T) {
		parsed, err := ParseEnvelope(make([]byte, EnvelopeOverhead))
		require.NoError(t, err)
		assert.Empty(t, parsed.Ciphertext)
	})

	t.Run("parsed fields do not alias the input buffer", func(t *testing.T) {
		nonce := randomBytes(t, cryptoDomain.NonceSize)
		tag := randomBytes(t, cryptoDomain.TagSize)
		ciphertext := []byte("do not share memory")

		envelope := SerializeEnvelope(nonce, tag, ciphertext)
		parsed, err := ParseEnvelope(envelope)
		require.NoError(t, err)

		for i := range envelope {
			envelope[i] ^= 0xFF
		}
		assert.Equal(t, nonce, parsed.Nonce)
		assert.Equal(t, tag, parsed.Tag)
		assert.True(t, bytes.Equal([]byte("do not share memory"), parsed.Ciphertext))
	})
}
