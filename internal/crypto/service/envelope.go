package service

import (
	cryptoDomain "github.com/allisson/vaultx/internal/crypto/domain"
)

// Envelope is the parsed form of a stored blob: the AEAD nonce, the detached
// authentication tag, and the ciphertext. The serialized layout is the fixed
// concatenation nonce ‖ tag ‖ ciphertext, so a serialized envelope is always
// exactly EnvelopeOverhead bytes longer than the plaintext it protects.
//
// Envelopes are immutable once written: a re-upload of the same content
// produces a new envelope under a new storage key, never an in-place update.
type Envelope struct {
	Nonce      []byte
	Tag        []byte
	Ciphertext []byte
}

// EnvelopeOverhead is the fixed number of bytes the envelope adds on top of
// the ciphertext: the 12-byte nonce plus the 16-byte authentication tag.
const EnvelopeOverhead = cryptoDomain.NonceSize + cryptoDomain.TagSize

// SerializeEnvelope produces the stored blob layout nonce ‖ tag ‖ ciphertext.
// The layout must be identical on write and read; both sides of the pipeline
// go through this codec and never slice blob bytes directly.
func SerializeEnvelope(nonce, tag, ciphertext []byte) []byte {
	out := make([]byte, 0, len(nonce)+len(tag)+len(ciphertext))
	out = append(out, nonce...)
	out = append(out, tag...)
	out = append(out, ciphertext...)
	return out
}

// ParseEnvelope splits blob bytes back into nonce, tag and ciphertext.
// Returns cryptoDomain.ErrMalformedEnvelope when data is too short to contain
// the fixed fields. A data length of exactly EnvelopeOverhead is valid and
// yields an empty ciphertext (the encryption of an empty plaintext).
func ParseEnvelope(data []byte) (*Envelope, error) {
	if len(data) < EnvelopeOverhead {
		return nil, cryptoDomain.ErrMalformedEnvelope
	}

	env := &Envelope{
		Nonce:      make([]byte, cryptoDomain.NonceSize),
		Tag:        make([]byte, cryptoDomain.TagSize),
		Ciphertext: make([]byte, len(data)-EnvelopeOverhead),
	}
	copy(env.Nonce, data[:cryptoDomain.NonceSize])
	copy(env.Tag, data[cryptoDomain.NonceSize:EnvelopeOverhead])
	copy(env.Ciphertext, data[EnvelopeOverhead:])

	return env, nil
}
