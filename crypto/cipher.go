/*
Package crypto wraps AES-256-GCM into a one-shot authenticated-encryption engine: callers supply
plaintext/ciphertext/iv/tag buffers and the engine fills or verifies them. It never generates IVs
and never frames anything — both are the framing layer's job (see package frame).
*/
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
)

const (
	// KeySize is the only key length the primary construction path accepts.
	KeySize = 32
	// IVSize is the AES-GCM nonce size used for every frame.
	IVSize = 12
	// TagSize is the AES-GCM authentication tag size.
	TagSize = 16
	// MaxPlaintext is the largest plaintext chunk a single frame may carry.
	MaxPlaintext = 8192
)

// Engine performs one-shot AES-256-GCM encrypt/decrypt over caller-owned buffers. It is stateless
// across calls except for the held key, and must not be copied after construction.
type Engine struct {
	aead cipher.AEAD
	key  []byte // retained only so Destroy can zero it; AEAD keeps its own internal schedule
}

// New constructs an Engine from a 32-byte session key, as produced by DeriveKey. It is the primary
// construction path: any other key length is a programmer error here.
func New(key [KeySize]byte) (*Engine, error) {
	return newEngine(key[:])
}

// newUnsafeFromRawKey preserves the legacy behavior of padding/truncating an arbitrary-length key
// to KeySize. It exists only for compatibility with callers that cannot yet supply a derived key
// and is intentionally unexported: spec design note 9 calls the original silent-truncation
// behavior "a blunt tool" that the primary password-based path should make unreachable.
func newUnsafeFromRawKey(key []byte) (*Engine, error) {
	padded := make([]byte, KeySize)
	copy(padded, key) // zero-pads if short, truncates (via copy's min-length semantics) if long
	return newEngine(padded)
}

func newEngine(key []byte) (*Engine, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidInput
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, ErrCryptoFailure
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, ErrCryptoFailure
	}
	k := make([]byte, KeySize)
	copy(k, key)
	return &Engine{aead: aead, key: k}, nil
}

// Encrypt fills outCiphertext with len(plaintext) bytes and outTag with TagSize bytes.
// plaintext must be 1..MaxPlaintext bytes, iv must be IVSize bytes, and both out buffers must be
// exactly sized for their respective outputs.
func (e *Engine) Encrypt(plaintext, iv, outCiphertext, outTag []byte) error {
	if len(plaintext) < 1 || len(plaintext) > MaxPlaintext {
		return ErrInvalidInput
	}
	if len(iv) != IVSize {
		return ErrInvalidInput
	}
	if len(outCiphertext) != len(plaintext) || len(outTag) != TagSize {
		return ErrInvalidInput
	}

	sealed := e.aead.Seal(nil, iv, plaintext, nil)
	// sealed is ciphertext||tag; split it into the caller's two buffers.
	ctLen := len(sealed) - TagSize
	copy(outCiphertext, sealed[:ctLen])
	copy(outTag, sealed[ctLen:])
	return nil
}

// Decrypt verifies tag against ciphertext and iv, writing the recovered plaintext into
// outPlaintext (which must have capacity >= len(ciphertext)) and returns the plaintext length.
// On authentication failure it returns ErrAuthenticationFailed and the first len(ciphertext) bytes
// of outPlaintext are zeroed, so no unauthenticated plaintext is left in it.
func (e *Engine) Decrypt(ciphertext, iv, tag, outPlaintext []byte) (int, error) {
	if len(ciphertext) < 1 || len(ciphertext) > MaxPlaintext {
		return 0, ErrInvalidInput
	}
	if len(iv) != IVSize {
		return 0, ErrInvalidInput
	}
	if len(tag) != TagSize {
		return 0, ErrInvalidInput
	}
	if cap(outPlaintext) < len(ciphertext) {
		return 0, ErrInvalidInput
	}

	sealed := make([]byte, 0, len(ciphertext)+TagSize)
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plain, err := e.aead.Open(outPlaintext[:0], iv, sealed, nil)
	if err != nil {
		return 0, ErrAuthenticationFailed
	}
	return len(plain), nil
}

// Destroy overwrites the held key copy with zeros. The AEAD/cipher.Block retain their own
// internal key schedule, which Go's crypto/aes does not expose a way to zero; Destroy zeros the
// one copy this package controls.
func (e *Engine) Destroy() {
	for i := range e.key {
		e.key[i] = 0
	}
}
