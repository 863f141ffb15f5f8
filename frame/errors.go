package frame

import (
	"errors"
	"fmt"
)

// Error kinds per the wire-protocol invariants: every one is fatal to the session except where
// noted. Callers compare with errors.Is; IOError additionally carries the underlying cause.
var (
	// ErrNotInitialized means framing was used before a session key was derived.
	ErrNotInitialized = errors.New("frame: session not initialized")
	// ErrInvalidInput means a caller violated a length constraint (e.g. 0 or >8192 byte chunk).
	ErrInvalidInput = errors.New("frame: invalid input")
	// ErrRNGFailure means the cryptographic RNG failed while drawing a fresh IV.
	ErrRNGFailure = errors.New("frame: rng failure")
	// ErrProtocolError means the magic field did not match; treat as permanent, never resync.
	ErrProtocolError = errors.New("frame: bad magic, not a claw frame")
	// ErrUnsupportedVersion means the peer speaks a protocol version this build does not.
	ErrUnsupportedVersion = errors.New("frame: unsupported protocol version")
	// ErrFrameTooLarge means the declared ciphertext length is 0, exceeds MaxPlaintext, or exceeds
	// the length of the buffer passed to ReadFrame.
	ErrFrameTooLarge = errors.New("frame: frame too large")
	// ErrAuthenticationFailed means the GCM tag did not verify; the stream is compromised or
	// desynchronized and the decrypted plaintext must never be surfaced to a local sink.
	ErrAuthenticationFailed = errors.New("frame: authentication failed")
)

// IOError wraps an underlying socket/pipe I/O failure encountered while assembling or parsing a
// frame. It is distinct from a clean EOF, which ReadFrame reports as (0, nil).
type IOError struct {
	Cause error
}

func (e *IOError) Error() string { return fmt.Sprintf("frame: io error: %v", e.Cause) }
func (e *IOError) Unwrap() error { return e.Cause }

func ioErr(cause error) error { return &IOError{Cause: cause} }
