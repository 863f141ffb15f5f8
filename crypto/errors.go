package crypto

import "errors"

// Error kinds returned by the cipher engine. Callers should compare with errors.Is.
var (
	// ErrInvalidInput indicates a caller violated a length or argument constraint.
	ErrInvalidInput = errors.New("crypto: invalid input")
	// ErrCryptoFailure indicates an engine-level failure unrelated to authentication.
	ErrCryptoFailure = errors.New("crypto: engine failure")
	// ErrAuthenticationFailed indicates the GCM tag did not verify.
	ErrAuthenticationFailed = errors.New("crypto: authentication failed")
)
