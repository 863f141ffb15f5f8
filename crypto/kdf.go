package crypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

// pbkdf2Iterations and pbkdf2Salt are fixed so that both relay endpoints derive an identical
// session key from an identical password without any key-exchange round trip. This precludes
// forward secrecy and makes offline dictionary attacks against a captured session tractable for
// weak passwords — a documented limitation, not a bug: peers must agree on the salt, and changing
// it breaks interoperability with any other clawcat build.
const (
	pbkdf2Iterations = 100_000
	pbkdf2Salt       = "CLAWSEC2025AESGC"
)

// MinRecommendedPasswordLen is advisory only: DeriveKey never rejects a short password, it only
// signals the caller should warn.
const MinRecommendedPasswordLen = 8

// DeriveKey derives the 32-byte session key from password via PBKDF2-HMAC-SHA256. weak reports
// whether the password was shorter than MinRecommendedPasswordLen, so callers can warn without
// DeriveKey itself ever rejecting the password.
func DeriveKey(password string) (key [KeySize]byte, weak bool) {
	derived := pbkdf2.Key([]byte(password), []byte(pbkdf2Salt), pbkdf2Iterations, KeySize, sha256.New)
	copy(key[:], derived)
	return key, len(password) < MinRecommendedPasswordLen
}
