package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
)

// refreshTokenBytes is the entropy of a raw refresh token (256 bits).
const refreshTokenBytes = 32

// NewRefreshTokenValue generates an opaque refresh token from the system CSPRNG.
// The raw value is returned to the client exactly once; only its hash is stored.
func NewRefreshTokenValue() (string, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// HashRefreshToken returns the SHA-256 hash of the raw refresh token,
// hex-encoded. Sessions store and look up this hash; the raw token is never
// persisted or logged.
func HashRefreshToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// RefreshTokenHashEqual performs a constant-time comparison of the provided
// token's hash with a stored hash.
func RefreshTokenHashEqual(providedToken, storedHash string) bool {
	providedHash := HashRefreshToken(providedToken)
	return subtle.ConstantTimeCompare([]byte(providedHash), []byte(storedHash)) == 1
}
