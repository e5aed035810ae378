package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashSessionToken generates a SHA256 hex digest of a session token.
// The revocation registry stores only this digest, never the raw token.
func HashSessionToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// HashSecret generates a SHA256 hex digest of a one-time secret value.
// Password-reset tokens are persisted as this digest so redemption is an
// equality lookup on a one-way hash.
func HashSecret(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// ConstantTimeEquals compares two secret strings without leaking the position
// of the first mismatch.
func ConstantTimeEquals(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
