package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashPassword returns the sha256 hex digest of a password. The scheme
// is a single unsalted round so that local records and the remote user
// directory share one format.
func HashPassword(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword compares a stored digest against a plain password in
// constant time.
func VerifyPassword(hash, plain string) bool {
	return subtle.ConstantTimeCompare([]byte(hash), []byte(HashPassword(plain))) == 1
}
