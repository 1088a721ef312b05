package utils

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// NewSessionToken returns an opaque bearer token: 32 bytes of
// cryptographically secure random data, hex encoded (64 characters).
// Tokens carry no claims; they are only meaningful as keys into the
// session store.
func NewSessionToken() (string, error) {
	return randomHex(32)
}

const productNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewProductNumber generates a business key for products created
// without one: PN-<YYYYMMDD>-<4 uppercase alphanumerics>.
func NewProductNumber(now time.Time) (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	suffix := make([]byte, 4)
	for i, b := range buf {
		suffix[i] = productNumberAlphabet[int(b)%len(productNumberAlphabet)]
	}
	return "PN-" + now.Format("20060102") + "-" + string(suffix), nil
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
