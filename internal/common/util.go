package common

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// MakeRandHexString returns a hex string built from size random bytes, so the
// result is twice as long as size.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// NormalizeHandle trims surrounding whitespace and lowercases the value.
// Usernames and emails are stored in this form.
func NormalizeHandle(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// AnyBlank reports whether at least one of the values is empty after trimming.
func AnyBlank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}
