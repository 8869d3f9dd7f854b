// Package password wraps bcrypt hashing for stored user credentials.
package password

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Cost matches the work factor the service has always stored hashes with.
const Cost = 10

// Hash derives a salted bcrypt hash from a plaintext password.
func Hash(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), Cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Verify reports whether plaintext matches the stored hash. It never fails
// on mismatched input; any comparison error reads as "no match".
func Verify(plaintext, stored string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plaintext)) == nil
}

// IsHashed recognizes a bcrypt hash by its algorithm tag. Guards
// double-save paths: hashing an already-hashed credential would lock the
// user out permanently.
func IsHashed(s string) bool {
	return strings.HasPrefix(s, "$2a$") ||
		strings.HasPrefix(s, "$2b$") ||
		strings.HasPrefix(s, "$2y$")
}

// HashIfNeeded hashes plaintext input and passes through values that are
// already bcrypt output unchanged.
func HashIfNeeded(s string) (string, error) {
	if IsHashed(s) {
		return s, nil
	}
	return Hash(s)
}
