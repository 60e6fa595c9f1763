package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 100_000
	pbkdf2KeyLength  = 32
	saltBytes        = 16
)

// ErrEmptyPassword signals a blank password was supplied for hashing.
var ErrEmptyPassword = errors.New("password: empty password")

// HashPassword derives a salted PBKDF2-SHA256 digest and returns it in the
// stored "salt$hexdigest" format. The salt is 16 random bytes, hex encoded.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	raw := make([]byte, saltBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return HashPasswordWithSalt(password, hex.EncodeToString(raw))
}

// HashPasswordWithSalt derives the digest with a caller-provided salt. Used
// by verification to recompute against the stored salt.
func HashPasswordWithSalt(password, salt string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	digest := pbkdf2.Key([]byte(password), []byte(salt), pbkdf2Iterations, pbkdf2KeyLength, sha256.New)
	return salt + "$" + hex.EncodeToString(digest), nil
}

// VerifyPassword recomputes the candidate against the salt embedded in
// stored and compares in constant time. Malformed stored hashes verify as
// false rather than erroring.
func VerifyPassword(candidate, stored string) bool {
	salt, _, ok := strings.Cut(stored, "$")
	if !ok {
		return false
	}
	recalculated, err := HashPasswordWithSalt(candidate, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(recalculated), []byte(stored)) == 1
}
