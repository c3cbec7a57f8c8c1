package crypto

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 100_000
	pbkdf2KeyLength  = 64
	saltLength       = 16
)

// HashPassword derives a PBKDF2-HMAC-SHA512 hash with a per-password random
// salt. The stored form is "hex(salt):hex(hash)".
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyLength, sha512.New)
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(hash), nil
}

// VerifyPassword recomputes the hash with the stored salt and compares in
// constant time.
func VerifyPassword(password, stored string) (bool, error) {
	saltHex, hashHex, found := strings.Cut(stored, ":")
	if !found {
		return false, fmt.Errorf("malformed password hash")
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false, err
	}

	expected, err := hex.DecodeString(hashHex)
	if err != nil {
		return false, err
	}

	hash := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, len(expected), sha512.New)
	return subtle.ConstantTimeCompare(hash, expected) == 1, nil
}
