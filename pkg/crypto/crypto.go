package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"math/big"
)

// GenerateRandomString returns a 256-bit opaque token. It is used for
// remember-me credentials and admin session tokens.
func GenerateRandomString() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

// SHA256Hex returns the hex digest of b. Opaque tokens are stored hashed so a
// database leak does not leak usable credentials.
func SHA256Hex(b []byte) string {
	hashed := sha256.Sum256(b)
	return hex.EncodeToString(hashed[:])
}

// RandIntn returns a uniform random value in [0, n). It panics if got a
// non-positive parameter.
func RandIntn(n int) int {
	r, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}

	return int(r.Int64())
}
