package utils

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/matthewhartstonge/argon2"
)

// HashPassword returns an argon2id encoded hash with its own random salt.
func HashPassword(password string) (string, error) {
	argon := argon2.DefaultConfig()
	encoded, err := argon.HashEncoded([]byte(password))
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// VerifyPassword reports false for a mismatch and for a hash it cannot decode.
func VerifyPassword(encodedHash, password string) bool {
	ok, err := argon2.VerifyEncoded([]byte(password), []byte(encodedHash))
	if err != nil {
		return false
	}
	return ok
}

// UnusablePasswordHash hashes 32 random bytes nobody knows, for accounts
// created through Google sign-in.
func UnusablePasswordHash() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return HashPassword(hex.EncodeToString(buf))
}
