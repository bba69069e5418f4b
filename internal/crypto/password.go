package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidPassword is returned when the admin password does not match.
var ErrInvalidPassword = errors.New("invalid password")

// PasswordChecker verifies the shared admin password against a bcrypt hash.
type PasswordChecker struct {
	hash []byte
}

// NewPasswordChecker uses hash when set, otherwise hashes plain.
func NewPasswordChecker(plain, hash string) (*PasswordChecker, error) {
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, err
		}
		return &PasswordChecker{hash: []byte(hash)}, nil
	}
	if plain == "" {
		return nil, errors.New("admin password is empty")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &PasswordChecker{hash: h}, nil
}

// Check returns ErrInvalidPassword unless password matches.
func (p *PasswordChecker) Check(password string) error {
	if err := bcrypt.CompareHashAndPassword(p.hash, []byte(password)); err != nil {
		return ErrInvalidPassword
	}
	return nil
}

// HashPassword returns a bcrypt hash suitable for ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// GenerateSecret returns 32 random bytes, hex encoded.
func GenerateSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
