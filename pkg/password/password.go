package password

import (
	"errors"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// ErrTooWeak is returned for passwords failing the strength policy.
var ErrTooWeak = errors.New("password: too weak")

// Hasher hashes and verifies passwords.
type Hasher interface {
	Hash(password string) ([]byte, error)
	Compare(hashed []byte, password string) error
}

// BcryptHasher is the bcrypt implementation of Hasher.
type BcryptHasher struct{}

func NewBcryptHasher() Hasher {
	return BcryptHasher{}
}

func (BcryptHasher) Hash(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

func (BcryptHasher) Compare(hashed []byte, password string) error {
	return bcrypt.CompareHashAndPassword(hashed, []byte(password))
}

// Validate enforces the strength policy: at least 8 characters with at least
// one letter and one digit.
func Validate(password string) error {
	if len(password) < 8 {
		return ErrTooWeak
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return ErrTooWeak
	}
	return nil
}
