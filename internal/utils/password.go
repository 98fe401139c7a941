package utils

import (
	"errors"
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// ErrWeakPassword is wrapped by PasswordPolicy.Check failures.
var ErrWeakPassword = errors.New("password does not meet policy")

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// PasswordPolicy holds the registration password rules.
type PasswordPolicy struct {
	MinLength    int
	RequireDigit bool
}

// Check reports the first rule the password breaks.
func (p PasswordPolicy) Check(plain string) error {
	if len([]rune(plain)) < p.MinLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrWeakPassword, p.MinLength)
	}
	if len(plain) > MaxPasswordBytes {
		return fmt.Errorf("%w: must be at most %d bytes", ErrWeakPassword, MaxPasswordBytes)
	}
	if p.RequireDigit {
		for _, r := range plain {
			if unicode.IsDigit(r) {
				return nil
			}
		}
		return fmt.Errorf("%w: must contain a digit", ErrWeakPassword)
	}
	return nil
}

// HashPassword returns bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
