package auth

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/campushub/backend/internal/pkg/apperrors"
)

// BcryptCost is the bcrypt hashing cost
const BcryptCost = 12

// MinPasswordLength is the minimum accepted password length
const MinPasswordLength = 8

// HashPassword hashes a plaintext password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword verifies a plaintext password against a bcrypt hash
func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// ValidatePasswordStrength enforces the password policy: at least
// MinPasswordLength characters containing a letter, a digit and a symbol.
func ValidatePasswordStrength(password string) error {
	if len(password) < MinPasswordLength {
		return apperrors.NewBadRequestError("password must be at least 8 characters")
	}

	var hasLetter, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	if !hasLetter {
		return apperrors.NewBadRequestError("password must contain letters")
	}
	if !hasDigit {
		return apperrors.NewBadRequestError("password must contain numbers")
	}
	if !hasSymbol {
		return apperrors.NewBadRequestError("password must contain a special character")
	}

	return nil
}
