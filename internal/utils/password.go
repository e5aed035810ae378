package utils

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password using bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckPasswordHash compares a plaintext password with a bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

const passwordSpecials = `!@#$%^&*(),.?":{}|<>`

// ValidatePasswordStrength enforces the signup password policy: at least six
// characters containing a letter, a digit and a special character, with no
// run of three sequential or identical characters.
func ValidatePasswordStrength(password string) error {
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters long")
	}
	var hasLetter, hasDigit, hasSpecial bool
	for _, c := range password {
		switch {
		case (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
			hasLetter = true
		case c >= '0' && c <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSpecials, c):
			hasSpecial = true
		}
	}
	if !hasLetter || !hasDigit || !hasSpecial {
		return fmt.Errorf("password must contain a letter, a digit and a special character")
	}
	if hasTrivialRun(password) {
		return fmt.Errorf("password must not contain sequential or repeated character runs")
	}
	return nil
}

// hasTrivialRun detects runs like "123", "abc", "cba" or "aaa".
func hasTrivialRun(password string) bool {
	for i := 0; i+2 < len(password); i++ {
		a, b, c := password[i], password[i+1], password[i+2]
		if (b == a+1 && c == b+1) || (b == a-1 && c == b-1) {
			return true
		}
		if a == b && b == c {
			return true
		}
	}
	return false
}
