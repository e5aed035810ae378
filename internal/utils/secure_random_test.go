package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSecureRandomString(t *testing.T) {
	s, err := GenerateSecureRandomString(32)
	assert.NoError(t, err)
	assert.Len(t, s, 64, "32 random bytes should hex encode to 64 characters")

	other, err := GenerateSecureRandomString(32)
	assert.NoError(t, err)
	assert.NotEqual(t, s, other, "Two draws should not collide")

	_, err = GenerateSecureRandomString(0)
	assert.Error(t, err, "Zero length should be rejected")
	_, err = GenerateSecureRandomString(-1)
	assert.Error(t, err, "Negative length should be rejected")
}

func TestGenerateNumericCode(t *testing.T) {
	// Padding matters: a draw below 100000 must still yield six characters.
	for i := 0; i < 50; i++ {
		code, err := GenerateNumericCode(6)
		assert.NoError(t, err)
		assert.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', "Code must be digits only, got %q", code)
		}
	}

	_, err := GenerateNumericCode(0)
	assert.Error(t, err, "Zero length should be rejected")
}
