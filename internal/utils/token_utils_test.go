package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const testSecret = "unit-test-signing-key"

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := GenerateJWT("user-1", "u@example.com", testSecret, time.Hour, "auth-backend", "")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := ParseAndValidateJWT(token, testSecret, "")
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "u@example.com", claims.Email)
	assert.Equal(t, "auth-backend", claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestParseJWT_Expired(t *testing.T) {
	token, err := GenerateJWT("user-1", "u@example.com", testSecret, -time.Minute, "auth-backend", "")
	assert.NoError(t, err)

	_, err = ParseAndValidateJWT(token, testSecret, "")
	assert.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseJWT_WrongKey(t *testing.T) {
	token, err := GenerateJWT("user-1", "u@example.com", testSecret, time.Hour, "auth-backend", "")
	assert.NoError(t, err)

	_, err = ParseAndValidateJWT(token, "some-other-key", "")
	assert.Error(t, err)
}

func TestParseJWT_Audience(t *testing.T) {
	token, err := GenerateJWT("user-1", "u@example.com", testSecret, time.Hour, "auth-backend", "mobile-app")
	assert.NoError(t, err)

	claims, err := ParseAndValidateJWT(token, testSecret, "mobile-app")
	assert.NoError(t, err)
	assert.Equal(t, jwt.ClaimStrings{"mobile-app"}, claims.Audience)

	_, err = ParseAndValidateJWT(token, testSecret, "some-other-app")
	assert.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidAudience)
}

func TestParseJWT_AudienceNotEnforcedWhenUnset(t *testing.T) {
	// Tokens minted without an aud claim stay valid when no audience is
	// configured.
	token, err := GenerateJWT("user-1", "u@example.com", testSecret, time.Hour, "auth-backend", "")
	assert.NoError(t, err)

	claims, err := ParseAndValidateJWT(token, testSecret, "")
	assert.NoError(t, err)
	assert.Empty(t, claims.Audience)
}

func TestParseJWT_RejectsNonHMACAlg(t *testing.T) {
	// A token declaring "none" must not pass regardless of its claims.
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	tokenString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	_, err = ParseAndValidateJWT(tokenString, testSecret, "")
	assert.Error(t, err)
}

func TestParseJWT_Garbage(t *testing.T) {
	_, err := ParseAndValidateJWT("not.a.token", testSecret, "")
	assert.Error(t, err)

	_, err = ParseAndValidateJWT("", testSecret, "")
	assert.Error(t, err)
}

func TestHashSessionToken(t *testing.T) {
	digest := HashSessionToken("some-token")
	assert.Len(t, digest, 64)
	assert.Equal(t, digest, HashSessionToken("some-token"), "Digest must be deterministic")
	assert.NotEqual(t, digest, HashSessionToken("some-token2"))
}

func TestConstantTimeEquals(t *testing.T) {
	assert.True(t, ConstantTimeEquals("482913", "482913"))
	assert.False(t, ConstantTimeEquals("482913", "482914"))
	assert.False(t, ConstantTimeEquals("482913", "48291"))
	assert.True(t, ConstantTimeEquals("", ""))
}
