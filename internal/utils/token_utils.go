package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the claim set carried by a session token.
type SessionClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// GenerateJWT generates a new signed session token for the given user.
// An empty audience omits the aud claim.
func GenerateJWT(userID, email string, secret string, expiryDuration time.Duration, issuer, audience string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiryDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	if audience != "" {
		claims.Audience = jwt.ClaimStrings{audience}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAndValidateJWT parses a session token string, validates its signature and standard claims.
// It returns the SessionClaims if the token is valid, or an error otherwise.
// A non-empty audience is enforced against the aud claim; an empty audience
// skips the check. Signature mismatch, expiry and malformed structure all
// surface as errors; callers must not distinguish them in client-facing
// responses.
func ParseAndValidateJWT(tokenString string, secretKey, audience string) (*SessionClaims, error) {
	claims := &SessionClaims{}

	var opts []jwt.ParserOption
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Don't forget to validate the alg is what you expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secretKey), nil
	}, opts...)

	if err != nil {
		return nil, err // This will include errors like token expired, signature invalid, etc.
	}

	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}

	return claims, nil
}
