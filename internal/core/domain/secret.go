package domain

import "time"

// SecretKind discriminates the one-time secret flows.
type SecretKind string

const (
	SecretKindEmailVerification SecretKind = "email_verification"
	SecretKindPasswordReset     SecretKind = "password_reset"
)

// OneTimeSecret is a single-use, time-boxed secret bound to a user.
// Verification codes store the 6-digit value verbatim; password-reset tokens
// store a SHA-256 hex digest of the raw token, never the token itself.
//
// At most one unused, unexpired secret of a given kind exists per user:
// issuing a new one marks all earlier unused secrets of that kind as used
// (superseded, UsedAt stays nil) in the same transaction as the insert.
type OneTimeSecret struct {
	SecretID  string     `json:"secretID"`
	UserID    string     `json:"userID"`
	Kind      SecretKind `json:"kind"`
	Value     string     `json:"-"`
	ExpiresAt time.Time  `json:"expiresAt"`
	Used      bool       `json:"used"`
	UsedAt    *time.Time `json:"usedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Active reports whether the secret can still be redeemed at the given time.
func (s OneTimeSecret) Active(now time.Time) bool {
	return !s.Used && s.ExpiresAt.After(now)
}
