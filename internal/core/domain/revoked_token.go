package domain

import "time"

// RevokedToken is a blacklist entry for a session token invalidated before
// its natural expiry. Only the SHA-256 hex digest of the token is kept.
// An entry whose ExpiresAt has passed is treated as absent; physical cleanup
// may be deferred indefinitely.
type RevokedToken struct {
	TokenHash string    `json:"-"`
	UserID    string    `json:"userID"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}
