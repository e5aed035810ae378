package repositories

import (
	"context"
	"time"

	"github.com/antsoup/auth-backend/internal/core/domain"
)

// RevokedTokenRepository is the revocation registry for session tokens.
type RevokedTokenRepository interface {
	// Revoke upserts a blacklist entry keyed by token digest. Re-revoking the
	// same digest refreshes the recorded revocation time and keeps it blocked.
	Revoke(ctx context.Context, entry domain.RevokedToken) error

	// IsRevoked reports whether an entry with expires_at > now exists for the
	// digest. Entries past expiry are treated as absent (lazy expiry).
	IsRevoked(ctx context.Context, tokenHash string, now time.Time) (bool, error)
}
