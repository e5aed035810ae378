package repositories

import (
	"context"
	"time"

	"github.com/antsoup/auth-backend/internal/core/domain"
)

// SecretRepository defines persistence for one-time secrets. The multi-statement
// operations each run inside a single database transaction; partial application
// is never observable.
type SecretRepository interface {
	// FindLatestUnusedSecret returns the newest unused secret of the kind for the
	// user regardless of expiry, or apperrors.ErrNotFound. Callers apply
	// domain.OneTimeSecret.Active for redeemability and CreatedAt for cooldowns.
	FindLatestUnusedSecret(ctx context.Context, userID string, kind domain.SecretKind) (*domain.OneTimeSecret, error)

	// SupersedeAndCreate atomically marks every unused secret of the same kind for
	// the same user as used (superseded, used_at stays NULL) and inserts the new
	// secret. Both statements commit together or neither does.
	SupersedeAndCreate(ctx context.Context, secret domain.OneTimeSecret) error

	// RedeemEmailVerification atomically consumes the identified secret and sets
	// the owner's email-verified flag. Returns apperrors.ErrInvalidOrExpired when
	// the secret is no longer redeemable.
	RedeemEmailVerification(ctx context.Context, userID, secretID string, now time.Time) error

	// RedeemPasswordReset atomically consumes the active password-reset secret
	// matching the digest and replaces the owner's password hash. Returns the
	// consumed secret, or apperrors.ErrInvalidOrExpired when no active secret
	// matches.
	RedeemPasswordReset(ctx context.Context, tokenDigest, newPasswordHash string, now time.Time) (*domain.OneTimeSecret, error)
}
