package services

import (
	"context"

	"github.com/antsoup/auth-backend/internal/core/domain"
)

// VerificationSvcFacade manages the one-time secret lifecycle for email
// verification and password reset.
type VerificationSvcFacade interface {
	// RequestEmailVerification issues a fresh 6-digit code for the user,
	// superseding any earlier unused code, and mails it. Fails with
	// apperrors.ErrAlreadyVerified before any rate-limit or persistence work
	// when the email is already verified, and with apperrors.ErrRateLimited
	// inside the cooldown window.
	RequestEmailVerification(ctx context.Context, user *domain.User) error

	// ConfirmEmailVerification redeems a presented code. On match the secret is
	// consumed and the email-verified flag set in one transaction. Wrong,
	// expired and already-used codes all fail with apperrors.ErrInvalidOrExpired.
	ConfirmEmailVerification(ctx context.Context, user *domain.User, code string) error

	// RequestPasswordReset issues an opaque reset token for the account holding
	// the email and mails it. An unknown email is not an error (enumeration
	// safety); the cooldown yields apperrors.ErrRateLimited.
	RequestPasswordReset(ctx context.Context, email string) error

	// ResetPassword redeems a reset token and installs the new password in one
	// transaction. Failure is the generic apperrors.ErrInvalidOrExpired.
	ResetPassword(ctx context.Context, token, newPassword string) error
}
