package services

import "context"

// MailSvc dispatches transactional mail. The core only generates and
// validates secrets; delivery is a collaborator behind this port.
type MailSvc interface {
	// SendVerificationCode mails a 6-digit email verification code.
	SendVerificationCode(ctx context.Context, to, code, username string) error

	// SendPasswordResetEmail mails a password reset link containing the raw token.
	SendPasswordResetEmail(ctx context.Context, to, resetToken, username string) error

	// SendWelcomeEmail mails the post-signup welcome message. Best-effort.
	SendWelcomeEmail(ctx context.Context, to, username string) error
}
