package dto

// ConfirmVerificationRequest carries the presented email verification code.
type ConfirmVerificationRequest struct {
	VerificationCode string `json:"verification_code" binding:"required,len=6,numeric"`
}

// PasswordResetRequest starts the reset flow for the account holding the email.
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PasswordResetConfirmRequest redeems a reset token with a new password.
type PasswordResetConfirmRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// MessageResponse is a generic success envelope for operations without a payload.
type MessageResponse struct {
	Message string `json:"message"`
}
