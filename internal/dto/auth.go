package dto

// LoginRequest carries the credential pair for local authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents a successful authentication: a signed session
// token plus the authenticated user.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// GoogleAuthRequest carries either a Google authorization code or an ID
// token obtained by the frontend. Exactly one must be set.
type GoogleAuthRequest struct {
	Code    string `json:"code"`
	IDToken string `json:"id_token"`
}
