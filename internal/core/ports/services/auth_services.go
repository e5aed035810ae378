package services

import (
	"context"
	"time"

	"github.com/antsoup/auth-backend/internal/core/domain"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

// TokenSvcFacade issues, resolves and revokes session tokens.
type TokenSvcFacade interface {
	// GenerateAccessToken creates a new signed session token for the given user.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// ResolveUserFromToken validates the token (signature, expiry, structure),
	// rejects revoked tokens, and re-fetches the live non-deleted user row.
	// Every rejection is apperrors.ErrUnauthorized; a store failure surfaces
	// as a wrapped error so callers can answer with a server error instead.
	ResolveUserFromToken(ctx context.Context, tokenString string) (*domain.User, error)

	// RevokeToken blacklists the token's digest until at least the token's own
	// expiry. Callers treat failure as non-fatal: logout succeeds regardless.
	RevokeToken(ctx context.Context, tokenString string, userID string) error
}

// GoogleOAuthHandlerSvcFacade wraps the Google OAuth code/token exchange.
type GoogleOAuthHandlerSvcFacade interface {
	// GenerateStateString creates a CSRF state token for the OAuth flow.
	GenerateStateString(ctx context.Context) (string, error)

	// GetGoogleLoginURL returns the URL to redirect the user to for Google login.
	GetGoogleLoginURL(ctx context.Context, state string) string

	// ExchangeCodeForToken exchanges an OAuth authorization code for a token.
	ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error)

	// GetUserInfo uses the access token to get user information from Google.
	GetUserInfo(ctx context.Context, token *oauth2.Token) (*domain.GoogleUserInfo, error)

	// ValidateGoogleIDToken validates an ID token received from Google and
	// returns the payload if valid.
	ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error)
}
