package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/antsoup/auth-backend/internal/apperrors"
	"github.com/antsoup/auth-backend/internal/core/domain"
	portsrepo "github.com/antsoup/auth-backend/internal/core/ports/repositories"
	portssvc "github.com/antsoup/auth-backend/internal/core/ports/services"
	"github.com/antsoup/auth-backend/internal/platform/config"
	"github.com/antsoup/auth-backend/internal/utils"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

type tokenService struct {
	cfg         *config.Config
	userService portssvc.UserReaderSvc
	revokedRepo portsrepo.RevokedTokenRepository
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config, userService portssvc.UserReaderSvc, revokedRepo portsrepo.RevokedTokenRepository) portssvc.TokenSvcFacade {
	return &tokenService{
		cfg:         cfg,
		userService: userService,
		revokedRepo: revokedRepo,
	}
}

var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.cfg.JWTExpiryDuration)
	token, err := utils.GenerateJWT(user.UserID, user.Email, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer, s.cfg.JWTAudience)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, expiresAt, nil
}

func (s *tokenService) ResolveUserFromToken(ctx context.Context, tokenString string) (*domain.User, error) {
	claims, err := utils.ParseAndValidateJWT(tokenString, s.cfg.JWTSecret, s.cfg.JWTAudience)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}

	// Revocation overrides an otherwise valid token. A registry read failure is
	// an internal error, not a silent accept.
	revoked, err := s.revokedRepo.IsRevoked(ctx, utils.HashSessionToken(tokenString), time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return nil, apperrors.ErrUnauthorized
	}

	user, err := s.userService.GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if user.Status != domain.StatusActive {
		return nil, apperrors.ErrUnauthorized
	}

	resolved := *user
	resolved.PasswordHash = nil
	return &resolved, nil
}

func (s *tokenService) RevokeToken(ctx context.Context, tokenString string, userID string) error {
	now := time.Now()
	expiresAt := now.Add(s.cfg.JWTExpiryDuration)

	// Parse leniently so an already-expired token still lands in the registry
	// with its real expiry. The claims are not trusted beyond the exp field.
	claims := &utils.SessionClaims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(tokenString, claims); err == nil {
		if claims.ExpiresAt != nil {
			expiresAt = claims.ExpiresAt.Time
		}
	}

	entry := domain.RevokedToken{
		TokenHash: utils.HashSessionToken(tokenString),
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}
	if err := s.revokedRepo.Revoke(ctx, entry); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// --- Google OAuth ---

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type googleOAuthHandlerService struct {
	oauthConfig *oauth2.Config
	clientID    string
}

// NewGoogleOAuthHandlerService creates a new instance of googleOAuthHandlerService.
func NewGoogleOAuthHandlerService(cfg *config.Config) portssvc.GoogleOAuthHandlerSvcFacade {
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
	return &googleOAuthHandlerService{
		oauthConfig: oauthConfig,
		clientID:    cfg.GoogleClientID,
	}
}

var _ portssvc.GoogleOAuthHandlerSvcFacade = (*googleOAuthHandlerService)(nil)

func (s *googleOAuthHandlerService) GenerateStateString(ctx context.Context) (string, error) {
	return utils.GenerateSecureRandomString(16)
}

func (s *googleOAuthHandlerService) GetGoogleLoginURL(ctx context.Context, state string) string {
	return s.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (s *googleOAuthHandlerService) ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return token, nil
}

func (s *googleOAuthHandlerService) GetUserInfo(ctx context.Context, token *oauth2.Token) (*domain.GoogleUserInfo, error) {
	client := s.oauthConfig.Client(ctx, token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info endpoint returned status %d", resp.StatusCode)
	}

	var info domain.GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info response: %w", err)
	}
	if info.ID == "" || info.Email == "" {
		return nil, fmt.Errorf("user info response is missing id or email")
	}
	return &info, nil
}

func (s *googleOAuthHandlerService) ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error) {
	payload, err := idtoken.Validate(ctx, idTokenString, s.clientID)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("Invalid Google ID token.")
	}
	return payload, nil
}
