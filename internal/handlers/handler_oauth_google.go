package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/antsoup/auth-backend/internal/apperrors"
	"github.com/antsoup/auth-backend/internal/core/domain"
	portssvc "github.com/antsoup/auth-backend/internal/core/ports/services"
	"github.com/antsoup/auth-backend/internal/dto"
	"github.com/antsoup/auth-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"google.golang.org/api/idtoken"
)

// GoogleOAuthHandler handles Google login. The frontend either sends an
// authorization code obtained through the redirect flow, or an ID token
// obtained through Google's JavaScript SDK; both converge on the same
// user resolution and session token issuance.
type GoogleOAuthHandler struct {
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade
	userService        portssvc.UserSvcFacade
	tokenService       portssvc.TokenSvcFacade
}

// NewGoogleOAuthHandler creates a new instance of GoogleOAuthHandler.
func NewGoogleOAuthHandler(services *portssvc.ServiceContainer) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{
		googleOAuthService: services.GoogleOAuthHandler,
		userService:        services.User,
		tokenService:       services.Token,
	}
}

// registerGoogleOAuthRoutes registers the Google OAuth routes.
func registerGoogleOAuthRoutes(rg *gin.RouterGroup, rateLimit gin.HandlerFunc, services *portssvc.ServiceContainer) {
	h := NewGoogleOAuthHandler(services)
	googleRoutes := rg.Group("/google")
	{
		googleRoutes.POST("", rateLimit, h.LoginWithGoogle)
	}
}

// LoginWithGoogle godoc
// @Summary Log in with Google
// @Description Accepts a Google authorization code or ID token, resolves the
// Google identity to an account (creating or linking one as needed) and
// returns a signed session token.
// @Tags oauth
// @Accept json
// @Produce json
// @Param request body dto.GoogleAuthRequest true "Authorization code or ID token"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/google [post]
func (h *GoogleOAuthHandler) LoginWithGoogle(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	var req dto.GoogleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.Code == "" && req.IDToken == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Either code or id_token is required."})
		return
	}

	idTokenString := req.IDToken
	if idTokenString == "" {
		// Redirect flow: trade the authorization code for Google's tokens first.
		oauth2Token, err := h.googleOAuthService.ExchangeCodeForToken(ctx, req.Code)
		if err != nil {
			logger.Error("Failed to exchange authorization code with Google", slog.String("error", err.Error()))
			if strings.Contains(strings.ToLower(err.Error()), "invalid_grant") {
				c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid or expired authorization code."})
				return
			}
			c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to communicate with Google."})
			return
		}

		extracted, ok := oauth2Token.Extra("id_token").(string)
		if !ok || extracted == "" {
			logger.Error("ID token not found in Google's token response")
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve ID token from Google."})
			return
		}
		idTokenString = extracted
	}

	payload, err := h.googleOAuthService.ValidateGoogleIDToken(ctx, idTokenString)
	if err != nil {
		logger.Warn("Google ID token validation failed", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	info, err := googleUserInfoFromPayload(payload)
	if err != nil {
		logger.Error("Essential claims missing from Google ID token", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	user, err := h.userService.GetOrCreateGoogleUser(ctx, *info)
	if err != nil {
		logger.Error("Failed to resolve Google user", slog.String("error", err.Error()), slog.String("google_user_id", info.ID))
		respondError(c, err)
		return
	}

	token, _, err := h.tokenService.GenerateAccessToken(ctx, user)
	if err != nil {
		logger.Error("Failed to generate access token", slog.String("error", err.Error()), slog.String("user_id", user.UserID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	logger.Info("User logged in via Google", slog.String("user_id", user.UserID))
	c.JSON(http.StatusOK, dto.AuthResponse{Token: token, User: dto.ToUserResponse(user)})
}

// googleUserInfoFromPayload maps the validated ID token claims onto the
// domain assertion type. The sub and email claims are mandatory.
func googleUserInfoFromPayload(payload *idtoken.Payload) (*domain.GoogleUserInfo, error) {
	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)
	emailVerified, _ := payload.Claims["email_verified"].(bool)

	if payload.Subject == "" || email == "" {
		return nil, apperrors.NewBadRequestError("Essential user information missing from Google token.")
	}

	return &domain.GoogleUserInfo{
		ID:            payload.Subject,
		Email:         email,
		VerifiedEmail: emailVerified,
		Name:          name,
		Picture:       picture,
	}, nil
}
