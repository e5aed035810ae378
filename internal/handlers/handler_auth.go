package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	portssvc "github.com/antsoup/auth-backend/internal/core/ports/services"
	"github.com/antsoup/auth-backend/internal/dto"
	"github.com/antsoup/auth-backend/internal/middleware"
	"github.com/antsoup/auth-backend/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles signup, login and logout.
type AuthHandler struct {
	userService  portssvc.UserSvcFacade
	tokenService portssvc.TokenSvcFacade
	mailService  portssvc.MailSvc
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(services *portssvc.ServiceContainer) *AuthHandler {
	return &AuthHandler{
		userService:  services.User,
		tokenService: services.Token,
		mailService:  services.Mail,
	}
}

// registerAuthRoutes sets up public auth routes plus the token-protected logout.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := NewAuthHandler(services)

	// Credential endpoints get a tight per-IP limit; the availability checks
	// share a looser one.
	credentialRate, _ := limiter.NewRateFromFormatted("5-M")
	lookupRate, _ := limiter.NewRateFromFormatted("30-M")
	store := memory.NewStore()
	credentialLimit := middleware.RateLimit(limiter.New(store, credentialRate))
	lookupLimit := middleware.RateLimit(limiter.New(store, lookupRate))

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/signup", credentialLimit, h.Signup)
		auth.POST("/login", credentialLimit, h.Login)
		auth.POST("/logout", middleware.AuthMiddleware(services.Token), h.Logout)
		auth.GET("/check-email", lookupLimit, h.CheckEmail)
		auth.GET("/check-username", lookupLimit, h.CheckUsername)
	}

	registerGoogleOAuthRoutes(auth, credentialLimit, services)
	registerVerificationRoutes(auth, credentialLimit, services)
	registerPasswordResetRoutes(auth, credentialLimit, services)
}

// Signup godoc
// @Summary Register a new account
// @Description Creates a local account and returns a signed session token.
// @Tags auth
// @Accept json
// @Produce json
// @Param signup body dto.SignupRequest true "Signup details"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Email or username already registered"
// @Failure 500 {object} ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	token, _, err := h.tokenService.GenerateAccessToken(c.Request.Context(), user)
	if err != nil {
		logger.Error("Failed to generate token after signup", slog.String("error", err.Error()), slog.String("user_id", user.UserID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	// Welcome mail is best-effort and must not delay the response.
	go func(email, username string) {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := h.mailService.SendWelcomeEmail(ctx, email, username); err != nil {
			logger.Warn("Failed to send welcome email", slog.String("error", err.Error()))
		}
	}(user.Email, user.Username)

	logger.Info("User signed up", slog.String("user_id", user.UserID))
	c.JSON(http.StatusCreated, dto.AuthResponse{Token: token, User: dto.ToUserResponse(user)})
}

// Login godoc
// @Summary Log in with email and password
// @Description Authenticates a user and returns a signed session token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse "Invalid email or password"
// @Failure 403 {object} ErrorResponse "Account is disabled"
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	user, err := h.userService.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, _, err := h.tokenService.GenerateAccessToken(c.Request.Context(), user)
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to sign session token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{Token: token, User: dto.ToUserResponse(user)})
}

// Logout godoc
// @Summary Log out
// @Description Revokes the presented session token. The token is rejected on
// every subsequent request even though its signature remains valid.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	token, ok := middleware.GetSessionTokenFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header required"})
		return
	}
	userID, _ := middleware.GetUserIDFromContext(c)

	// A registry write failure still logs the user out client-side; report
	// success and leave the token to expire naturally.
	if err := h.tokenService.RevokeToken(c.Request.Context(), token, userID); err != nil {
		logger.Error("Failed to revoke session token", slog.String("error", err.Error()))
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logged out."})
}

// CheckEmail godoc
// @Summary Check email availability
// @Description Reports whether an email address is free to register.
// @Tags auth
// @Produce json
// @Param email query string true "Email address"
// @Success 200 {object} dto.AvailabilityResponse
// @Failure 400 {object} ErrorResponse
// @Router /auth/check-email [get]
func (h *AuthHandler) CheckEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "email query parameter is required"})
		return
	}

	taken, err := h.userService.IsEmailTaken(c.Request.Context(), email)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.AvailabilityResponse{Available: !taken}
	if taken {
		resp.Message = "Email address is already registered."
	}
	c.JSON(http.StatusOK, resp)
}

// CheckUsername godoc
// @Summary Check username availability
// @Description Reports whether a username is free to register.
// @Tags auth
// @Produce json
// @Param username query string true "Username"
// @Success 200 {object} dto.AvailabilityResponse
// @Failure 400 {object} ErrorResponse
// @Router /auth/check-username [get]
func (h *AuthHandler) CheckUsername(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "username query parameter is required"})
		return
	}

	taken, err := h.userService.IsUsernameTaken(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.AvailabilityResponse{Available: !taken}
	if taken {
		resp.Message = "Username is already taken."
	}
	c.JSON(http.StatusOK, resp)
}
