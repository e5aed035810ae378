package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/antsoup/auth-backend/internal/core/ports/services"
	"github.com/antsoup/auth-backend/internal/dto"
	"github.com/antsoup/auth-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// VerificationHandler handles the email verification flow. Both endpoints
// operate on the authenticated user; the code never travels with a user ID.
type VerificationHandler struct {
	verificationService portssvc.VerificationSvcFacade
}

// NewVerificationHandler creates a new VerificationHandler.
func NewVerificationHandler(services *portssvc.ServiceContainer) *VerificationHandler {
	return &VerificationHandler{
		verificationService: services.Verification,
	}
}

// registerVerificationRoutes registers the email verification routes.
func registerVerificationRoutes(rg *gin.RouterGroup, rateLimit gin.HandlerFunc, services *portssvc.ServiceContainer) {
	h := NewVerificationHandler(services)
	authRequired := middleware.AuthMiddleware(services.Token)

	verify := rg.Group("/verify-email", authRequired)
	{
		verify.POST("", rateLimit, h.RequestVerification)
		verify.POST("/confirm", rateLimit, h.ConfirmVerification)
	}
}

// RequestVerification godoc
// @Summary Request an email verification code
// @Description Issues a fresh 6-digit code for the authenticated user and
// mails it. An earlier unredeemed code stops working the moment the new one
// is issued. Repeat requests within 60 seconds are rejected.
// @Tags verification
// @Produce json
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Email is already verified"
// @Failure 429 {object} ErrorResponse "Issued too recently"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /auth/verify-email [post]
func (h *VerificationHandler) RequestVerification(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	user, ok := middleware.GetCurrentUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.verificationService.RequestEmailVerification(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Verification code issued", slog.String("user_id", user.UserID))
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Verification code sent."})
}

// ConfirmVerification godoc
// @Summary Confirm an email verification code
// @Description Redeems the presented 6-digit code. On success the account's
// email is marked verified and the code cannot be used again.
// @Tags verification
// @Accept json
// @Produce json
// @Param request body dto.ConfirmVerificationRequest true "Verification code"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} ErrorResponse "Invalid or expired code"
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Email is already verified"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /auth/verify-email/confirm [post]
func (h *VerificationHandler) ConfirmVerification(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	user, ok := middleware.GetCurrentUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.ConfirmVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	if err := h.verificationService.ConfirmEmailVerification(c.Request.Context(), user, req.VerificationCode); err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Email verified", slog.String("user_id", user.UserID))
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Email verified."})
}
