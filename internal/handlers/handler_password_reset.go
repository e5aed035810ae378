package handlers

import (
	"net/http"

	portssvc "github.com/antsoup/auth-backend/internal/core/ports/services"
	"github.com/antsoup/auth-backend/internal/dto"
	"github.com/gin-gonic/gin"
)

// PasswordResetHandler handles the two-step password reset flow. Both
// endpoints are public: the requester holds no session, only an email address
// or a mailed token.
type PasswordResetHandler struct {
	verificationService portssvc.VerificationSvcFacade
}

// NewPasswordResetHandler creates a new PasswordResetHandler.
func NewPasswordResetHandler(services *portssvc.ServiceContainer) *PasswordResetHandler {
	return &PasswordResetHandler{
		verificationService: services.Verification,
	}
}

// registerPasswordResetRoutes registers the password reset routes.
func registerPasswordResetRoutes(rg *gin.RouterGroup, rateLimit gin.HandlerFunc, services *portssvc.ServiceContainer) {
	h := NewPasswordResetHandler(services)

	reset := rg.Group("/password-reset")
	{
		reset.POST("", rateLimit, h.RequestReset)
		reset.POST("/confirm", rateLimit, h.ConfirmReset)
	}
}

// RequestReset godoc
// @Summary Request a password reset token
// @Description Mails a reset link to the address if it belongs to an account.
// The response is identical whether or not the address is registered. Repeat
// requests within 5 minutes are rejected.
// @Tags password-reset
// @Accept json
// @Produce json
// @Param request body dto.PasswordResetRequest true "Account email"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse "Issued too recently"
// @Failure 500 {object} ErrorResponse
// @Router /auth/password-reset [post]
func (h *PasswordResetHandler) RequestReset(c *gin.Context) {
	var req dto.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	if err := h.verificationService.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}

	// Same body for known and unknown addresses.
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "If the email is registered, a reset link has been sent."})
}

// ConfirmReset godoc
// @Summary Redeem a password reset token
// @Description Installs a new password for the account holding the token.
// The token works exactly once; a second redemption fails.
// @Tags password-reset
// @Accept json
// @Produce json
// @Param request body dto.PasswordResetConfirmRequest true "Reset token and new password"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} ErrorResponse "Invalid or expired token"
// @Failure 500 {object} ErrorResponse
// @Router /auth/password-reset/confirm [post]
func (h *PasswordResetHandler) ConfirmReset(c *gin.Context) {
	var req dto.PasswordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	if err := h.verificationService.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Password has been reset."})
}
