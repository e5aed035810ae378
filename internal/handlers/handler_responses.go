package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/antsoup/auth-backend/internal/apperrors"
	"github.com/antsoup/auth-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError maps service errors to HTTP responses. Sentinel errors carry
// fixed client messages so equivalent failures stay byte-identical on the
// wire; anything unrecognized becomes a logged 500 with a generic body.
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, ErrorResponse{Error: appErr.Message})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid email or password."})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Account is disabled."})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Resource not found."})
	case errors.Is(err, apperrors.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "Please wait before requesting again."})
	case errors.Is(err, apperrors.ErrAlreadyVerified):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Email is already verified."})
	case errors.Is(err, apperrors.ErrInvalidOrExpired):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid or expired code."})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Resource already exists."})
	default:
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Unhandled service error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error."})
	}
}
