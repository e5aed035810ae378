package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/antsoup/auth-backend/internal/apperrors"
	portssvc "github.com/antsoup/auth-backend/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware creates a Gin middleware handler that authenticates requests
// with a bearer session token. Token resolution covers signature, expiry, the
// revocation registry and a live user fetch; every rejection produces the
// same 401 so a caller cannot tell a revoked token from a forged one. A
// failure to resolve (the registry or user store being unreachable) is a 500,
// never a 401: an outage must not read as "logged out" to clients.
func AuthMiddleware(tokenSvc portssvc.TokenSvcFacade) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		tokenString := parts[1]

		user, err := tokenSvc.ResolveUserFromToken(c.Request.Context(), tokenString)
		if err != nil {
			if errors.Is(err, apperrors.ErrUnauthorized) {
				logger.Warn("Session token rejected", slog.String("error", err.Error()))
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
				return
			}
			logger.Error("Token resolution failed", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error."})
			return
		}

		// Store the user ID in the standard context for downstream consumers
		ctxWithUser := context.WithValue(c.Request.Context(), userIDKey, user.UserID)

		// Add user ID to the logger
		enrichedLogger := logger.With(slog.String("user_id", user.UserID))
		ctxWithLoggerAndUser := context.WithValue(ctxWithUser, loggerCtxKey, enrichedLogger)

		c.Request = c.Request.WithContext(ctxWithLoggerAndUser)

		c.Set(string(userIDKey), user.UserID)
		c.Set(string(currentUserKey), user)
		c.Set(string(sessionTokenKey), tokenString)

		c.Next()
	}
}
