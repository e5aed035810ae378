package middleware

import (
	"github.com/antsoup/auth-backend/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// userIDKey is the key used to store the authenticated user's ID in the context.
const userIDKey = contextKey("userID")

// currentUserKey holds the resolved user record for the request.
const currentUserKey = contextKey("currentUser")

// sessionTokenKey holds the raw bearer token; logout needs it for revocation.
const sessionTokenKey = contextKey("sessionToken")

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		// check in the request context as well
		userIDVal := c.Request.Context().Value(userIDKey)
		if userIDVal != nil {
			return userIDVal.(string), true
		}
		return "", false
	}

	userID, ok := userIDVal.(string)
	if !ok {
		return "", false
	}
	return userID, true
}

// GetCurrentUserFromContext retrieves the resolved user set by the auth
// middleware. The returned user never carries a password hash.
func GetCurrentUserFromContext(c *gin.Context) (*domain.User, bool) {
	userVal, exists := c.Get(string(currentUserKey))
	if !exists {
		return nil, false
	}
	user, ok := userVal.(*domain.User)
	if !ok {
		return nil, false
	}
	return user, true
}

// GetSessionTokenFromContext retrieves the raw bearer token for this request.
func GetSessionTokenFromContext(c *gin.Context) (string, bool) {
	tokenVal, exists := c.Get(string(sessionTokenKey))
	if !exists {
		return "", false
	}
	token, ok := tokenVal.(string)
	if !ok {
		return "", false
	}
	return token, true
}
