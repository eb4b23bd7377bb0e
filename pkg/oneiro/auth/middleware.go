package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oneiro-app/oneiro/pkg/oneiro/apperr"
	"github.com/oneiro-app/oneiro/pkg/oneiro/respond"
)

const (
	// ContextKeyUserID is the key for user ID in gin context
	ContextKeyUserID = "user_id"
	// ContextKeyEmail is the key for email in gin context
	ContextKeyEmail = "email"
)

// AuthMiddleware validates JWT bearer tokens and sets user info in context.
// Every resolution failure collapses into the same unauthenticated response;
// callers never learn whether a session was missing, malformed or expired.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthenticated(c)
			return
		}

		// Expect "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortUnauthenticated(c)
			return
		}

		claims, err := ValidateToken(parts[1])
		if err != nil {
			abortUnauthenticated(c)
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyEmail, claims.Email)

		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context) {
	respond.Fail(c, apperr.ErrUnauthenticated, "not authenticated")
	c.Abort()
}

// GetUserID returns the user ID from the gin context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return userID.(uint), true
}

// GetEmail returns the email from the gin context
func GetEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(ContextKeyEmail)
	if !exists {
		return "", false
	}
	return email.(string), true
}
