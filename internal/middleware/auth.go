package middleware

import (
	"net/http"
	"strings"

	"techsat/config"
	"techsat/internal/auth"

	"github.com/gin-gonic/gin"
)

const (
	sessionIDKey     = "session_id"
	adminUsernameKey = "admin_username"
)

// AdminRequired validates the admin JWT and sets session_id and admin_username in context.
func AdminRequired(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		claims, err := auth.ParseAdminToken(cfg, parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set(sessionIDKey, claims.SessionID)
		c.Set(adminUsernameKey, claims.Username)
		c.Next()
	}
}

// GetSessionID returns the admin session id from context (must be used after AdminRequired).
func GetSessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}

func GetAdminUsername(c *gin.Context) string {
	return c.GetString(adminUsernameKey)
}
