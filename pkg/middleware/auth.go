package middleware

import (
	"net/http"
	"strings"

	"creator-market/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// Context keys populated by AuthMiddleware.
const (
	ContextUserID   = "user_id"
	ContextEmail    = "email"
	ContextTokenID  = "token_id"
	ContextTokenExp = "token_exp"
	bearerPrefix    = "Bearer "
)

// AuthMiddleware resolves the session identity from the bearer token. The
// identity is never taken from request payloads. denylist may be nil.
func AuthMiddleware(jwtService *jwt.Service, denylist *jwt.Denylist) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, bearerPrefix) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format"})
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimPrefix(authHeader, bearerPrefix))
		if err != nil || claims.UserID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		if denylist != nil && claims.ID != "" {
			revoked, err := denylist.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Session check failed"})
				c.Abort()
				return
			}
			if revoked {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Session has been signed out"})
				c.Abort()
				return
			}
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextTokenID, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(ContextTokenExp, claims.ExpiresAt.Time)
		}
		c.Next()
	}
}
