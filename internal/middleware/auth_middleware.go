package middleware

import (
	"net/http"
	"strings"

	"taskboard/internal/auth"

	"github.com/gin-gonic/gin"
)

const (
	// UserIDKey is the gin context key holding the authenticated user's ID.
	UserIDKey = "userID"
	// UserEmailKey is the gin context key holding the authenticated user's email.
	UserEmailKey = "userEmail"
	// AuthCookieName is the session cookie carrying the signed token.
	AuthCookieName = "auth_token"
)

// AuthMiddleware authenticates a request from the auth cookie, falling back
// to an Authorization: Bearer header for non-browser clients.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := ""
		if cookie, err := c.Cookie(AuthCookieName); err == nil && cookie != "" {
			tokenStr = cookie
		}

		if tokenStr == "" {
			header := c.GetHeader("Authorization")
			if header != "" {
				if !strings.HasPrefix(header, "Bearer ") {
					c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authorization header format must be Bearer {token}"})
					c.Abort()
					return
				}
				tokenStr = strings.TrimPrefix(header, "Bearer ")
			}
		}

		if tokenStr == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authentication required"})
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(tokenStr, jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserEmailKey, claims.Email)
		c.Next()
	}
}
