package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/invoiceau-api/internal/presentation/http/dto/response"
	"github.com/sangkips/invoiceau-api/pkg/utils"
)

// bearerToken extracts the token from "Bearer <token>"
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	return parts[1], true
}

// authenticate sets the user from a bearer token, or else from the browser
// session. It reports whether a user was found.
func authenticate(c *gin.Context, jwtManager *utils.JWTManager) bool {
	if token, ok := bearerToken(c); ok {
		claims, err := jwtManager.ValidateAccessToken(token)
		if err != nil {
			return false
		}
		c.Set(UserIDKey, claims.UserID)
		c.Set(UserEmailKey, claims.Email)
		return true
	}

	if userID, ok := SessionUserID(c); ok {
		c.Set(UserIDKey, userID)
		return true
	}
	return false
}

// AuthMiddleware requires a valid bearer token or a signed in session
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, jwtManager) {
			if _, hasToken := bearerToken(c); hasToken {
				response.Unauthorized(c, "Invalid or expired token")
			} else {
				response.Unauthorized(c, "Authentication required")
			}
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuthMiddleware identifies the user when possible but lets anonymous
// clients through
func OptionalAuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticate(c, jwtManager)
		c.Next()
	}
}
