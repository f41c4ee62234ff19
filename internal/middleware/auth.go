package middleware

import (
	"slices"
	"strings"

	"dentalcare-backend/pkg/apperror"
	"dentalcare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	CtxUserID = "userID"
	CtxRole   = "role"
)

// AuthMiddleware requires a valid "Bearer <jwt>" Authorization header.
func AuthMiddleware(tokens *utils.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Read the Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Error(apperror.Unauthorized("Authentication required"))
			c.Abort()
			return
		}

		// 2. Expect "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.Error(apperror.Unauthorized("Malformed authorization header"))
			c.Abort()
			return
		}

		// 3. Verify signature and expiry
		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			c.Error(apperror.Unauthorized("Invalid or expired token"))
			c.Abort()
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// OptionalAuth records the caller's identity when a valid bearer token is
// present and lets every request through either way.
func OptionalAuth(tokens *utils.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		parts := strings.Fields(c.GetHeader("Authorization"))
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			if claims, err := tokens.ValidateToken(parts[1]); err == nil {
				c.Set(CtxUserID, claims.UserID)
				c.Set(CtxRole, claims.Role)
			}
		}
		c.Next()
	}
}

// RequireRole lets through only users whose role is one of roles. It must run
// after AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(CtxRole)
		if role == "" || !slices.Contains(roles, role) {
			c.Error(apperror.Forbidden("Access denied: requires role " + strings.Join(roles, " or ")))
			c.Abort()
			return
		}
		c.Next()
	}
}
