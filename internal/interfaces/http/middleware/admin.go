package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nepalmeatshop/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AdminConfig holds configuration for the admin gate middleware
type AdminConfig struct {
	// Logger for middleware logging
	Logger *zap.Logger
	// OnDenied is called when access is denied (optional)
	OnDenied func(c *gin.Context)
}

// RequireAdmin creates middleware that only lets admin users through.
// It must run after JWT authentication so claims are present in the context.
func RequireAdmin() gin.HandlerFunc {
	return RequireAdminWithConfig(AdminConfig{})
}

// RequireAdminWithConfig creates the admin gate with custom config
func RequireAdminWithConfig(cfg AdminConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			handleAdminDenied(c, cfg, "No authentication claims found")
			return
		}

		if !claims.IsAdmin {
			handleAdminDenied(c, cfg, "User is not an admin")
			return
		}

		if cfg.Logger != nil {
			cfg.Logger.Debug("Admin check passed",
				zap.String("user_id", claims.UserID),
				zap.String("username", claims.Username),
			)
		}

		c.Next()
	}
}

// handleAdminDenied handles admin access denied scenarios
func handleAdminDenied(c *gin.Context, cfg AdminConfig, reason string) {
	if cfg.OnDenied != nil {
		cfg.OnDenied(c)
		return
	}

	if cfg.Logger != nil {
		claims := GetJWTClaims(c)
		userID := ""
		if claims != nil {
			userID = claims.UserID
		}

		cfg.Logger.Warn("Admin access denied",
			zap.String("reason", reason),
			zap.String("user_id", userID),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
	}

	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "ERR_FORBIDDEN",
			"message": "Access denied: admin role required",
		},
	})
}

// IsAdmin is a helper function to check the admin role in handlers
func IsAdmin(c *gin.Context) bool {
	claims := GetJWTClaims(c)
	if claims == nil {
		return false
	}
	return claims.IsAdmin
}

// MustBeAdmin aborts the request if the user is not an admin.
// Returns true if the user is an admin, false if aborted.
func MustBeAdmin(c *gin.Context) bool {
	if !IsAdmin(c) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ERR_FORBIDDEN",
				"message": "Access denied: admin role required",
			},
		})
		return false
	}
	return true
}

// CheckAccessFunc is a function type for custom access checking
type CheckAccessFunc func(claims *auth.Claims, c *gin.Context) bool

// RequireAccess creates middleware with a custom access check function.
// This allows gating that cannot be expressed with the admin flag alone.
func RequireAccess(checkFunc CheckAccessFunc) gin.HandlerFunc {
	return RequireAccessWithConfig(checkFunc, AdminConfig{})
}

// RequireAccessWithConfig creates custom access middleware with config
func RequireAccessWithConfig(checkFunc CheckAccessFunc, cfg AdminConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			handleAdminDenied(c, cfg, "No authentication claims found")
			return
		}

		if !checkFunc(claims, c) {
			handleAdminDenied(c, cfg, "Custom access check failed")
			return
		}

		c.Next()
	}
}
