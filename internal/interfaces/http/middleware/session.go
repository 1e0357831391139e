package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nepalmeatshop/backend/internal/infrastructure/config"
	"github.com/nepalmeatshop/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Session context keys
const (
	SessionIDKey = "cart_session_id"
)

// SessionMiddlewareConfig holds configuration for the cart session middleware
type SessionMiddlewareConfig struct {
	// CookieName is the name of the session cookie
	CookieName string
	// TTL is the sliding session lifetime, refreshed on every request
	TTL int
	// Domain for the session cookie (empty = current domain)
	Domain string
	// Path for the session cookie
	Path string
	// Secure flag (should be true behind HTTPS)
	Secure bool
	// SameSite policy: "strict", "lax", or "none"
	SameSite string
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultSessionConfig returns default session middleware configuration
func DefaultSessionConfig() SessionMiddlewareConfig {
	return SessionMiddlewareConfig{
		CookieName: "msid",
		TTL:        72 * 60 * 60,
		Path:       "/",
		Secure:     false,
		SameSite:   "lax",
	}
}

// SessionConfigFromApp builds session middleware configuration from app config
func SessionConfigFromApp(session config.SessionConfig, cookie config.CookieConfig) SessionMiddlewareConfig {
	cfg := DefaultSessionConfig()
	if session.CookieName != "" {
		cfg.CookieName = session.CookieName
	}
	if session.TTL > 0 {
		cfg.TTL = int(session.TTL.Seconds())
	}
	cfg.Secure = session.Secure
	if session.SameSite != "" {
		cfg.SameSite = session.SameSite
	}
	cfg.Domain = cookie.Domain
	if cookie.Path != "" {
		cfg.Path = cookie.Path
	}
	return cfg
}

// SessionMiddleware ensures every request carries a cart session cookie.
// A missing or malformed cookie gets replaced with a fresh session ID, and
// the cookie expiry slides forward on each request so active carts stay alive.
func SessionMiddleware() gin.HandlerFunc {
	return SessionMiddlewareWithConfig(DefaultSessionConfig())
}

// SessionMiddlewareWithConfig returns session middleware with custom configuration
func SessionMiddlewareWithConfig(cfg SessionMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(cfg.CookieName)
		isNew := false

		if err != nil || !validSessionID(sessionID) {
			sessionID = uuid.New().String()
			isNew = true
		}

		// Sliding expiry: reissue the cookie on every request
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     cfg.CookieName,
			Value:    sessionID,
			MaxAge:   cfg.TTL,
			Domain:   cfg.Domain,
			Path:     cfg.Path,
			Secure:   cfg.Secure,
			HttpOnly: true,
			SameSite: parseSameSite(cfg.SameSite),
		})

		// Expose the session ID to handlers and the service layer
		c.Set(SessionIDKey, sessionID)

		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, _ = logger.WithSessionID(ctx, log, sessionID)
		c.Request = c.Request.WithContext(ctx)

		if cfg.Logger != nil && isNew {
			cfg.Logger.Debug("Cart session issued",
				zap.String("session_id", sessionID),
				zap.String("path", c.Request.URL.Path),
			)
		}

		c.Next()
	}
}

// GetSessionID retrieves the cart session ID from gin.Context
func GetSessionID(c *gin.Context) string {
	if sessionID, exists := c.Get(SessionIDKey); exists {
		if id, ok := sessionID.(string); ok {
			return id
		}
	}
	return ""
}

// validSessionID reports whether the cookie value is a well-formed session ID
func validSessionID(sessionID string) bool {
	if sessionID == "" {
		return false
	}
	_, err := uuid.Parse(sessionID)
	return err == nil
}

// parseSameSite converts a config string to http.SameSite
func parseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	case "lax":
		return http.SameSiteLaxMode
	default:
		return http.SameSiteDefaultMode
	}
}
