package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fms-backend/internal/shared/auth"
	"fms-backend/internal/shared/server/respond"
)

const (
	coachIDKey     = "coachId"
	coachEmailKey  = "coachEmail"
	coachNameKey   = "coachName"
	bearerTokenKey = "bearerToken"
)

// Auth validates the bearer JWT issued by the identity provider and stores
// the coach identity plus the raw token in context. The raw token is kept so
// upstream calls can forward the coach credential instead of the service one.
func Auth(env string) gin.HandlerFunc {
	_ = env
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		claims, err := auth.VerifyJWT(token)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		c.Set(coachIDKey, claims.Sub)
		c.Set(bearerTokenKey, token)
		if claims.Email != "" {
			c.Set(coachEmailKey, claims.Email)
		}
		if claims.Name != "" {
			c.Set(coachNameKey, claims.Name)
		}
		c.Next()
	}
}

// CoachIDFromContext fetches the coach ID set by the auth middleware.
func CoachIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(coachIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// CoachEmailFromContext fetches the coach email set by the auth middleware.
func CoachEmailFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(coachEmailKey)
	if email, ok := val.(string); ok {
		return email
	}
	return ""
}

// CoachNameFromContext fetches the coach name set by the auth middleware.
func CoachNameFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(coachNameKey)
	if name, ok := val.(string); ok {
		return name
	}
	return ""
}

// BearerTokenFromContext fetches the raw bearer token for upstream forwarding.
func BearerTokenFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(bearerTokenKey)
	if token, ok := val.(string); ok {
		return token
	}
	return ""
}
