package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"intellidocs-backend/internal/shared/auth"
	"intellidocs-backend/internal/shared/server/respond"
)

const (
	userIDKey    = "userId"
	userEmailKey = "userEmail"
)

// SubjectResolver maps a verified token subject (email) to a stored user id.
// A subject that no longer exists must resolve to an error.
type SubjectResolver interface {
	ResolveSubject(ctx context.Context, email string) (string, error)
}

// Auth validates bearer tokens, resolves the subject to a stored user, and
// places the identity in the request context. Every failure collapses to the
// same 401 so callers learn nothing about which check failed.
func Auth(tokens *auth.Tokens, resolver SubjectResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			unauthorized(c)
			return
		}
		raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
		if raw == "" {
			unauthorized(c)
			return
		}

		email, err := tokens.Resolve(raw)
		if err != nil {
			unauthorized(c)
			return
		}

		userID, err := resolver.ResolveSubject(c.Request.Context(), email)
		if err != nil {
			unauthorized(c)
			return
		}

		c.Set(userIDKey, userID)
		c.Set(userEmailKey, email)
		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// UserEmailFromContext fetches the user email set by the auth middleware.
func UserEmailFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userEmailKey)
	if email, ok := val.(string); ok {
		return email
	}
	return ""
}
