package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"intellidocs-backend/internal/shared/auth"
)

type staticResolver struct {
	ids map[string]string
}

func (r staticResolver) ResolveSubject(ctx context.Context, email string) (string, error) {
	id, ok := r.ids[email]
	if !ok {
		return "", errors.New("unknown subject")
	}
	return id, nil
}

func newAuthRouter(t *testing.T, tokens *auth.Tokens, resolver SubjectResolver) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", Auth(tokens, resolver), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId":    UserIDFromContext(c),
			"userEmail": UserEmailFromContext(c),
		})
	})
	return r
}

func TestAuthAcceptsValidToken(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Minute)
	resolver := staticResolver{ids: map[string]string{"user@example.com": "user-1"}}
	router := newAuthRouter(t, tokens, resolver)

	raw, err := tokens.Issue("user@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAuthStopsChainOnPreflight(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Minute)
	resolver := staticResolver{ids: map[string]string{}}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	reached := false
	r.OPTIONS("/protected", Auth(tokens, resolver), func(c *gin.Context) {
		reached = true
	})

	req := httptest.NewRequest(http.MethodOptions, "/protected", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	if reached {
		t.Fatalf("preflight must not reach the protected handler")
	}
}

func TestAuthRejectsBadCredentials(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Minute)
	resolver := staticResolver{ids: map[string]string{"user@example.com": "user-1"}}
	router := newAuthRouter(t, tokens, resolver)

	otherTokens := auth.NewTokens("other-secret", time.Minute)
	forged, err := otherTokens.Issue("user@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	orphaned, err := tokens.Issue("deleted@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "wrong scheme", header: "Basic abc"},
		{name: "empty bearer", header: "Bearer "},
		{name: "garbage token", header: "Bearer not-a-jwt"},
		{name: "wrong signature", header: "Bearer " + forged},
		{name: "subject no longer exists", header: "Bearer " + orphaned},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", resp.Code)
			}
			if resp.Header().Get("WWW-Authenticate") != "Bearer" {
				t.Fatalf("expected WWW-Authenticate: Bearer header")
			}
		})
	}
}
