package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndResolve(t *testing.T) {
	tokens := NewTokens("test-secret", 30*time.Minute)

	raw, err := tokens.Issue("a@x.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	subject, err := tokens.Resolve(raw)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if subject != "a@x.com" {
		t.Fatalf("expected subject a@x.com, got %q", subject)
	}
}

func TestResolveExpiredToken(t *testing.T) {
	tokens := NewTokens("test-secret", 30*time.Minute)

	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   "a@x.com",
		IssuedAt:  jwt.NewNumericDate(now.Add(-time.Hour)),
		ExpiresAt: jwt.NewNumericDate(now.Add(-30 * time.Minute)),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tokens.secret)
	if err != nil {
		t.Fatalf("sign expired token: %v", err)
	}

	if _, err := tokens.Resolve(raw); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestResolveRejectsWrongSecret(t *testing.T) {
	issuer := NewTokens("secret-a", 30*time.Minute)
	verifier := NewTokens("secret-b", 30*time.Minute)

	raw, err := issuer.Issue("a@x.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := verifier.Resolve(raw); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for mis-signed token, got %v", err)
	}
}

func TestResolveRejectsMissingSubject(t *testing.T) {
	tokens := NewTokens("test-secret", 30*time.Minute)

	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(30 * time.Minute)),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tokens.secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := tokens.Resolve(raw); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for missing subject, got %v", err)
	}
}

func TestResolveRejectsMalformed(t *testing.T) {
	tokens := NewTokens("test-secret", 30*time.Minute)
	for _, raw := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		if _, err := tokens.Resolve(raw); err != ErrInvalidToken {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", raw, err)
		}
	}
}
