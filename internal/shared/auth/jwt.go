package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that fails verification:
// malformed, mis-signed, expired, or missing the subject claim. Callers
// get no detail about which check failed.
var ErrInvalidToken = errors.New("invalid token")

const defaultTTL = 30 * time.Minute

// Tokens issues and resolves signed bearer tokens bound to a subject.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

// NewTokens constructs a token service. An empty secret falls back to a
// dev-only value; production deployments must set JWT_SECRET.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	s := strings.TrimSpace(secret)
	if s == "" {
		s = "dev-secret"
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Tokens{secret: []byte(s), ttl: ttl}
}

// Issue signs an HS256 token carrying the subject and a bounded expiry.
func (t *Tokens) Issue(subject string) (string, error) {
	if strings.TrimSpace(subject) == "" {
		return "", errors.New("subject is required")
	}
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Resolve verifies signature and expiry and returns the subject claim.
func (t *Tokens) Resolve(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
