package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"intellidocs-backend/internal/shared/auth"
)

// minPasswordLength bounds accepted registration passwords.
const minPasswordLength = 8

// Service contains business logic for accounts and login.
type Service struct {
	Repo   Repo
	Tokens *auth.Tokens
}

func NewService(repo Repo, tokens *auth.Tokens) *Service {
	return &Service{Repo: repo, Tokens: tokens}
}

// Register creates a new account with a hashed password. Emails are stored
// trimmed; uniqueness is case-insensitive.
func (s *Service) Register(ctx context.Context, email, password string) (User, error) {
	email = strings.TrimSpace(email)
	if !validEmail(email) {
		return User{}, fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return User{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return User{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Login verifies credentials and issues a bearer token bound to the email.
// Unknown email and wrong password collapse to the same error.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.Repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !auth.VerifyPassword(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}
	return s.Tokens.Issue(user.Email)
}

// ResolveSubject maps a verified token subject to the stored user's ID.
// Used by the auth middleware; a subject with no account is Unauthorized.
func (s *Service) ResolveSubject(ctx context.Context, email string) (string, error) {
	user, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}
