package users

import "errors"

var (
	// ErrNotFound indicates no user matches the lookup.
	ErrNotFound = errors.New("user not found")

	// ErrEmailTaken indicates a registration attempt with an existing email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials covers both unknown email and wrong password so
	// login failures are indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")
)
