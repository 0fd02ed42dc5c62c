package users

import "time"

// User is a registered account. PasswordHash is never serialized to clients.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
