package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestPGRepoCreateMapsUniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	user := User{
		ID:           "11111111-1111-1111-1111-111111111111",
		Email:        "dup@example.com",
		PasswordHash: "$argon2id$...",
		CreatedAt:    time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO users").
		WithArgs(user.ID, user.Email, user.PasswordHash, user.CreatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	repo := NewPGRepo(db)
	if err := repo.Create(context.Background(), user); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestPGRepoGetByEmailMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at"}))

	repo := NewPGRepo(db)
	if _, err := repo.GetByEmail(context.Background(), "ghost@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoGetByEmailReturnsUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("known@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).
			AddRow("11111111-1111-1111-1111-111111111111", "known@example.com", "hash", now))

	repo := NewPGRepo(db)
	user, err := repo.GetByEmail(context.Background(), "known@example.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if user.Email != "known@example.com" || user.PasswordHash != "hash" {
		t.Fatalf("unexpected user: %+v", user)
	}
}
