package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biosecret/go-todo/models"
)

func setupUsersMock(t *testing.T) (*Users, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewUsers(db), mock
}

var insertUserQuery = regexp.QuoteMeta(`INSERT INTO users (id, username, email, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)`)

func TestUsersCreate_Success(t *testing.T) {
	users, mock := setupUsersMock(t)
	now := time.Now().UTC()

	mock.ExpectExec(insertUserQuery).
		WithArgs("u-1", "alice", "alice@example.com", "$2a$10$hash", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := users.Create(context.Background(), models.User{
		ID: "u-1", Username: "alice", Email: "alice@example.com", PasswordHash: "$2a$10$hash", CreatedAt: now,
	})
	assert.NoError(t, err)
}

func TestUsersCreate_Conflict(t *testing.T) {
	users, mock := setupUsersMock(t)

	mock.ExpectExec(insertUserQuery).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err := users.Create(context.Background(), models.User{ID: "u-1", Username: "alice", Email: "alice@example.com"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUsersCreate_Error(t *testing.T) {
	users, mock := setupUsersMock(t)

	mock.ExpectExec(insertUserQuery).WillReturnError(errors.New("insert failed"))

	err := users.Create(context.Background(), models.User{ID: "u-1"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "insert failed")
}

var selectUserQuery = regexp.QuoteMeta(`SELECT id, username, email, password_hash, created_at FROM users WHERE email = $1`)

func TestUsersGetByEmail_Found(t *testing.T) {
	users, mock := setupUsersMock(t)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(selectUserQuery).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at"}).
			AddRow("u-1", "alice", "alice@example.com", "$2a$10$hash", created))

	user, err := users.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.User{
		ID: "u-1", Username: "alice", Email: "alice@example.com", PasswordHash: "$2a$10$hash", CreatedAt: created,
	}, user)
}

func TestUsersGetByEmail_NotFound(t *testing.T) {
	users, mock := setupUsersMock(t)

	mock.ExpectQuery(selectUserQuery).
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at"}))

	_, err := users.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUsersGetByEmail_Error(t *testing.T) {
	users, mock := setupUsersMock(t)

	mock.ExpectQuery(selectUserQuery).WillReturnError(errors.New("query failed"))

	_, err := users.GetByEmail(context.Background(), "alice@example.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
