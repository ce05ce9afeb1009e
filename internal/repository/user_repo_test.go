package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crowdsight/internal/model"
)

func TestUserRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)
	now := time.Now()

	user := &model.User{Name: "Jane", Email: " Jane@Example.com", PasswordHash: "hash", Role: model.RoleUser}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (name, email, password_hash, role)")).
		WithArgs("Jane", "jane@example.com", "hash", model.RoleUser).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(5), now))

	require.NoError(t, repo.Create(context.Background(), user))
	assert.Equal(t, int64(5), user.ID)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("Jane", "jane@example.com", "hash", model.RoleUser).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"})

	err := repo.Create(context.Background(), &model.User{Name: "Jane", Email: "jane@example.com", PasswordHash: "hash", Role: model.RoleUser})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUserRepository_FindByEmail(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("jane@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "created_at"}).
			AddRow(int64(5), "Jane", "jane@example.com", "hash", model.RoleAdmin, now))

	user, err := repo.FindByEmail(context.Background(), "JANE@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, int64(5), user.ID)
	assert.Equal(t, model.RoleAdmin, user.Role)
	assert.Equal(t, "hash", user.PasswordHash)
}

func TestUserRepository_FindByID_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs(int64(77)).
		WillReturnError(pgx.ErrNoRows)

	user, err := repo.FindByID(context.Background(), 77)
	assert.NoError(t, err)
	assert.Nil(t, user)
}
