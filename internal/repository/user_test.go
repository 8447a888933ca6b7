package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_GetByUsername(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := NewUserRepository(gormDB)

	rows := sqlmock.NewRows([]string{"id", "username", "email", "password"}).
		AddRow(1, "alice", "alice@example.com", "$2a$10$hash")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE username = $1`)).
		WithArgs("alice", 1).
		WillReturnRows(rows)

	user, err := repo.GetByUsername(context.Background(), "alice")

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "alice", user.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByUsername_Absent(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := NewUserRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).
		WithArgs("ghost", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	user, err := repo.GetByUsername(context.Background(), "ghost")

	require.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}
