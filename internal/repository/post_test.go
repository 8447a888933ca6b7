package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"newwek/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPostRepository_Create(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := NewPostRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "posts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	post := models.NewPost("A title", "Some long enough content", "alice", time.Now())
	err := repo.Create(context.Background(), post)

	require.NoError(t, err)
	assert.Equal(t, uint(1), post.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_GetByID(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := NewPostRepository(gormDB)

	rows := sqlmock.NewRows([]string{"id", "title", "content", "author", "comments_counter"}).
		AddRow(7, "A title", "Some long enough content", "alice", 3)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts" WHERE "posts"."id" = $1`)).
		WithArgs(7, 1).
		WillReturnRows(rows)

	post, err := repo.GetByID(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, uint(7), post.ID)
	assert.Equal(t, int64(3), post.CommentsCounter)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_GetByID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := NewPostRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts"`)).
		WithArgs(99, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 99)

	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_AdjustCommentsCounter(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := NewPostRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET "comments_counter"=GREATEST(comments_counter + $1, 0) WHERE id = $2`)).
		WithArgs(int64(1), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.AdjustCommentsCounter(context.Background(), 7, 1)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_AdjustCommentsCounter_MissingPost(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := NewPostRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts"`)).
		WithArgs(int64(-1), 99).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.AdjustCommentsCounter(context.Background(), 99, -1)

	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Delete(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := NewPostRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "posts" WHERE "posts"."id" = $1`)).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), 7)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
