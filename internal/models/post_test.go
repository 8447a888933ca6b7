package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPost_StartsWithZeroCounter(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	p := NewPost("A title", "Some long enough content", "alice", now)

	assert.Equal(t, int64(0), p.CommentsCounter)
	assert.Equal(t, now, p.CreatedTime)
	assert.Nil(t, p.ModifiedTime)
}

func TestPost_ApplyUpdate_PreservesCounterAndCreatedTime(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	p := NewPost("A title", "Some long enough content", "alice", created)
	p.CommentsCounter = 5

	updatedAt := created.Add(2 * time.Hour)
	p.ApplyUpdate("New title", "Different long enough content", "alice", updatedAt)

	assert.Equal(t, "New title", p.Title)
	assert.Equal(t, created, p.CreatedTime)
	assert.Equal(t, int64(5), p.CommentsCounter)
	require.NotNil(t, p.ModifiedTime)
	assert.Equal(t, updatedAt, *p.ModifiedTime)
}

func TestValidatePostInput(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidatePostInput("Title", "Content of ten", "alice"))

	assert.Error(t, ValidatePostInput("T", "Content of ten", "alice"))
	assert.Error(t, ValidatePostInput(strings.Repeat("t", 256), "Content of ten", "alice"))
	assert.Error(t, ValidatePostInput("Title", "short", "alice"))
	assert.Error(t, ValidatePostInput("Title", "Content of ten", "a"))
}
