package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"newwek/internal/models"
	"newwek/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// MockCommentRepository is a mock of the repository.CommentRepository
// interface.
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) List(ctx context.Context) ([]models.Comment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCommentRepository) DeleteAllByPost(ctx context.Context, postID uint) (int64, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).(int64), args.Error(1)
}

// MockCounterClient is a mock of the clients.Counter interface.
type MockCounterClient struct {
	mock.Mock
}

func (m *MockCounterClient) Increment(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCounterClient) Decrement(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newCommentTestApp(repo *MockCommentRepository, counter *MockCounterClient) *fiber.App {
	s := &CommentServer{
		commentService: service.NewCommentService(repo, counter, nil),
	}

	app := fiber.New()
	comments := app.Group("/api/comments")
	comments.Get("/post/:postId", s.ListCommentsForPost)
	comments.Delete("/post/:postId", s.DeleteCommentsForPost)
	comments.Get("/", s.ListComments)
	comments.Get("/:id", s.GetComment)
	comments.Post("/", s.CreateComment)
	comments.Put("/:id", s.UpdateComment)
	comments.Delete("/:id", s.DeleteComment)
	return app
}

func TestCreateCommentHandler(t *testing.T) {
	repo := new(MockCommentRepository)
	counter := new(MockCounterClient)
	app := newCommentTestApp(repo, counter)

	counter.On("Increment", mock.Anything, uint(7)).Return(nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Comment")).Return(nil)

	req := jsonRequest(http.MethodPost, "/api/comments/", map[string]any{
		"blogPostId": 7,
		"content":    "first!",
	})
	req.Header.Set("X-Username", "alice")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var comment models.Comment
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&comment))
	assert.Equal(t, "alice", comment.Username)
	assert.Equal(t, uint(7), comment.BlogPostID)
	counter.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestCreateCommentHandler_MissingUsername(t *testing.T) {
	repo := new(MockCommentRepository)
	counter := new(MockCounterClient)
	app := newCommentTestApp(repo, counter)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/comments/", map[string]any{
		"blogPostId": 7,
		"content":    "first!",
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	counter.AssertNotCalled(t, "Increment", mock.Anything, mock.Anything)
}

func TestCreateCommentHandler_MissingPost(t *testing.T) {
	repo := new(MockCommentRepository)
	counter := new(MockCounterClient)
	app := newCommentTestApp(repo, counter)

	counter.On("Increment", mock.Anything, uint(99)).
		Return(models.NewNotFoundError("post", 99))

	req := jsonRequest(http.MethodPost, "/api/comments/", map[string]any{
		"blogPostId": 99,
		"content":    "hello",
	})
	req.Header.Set("X-Username", "alice")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateCommentHandler_Forbidden(t *testing.T) {
	repo := new(MockCommentRepository)
	counter := new(MockCounterClient)
	app := newCommentTestApp(repo, counter)

	stale := models.NewComment(7, "alice", "original", time.Now().Add(-2*time.Hour))
	stale.ID = 1
	repo.On("GetByID", mock.Anything, uint(1)).Return(stale, nil)

	req := jsonRequest(http.MethodPut, "/api/comments/1", map[string]string{
		"content": "edited",
	})
	req.Header.Set("X-Username", "alice")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateCommentHandler(t *testing.T) {
	repo := new(MockCommentRepository)
	counter := new(MockCounterClient)
	app := newCommentTestApp(repo, counter)

	fresh := models.NewComment(7, "alice", "original", time.Now())
	fresh.ID = 1
	repo.On("GetByID", mock.Anything, uint(1)).Return(fresh, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*models.Comment")).Return(nil)

	req := jsonRequest(http.MethodPut, "/api/comments/1", map[string]string{
		"content": "edited",
	})
	req.Header.Set("X-Username", "alice")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var comment models.Comment
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&comment))
	assert.Equal(t, "edited", comment.Content)
	counter.AssertNotCalled(t, "Increment", mock.Anything, mock.Anything)
}

func TestDeleteCommentHandler(t *testing.T) {
	repo := new(MockCommentRepository)
	counter := new(MockCounterClient)
	app := newCommentTestApp(repo, counter)

	repo.On("GetByID", mock.Anything, uint(1)).
		Return(&models.Comment{ID: 1, BlogPostID: 7, Username: "alice"}, nil)
	counter.On("Decrement", mock.Anything, uint(7)).Return(nil)
	repo.On("Delete", mock.Anything, uint(1)).Return(nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/comments/1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	counter.AssertExpectations(t)
}

func TestDeleteCommentHandler_NotFound(t *testing.T) {
	repo := new(MockCommentRepository)
	counter := new(MockCounterClient)
	app := newCommentTestApp(repo, counter)

	repo.On("GetByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/comments/99", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestListCommentsForPostHandler(t *testing.T) {
	repo := new(MockCommentRepository)
	counter := new(MockCounterClient)
	app := newCommentTestApp(repo, counter)

	repo.On("ListByPost", mock.Anything, uint(7)).Return([]models.Comment{
		{ID: 1, BlogPostID: 7, Username: "alice"},
		{ID: 2, BlogPostID: 7, Username: "bob"},
	}, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/comments/post/7", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var comments []models.Comment
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&comments))
	require.Len(t, comments, 2)
	assert.Equal(t, "alice", comments[0].Username)
}

func TestDeleteCommentsForPostHandler(t *testing.T) {
	repo := new(MockCommentRepository)
	counter := new(MockCounterClient)
	app := newCommentTestApp(repo, counter)

	repo.On("DeleteAllByPost", mock.Anything, uint(7)).Return(int64(3), nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/comments/post/7", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	counter.AssertNotCalled(t, "Decrement", mock.Anything, mock.Anything)
}

func TestDeleteCommentsForPostHandler_NoneExist(t *testing.T) {
	repo := new(MockCommentRepository)
	counter := new(MockCounterClient)
	app := newCommentTestApp(repo, counter)

	repo.On("DeleteAllByPost", mock.Anything, uint(99)).Return(int64(0), nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/comments/post/99", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
