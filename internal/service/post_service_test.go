package service

import (
	"context"
	"testing"
	"time"

	"newwek/internal/cache"
	"newwek/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn  func(context.Context, *models.Post) error
	getByIDFn func(context.Context, uint) (*models.Post, error)
	listFn    func(context.Context) ([]models.Post, error)
	saveFn    func(context.Context, *models.Post) error
	deleteFn  func(context.Context, uint) error
	adjustFn  func(context.Context, uint, int64) error
}

func (s *postRepoStub) Create(ctx context.Context, p *models.Post) error { return s.createFn(ctx, p) }
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context) ([]models.Post, error) { return s.listFn(ctx) }
func (s *postRepoStub) Save(ctx context.Context, p *models.Post) error  { return s.saveFn(ctx, p) }
func (s *postRepoStub) Delete(ctx context.Context, id uint) error       { return s.deleteFn(ctx, id) }
func (s *postRepoStub) AdjustCommentsCounter(ctx context.Context, id uint, delta int64) error {
	return s.adjustFn(ctx, id, delta)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, _ uint) (*models.Post, error) { return &models.Post{}, nil },
		listFn:    func(_ context.Context) ([]models.Post, error) { return nil, nil },
		saveFn:    func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:  func(_ context.Context, _ uint) error { return nil },
		adjustFn:  func(_ context.Context, _ uint, _ int64) error { return nil },
	}
}

// commentsStub is a stub for clients.Comments.
type commentsStub struct {
	deleteAllForPostFn func(context.Context, uint) error
	calls              int
}

func (s *commentsStub) DeleteAllForPost(ctx context.Context, id uint) error {
	s.calls++
	if s.deleteAllForPostFn != nil {
		return s.deleteAllForPostFn(ctx, id)
	}
	return nil
}

func noCache() *cache.PostCache {
	return cache.NewPostCache(nil, time.Minute, time.Minute)
}

func liveCache(t *testing.T) *cache.PostCache {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return cache.NewPostCache(rdb, time.Minute, time.Minute)
}

func TestPostService_CreatePost(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	repo := noopPostRepo()
	repo.createFn = func(_ context.Context, p *models.Post) error {
		p.ID = 5
		return nil
	}

	svc := NewPostService(repo, noCache(), nil, fixedNow(now))
	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		Title: "A title", Content: "Some long enough content", Author: "alice",
	})

	require.NoError(t, err)
	assert.Equal(t, uint(5), post.ID)
	assert.Equal(t, now, post.CreatedTime)
	assert.Zero(t, post.CommentsCounter)
}

func TestPostService_CreatePost_Validation(t *testing.T) {
	t.Parallel()

	svc := NewPostService(noopPostRepo(), noCache(), nil, nil)

	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		Title: "T", Content: "Some long enough content", Author: "alice",
	})
	assertAppErrorCode(t, err, models.ErrCodeValidation)

	_, err = svc.CreatePost(context.Background(), CreatePostInput{
		Title: "A title", Content: "short", Author: "alice",
	})
	assertAppErrorCode(t, err, models.ErrCodeValidation)
}

func TestPostService_GetPost_Missing(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
		return nil, gorm.ErrRecordNotFound
	}

	svc := NewPostService(repo, noCache(), nil, nil)
	_, err := svc.GetPost(context.Background(), 99)

	assertAppErrorCode(t, err, models.ErrCodeNotFound)
}

func TestPostService_ListPosts_SortedByCommentCount(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	repo.listFn = func(_ context.Context) ([]models.Post, error) {
		return []models.Post{
			{ID: 1, CommentsCounter: 2},
			{ID: 2, CommentsCounter: 9},
			{ID: 3, CommentsCounter: 2},
			{ID: 4, CommentsCounter: 0},
		}, nil
	}

	svc := NewPostService(repo, noCache(), nil, nil)
	posts, err := svc.ListPosts(context.Background())

	require.NoError(t, err)
	require.Len(t, posts, 4)
	assert.Equal(t, uint(2), posts[0].ID)
	// Ties keep the store's order.
	assert.Equal(t, uint(1), posts[1].ID)
	assert.Equal(t, uint(3), posts[2].ID)
	assert.Equal(t, uint(4), posts[3].ID)
}

func TestPostService_ListPosts_SecondReadServedFromCache(t *testing.T) {
	repo := noopPostRepo()
	listCalls := 0
	repo.listFn = func(_ context.Context) ([]models.Post, error) {
		listCalls++
		return []models.Post{{ID: 1, CommentsCounter: 1}}, nil
	}

	svc := NewPostService(repo, liveCache(t), nil, nil)
	ctx := context.Background()

	_, err := svc.ListPosts(ctx)
	require.NoError(t, err)
	_, err = svc.ListPosts(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, listCalls, "second list must come from the cache")
}

func TestPostService_UpdatePost_PreservesCounter(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		p := models.NewPost("Old title", "Old long enough content", "alice", created)
		p.ID = id
		p.CommentsCounter = 4
		return p, nil
	}

	svc := NewPostService(repo, noCache(), nil, fixedNow(created.Add(time.Hour)))
	post, err := svc.UpdatePost(context.Background(), UpdatePostInput{
		ID: 5, Title: "New title", Content: "New long enough content", Author: "alice",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(4), post.CommentsCounter)
	assert.Equal(t, created, post.CreatedTime)
	require.NotNil(t, post.ModifiedTime)
}

func TestPostService_DeletePost_TriggersOneCommentCleanup(t *testing.T) {
	t.Parallel()

	comments := &commentsStub{}
	svc := NewPostService(noopPostRepo(), noCache(), comments, nil)

	require.NoError(t, svc.DeletePost(context.Background(), 7))
	assert.Equal(t, 1, comments.calls)
}

func TestPostService_DeletePost_SucceedsDespiteCleanupFailure(t *testing.T) {
	t.Parallel()

	comments := &commentsStub{
		deleteAllForPostFn: func(_ context.Context, _ uint) error {
			return models.NewRemoteCallError("comment service unreachable", nil)
		},
	}
	svc := NewPostService(noopPostRepo(), noCache(), comments, nil)

	assert.NoError(t, svc.DeletePost(context.Background(), 7))
}

func TestPostService_DeletePost_Missing(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
		return nil, gorm.ErrRecordNotFound
	}
	comments := &commentsStub{}

	svc := NewPostService(repo, noCache(), comments, nil)
	err := svc.DeletePost(context.Background(), 99)

	assertAppErrorCode(t, err, models.ErrCodeNotFound)
	assert.Zero(t, comments.calls)
}
