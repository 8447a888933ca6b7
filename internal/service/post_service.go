package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"newwek/internal/cache"
	"newwek/internal/clients"
	"newwek/internal/models"
	"newwek/internal/repository"

	"gorm.io/gorm"
)

// PostService owns the post store. Reads go through the cache-aside
// PostCache; every write evicts both the post entry and the whole list.
type PostService struct {
	postRepo repository.PostRepository
	cache    *cache.PostCache
	comments clients.Comments
	now      func() time.Time
}

type CreatePostInput struct {
	Title   string
	Content string
	Author  string
}

type UpdatePostInput struct {
	ID      uint
	Title   string
	Content string
	Author  string
}

func NewPostService(
	postRepo repository.PostRepository,
	postCache *cache.PostCache,
	comments clients.Comments,
	now func() time.Time,
) *PostService {
	if now == nil {
		now = time.Now
	}
	return &PostService{postRepo: postRepo, cache: postCache, comments: comments, now: now}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := models.ValidatePostInput(in.Title, in.Content, in.Author); err != nil {
		return nil, err
	}

	post := models.NewPost(in.Title, in.Content, in.Author, s.now())
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}

	s.cache.InvalidateOnWrite(ctx, post.ID)
	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	if post, ok := s.cache.GetPost(ctx, id); ok {
		return post, nil
	}

	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post", id)
		}
		return nil, models.NewInternalError(err)
	}

	s.cache.SetPost(ctx, post)
	return post, nil
}

// ListPosts returns every post sorted by comment count, highest first. Ties
// keep the store's order, so equal posts do not reshuffle between reads.
func (s *PostService) ListPosts(ctx context.Context) ([]models.Post, error) {
	if posts, ok := s.cache.GetPostList(ctx); ok {
		return posts, nil
	}

	posts, err := s.postRepo.List(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CommentsCounter > posts[j].CommentsCounter
	})

	s.cache.SetPostList(ctx, posts)
	return posts, nil
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post", in.ID)
		}
		return nil, models.NewInternalError(err)
	}

	if err := models.ValidatePostInput(in.Title, in.Content, in.Author); err != nil {
		return nil, err
	}

	post.ApplyUpdate(in.Title, in.Content, in.Author, s.now())
	if err := s.postRepo.Save(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}

	s.cache.InvalidateOnWrite(ctx, post.ID)
	return post, nil
}

// DeletePost removes the post, then asks the comment service to drop the
// post's comments. The cleanup is best effort: the post is already gone, so
// a failed cleanup is logged and left for operators rather than surfaced.
func (s *PostService) DeletePost(ctx context.Context, id uint) error {
	if _, err := s.postRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("post", id)
		}
		return models.NewInternalError(err)
	}

	if err := s.postRepo.Delete(ctx, id); err != nil {
		return models.NewInternalError(err)
	}
	s.cache.InvalidateOnWrite(ctx, id)

	if s.comments != nil {
		if err := s.comments.DeleteAllForPost(ctx, id); err != nil {
			slog.ErrorContext(ctx, "comment cleanup after post delete failed",
				"blog_post_id", id, "error", err)
		}
	}

	return nil
}
