package service

import (
	"context"
	"errors"
	"log/slog"

	"newwek/internal/cache"
	"newwek/internal/middleware"
	"newwek/internal/models"
	"newwek/internal/repository"

	"gorm.io/gorm"
)

// CounterService is the only writer of the denormalized comments_counter
// column. Adjustments happen as a single atomic UPDATE in the store, so
// concurrent increments and decrements never lose updates; the column is
// clamped at zero.
type CounterService struct {
	postRepo repository.PostRepository
	cache    *cache.PostCache
}

func NewCounterService(postRepo repository.PostRepository, postCache *cache.PostCache) *CounterService {
	return &CounterService{postRepo: postRepo, cache: postCache}
}

// Increment raises the post's comment counter by one.
func (s *CounterService) Increment(ctx context.Context, blogPostID uint) (*models.Post, error) {
	return s.adjust(ctx, blogPostID, 1, "increment")
}

// Decrement lowers the post's comment counter by one, never below zero.
func (s *CounterService) Decrement(ctx context.Context, blogPostID uint) (*models.Post, error) {
	return s.adjust(ctx, blogPostID, -1, "decrement")
}

func (s *CounterService) adjust(ctx context.Context, blogPostID uint, delta int64, direction string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, blogPostID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			middleware.CounterAdjustments.WithLabelValues(direction, "not_found").Inc()
			return nil, models.NewNotFoundError("post", blogPostID)
		}
		middleware.CounterAdjustments.WithLabelValues(direction, "error").Inc()
		return nil, models.NewInternalError(err)
	}

	if delta < 0 && post.CommentsCounter == 0 {
		// The store clamps at zero; a decrement below zero means the counter
		// already drifted from the comment rows.
		slog.WarnContext(ctx, "comments counter decrement clamped at zero",
			"blog_post_id", blogPostID)
	}

	if err := s.postRepo.AdjustCommentsCounter(ctx, blogPostID, delta); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			middleware.CounterAdjustments.WithLabelValues(direction, "not_found").Inc()
			return nil, models.NewNotFoundError("post", blogPostID)
		}
		middleware.CounterAdjustments.WithLabelValues(direction, "error").Inc()
		return nil, models.NewInternalError(err)
	}
	middleware.CounterAdjustments.WithLabelValues(direction, "success").Inc()

	post.CommentsCounter += delta
	if post.CommentsCounter < 0 {
		post.CommentsCounter = 0
	}

	// A counter change stales both the post entry and the sorted list.
	s.cache.InvalidateOnWrite(ctx, blogPostID)

	return post, nil
}
