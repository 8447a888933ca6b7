package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"newwek/internal/clients"
	"newwek/internal/middleware"
	"newwek/internal/models"
	"newwek/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentService owns the comment store and coordinates the cross-service
// comment write. A create is a two-step saga: the post's counter is raised
// on the blog service first, then the comment row is inserted locally. A
// failed insert issues a compensating decrement; a failed compensation is
// logged with an operation id and accepted as counter drift.
type CommentService struct {
	commentRepo repository.CommentRepository
	counter     clients.Counter
	now         func() time.Time
}

type CreateCommentInput struct {
	BlogPostID uint
	Username   string
	Content    string
}

type UpdateCommentInput struct {
	CommentID uint
	Username  string
	Content   string
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	counter clients.Counter,
	now func() time.Time,
) *CommentService {
	if now == nil {
		now = time.Now
	}
	return &CommentService{commentRepo: commentRepo, counter: counter, now: now}
}

// CreateComment runs the comment-write saga. The counter increment doubles
// as the existence check: a missing post surfaces as NotFound before any
// local write happens.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.BlogPostID == 0 {
		return nil, models.NewValidationError("Blog post ID is required")
	}
	if in.Username == "" {
		return nil, models.NewValidationError("Username is required")
	}
	if err := models.ValidateCommentContent(in.Content); err != nil {
		return nil, err
	}

	if err := s.counter.Increment(ctx, in.BlogPostID); err != nil {
		return nil, err
	}

	comment := models.NewComment(in.BlogPostID, in.Username, in.Content, s.now())
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		s.compensate(ctx, in.BlogPostID, err)
		return nil, models.NewSaveError("comment could not be saved", err)
	}

	return comment, nil
}

// compensate undoes the increment after a failed insert. It runs even when
// the request context is already dead; losing the compensation would leave
// the counter permanently high.
func (s *CommentService) compensate(ctx context.Context, blogPostID uint, cause error) {
	opID := uuid.NewString()
	slog.ErrorContext(ctx, "comment insert failed after counter increment, compensating",
		"operation_id", opID, "blog_post_id", blogPostID, "error", cause)

	if err := s.counter.Decrement(context.WithoutCancel(ctx), blogPostID); err != nil {
		middleware.CounterCompensations.WithLabelValues("failed").Inc()
		slog.ErrorContext(ctx, "compensating decrement failed, counter has drifted",
			"operation_id", opID, "blog_post_id", blogPostID, "error", err)
		return
	}
	middleware.CounterCompensations.WithLabelValues("success").Inc()
}

func (s *CommentService) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return comment, nil
}

func (s *CommentService) ListComments(ctx context.Context) ([]models.Comment, error) {
	comments, err := s.commentRepo.List(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (s *CommentService) ListCommentsByPost(ctx context.Context, blogPostID uint) ([]models.Comment, error) {
	comments, err := s.commentRepo.ListByPost(ctx, blogPostID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

// UpdateComment edits a comment's content. Edits never touch the counter
// and never move the edit window.
func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("comment", in.CommentID)
		}
		return nil, models.NewInternalError(err)
	}

	now := s.now()
	if !comment.CanEdit(in.Username, now) {
		// The caller only sees Forbidden; the reason stays in the logs.
		if comment.Username != in.Username {
			slog.WarnContext(ctx, "comment edit rejected, requester is not the author",
				"comment_id", comment.ID, "requester", in.Username)
		} else {
			slog.WarnContext(ctx, "comment edit rejected, edit window expired",
				"comment_id", comment.ID, "enable_to_update_till", comment.EnableToUpdateTill)
		}
		return nil, models.NewForbiddenError("This comment can no longer be edited")
	}

	if err := models.ValidateCommentContent(in.Content); err != nil {
		return nil, err
	}

	comment.ApplyEdit(in.Content, now)
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, models.NewInternalError(err)
	}

	return comment, nil
}

// DeleteComment lowers the post's counter and removes the row. The local
// delete always proceeds: a failed decrement is logged as drift, never a
// reason to keep the comment.
func (s *CommentService) DeleteComment(ctx context.Context, id uint) error {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("comment", id)
		}
		return models.NewInternalError(err)
	}

	if err := s.counter.Decrement(ctx, comment.BlogPostID); err != nil {
		slog.ErrorContext(ctx, "counter decrement failed during comment delete, counter has drifted",
			"comment_id", id, "blog_post_id", comment.BlogPostID, "error", err)
	}

	if err := s.commentRepo.Delete(ctx, id); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// DeleteAllForPost bulk-removes a post's comments without touching the
// counter: it only runs as part of a post deletion, when the counter row is
// already gone.
func (s *CommentService) DeleteAllForPost(ctx context.Context, blogPostID uint) (int64, error) {
	deleted, err := s.commentRepo.DeleteAllByPost(ctx, blogPostID)
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return deleted, nil
}
