package server

import (
	"newwek/internal/models"
	"newwek/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createCommentRequest struct {
	BlogPostID uint   `json:"blogPostId"`
	Content    string `json:"content"`
}

type updateCommentRequest struct {
	Content string `json:"content"`
}

// ListComments returns every comment.
func (s *CommentServer) ListComments(c *fiber.Ctx) error {
	comments, err := s.commentService.ListComments(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comments)
}

// ListCommentsForPost returns a post's comments in creation order.
func (s *CommentServer) ListCommentsForPost(c *fiber.Ctx) error {
	postID, err := c.ParamsInt("postId")
	if err != nil || postID < 1 {
		return respondError(c, models.NewValidationError("Invalid post ID"))
	}

	comments, err := s.commentService.ListCommentsByPost(c.Context(), uint(postID))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comments)
}

// GetComment returns a single comment by id.
func (s *CommentServer) GetComment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return respondError(c, models.NewValidationError("Invalid comment ID"))
	}

	comment, err := s.commentService.GetComment(c.Context(), uint(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comment)
}

// CreateComment runs the comment-write saga. The author comes from the
// X-Username header injected by the gateway.
func (s *CommentServer) CreateComment(c *fiber.Ctx) error {
	username := c.Get("X-Username")
	if username == "" {
		return respondError(c, models.NewValidationError("X-Username header is required"))
	}

	var req createCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(c.Context(), service.CreateCommentInput{
		BlogPostID: req.BlogPostID,
		Username:   username,
		Content:    req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// UpdateComment edits a comment within its edit window.
func (s *CommentServer) UpdateComment(c *fiber.Ctx) error {
	username := c.Get("X-Username")
	if username == "" {
		return respondError(c, models.NewValidationError("X-Username header is required"))
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return respondError(c, models.NewValidationError("Invalid comment ID"))
	}

	var req updateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.UpdateComment(c.Context(), service.UpdateCommentInput{
		CommentID: uint(id),
		Username:  username,
		Content:   req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment removes a comment and lowers the post's counter.
func (s *CommentServer) DeleteComment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return respondError(c, models.NewValidationError("Invalid comment ID"))
	}

	if err := s.commentService.DeleteComment(c.Context(), uint(id)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteCommentsForPost bulk-removes a post's comments. 404 when the post
// had none, so the caller can tell an empty cascade from a real one.
func (s *CommentServer) DeleteCommentsForPost(c *fiber.Ctx) error {
	postID, err := c.ParamsInt("postId")
	if err != nil || postID < 1 {
		return respondError(c, models.NewValidationError("Invalid post ID"))
	}

	deleted, err := s.commentService.DeleteAllForPost(c.Context(), uint(postID))
	if err != nil {
		return respondError(c, err)
	}
	if deleted == 0 {
		return respondError(c, models.NewNotFoundError("comments for post", postID))
	}
	return c.SendStatus(fiber.StatusNoContent)
}
