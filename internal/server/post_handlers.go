package server

import (
	"newwek/internal/models"
	"newwek/internal/service"

	"github.com/gofiber/fiber/v2"
)

type postRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author"`
}

// ListPosts returns every post, sorted by comment count descending.
func (s *BlogServer) ListPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// GetPost returns a single post by id.
func (s *BlogServer) GetPost(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return respondError(c, models.NewValidationError("Invalid post ID"))
	}

	post, err := s.postService.GetPost(c.Context(), uint(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// CreatePost creates a post from the request body.
func (s *BlogServer) CreatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		Title:   req.Title,
		Content: req.Content,
		Author:  req.Author,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost replaces a post's title, content and author. The comment
// counter and creation time survive the update.
func (s *BlogServer) UpdatePost(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return respondError(c, models.NewValidationError("Invalid post ID"))
	}

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		ID:      uint(id),
		Title:   req.Title,
		Content: req.Content,
		Author:  req.Author,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// DeletePost removes a post and triggers the comment cleanup on the
// comment service.
func (s *BlogServer) DeletePost(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return respondError(c, models.NewValidationError("Invalid post ID"))
	}

	if err := s.postService.DeletePost(c.Context(), uint(id)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
