package server

import (
	"newwek/internal/models"

	"github.com/gofiber/fiber/v2"
)

// IncrementCommentsCount raises the post's comment counter by one and
// returns the updated post.
func (s *BlogServer) IncrementCommentsCount(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return respondError(c, models.NewValidationError("Invalid post ID"))
	}

	post, err := s.counterService.Increment(c.Context(), uint(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// DecrementCommentsCount lowers the post's comment counter by one, never
// below zero, and returns the updated post.
func (s *BlogServer) DecrementCommentsCount(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return respondError(c, models.NewValidationError("Invalid post ID"))
	}

	post, err := s.counterService.Decrement(c.Context(), uint(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}
