package server

import (
	"newwek/internal/models"
	"newwek/internal/service"

	"github.com/gofiber/fiber/v2"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates a credential record.
func (s *AuthServer) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	user, err := s.authService.Register(c.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Token exchanges credentials for a signed bearer token.
func (s *AuthServer) Token(c *fiber.Ctx) error {
	var req tokenRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	token, err := s.authService.Token(c.Context(), req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"token": token})
}

// Validate checks a token and returns the username it belongs to. The
// gateway calls this for every secured request.
func (s *AuthServer) Validate(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return respondError(c, models.NewUnauthorizedError("token query parameter is required"))
	}

	username, err := s.authService.Validate(token)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"username": username})
}
