// Package gateway implements the edge proxy in front of the three backend
// services. It terminates authentication: secured routes require a bearer
// token, which the gateway validates against the auth service before
// forwarding the request with an X-Username header.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"newwek/internal/config"
	"newwek/internal/middleware"
	"newwek/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/proxy"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// Server is the gateway process.
type Server struct {
	config     *config.Config
	app        *fiber.App
	authClient *http.Client
}

// NewServer creates a gateway for the given configuration.
func NewServer(cfg *config.Config) *Server {
	return &Server{
		config:     cfg,
		authClient: &http.Client{Timeout: cfg.RemoteCallTimeout},
	}
}

// AuthRequired validates the bearer token on mutating requests and injects
// the authenticated username for the downstream service. Reads pass
// through untouched.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodGet {
			return c.Next()
		}

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization header required"))
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid authorization header format"))
		}

		username, err := s.validateToken(c.Context(), parts[1])
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}

		// The header is overwritten, never trusted from the client.
		c.Request().Header.Set("X-Username", username)
		return c.Next()
	}
}

// validateToken asks the auth service who the token belongs to.
func (s *Server) validateToken(ctx context.Context, token string) (string, error) {
	validateURL := fmt.Sprintf("%s/auth/validate?token=%s",
		s.config.AuthServiceURL, url.QueryEscape(token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, validateURL, nil)
	if err != nil {
		return "", models.NewUnauthorizedError("Token validation failed")
	}

	resp, err := s.authClient.Do(req)
	if err != nil {
		slog.ErrorContext(ctx, "auth service unreachable during token validation", "error", err)
		return "", models.NewUnauthorizedError("Token validation failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", models.NewUnauthorizedError("Invalid or expired token")
	}

	var body struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Username == "" {
		return "", models.NewUnauthorizedError("Token validation failed")
	}
	return body.Username, nil
}

// forwardTo proxies the request, path and query included, to the service at
// base.
func forwardTo(base string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return proxy.Do(c, base+c.OriginalURL())
	}
}

// SetupRoutes wires the proxy route table onto the app.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "up"})
	})

	app.All("/auth/*", forwardTo(s.config.AuthServiceURL))

	api := app.Group("/api", s.AuthRequired())
	api.All("/posts*", forwardTo(s.config.BlogServiceURL))
	api.All("/comments*", forwardTo(s.config.CommentServiceURL))
}

// Start runs the gateway until the listener stops.
func (s *Server) Start() error {
	prom := middleware.InitMetrics("gateway")
	app := fiber.New(fiber.Config{AppName: "Gateway"})
	s.app = app

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.MetricsMiddleware(prom))
	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())
	app.Use(middleware.TracingMiddleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: s.config.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		MaxAge:       86400,
	}))

	prom.RegisterAt(app, "/metrics")
	s.SetupRoutes(app)

	return app.Listen(":" + s.config.GatewayPort)
}

// Shutdown gracefully stops the gateway.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app == nil {
		return nil
	}
	return s.app.ShutdownWithContext(ctx)
}
