package server

import (
	"context"
	"fmt"

	"newwek/internal/cache"
	"newwek/internal/config"
	"newwek/internal/database"
	"newwek/internal/middleware"
	"newwek/internal/models"
	"newwek/internal/repository"
	"newwek/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// AuthServer is the credential registry behind the gateway.
type AuthServer struct {
	config      *config.Config
	db          *gorm.DB
	redis       *redis.Client
	app         *fiber.App
	authService *service.AuthService
}

// NewAuthServer connects to the auth database and wires the service stack.
func NewAuthServer(cfg *config.Config) (*AuthServer, error) {
	db, err := database.Connect(cfg, cfg.DBName, &models.User{})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg)
	return NewAuthServerWithDeps(cfg, db, cache.GetClient()), nil
}

// NewAuthServerWithDeps builds an AuthServer on already-established
// connections. Tests use this directly.
func NewAuthServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *AuthServer {
	userRepo := repository.NewUserRepository(db)

	return &AuthServer{
		config:      cfg,
		db:          db,
		redis:       redisClient,
		authService: service.NewAuthService(userRepo, cfg.JWTSecret, 0, nil),
	}
}

// SetupRoutes wires the auth service's routes onto the app.
func (s *AuthServer) SetupRoutes(app *fiber.App) {
	auth := app.Group("/auth")
	auth.Post("/register", s.Register)
	auth.Post("/token", s.Token)
	auth.Get("/validate", s.Validate)
}

// Start runs the auth service until the listener stops.
func (s *AuthServer) Start() error {
	prom := middleware.InitMetrics("auth-service")
	app := newApp(s.config, "Auth Service", prom)
	s.app = app

	registerHealth(app, s.db, s.redis, prom)
	s.SetupRoutes(app)

	return app.Listen(":" + s.config.AuthPort)
}

// Shutdown gracefully stops the server and closes its connections.
func (s *AuthServer) Shutdown(ctx context.Context) error {
	return shutdownApp(ctx, s.app, s.db, s.redis)
}
