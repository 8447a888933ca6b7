package server

import (
	"context"
	"fmt"
	"time"

	"newwek/internal/cache"
	"newwek/internal/clients"
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

// CommentServer owns the comment store and runs the comment-write saga
// against the blog service's counter endpoints.
type CommentServer struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	commentService *service.CommentService
}

// NewCommentServer connects to the comment database and Redis and wires the
// service stack.
func NewCommentServer(cfg *config.Config) (*CommentServer, error) {
	db, err := database.Connect(cfg, cfg.DBName, &models.Comment{})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg)
	return NewCommentServerWithDeps(cfg, db, cache.GetClient()), nil
}

// NewCommentServerWithDeps builds a CommentServer on already-established
// connections. Tests use this directly.
func NewCommentServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *CommentServer {
	commentRepo := repository.NewCommentRepository(db)
	counter := clients.NewCounterClient(cfg.BlogServiceURL, cfg.RemoteCallTimeout)

	return &CommentServer{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		commentService: service.NewCommentService(commentRepo, counter, nil),
	}
}

// SetupRoutes wires the comment service's routes onto the app.
func (s *CommentServer) SetupRoutes(app *fiber.App) {
	comments := app.Group("/api/comments")

	// Per-post listing and the bulk cleanup used by the blog service when a
	// post is deleted.
	comments.Get("/post/:postId", s.ListCommentsForPost)
	comments.Delete("/post/:postId", s.DeleteCommentsForPost)

	comments.Get("/", s.ListComments)
	comments.Get("/:id", s.GetComment)
	comments.Post("/", middleware.RateLimit(s.redis, 60, time.Minute, "comment_create"), s.CreateComment)
	comments.Put("/:id", s.UpdateComment)
	comments.Delete("/:id", s.DeleteComment)
}

// Start runs the comment service until the listener stops.
func (s *CommentServer) Start() error {
	prom := middleware.InitMetrics("comment-service")
	app := newApp(s.config, "Comment Service", prom)
	s.app = app

	registerHealth(app, s.db, s.redis, prom)
	s.SetupRoutes(app)

	return app.Listen(":" + s.config.CommentPort)
}

// Shutdown gracefully stops the server and closes its connections.
func (s *CommentServer) Shutdown(ctx context.Context) error {
	return shutdownApp(ctx, s.app, s.db, s.redis)
}
