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

// BlogServer owns the post store, the post cache and the counter-guard
// endpoints the comment service calls.
type BlogServer struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	postService    *service.PostService
	counterService *service.CounterService
}

// NewBlogServer connects to the blog database and Redis and wires the
// service stack.
func NewBlogServer(cfg *config.Config) (*BlogServer, error) {
	db, err := database.Connect(cfg, cfg.DBName, &models.Post{})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg)
	return NewBlogServerWithDeps(cfg, db, cache.GetClient()), nil
}

// NewBlogServerWithDeps builds a BlogServer on already-established
// connections. Tests use this directly.
func NewBlogServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *BlogServer {
	postRepo := repository.NewPostRepository(db)
	postCache := cache.NewPostCache(redisClient, cfg.PostCacheTTL, cfg.PostListCacheTTL)
	comments := clients.NewCommentsClient(cfg.CommentServiceURL, cfg.RemoteCallTimeout)

	return &BlogServer{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		postService:    service.NewPostService(postRepo, postCache, comments, nil),
		counterService: service.NewCounterService(postRepo, postCache),
	}
}

// SetupRoutes wires the blog service's routes onto the app.
func (s *BlogServer) SetupRoutes(app *fiber.App) {
	posts := app.Group("/api/posts")

	// The counter guard. GET increments, DELETE decrements; both are only
	// ever called by the comment service.
	posts.Get("/update-comments-count/:id", s.IncrementCommentsCount)
	posts.Delete("/update-comments-count/:id", s.DecrementCommentsCount)

	posts.Get("/", s.ListPosts)
	posts.Get("/:id", s.GetPost)
	posts.Post("/", middleware.RateLimit(s.redis, 30, time.Minute, "post_create"), s.CreatePost)
	posts.Put("/:id", s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)
}

// Start runs the blog service until the listener stops.
func (s *BlogServer) Start() error {
	prom := middleware.InitMetrics("blog-service")
	app := newApp(s.config, "Blog Service", prom)
	s.app = app

	registerHealth(app, s.db, s.redis, prom)
	s.SetupRoutes(app)

	return app.Listen(":" + s.config.BlogPort)
}

// Shutdown gracefully stops the server and closes its connections.
func (s *BlogServer) Shutdown(ctx context.Context) error {
	return shutdownApp(ctx, s.app, s.db, s.redis)
}
