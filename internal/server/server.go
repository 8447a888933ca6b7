// Package server contains the HTTP surface of the three backend services.
// Each service gets its own server type wired from the same middleware
// stack; the gateway lives in internal/gateway.
package server

import (
	"context"
	"errors"
	"time"

	"newwek/internal/config"
	"newwek/internal/middleware"
	"newwek/internal/models"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// newApp builds a Fiber app with the shared middleware stack. Every service
// binary runs the same stack so logs, metrics and traces look alike across
// the platform.
func newApp(cfg *config.Config, appName string, prom *fiberprometheus.FiberPrometheus) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: appName,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				return models.RespondWithError(c, fiberErr.Code, err)
			}
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())
	if prom != nil {
		app.Use(middleware.MetricsMiddleware(prom))
	}
	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())
	app.Use(middleware.TracingMiddleware())

	origins := cfg.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Username",
		MaxAge:       86400,
	}))

	return app
}

// registerHealth wires the probe endpoints and the Prometheus scrape target.
func registerHealth(app *fiber.App, db *gorm.DB, rdb *redis.Client, prom *fiberprometheus.FiberPrometheus) {
	app.Get("/health/live", livenessHandler)
	app.Get("/health/ready", readinessHandler(db, rdb))
	if prom != nil {
		prom.RegisterAt(app, "/metrics")
	}
}

func livenessHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

func readinessHandler(db *gorm.DB, rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()

		dbStatus := "healthy"
		if db == nil {
			dbStatus = "unavailable"
		} else if sqlDB, err := db.DB(); err != nil {
			dbStatus = "unhealthy"
		} else if err := sqlDB.PingContext(ctx); err != nil {
			dbStatus = "unhealthy"
		}

		// Redis is a cache here, not a dependency readiness gates on.
		redisStatus := "healthy"
		if rdb == nil {
			redisStatus = "unavailable"
		} else if err := rdb.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}

		status := fiber.StatusOK
		overall := "healthy"
		if dbStatus != "healthy" {
			status = fiber.StatusServiceUnavailable
			overall = "unhealthy"
		}

		return c.Status(status).JSON(fiber.Map{
			"status": overall,
			"checks": fiber.Map{
				"database": dbStatus,
				"redis":    redisStatus,
			},
			"time": time.Now(),
		})
	}
}

// statusForError maps the shared error codes onto HTTP statuses.
func statusForError(err error) int {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case models.ErrCodeValidation:
		return fiber.StatusBadRequest
	case models.ErrCodeNotFound:
		return fiber.StatusNotFound
	case models.ErrCodeForbidden:
		return fiber.StatusForbidden
	case models.ErrCodeUnauthorized:
		return fiber.StatusUnauthorized
	case models.ErrCodeRemoteCall:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, statusForError(err), err)
}

// shutdownApp drains the Fiber app and closes the backing connections.
func shutdownApp(ctx context.Context, app *fiber.App, db *gorm.DB, rdb *redis.Client) error {
	var firstErr error
	if app != nil {
		if err := app.ShutdownWithContext(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
