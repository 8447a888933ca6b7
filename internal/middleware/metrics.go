package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command failures by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newwek_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// CounterAdjustments counts comments-counter adjustments by direction and outcome.
	CounterAdjustments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newwek_counter_adjustments_total",
		Help: "Total comments-counter adjustments by direction and outcome",
	}, []string{"direction", "outcome"})

	// CounterCompensations counts compensating decrements issued by the comment
	// write path after a failed local insert.
	CounterCompensations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newwek_counter_compensations_total",
		Help: "Total compensating counter adjustments by outcome",
	}, []string{"outcome"})

	// PostCacheRequests counts post cache lookups by cache name and result.
	PostCacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newwek_post_cache_requests_total",
		Help: "Post cache lookups by cache and result",
	}, []string{"cache", "result"})
)

// InitMetrics creates the Prometheus middleware for a service.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the request-metrics handler for the Fiber app.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
