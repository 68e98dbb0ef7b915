package handlers

import (
	"context"
	"time"

	"vending/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const healthTimeout = 2 * time.Second

// Pinger is anything the health check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// PoolStatsProvider reports Redis connection pool counters.
type PoolStatsProvider interface {
	GetStats() *redis.PoolStats
}

type HealthHandler struct {
	store Pinger
	cache Pinger
}

func NewHealthHandler(store, cache Pinger) *HealthHandler {
	return &HealthHandler{store: store, cache: cache}
}

// Check reports 200 when every dependency answers and 503 otherwise.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	status := fiber.StatusOK
	services := fiber.Map{}
	for name, p := range map[string]Pinger{"database": h.store, "cache": h.cache} {
		if err := p.Ping(ctx); err != nil {
			logger.FromContext(ctx).Warn("health check failed", zap.String("service", name), zap.Error(err))
			services[name] = "unavailable"
			status = fiber.StatusServiceUnavailable
			continue
		}
		services[name] = "connected"
	}

	state := "ok"
	if status != fiber.StatusOK {
		state = "degraded"
	}
	return c.Status(status).JSON(fiber.Map{
		"status":   state,
		"services": services,
	})
}

// CacheStats reports the Redis connection pool counters.
func CacheStats(provider PoolStatsProvider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats := provider.GetStats()
		return c.JSON(fiber.Map{
			"pool_stats": fiber.Map{
				"hits":        stats.Hits,
				"misses":      stats.Misses,
				"timeouts":    stats.Timeouts,
				"total_conns": stats.TotalConns,
				"idle_conns":  stats.IdleConns,
				"stale_conns": stats.StaleConns,
			},
		})
	}
}
