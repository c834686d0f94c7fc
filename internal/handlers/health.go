package handlers

import (
	"context"
	"time"

	"kudi/internal/models"
	"kudi/internal/repositories/cache"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const version = "1.0.0"

// HealthHandler reports the state of the backing stores.
type HealthHandler struct {
	db    *gorm.DB
	cache *cache.CacheService
}

// NewHealthHandler builds the handler. cache may be nil when redis is not configured.
func NewHealthHandler(db *gorm.DB, cache *cache.CacheService) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) Landing(c *fiber.Ctx) error {
	return c.JSON(models.Landing{
		Name:    "Kudi",
		Tagline: "Send, save and get paid from one dashboard",
		Version: version,
		Features: []string{
			"Instant balance and recent transactions",
			"Linked bank accounts",
			"Account verification",
		},
		Docs: "/health",
	})
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := fiber.StatusOK
	database := "connected"
	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		database = "unavailable"
		status = fiber.StatusServiceUnavailable
	}

	redis := "disabled"
	if h.cache != nil {
		redis = "connected"
		if err := h.cache.HealthCheck(ctx); err != nil {
			redis = "unavailable"
		}
	}

	overall := "ok"
	if status != fiber.StatusOK {
		overall = "degraded"
	}
	return c.Status(status).JSON(fiber.Map{
		"status":  overall,
		"version": version,
		"services": fiber.Map{
			"database": database,
			"redis":    redis,
		},
	})
}

// CacheStats exposes the redis pool counters.
func (h *HealthHandler) CacheStats(c *fiber.Ctx) error {
	if h.cache == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "cache disabled"})
	}
	poolStats := h.cache.GetStats()
	return c.JSON(fiber.Map{
		"pool_stats": fiber.Map{
			"hits":        poolStats.Hits,
			"misses":      poolStats.Misses,
			"timeouts":    poolStats.Timeouts,
			"total_conns": poolStats.TotalConns,
			"idle_conns":  poolStats.IdleConns,
			"stale_conns": poolStats.StaleConns,
		},
	})
}
