package handlers

import (
	"context"
	"log"
	"time"

	keys "marketplace/internal/utils/cache"
	"marketplace/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// HealthCheck is one named dependency probe.
type HealthCheck func(ctx context.Context) error

// CacheAdmin is the cache surface exposed to admins.
type CacheAdmin interface {
	Stats() map[string]interface{}
	Flush(ctx context.Context) (map[keys.EntityType]int64, error)
}

type HealthHandler struct {
	checks map[string]HealthCheck
	cache  CacheAdmin
}

// NewHealthHandler creates the handler. cache may be nil.
func NewHealthHandler(checks map[string]HealthCheck, cache CacheAdmin) *HealthHandler {
	return &HealthHandler{checks: checks, cache: cache}
}

func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := "ok"
	services := fiber.Map{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			services[name] = "unavailable"
			status = "degraded"
			continue
		}
		services[name] = "connected"
	}

	code := fiber.StatusOK
	if status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status":   status,
		"version":  "1.0.0",
		"services": services,
	})
}

func (h *HealthHandler) CacheStats(c *fiber.Ctx) error {
	if h.cache == nil {
		return c.JSON(fiber.Map{"cache_stats": fiber.Map{}})
	}
	return c.JSON(fiber.Map{"cache_stats": h.cache.Stats()})
}

// FlushCache drops cached fee settings and banned-word lists. The next read
// reloads them from the database.
func (h *HealthHandler) FlushCache(c *fiber.Ctx) error {
	if h.cache == nil {
		return response.Success(c, "Cache flushed", fiber.Map{"deleted": fiber.Map{}})
	}
	deleted, err := h.cache.Flush(c.UserContext())
	if err != nil {
		log.Printf("cache flush failed: %v", err)
		return response.FromError(c, err)
	}
	return response.Success(c, "Cache flushed", fiber.Map{"deleted": deleted})
}
