package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/persistence"
)

// HealthHandler responds to liveness and readiness checks.
type HealthHandler struct {
	serviceName string
	version     string
	postgres    *persistence.Postgres
	redis       *persistence.Redis
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, postgres *persistence.Postgres, redis *persistence.Redis) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, postgres: postgres, redis: redis}
}

// Health answers the plain-text check.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.SendString("ok")
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports service readiness by checking dependencies.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	deps := fiber.Map{}
	ready := true

	if err := h.postgres.Ping(ctx); err != nil {
		deps["postgres"] = err.Error()
		ready = false
	} else {
		deps["postgres"] = "ok"
	}

	if err := h.redis.Ping(ctx); err != nil {
		deps["redis"] = err.Error()
		ready = false
	} else {
		deps["redis"] = "ok"
	}

	if !ready {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error":        "one or more dependencies unavailable",
			"dependencies": deps,
		})
	}
	return c.JSON(fiber.Map{"status": "ready", "dependencies": deps})
}
