package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/arturoeanton/jal-rakshak/internal/port"
)

const healthPingTimeout = 2 * time.Second

// HealthHandler reports liveness and store reachability.
type HealthHandler struct {
	appName string
	store   port.ProfileStore
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(appName string, store port.ProfileStore) *HealthHandler {
	return &HealthHandler{appName: appName, store: store}
}

// Register sets up the health route.
func (h *HealthHandler) Register(router fiber.Router) {
	router.Get("/health", h.Health)
}

// Health answers 200 when the store responds and 503 otherwise.
func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), healthPingTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		slog.WarnContext(ctx, "store ping failed", "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "degraded",
			"app":    h.appName,
			"store":  "unavailable",
		})
	}

	return c.JSON(fiber.Map{
		"status": "healthy",
		"app":    h.appName,
		"store":  "ok",
	})
}
