package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// PingFunc checks a dependency.
type PingFunc func(ctx context.Context) error

// HealthHandler reports whether the service can reach its database.
type HealthHandler struct {
	pingDB PingFunc
}

// NewHealthHandler creates a HealthHandler. A nil pingDB reports the database as disabled.
func NewHealthHandler(pingDB PingFunc) *HealthHandler {
	return &HealthHandler{pingDB: pingDB}
}

// RegisterRoutes registers the index and health routes.
func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleIndex)
	router.Get("/health", h.HandleHealth)
}

// HandleIndex answers the root path.
func (h *HealthHandler) HandleIndex(c *fiber.Ctx) error {
	return c.SendString("Hello from the storefront backend!")
}

// HandleHealth pings the database with a short timeout.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	database := "disabled"
	status := fiber.StatusOK
	if h.pingDB != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.pingDB(ctx); err != nil {
			slog.ErrorContext(ctx, "database health check failed", "error", err)
			database = "down"
			status = fiber.StatusServiceUnavailable
		} else {
			database = "up"
		}
	}

	health := "healthy"
	if status != fiber.StatusOK {
		health = "unhealthy"
	}
	return c.Status(status).JSON(fiber.Map{
		"status":   health,
		"time":     time.Now().Format(time.RFC3339),
		"database": database,
	})
}
