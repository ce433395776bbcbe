package handler

import (
	"context"
	"time"

	"skillswap/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

const healthTimeout = 2 * time.Second

// HealthCheck checks one dependency. Optional checks only degrade the
// reported status; a failing required check turns the response into 503.
type HealthCheck struct {
	Name     string
	Required bool
	Ping     func(ctx context.Context) error
}

type HealthHandler struct {
	checks []HealthCheck
}

func NewHealthHandler(checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), healthTimeout)
	defer cancel()

	status := "ok"
	code := fiber.StatusOK
	deps := make(map[string]string, len(h.checks))
	for _, chk := range h.checks {
		if chk.Ping == nil {
			deps[chk.Name] = "disabled"
			continue
		}
		if err := chk.Ping(ctx); err != nil {
			deps[chk.Name] = "down"
			if chk.Required {
				status = "down"
				code = fiber.StatusServiceUnavailable
			} else if status == "ok" {
				status = "degraded"
			}
			continue
		}
		deps[chk.Name] = "up"
	}

	data := map[string]any{
		"status":       status,
		"dependencies": deps,
		"time":         time.Now().UTC(),
	}
	return response.Success(c, code, status, data)
}
