package handlers

import (
	"github.com/gofiber/fiber/v2"
	"inventra-backend/domain"
	"inventra-backend/internal/api/presenters"
	"time"
)

type (
	HealthHandler interface {
		Health(c *fiber.Ctx) error
	}

	healthHandler struct {
		startedAt time.Time
	}
)

func NewHealthHandler() HealthHandler {
	return &healthHandler{startedAt: time.Now()}
}

func (h *healthHandler) Health(c *fiber.Ctx) error {
	return presenters.SuccessResponse(c, fiber.Map{
		"status": "healthy",
		"uptime": time.Since(h.startedAt).Round(time.Second).String(),
	}, fiber.StatusOK, domain.MessageSuccessHealthCheck)
}
