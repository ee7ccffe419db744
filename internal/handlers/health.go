package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/leafkeeper/leafkeeper/internal/config"
	"github.com/leafkeeper/leafkeeper/internal/services"
	"gorm.io/gorm"
)

// HealthHandler handles the liveness/readiness route
type HealthHandler struct {
	Cfg *config.Config
	DB  *gorm.DB
}

// Liveness handles GET /healthz. It only proves the process is serving;
// dependency state is reported by Health.
func (h *HealthHandler) Liveness(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}

// Health handles GET /api/health
// @Summary Health check
// @Description Report database and Authorizer connectivity
// @Tags Health
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	result := services.HealthCheck(h.Cfg, h.DB)

	status := fiber.StatusOK
	if result.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(result)
}
