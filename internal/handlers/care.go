package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/leafkeeper/leafkeeper/internal/services"
)

// CareHandler handles care guidance routes
type CareHandler struct {
	Care *services.CareService
}

// GetCare handles GET /api/care
// @Summary Get care guidance
// @Description Resolve care guidance for a species by scientific or common name
// @Tags Care
// @Produce json
// @Param scientificName query string false "Scientific name"
// @Param commonName query string false "Common name"
// @Success 200 {object} services.CareResult
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 503 {object} utils.ErrorResponseStruct
// @Router /care [get]
func (h *CareHandler) GetCare(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	result, err := h.Care.Resolve(c.Context(), owner,
		c.Query("scientificName"), c.Query("commonName"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(result)
}
