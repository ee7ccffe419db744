package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/leafkeeper/leafkeeper/internal/clients"
	"github.com/leafkeeper/leafkeeper/internal/types"
)

// IdentifyHandler handles species identification routes
type IdentifyHandler struct {
	Identifier clients.Identifier
}

// Identify handles POST /api/identify
// @Summary Identify a plant from a photo
// @Description Submit an image and receive ranked species candidates
// @Tags Identify
// @Accept mpfd
// @Produce json
// @Param image formData file true "Plant photo"
// @Success 200 {array} clients.SpeciesCandidate
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 503 {object} utils.ErrorResponseStruct
// @Router /identify [post]
func (h *IdentifyHandler) Identify(c *fiber.Ctx) error {
	if _, err := ownerID(c); err != nil {
		return err
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return types.Validation("an image file is required")
	}
	upload, closer, err := uploadFromHeader(fh)
	if err != nil {
		return err
	}
	defer closer()

	candidates, err := h.Identifier.Identify(c.Context(), upload.Filename, upload.Content)
	if err != nil {
		return types.Unavailable("identification service is unavailable", err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"candidates": candidates,
	})
}
