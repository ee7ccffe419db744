package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/leafkeeper/leafkeeper/internal/services"
)

// PhotoHandler handles plant photo routes
type PhotoHandler struct {
	Photos *services.PhotoService
}

// ListPhotos handles GET /api/plants/:plantId/photos
// @Summary List photos
// @Description List the full photo set; the main photo appears first with id "main"
// @Tags Photos
// @Produce json
// @Param plantId path string true "Plant ID"
// @Success 200 {array} services.PhotoEntry
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /plants/{plantId}/photos [get]
func (h *PhotoHandler) ListPhotos(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	entries, err := h.Photos.ListAll(owner, c.Params("plantId"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(entries)
}

// AddPhotos handles POST /api/plants/:plantId/photos
// @Summary Add photos
// @Description Add additional photos; each file is validated independently
// @Tags Photos
// @Accept mpfd
// @Produce json
// @Param plantId path string true "Plant ID"
// @Param photos formData file true "Image files (max 5MB each)"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /plants/{plantId}/photos [post]
func (h *PhotoHandler) AddPhotos(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	uploads, closeAll, err := formUploads(c, "photos")
	if err != nil {
		return err
	}
	defer closeAll()

	accepted, rejected, err := h.Photos.AddPhotos(c.Context(), owner, c.Params("plantId"), uploads)
	if err != nil {
		return err
	}

	status := fiber.StatusCreated
	if len(accepted) == 0 && len(rejected) > 0 {
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(fiber.Map{
		"accepted": accepted,
		"rejected": rejected,
	})
}

// PromotePhoto handles POST /api/plants/:plantId/photos/:photoId/promote
// @Summary Promote a photo to main
// @Description Make an additional photo the main photo; the old main is archived
// @Tags Photos
// @Produce json
// @Param plantId path string true "Plant ID"
// @Param photoId path string true "Photo ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /plants/{plantId}/photos/{photoId}/promote [post]
func (h *PhotoHandler) PromotePhoto(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	mainPath, err := h.Photos.Promote(c.Context(), owner, c.Params("plantId"), c.Params("photoId"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":       "Photo promoted",
		"ok":            true,
		"mainPhotoPath": mainPath,
	})
}

// DeletePhoto handles DELETE /api/plants/:plantId/photos/:photoId
// @Summary Delete a photo
// @Description Delete an additional photo; the main photo is protected
// @Tags Photos
// @Produce json
// @Param plantId path string true "Plant ID"
// @Param photoId path string true "Photo ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /plants/{plantId}/photos/{photoId} [delete]
func (h *PhotoHandler) DeletePhoto(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	if err := h.Photos.DeletePhoto(c.Context(), owner, c.Params("plantId"), c.Params("photoId")); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Photo deleted",
		"ok":      true,
	})
}
