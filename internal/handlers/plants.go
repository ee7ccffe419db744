package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/leafkeeper/leafkeeper/internal/services"
	"github.com/leafkeeper/leafkeeper/internal/types"
)

// PlantHandler handles plant record routes
type PlantHandler struct {
	Plants *services.PlantService
}

// ListPlants handles GET /api/plants
// @Summary List plants
// @Description List every plant of the authenticated account, newest first
// @Tags Plants
// @Produce json
// @Success 200 {array} models.Plant
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /plants [get]
func (h *PlantHandler) ListPlants(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	plants, err := h.Plants.List(owner)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(plants)
}

// GetPlant handles GET /api/plants/:plantId
// @Summary Get a plant
// @Description Get a single plant by id
// @Tags Plants
// @Produce json
// @Param plantId path string true "Plant ID"
// @Success 200 {object} models.Plant
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /plants/{plantId} [get]
func (h *PlantHandler) GetPlant(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	plant, err := h.Plants.Get(owner, c.Params("plantId"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(plant)
}

// CreatePlant handles POST /api/plants
// @Summary Create a plant
// @Description Create a plant from a multipart form; the photo field is required
// @Tags Plants
// @Accept mpfd
// @Produce json
// @Param scientificName formData string true "Scientific name"
// @Param photo formData file true "Main photo (image, max 5MB)"
// @Success 201 {object} models.Plant
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /plants [post]
func (h *PlantHandler) CreatePlant(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	in, err := plantInputFromForm(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("photo")
	if err != nil {
		return types.Validation("a main photo is required")
	}
	upload, closer, err := uploadFromHeader(fh)
	if err != nil {
		return err
	}
	defer closer()

	plant, err := h.Plants.Create(c.Context(), owner, in, upload)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(plant)
}

// UpdatePlant handles PUT /api/plants/:plantId
// @Summary Update a plant
// @Description Patch plant fields; empty form fields keep their stored values
// @Tags Plants
// @Accept mpfd
// @Produce json
// @Param plantId path string true "Plant ID"
// @Param photo formData file false "Replacement main photo"
// @Success 200 {object} models.Plant
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /plants/{plantId} [put]
func (h *PlantHandler) UpdatePlant(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	in, err := plantInputFromForm(c)
	if err != nil {
		return err
	}

	var upload *services.Upload
	if fh, ferr := c.FormFile("photo"); ferr == nil && fh != nil {
		u, closer, err := uploadFromHeader(fh)
		if err != nil {
			return err
		}
		defer closer()
		upload = u
	}

	plant, err := h.Plants.Update(c.Context(), owner, c.Params("plantId"), in, upload)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(plant)
}

// DeletePlant handles DELETE /api/plants/:plantId
// @Summary Delete a plant
// @Description Delete a plant with its reminders, photos and stored files
// @Tags Plants
// @Produce json
// @Param plantId path string true "Plant ID"
// @Success 200 {object} services.DeleteResult
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /plants/{plantId} [delete]
func (h *PlantHandler) DeletePlant(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	result, err := h.Plants.Delete(c.Context(), owner, c.Params("plantId"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":          "Plant deleted",
		"ok":               true,
		"deletedReminders": result.DeletedReminders,
		"deletedPhotos":    result.DeletedPhotos,
	})
}
