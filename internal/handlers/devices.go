package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/leafkeeper/leafkeeper/internal/services"
	"github.com/leafkeeper/leafkeeper/internal/types"
)

// DeviceHandler handles IoT sensor routes
type DeviceHandler struct {
	Devices *services.DeviceService
}

// ListDevices handles GET /api/devices
// @Summary List devices
// @Description List the account's active sensor devices
// @Tags Devices
// @Produce json
// @Success 200 {array} models.IoTDevice
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /devices [get]
func (h *DeviceHandler) ListDevices(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	devices, err := h.Devices.List(owner)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(devices)
}

// RegisterDevice handles POST /api/devices
// @Summary Register a device
// @Description Register a sensor device, optionally bound to one plant
// @Tags Devices
// @Accept json
// @Produce json
// @Param device body services.DeviceInput true "Device fields"
// @Success 201 {object} models.IoTDevice
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /devices [post]
func (h *DeviceHandler) RegisterDevice(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	var in services.DeviceInput
	if err := c.BodyParser(&in); err != nil {
		return types.Validation("request body must be valid JSON")
	}

	device, err := h.Devices.Register(owner, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(device)
}

// DeactivateDevice handles DELETE /api/devices/:deviceId
// @Summary Deactivate a device
// @Description Soft-delete a device; its reading history is kept
// @Tags Devices
// @Produce json
// @Param deviceId path string true "Device ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /devices/{deviceId} [delete]
func (h *DeviceHandler) DeactivateDevice(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	if err := h.Devices.Deactivate(owner, c.Params("deviceId")); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Device deactivated",
		"ok":      true,
	})
}

// DeviceReading handles GET /api/devices/:deviceId/reading
// @Summary Get the latest reading
// @Description Fetch the latest sensor sample; devices that never reported return no_data
// @Tags Devices
// @Produce json
// @Param deviceId path string true "Device ID"
// @Success 200 {object} services.DeviceReading
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 503 {object} utils.ErrorResponseStruct
// @Router /devices/{deviceId}/reading [get]
func (h *DeviceHandler) DeviceReading(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	reading, err := h.Devices.Reading(c.Context(), owner, c.Params("deviceId"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(reading)
}
