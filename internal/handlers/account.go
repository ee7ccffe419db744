package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/leafkeeper/leafkeeper/internal/services"
)

// AccountHandler handles whole-account data routes
type AccountHandler struct {
	Account *services.AccountService
}

// ExportAccount handles GET /api/account/export
// @Summary Export account data
// @Description Download every plant with reminders, photos and collection stats
// @Tags Account
// @Produce json
// @Success 200 {object} services.ExportDocument
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /account/export [get]
func (h *AccountHandler) ExportAccount(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	doc, err := h.Account.Export(c.Context(), owner)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentDisposition, `attachment; filename="leafkeeper-export.json"`)
	return c.Status(fiber.StatusOK).JSON(doc)
}

// EraseAccount handles DELETE /api/account
// @Summary Erase account data
// @Description Delete every plant, reminder, photo and stored file of the account
// @Tags Account
// @Produce json
// @Success 200 {object} services.EraseResult
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /account [delete]
func (h *AccountHandler) EraseAccount(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	result, err := h.Account.EraseAll(c.Context(), owner)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(result)
}
