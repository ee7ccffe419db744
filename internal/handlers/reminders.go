package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/leafkeeper/leafkeeper/internal/models"
	"github.com/leafkeeper/leafkeeper/internal/services"
	"github.com/leafkeeper/leafkeeper/internal/types"
)

// ReminderHandler handles care reminder routes
type ReminderHandler struct {
	Reminders *services.ReminderService
}

// reminderView is a reminder with its derived due-state attached.
type reminderView struct {
	models.Reminder
	services.ReminderStatus
}

// ListReminders handles GET /api/plants/:plantId/reminders
// @Summary List reminders
// @Description List a plant's reminders ascending by due date, with derived status
// @Tags Reminders
// @Produce json
// @Param plantId path string true "Plant ID"
// @Success 200 {array} handlers.reminderView
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /plants/{plantId}/reminders [get]
func (h *ReminderHandler) ListReminders(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	reminders, err := h.Reminders.List(owner, c.Params("plantId"))
	if err != nil {
		return err
	}

	now := time.Now()
	views := make([]reminderView, 0, len(reminders))
	for _, r := range reminders {
		views = append(views, reminderView{
			Reminder:       r,
			ReminderStatus: services.DeriveStatus(r.DueDate, now),
		})
	}
	return c.Status(fiber.StatusOK).JSON(views)
}

// CreateReminder handles POST /api/plants/:plantId/reminders
// @Summary Create a reminder
// @Description Create a reminder; frequencyDays defaults by type when omitted
// @Tags Reminders
// @Accept json
// @Produce json
// @Param plantId path string true "Plant ID"
// @Param reminder body services.ReminderInput true "Reminder fields"
// @Success 201 {object} models.Reminder
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /plants/{plantId}/reminders [post]
func (h *ReminderHandler) CreateReminder(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	var in services.ReminderInput
	if err := c.BodyParser(&in); err != nil {
		return types.Validation("request body must be valid JSON")
	}

	reminder, err := h.Reminders.Create(owner, c.Params("plantId"), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(reminder)
}

// CompleteReminder handles PATCH /api/reminders/:reminderId
// @Summary Set reminder completion
// @Description Flip the completion flag; the due date is not advanced
// @Tags Reminders
// @Accept json
// @Produce json
// @Param reminderId path string true "Reminder ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /reminders/{reminderId} [patch]
func (h *ReminderHandler) CompleteReminder(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	var body struct {
		Completed *bool `json:"completed"`
	}
	if err := c.BodyParser(&body); err != nil {
		return types.Validation("request body must be valid JSON")
	}
	completed := true
	if body.Completed != nil {
		completed = *body.Completed
	}

	if err := h.Reminders.SetCompleted(owner, c.Params("reminderId"), completed); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":   "Reminder updated",
		"ok":        true,
		"completed": completed,
	})
}

// DeleteReminder handles DELETE /api/reminders/:reminderId
// @Summary Delete a reminder
// @Tags Reminders
// @Produce json
// @Param reminderId path string true "Reminder ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /reminders/{reminderId} [delete]
func (h *ReminderHandler) DeleteReminder(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	if _, err := h.Reminders.Delete(owner, c.Params("reminderId")); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Reminder deleted",
		"ok":      true,
	})
}
