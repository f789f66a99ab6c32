package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/medcare/models"
	"github.com/meinhoongagan/medcare/services"
)

// GetSchedule retrieves a doctor's weekly working hours
func (h *DoctorHandler) GetSchedule(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	rows, err := h.doctors.Schedule(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err, "Failed to get working hours")
	}
	if rows == nil {
		rows = []models.WorkingHours{}
	}
	return c.JSON(rows)
}

// ReplaceSchedule swaps the doctor's weekly working hours for the posted
// list. An empty list removes the weekly schedule.
func (h *DoctorHandler) ReplaceSchedule(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var input []services.WorkingHoursInput
	if err := c.BodyParser(&input); err != nil {
		return badBody(c, err)
	}
	rows, err := h.doctors.ReplaceSchedule(c.UserContext(), id, input)
	if err != nil {
		return respondError(c, h.log, err, "Failed to update working hours")
	}
	return c.JSON(rows)
}
