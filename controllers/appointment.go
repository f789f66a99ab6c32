package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/medcare/middleware"
	"github.com/meinhoongagan/medcare/models"
	"github.com/meinhoongagan/medcare/services"
	"go.uber.org/zap"
)

type BookingUseCase interface {
	Create(ctx context.Context, in services.BookingInput, createdBy uint) (*models.Appointment, error)
	Get(ctx context.Context, id uint) (*models.Appointment, error)
	List(ctx context.Context, q services.AppointmentQuery) ([]models.Appointment, error)
	UpdateStatus(ctx context.Context, id uint, status string) (*models.Appointment, error)
	Delete(ctx context.Context, id uint) error
	Slots(ctx context.Context, doctorID, serviceID uint, date string) ([]string, error)
}

type AppointmentHandler struct {
	booking BookingUseCase
	log     *zap.Logger
}

func NewAppointmentHandler(booking BookingUseCase, log *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{booking: booking, log: log}
}

// List godoc
// @Summary List appointments
// @Tags appointments
// @Produce json
// @Param status query string false "NEW, IN_PROGRESS or COMPLETED"
// @Param doctorId query int false "Doctor ID"
// @Param date query string false "YYYY-MM-DD"
// @Success 200 {array} models.Appointment
// @Failure 400 {object} utils.ErrorResponse
// @Router /receptionist/appointments [get]
func (h *AppointmentHandler) List(c *fiber.Ctx) error {
	q := services.AppointmentQuery{
		Status:   c.Query("status"),
		DoctorID: uint(c.QueryInt("doctorId")),
		Date:     c.Query("date"),
	}
	appointments, err := h.booking.List(c.UserContext(), q)
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch appointments")
	}
	if appointments == nil {
		appointments = []models.Appointment{}
	}
	return c.JSON(appointments)
}

// Get godoc
// @Summary Get an appointment by ID
// @Tags appointments
// @Produce json
// @Param id path int true "Appointment ID"
// @Success 200 {object} models.Appointment
// @Failure 404 {object} utils.ErrorResponse
// @Router /receptionist/appointments/{id} [get]
func (h *AppointmentHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	appointment, err := h.booking.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch appointment")
	}
	return c.JSON(appointment)
}

// Create godoc
// @Summary Book an appointment
// @Description Books a slot after checking the doctor's hours and existing appointments
// @Tags appointments
// @Accept json
// @Produce json
// @Param appointment body services.BookingInput true "Appointment"
// @Success 201 {object} models.Appointment
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /receptionist/appointments [post]
func (h *AppointmentHandler) Create(c *fiber.Ctx) error {
	var input services.BookingInput
	if err := c.BodyParser(&input); err != nil {
		return badBody(c, err)
	}
	appointment, err := h.booking.Create(c.UserContext(), input, middleware.UserID(c))
	if err != nil {
		return respondError(c, h.log, err, "Failed to create appointment")
	}
	return c.Status(fiber.StatusCreated).JSON(appointment)
}

// UpdateStatus moves an appointment to its next status
func (h *AppointmentHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	type StatusInput struct {
		Status string `json:"status"`
	}
	input := new(StatusInput)
	if err := c.BodyParser(input); err != nil {
		return badBody(c, err)
	}
	appointment, err := h.booking.UpdateStatus(c.UserContext(), id, input.Status)
	if err != nil {
		return respondError(c, h.log, err, "Failed to update appointment status")
	}
	return c.JSON(appointment)
}

func (h *AppointmentHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.booking.Delete(c.UserContext(), id); err != nil {
		return respondError(c, h.log, err, "Failed to delete appointment")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Slots lists free start times ("HH:MM") for a doctor, service and date.
func (h *AppointmentHandler) Slots(c *fiber.Ctx) error {
	doctorID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	serviceID := c.QueryInt("serviceId")
	if serviceID <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "serviceId is required")
	}
	slots, err := h.booking.Slots(c.UserContext(), doctorID, uint(serviceID), c.Query("date"))
	if err != nil {
		return respondError(c, h.log, err, "Failed to compute free slots")
	}
	return c.JSON(fiber.Map{"date": c.Query("date"), "slots": slots})
}
