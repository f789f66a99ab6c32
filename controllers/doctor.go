package controllers

import (
	"context"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/medcare/models"
	"github.com/meinhoongagan/medcare/services"
	"go.uber.org/zap"
)

type DoctorUseCase interface {
	List(ctx context.Context, activeOnly bool) ([]models.Doctor, error)
	Create(ctx context.Context, in services.DoctorInput) (*models.Doctor, error)
	Update(ctx context.Context, id uint, in services.DoctorInput) (*models.Doctor, error)
	Deactivate(ctx context.Context, id uint) error
	UploadPhoto(ctx context.Context, id uint, file interface{}) (*models.Doctor, error)
	Schedule(ctx context.Context, doctorID uint) ([]models.WorkingHours, error)
	ReplaceSchedule(ctx context.Context, doctorID uint, in []services.WorkingHoursInput) ([]models.WorkingHours, error)
}

type DoctorHandler struct {
	doctors DoctorUseCase
	log     *zap.Logger
}

func NewDoctorHandler(doctors DoctorUseCase, log *zap.Logger) *DoctorHandler {
	return &DoctorHandler{doctors: doctors, log: log}
}

func (h *DoctorHandler) list(c *fiber.Ctx, activeOnly bool) error {
	doctors, err := h.doctors.List(c.UserContext(), activeOnly)
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch doctors")
	}
	if doctors == nil {
		doctors = []models.Doctor{}
	}
	return c.JSON(doctors)
}

// ListAll returns every doctor, including deactivated ones
// @Summary List all doctors
// @Tags doctors
// @Produce json
// @Success 200 {array} models.Doctor
// @Failure 500 {object} utils.ErrorResponse
// @Router /admin/doctors [get]
func (h *DoctorHandler) ListAll(c *fiber.Ctx) error {
	return h.list(c, false)
}

// ListActive returns the doctors that can be booked
// @Summary List active doctors
// @Tags doctors
// @Produce json
// @Success 200 {array} models.Doctor
// @Router /receptionist/doctors [get]
func (h *DoctorHandler) ListActive(c *fiber.Ctx) error {
	return h.list(c, true)
}

// Create godoc
// @Summary Create a doctor
// @Tags doctors
// @Accept json
// @Produce json
// @Param doctor body services.DoctorInput true "Doctor"
// @Success 201 {object} models.Doctor
// @Failure 400 {object} utils.ErrorResponse
// @Router /admin/doctors [post]
func (h *DoctorHandler) Create(c *fiber.Ctx) error {
	var input services.DoctorInput
	if err := c.BodyParser(&input); err != nil {
		return badBody(c, err)
	}
	doctor, err := h.doctors.Create(c.UserContext(), input)
	if err != nil {
		return respondError(c, h.log, err, "Failed to create doctor")
	}
	return c.Status(fiber.StatusCreated).JSON(doctor)
}

func (h *DoctorHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var input services.DoctorInput
	if err := c.BodyParser(&input); err != nil {
		return badBody(c, err)
	}
	doctor, err := h.doctors.Update(c.UserContext(), id, input)
	if err != nil {
		return respondError(c, h.log, err, "Failed to update doctor")
	}
	return c.JSON(doctor)
}

// Delete deactivates the doctor; the row is kept for past appointments.
func (h *DoctorHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.doctors.Deactivate(c.UserContext(), id); err != nil {
		return respondError(c, h.log, err, "Failed to delete doctor")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadPhoto expects a multipart "photo" field.
func (h *DoctorHandler) UploadPhoto(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	header, err := c.FormFile("photo")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Photo file is required")
	}
	file, err := header.Open()
	if err != nil {
		return respondError(c, h.log, err, "Failed to read photo")
	}
	defer file.Close()

	doctor, err := h.doctors.UploadPhoto(c.UserContext(), id, io.Reader(file))
	if err != nil {
		return respondError(c, h.log, err, "Failed to upload photo")
	}
	return c.JSON(doctor)
}
