package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/medcare/models"
	"github.com/meinhoongagan/medcare/services"
	"go.uber.org/zap"
)

type StaffUseCase interface {
	ListReceptionists(ctx context.Context) ([]models.User, error)
	CreateReceptionist(ctx context.Context, in services.UserInput) (*models.User, error)
	UpdateReceptionist(ctx context.Context, id uint, in services.UserInput) (*models.User, error)
	DeleteReceptionist(ctx context.Context, id uint) error
}

// StaffHandler serves the admin's receptionist management screens.
type StaffHandler struct {
	staff StaffUseCase
	log   *zap.Logger
}

func NewStaffHandler(staff StaffUseCase, log *zap.Logger) *StaffHandler {
	return &StaffHandler{staff: staff, log: log}
}

func (h *StaffHandler) List(c *fiber.Ctx) error {
	users, err := h.staff.ListReceptionists(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch receptionists")
	}
	if users == nil {
		users = []models.User{}
	}
	return c.JSON(users)
}

func (h *StaffHandler) Create(c *fiber.Ctx) error {
	var input services.UserInput
	if err := c.BodyParser(&input); err != nil {
		return badBody(c, err)
	}
	user, err := h.staff.CreateReceptionist(c.UserContext(), input)
	if err != nil {
		return respondError(c, h.log, err, "Failed to create receptionist")
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *StaffHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var input services.UserInput
	if err := c.BodyParser(&input); err != nil {
		return badBody(c, err)
	}
	user, err := h.staff.UpdateReceptionist(c.UserContext(), id, input)
	if err != nil {
		return respondError(c, h.log, err, "Failed to update receptionist")
	}
	return c.JSON(user)
}

func (h *StaffHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.staff.DeleteReceptionist(c.UserContext(), id); err != nil {
		return respondError(c, h.log, err, "Failed to delete receptionist")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
