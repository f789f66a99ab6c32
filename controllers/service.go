package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/medcare/models"
	"github.com/meinhoongagan/medcare/services"
	"go.uber.org/zap"
)

type CatalogUseCase interface {
	List(ctx context.Context, activeOnly bool) ([]models.MedicalService, error)
	Create(ctx context.Context, in services.MedicalServiceInput) (*models.MedicalService, error)
	Update(ctx context.Context, id uint, in services.MedicalServiceInput) (*models.MedicalService, error)
	Deactivate(ctx context.Context, id uint) error
}

// ServiceHandler serves the medical service catalog.
type ServiceHandler struct {
	catalog CatalogUseCase
	log     *zap.Logger
}

func NewServiceHandler(catalog CatalogUseCase, log *zap.Logger) *ServiceHandler {
	return &ServiceHandler{catalog: catalog, log: log}
}

func (h *ServiceHandler) list(c *fiber.Ctx, activeOnly bool) error {
	list, err := h.catalog.List(c.UserContext(), activeOnly)
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch services")
	}
	if list == nil {
		list = []models.MedicalService{}
	}
	return c.JSON(list)
}

// ListAll returns all services
func (h *ServiceHandler) ListAll(c *fiber.Ctx) error { return h.list(c, false) }

// ListActive returns the services that can be booked
func (h *ServiceHandler) ListActive(c *fiber.Ctx) error { return h.list(c, true) }

// Create creates a new service. Duration may be sent as "PT30M",
// {"seconds": 1800} or 1800.
func (h *ServiceHandler) Create(c *fiber.Ctx) error {
	var input services.MedicalServiceInput
	if err := c.BodyParser(&input); err != nil {
		return badBody(c, err)
	}
	service, err := h.catalog.Create(c.UserContext(), input)
	if err != nil {
		return respondError(c, h.log, err, "Failed to create service")
	}
	return c.Status(fiber.StatusCreated).JSON(service)
}

func (h *ServiceHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var input services.MedicalServiceInput
	if err := c.BodyParser(&input); err != nil {
		return badBody(c, err)
	}
	service, err := h.catalog.Update(c.UserContext(), id, input)
	if err != nil {
		return respondError(c, h.log, err, "Failed to update service")
	}
	return c.JSON(service)
}

func (h *ServiceHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.catalog.Deactivate(c.UserContext(), id); err != nil {
		return respondError(c, h.log, err, "Failed to delete service")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
