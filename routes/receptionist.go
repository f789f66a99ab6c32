package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/medcare/middleware"
	"github.com/meinhoongagan/medcare/models"
)

// SetupReceptionistRoutes configures the booking desk routes. Admins pass
// every permission check as well.
func SetupReceptionistRoutes(api fiber.Router, h Handlers, g Guards) {
	desk := api.Group("/receptionist", g.Protected)

	desk.Get("/doctors", middleware.RequirePermission(models.ResourceDoctors, models.ActionRead), h.Doctors.ListActive)
	desk.Get("/doctors/:id/schedule", middleware.RequirePermission(models.ResourceSchedules, models.ActionRead), h.Doctors.GetSchedule)
	desk.Get("/doctors/:id/slots", middleware.RequirePermission(models.ResourceSchedules, models.ActionRead), h.Appointments.Slots)
	desk.Get("/services", middleware.RequirePermission(models.ResourceServices, models.ActionRead), h.Services.ListActive)

	appointments := desk.Group("/appointments")
	appointments.Get("/", middleware.RequirePermission(models.ResourceAppointments, models.ActionRead), h.Appointments.List)
	appointments.Get("/:id", middleware.RequirePermission(models.ResourceAppointments, models.ActionRead), h.Appointments.Get)
	appointments.Post("/", middleware.RequirePermission(models.ResourceAppointments, models.ActionCreate), h.Appointments.Create)
	appointments.Put("/:id/status", middleware.RequirePermission(models.ResourceAppointments, models.ActionUpdate), h.Appointments.UpdateStatus)
}
