package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/medcare/controllers"
	"github.com/meinhoongagan/medcare/middleware"
	"github.com/meinhoongagan/medcare/models"
)

// SetupAdminRoutes configures the admin-only screens
func SetupAdminRoutes(api fiber.Router, h Handlers, g Guards) {
	admin := api.Group("/admin", g.Protected, middleware.RequireRole(models.RoleAdmin))

	users := admin.Group("/users")
	users.Get("/", h.Staff.List)
	users.Post("/", h.Staff.Create)
	users.Put("/:id", h.Staff.Update)
	users.Delete("/:id", h.Staff.Delete)

	doctors := admin.Group("/doctors")
	doctors.Get("/", h.Doctors.ListAll)
	doctors.Post("/", h.Doctors.Create)
	doctors.Put("/:id", h.Doctors.Update)
	doctors.Delete("/:id", h.Doctors.Delete)
	doctors.Post("/:id/photo", h.Doctors.UploadPhoto)
	doctors.Get("/:id/schedule", h.Doctors.GetSchedule)
	doctors.Put("/:id/schedule", h.Doctors.ReplaceSchedule)

	services := admin.Group("/services")
	services.Get("/", h.Services.ListAll)
	services.Post("/", h.Services.Create)
	services.Put("/:id", h.Services.Update)
	services.Delete("/:id", h.Services.Delete)

	admin.Delete("/appointments/:id", h.Appointments.Delete)

	reports := admin.Group("/reports")
	reports.Get("/appointments", h.Reports.Appointments)
	reports.Get("/appointments.csv", h.Reports.ExportCSV)
	reports.Get("/doctors", h.Reports.Doctors)
	reports.Get("/services", h.Reports.Services)

	admin.Get("/dashboard", h.Reports.GetDashboardOverview)
	admin.Get("/roles", controllers.GetRoles)
}
