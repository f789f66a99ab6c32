package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/meinhoongagan/medcare/controllers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Auth         *controllers.AuthHandler
	Staff        *controllers.StaffHandler
	Doctors      *controllers.DoctorHandler
	Services     *controllers.ServiceHandler
	Appointments *controllers.AppointmentHandler
	Reports      *controllers.ReportHandler
}

// Guards are the middleware shared by the route groups.
type Guards struct {
	Protected    fiber.Handler
	LoginLimiter fiber.Handler
}

// Setup registers the whole API on app.
func Setup(app *fiber.App, h Handlers, g Guards, gatherer prometheus.Gatherer) {
	SetupSystemRoutes(app, gatherer)

	api := app.Group("/api")
	SetupAuthRoutes(api, h, g)
	SetupAdminRoutes(api, h, g)
	SetupReceptionistRoutes(api, h, g)
}

// SetupSystemRoutes exposes health and Prometheus metrics.
func SetupSystemRoutes(app *fiber.App, gatherer prometheus.Gatherer) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
}
