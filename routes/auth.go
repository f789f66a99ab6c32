package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/medcare/middleware"
	"github.com/meinhoongagan/medcare/models"
)

// SetupAuthRoutes configures all authentication related routes
func SetupAuthRoutes(api fiber.Router, h Handlers, g Guards) {
	auth := api.Group("/auth")

	// Public routes
	auth.Post("/login", g.LoginLimiter, h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)

	// Protected routes
	auth.Get("/me", g.Protected, h.Auth.Me)
	auth.Post("/logout", g.Protected, h.Auth.Logout)
	auth.Post("/register", g.Protected, middleware.RequireRole(models.RoleAdmin), h.Auth.Register)
}
