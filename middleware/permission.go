package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/medcare/models"
	"github.com/meinhoongagan/medcare/utils"
)

// RequirePermission checks the caller's role grants. Must run after Protected.
func RequirePermission(resource string, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !Role(c).Allows(resource, action) {
			return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
				Message: "You don't have permission to perform this action",
				Error:   "Forbidden",
			})
		}
		return c.Next()
	}
}

// RequireRole admits only the listed roles. Must run after Protected.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := Role(c)
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Message: "You don't have the required role to perform this action",
			Error:   "Forbidden",
		})
	}
}
