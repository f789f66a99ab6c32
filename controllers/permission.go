package controllers

import (
	"sort"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/medcare/models"
)

type roleView struct {
	Name        models.Role         `json:"name"`
	Permissions []models.Permission `json:"permissions"`
}

// GetRoles returns all roles with their permissions
func GetRoles(c *fiber.Ctx) error {
	grants := models.Roles()
	roles := make([]roleView, 0, len(grants))
	for name, perms := range grants {
		roles = append(roles, roleView{Name: name, Permissions: perms})
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Name < roles[j].Name })
	return c.JSON(roles)
}
