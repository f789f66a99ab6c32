package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/medcare/services"
)

// GetDashboardOverview returns clinic-wide statistics for the admin home page
func (h *ReportHandler) GetDashboardOverview(c *fiber.Ctx) error {
	stats, err := h.reports.Dashboard(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err, "Failed to load dashboard")
	}
	return c.JSON(struct {
		*services.DashboardStats
		LastUpdated time.Time `json:"lastUpdated"`
	}{stats, time.Now()})
}
