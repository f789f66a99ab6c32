package controllers

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/medcare/services"
	"go.uber.org/zap"
)

type ReportUseCase interface {
	Appointments(ctx context.Context, startDate, endDate string) (*services.AppointmentsReport, error)
	Doctors(ctx context.Context, startDate, endDate string) ([]services.DoctorStat, error)
	Services(ctx context.Context, startDate, endDate string) ([]services.ServiceStat, error)
	ExportCSV(ctx context.Context, startDate, endDate string) ([]byte, error)
	Dashboard(ctx context.Context) (*services.DashboardStats, error)
}

type ReportHandler struct {
	reports ReportUseCase
	log     *zap.Logger
}

func NewReportHandler(reports ReportUseCase, log *zap.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, log: log}
}

func (h *ReportHandler) Appointments(c *fiber.Ctx) error {
	report, err := h.reports.Appointments(c.UserContext(), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		return respondError(c, h.log, err, "Failed to build appointments report")
	}
	return c.JSON(report)
}

func (h *ReportHandler) Doctors(c *fiber.Ctx) error {
	stats, err := h.reports.Doctors(c.UserContext(), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		return respondError(c, h.log, err, "Failed to build doctors report")
	}
	return c.JSON(stats)
}

func (h *ReportHandler) Services(c *fiber.Ctx) error {
	stats, err := h.reports.Services(c.UserContext(), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		return respondError(c, h.log, err, "Failed to build services report")
	}
	return c.JSON(stats)
}

// ExportCSV sends the appointments report as a CSV download
func (h *ReportHandler) ExportCSV(c *fiber.Ctx) error {
	start, end := c.Query("startDate"), c.Query("endDate")
	body, err := h.reports.ExportCSV(c.UserContext(), start, end)
	if err != nil {
		return respondError(c, h.log, err, "Failed to export appointments")
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="appointments_%s_%s.csv"`, start, end))
	return c.Send(body)
}
