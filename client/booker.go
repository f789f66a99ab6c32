package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/meinhoongagan/medcare/models"
	"github.com/meinhoongagan/medcare/scheduling"
)

var (
	// ErrSlotTaken means the server rejected a slot that passed the local
	// check, usually because bookings or the schedule changed in between.
	// Re-fetch and pick another time; the booking is not retried.
	ErrSlotTaken = errors.New("time slot was rejected by the server")
	// ErrSlotUnavailable means the local check already ruled the slot out.
	ErrSlotUnavailable = errors.New("time slot not available: outside the doctor's working hours or already booked")
)

// BookRequest is a booking as typed at the desk.
type BookRequest struct {
	PatientName string
	DoctorID    uint
	ServiceID   uint
	Date        string // YYYY-MM-DD
	Time        string // HH:MM, 24h
}

// Booker checks a slot against freshly fetched data before submitting it.
type Booker struct {
	client *Client
	loc    *time.Location
}

func NewBooker(client *Client, loc *time.Location) *Booker {
	if loc == nil {
		loc = time.Local
	}
	return &Booker{client: client, loc: loc}
}

func (b *Booker) Book(ctx context.Context, req BookRequest) (*models.Appointment, error) {
	if strings.TrimSpace(req.PatientName) == "" {
		return nil, errors.New("patient name is required")
	}
	hhmm, ok := scheduling.NormalizeTimeOfDay(req.Time)
	if !ok {
		return nil, fmt.Errorf("invalid time format %q (HH:MM)", req.Time)
	}
	start, err := time.ParseInLocation("2006-01-02 15:04", req.Date+" "+hhmm, b.loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (YYYY-MM-DD)", req.Date)
	}

	doctors, err := b.client.Doctors(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch doctors: %w", err)
	}
	doctor, ok := findDoctor(doctors, req.DoctorID)
	if !ok {
		return nil, fmt.Errorf("doctor %d not found or inactive", req.DoctorID)
	}
	services, err := b.client.Services(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch services: %w", err)
	}
	service, ok := findService(services, req.ServiceID)
	if !ok {
		return nil, fmt.Errorf("service %d not found or inactive", req.ServiceID)
	}
	existing, err := b.client.Appointments(ctx, doctor.ID, req.Date)
	if err != nil {
		return nil, fmt.Errorf("fetch appointments: %w", err)
	}

	weekly, err := b.client.Schedule(ctx, doctor.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch schedule: %w", err)
	}

	minutes := service.Duration.Minutes()
	if !scheduling.IsTimeSlotAvailable(start, doctor.Scheduling(), models.Bookings(existing), minutes) ||
		!scheduling.FitsWeeklySchedule(start, minutes, models.WorkDays(weekly)) {
		return nil, ErrSlotUnavailable
	}

	appointment, err := b.client.CreateAppointment(ctx, CreateAppointmentRequest{
		PatientName:     strings.TrimSpace(req.PatientName),
		DoctorID:        doctor.ID,
		ServiceID:       service.ID,
		AppointmentTime: start.Format("2006-01-02T15:04"),
	})
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
		return nil, ErrSlotTaken
	}
	return appointment, err
}

func findDoctor(doctors []models.Doctor, id uint) (*models.Doctor, bool) {
	for i := range doctors {
		if doctors[i].ID == id && doctors[i].Active {
			return &doctors[i], true
		}
	}
	return nil, false
}

func findService(services []models.MedicalService, id uint) (*models.MedicalService, bool) {
	for i := range services {
		if services[i].ID == id && services[i].Active {
			return &services[i], true
		}
	}
	return nil, false
}
