package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/meinhoongagan/medcare/scheduling"
	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	StatusNew        AppointmentStatus = "NEW"
	StatusInProgress AppointmentStatus = "IN_PROGRESS"
	StatusCompleted  AppointmentStatus = "COMPLETED"
)

// nextStatus is the only allowed transition out of each status.
var nextStatus = map[AppointmentStatus]AppointmentStatus{
	StatusNew:        StatusInProgress,
	StatusInProgress: StatusCompleted,
}

func ParseStatus(s string) (AppointmentStatus, bool) {
	switch st := AppointmentStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusNew, StatusInProgress, StatusCompleted:
		return st, true
	}
	return "", false
}

// Next returns the status that may follow s, if any.
func (s AppointmentStatus) Next() (AppointmentStatus, bool) {
	next, ok := nextStatus[s]
	return next, ok
}

type Appointment struct {
	ID              uint              `json:"id" gorm:"primaryKey"`
	PatientName     string            `json:"patientName" gorm:"not null"`
	DoctorID        uint              `json:"doctorId" gorm:"index;not null"`
	Doctor          Doctor            `json:"doctor" gorm:"foreignKey:DoctorID"`
	ServiceID       uint              `json:"serviceId" gorm:"not null"`
	Service         MedicalService    `json:"service" gorm:"foreignKey:ServiceID"`
	AppointmentTime time.Time         `json:"appointmentTime" gorm:"index;not null"`
	Status          AppointmentStatus `json:"status" gorm:"type:varchar(16);not null"`
	CreatedByID     uint              `json:"createdById"`
	CreatedBy       User              `json:"createdBy" gorm:"foreignKey:CreatedByID"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = StatusNew
	}
	return nil
}

// AdvanceStatus moves the appointment along NEW -> IN_PROGRESS -> COMPLETED.
// Any other change, including staying put, is rejected.
func (a *Appointment) AdvanceStatus(newStatus AppointmentStatus) error {
	next, ok := a.Status.Next()
	if !ok {
		return fmt.Errorf("no transitions allowed from %s", a.Status)
	}
	if newStatus != next {
		return fmt.Errorf("invalid transition from %s to %s", a.Status, newStatus)
	}
	a.Status = newStatus
	return nil
}

// Booking returns the appointment as seen by availability checks. The
// Service association must be loaded.
func (a *Appointment) Booking() scheduling.Booking {
	return scheduling.Booking{
		DoctorID: a.DoctorID,
		Start:    a.AppointmentTime,
		Duration: a.Service.Duration.Duration,
	}
}

// Bookings converts a list for the availability checker, never returning nil.
func Bookings(appointments []Appointment) []scheduling.Booking {
	out := make([]scheduling.Booking, 0, len(appointments))
	for i := range appointments {
		out = append(out, appointments[i].Booking())
	}
	return out
}

// End is the time the appointment's service finishes.
func (a *Appointment) End() time.Time {
	return a.Booking().Occupied().End
}
