package models

import (
	"time"

	"github.com/meinhoongagan/medcare/scheduling"
)

type Doctor struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	Name           string         `json:"name" gorm:"not null"`
	Specialization string         `json:"specialization"`
	StartTime      string         `json:"startTime" gorm:"type:varchar(5)"` // Format "HH:MM" in 24h
	EndTime        string         `json:"endTime" gorm:"type:varchar(5)"`   // Format "HH:MM" in 24h
	Active         bool           `json:"active" gorm:"not null"`
	PhotoURL       string         `json:"photoUrl,omitempty"`
	WorkingHours   []WorkingHours `json:"workingHours,omitempty" gorm:"foreignKey:DoctorID"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// Scheduling returns the view of the doctor used by availability checks.
func (d *Doctor) Scheduling() *scheduling.Doctor {
	if d == nil {
		return nil
	}
	return &scheduling.Doctor{ID: d.ID, StartTime: d.StartTime, EndTime: d.EndTime}
}
