package models

import (
	"time"

	"github.com/meinhoongagan/medcare/scheduling"
)

type DayOfWeek int

const (
	Sunday DayOfWeek = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// WorkingHours is one day of a doctor's weekly schedule.
type WorkingHours struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	DoctorID   uint      `json:"doctorId" gorm:"index;not null"`
	DayOfWeek  DayOfWeek `json:"dayOfWeek"`
	StartTime  string    `json:"startTime"` // Format "HH:MM" in 24h
	EndTime    string    `json:"endTime"`   // Format "HH:MM" in 24h
	IsWorkDay  bool      `json:"isWorkDay" gorm:"not null"`
	BreakStart *string   `json:"breakStart"` // Optional break start time
	BreakEnd   *string   `json:"breakEnd"`   // Optional break end time
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (w WorkingHours) WorkDay() scheduling.WorkDay {
	return scheduling.WorkDay{
		Weekday:    time.Weekday(w.DayOfWeek),
		StartTime:  w.StartTime,
		EndTime:    w.EndTime,
		IsWorkDay:  w.IsWorkDay,
		BreakStart: w.BreakStart,
		BreakEnd:   w.BreakEnd,
	}
}

func WorkDays(rows []WorkingHours) []scheduling.WorkDay {
	days := make([]scheduling.WorkDay, 0, len(rows))
	for _, r := range rows {
		days = append(days, r.WorkDay())
	}
	return days
}
