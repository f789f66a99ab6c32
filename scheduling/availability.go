package scheduling

import "time"

// Doctor is the part of a doctor record the checker needs.
type Doctor struct {
	ID        uint
	StartTime string // "HH:MM"
	EndTime   string // "HH:MM"
}

// Booking is an existing appointment as seen by the checker.
type Booking struct {
	DoctorID uint
	Start    time.Time
	Duration Duration
}

// Interval is a half-open [Start, End) span.
type Interval struct {
	Start time.Time
	End   time.Time
}

func NewInterval(start time.Time, minutes int) Interval {
	return Interval{Start: start, End: start.Add(time.Duration(minutes) * time.Minute)}
}

// Overlaps reports whether two half-open intervals share more than a boundary.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && i.End.After(o.Start)
}

// Occupied returns the interval the booking blocks on its doctor's calendar.
func (b Booking) Occupied() Interval {
	return NewInterval(b.Start, ParseDurationToMinutes(b.Duration))
}

// WithinWorkingHours reports whether a slot of the given length starting at
// candidateStart begins at or after the doctor's start time and ends at or
// before the end time, both taken on the candidate's wall clock.
func WithinWorkingHours(candidateStart time.Time, doctor *Doctor, durationMinutes int) bool {
	if doctor == nil {
		return false
	}
	open, ok := MinutesSinceMidnight(doctor.StartTime)
	if !ok {
		return false
	}
	closing, ok := MinutesSinceMidnight(doctor.EndTime)
	if !ok {
		return false
	}
	return fitsWindow(wallMinutes(candidateStart), durationMinutes, open, closing)
}

func fitsWindow(start, length, open, closing int) bool {
	return start >= open && start+length <= closing
}

func wallMinutes(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// IsTimeSlotAvailable decides whether a candidate appointment may be booked.
// A nil doctor, a zero start, a nil appointment slice or a non-positive
// duration reject the slot. An empty, non-nil slice means "no bookings yet".
// The appointments slice is only read.
func IsTimeSlotAvailable(candidateStart time.Time, doctor *Doctor, appointments []Booking, durationMinutes int) bool {
	if candidateStart.IsZero() || doctor == nil || appointments == nil || durationMinutes <= 0 {
		return false
	}
	if !WithinWorkingHours(candidateStart, doctor, durationMinutes) {
		return false
	}

	candidate := NewInterval(candidateStart, durationMinutes)
	for _, existing := range appointments {
		if existing.DoctorID != doctor.ID {
			continue
		}
		if candidate.Overlaps(existing.Occupied()) {
			return false
		}
	}
	return true
}
