package scheduling

import "time"

// SlotQuery describes a search for free starts on a single day.
type SlotQuery struct {
	Day             time.Time // any instant on the wanted day, in the clinic zone
	Doctor          *Doctor
	Bookings        []Booking
	DurationMinutes int
	StepMinutes     int
	Weekly          []WorkDay
	NotBefore       time.Time // zero means no lower bound
}

// AvailableSlots lists candidate starts from the doctor's start time in
// StepMinutes increments that pass both the availability check and the
// weekly schedule. Starts before NotBefore are skipped.
func AvailableSlots(q SlotQuery) []time.Time {
	if q.Doctor == nil || q.DurationMinutes <= 0 || q.StepMinutes <= 0 {
		return nil
	}
	open, ok := MinutesSinceMidnight(q.Doctor.StartTime)
	if !ok {
		return nil
	}
	closing, ok := MinutesSinceMidnight(q.Doctor.EndTime)
	if !ok {
		return nil
	}
	bookings := q.Bookings
	if bookings == nil {
		bookings = []Booking{}
	}

	midnight := time.Date(q.Day.Year(), q.Day.Month(), q.Day.Day(), 0, 0, 0, 0, q.Day.Location())
	var slots []time.Time
	for m := open; m+q.DurationMinutes <= closing; m += q.StepMinutes {
		start := midnight.Add(time.Duration(m) * time.Minute)
		if !q.NotBefore.IsZero() && start.Before(q.NotBefore) {
			continue
		}
		if !IsTimeSlotAvailable(start, q.Doctor, bookings, q.DurationMinutes) {
			continue
		}
		if !FitsWeeklySchedule(start, q.DurationMinutes, q.Weekly) {
			continue
		}
		slots = append(slots, start)
	}
	return slots
}
