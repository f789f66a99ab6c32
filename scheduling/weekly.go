package scheduling

import "time"

// WorkDay is one row of a doctor's weekly schedule.
type WorkDay struct {
	Weekday    time.Weekday
	StartTime  string
	EndTime    string
	IsWorkDay  bool
	BreakStart *string
	BreakEnd   *string
}

// FitsWeeklySchedule checks a slot against a weekly schedule. An empty
// schedule places no extra constraint. Otherwise the candidate's weekday must
// be a work day, the slot must fit that day's window and must not overlap the
// day's break.
func FitsWeeklySchedule(candidateStart time.Time, durationMinutes int, days []WorkDay) bool {
	if len(days) == 0 {
		return true
	}
	day, ok := scheduleFor(candidateStart.Weekday(), days)
	if !ok || !day.IsWorkDay {
		return false
	}

	open, ok := MinutesSinceMidnight(day.StartTime)
	if !ok {
		return false
	}
	closing, ok := MinutesSinceMidnight(day.EndTime)
	if !ok {
		return false
	}
	start := wallMinutes(candidateStart)
	if !fitsWindow(start, durationMinutes, open, closing) {
		return false
	}

	if day.BreakStart != nil && day.BreakEnd != nil {
		bs, ok1 := MinutesSinceMidnight(*day.BreakStart)
		be, ok2 := MinutesSinceMidnight(*day.BreakEnd)
		if !ok1 || !ok2 {
			return false
		}
		if start < be && start+durationMinutes > bs {
			return false
		}
	}
	return true
}

func scheduleFor(weekday time.Weekday, days []WorkDay) (WorkDay, bool) {
	for _, d := range days {
		if d.Weekday == weekday {
			return d, true
		}
	}
	return WorkDay{}, false
}
