package utils

import (
	"fmt"
	"strings"
	"time"
)

var dateTimeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// ParseClinicTime parses an appointment time. Values without an offset are
// wall-clock times in loc; RFC 3339 values are converted into loc.
func ParseClinicTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date-time %q, expected YYYY-MM-DDTHH:MM", s)
}

// ParseClinicDate parses "YYYY-MM-DD" as midnight in loc.
func ParseClinicDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// ParseRangeBound accepts either a date or a date-time. A bare date used as
// an upper bound covers the whole day.
func ParseRangeBound(s string, loc *time.Location, upper bool) (time.Time, error) {
	if d, err := ParseClinicDate(s, loc); err == nil {
		if upper {
			return d.AddDate(0, 0, 1), nil
		}
		return d, nil
	}
	return ParseClinicTime(s, loc)
}

// DayBounds returns midnight of t's day and of the following day.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
