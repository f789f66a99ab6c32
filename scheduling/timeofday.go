package scheduling

import (
	"regexp"
	"strconv"
	"strings"
)

var timeOfDayPattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):([0-5][0-9])$`)

// IsValidTimeOfDay reports whether text is a 24-hour "H:MM" or "HH:MM" value.
func IsValidTimeOfDay(text string) bool {
	return timeOfDayPattern.MatchString(text)
}

// MinutesSinceMidnight converts a valid time of day to minutes. The second
// result is false for malformed input.
func MinutesSinceMidnight(text string) (int, bool) {
	if !IsValidTimeOfDay(text) {
		return 0, false
	}
	hh, mm, _ := strings.Cut(text, ":")
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	return h*60 + m, true
}

// NormalizeTimeOfDay pads a valid time of day to "HH:MM". A trailing ":SS"
// component, as some backends emit for time columns, is dropped.
func NormalizeTimeOfDay(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if len(text) == 8 && strings.Count(text, ":") == 2 {
		text = text[:5]
	}
	minutes, ok := MinutesSinceMidnight(text)
	if !ok {
		return "", false
	}
	return FormatTimeOfDay(minutes), true
}

// FormatTimeOfDay renders minutes since midnight as "HH:MM".
func FormatTimeOfDay(minutes int) string {
	h, m := minutes/60, minutes%60
	return pad2(h) + ":" + pad2(m)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
