package scheduling

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DurationKind tells which wire form a Duration was received in.
type DurationKind int

const (
	DurationEmpty DurationKind = iota
	DurationISO                // "PT1H30M"
	DurationSecondsObject      // {"seconds": 5400}
	DurationSeconds            // 5400
)

// Duration is the tagged union of the accepted service duration encodings.
// The zero value is the empty duration.
type Duration struct {
	Kind    DurationKind
	ISO     string
	Seconds float64
}

// NotSet is shown for empty or zero durations.
const NotSet = "Not set"

// MaxMinutes caps every normalized duration so that minute arithmetic and
// time.Duration conversions cannot overflow. Larger inputs saturate.
const MaxMinutes = 60_000_000

var (
	isoHours   = regexp.MustCompile(`(\d+)H`)
	isoMinutes = regexp.MustCompile(`(\d+)M`)
)

func ISODuration(s string) Duration {
	return Duration{Kind: DurationISO, ISO: s}
}

func SecondsObject(seconds float64) Duration {
	return Duration{Kind: DurationSecondsObject, Seconds: seconds}
}

func Seconds(seconds float64) Duration {
	return Duration{Kind: DurationSeconds, Seconds: seconds}
}

// MinutesDuration builds the canonical ISO form for a minute count.
func MinutesDuration(minutes int) Duration {
	if minutes <= 0 {
		return Duration{}
	}
	return ISODuration(FormatMinutesToISODuration(minutes))
}

// DurationFromValue classifies a loosely typed value, as produced by decoding
// JSON into interface{}. Unknown shapes yield the empty duration.
func DurationFromValue(v interface{}) Duration {
	switch t := v.(type) {
	case nil:
		return Duration{}
	case Duration:
		return t
	case string:
		return durationFromString(t)
	case float64:
		return Seconds(t)
	case float32:
		return Seconds(float64(t))
	case int:
		return Seconds(float64(t))
	case int64:
		return Seconds(float64(t))
	case uint:
		return Seconds(float64(t))
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Duration{}
		}
		return Seconds(f)
	case map[string]interface{}:
		raw, ok := t["seconds"]
		if !ok {
			return Duration{}
		}
		inner := DurationFromValue(raw)
		if inner.Kind != DurationSeconds {
			return Duration{}
		}
		return SecondsObject(inner.Seconds)
	default:
		return Duration{}
	}
}

func durationFromString(s string) Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return Duration{}
	}
	if strings.HasPrefix(s, "PT") {
		return ISODuration(s)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Duration{}
	}
	return Seconds(f)
}

// UnmarshalJSON accepts any of the three encodings. Malformed input decodes to
// the empty duration instead of failing the surrounding document.
func (d *Duration) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		*d = Duration{}
		return nil
	}
	*d = DurationFromValue(v)
	return nil
}

// MarshalJSON always emits the ISO form, or null when not set.
func (d Duration) MarshalJSON() ([]byte, error) {
	minutes := ParseDurationToMinutes(d)
	if minutes <= 0 {
		return []byte("null"), nil
	}
	return json.Marshal(FormatMinutesToISODuration(minutes))
}

func (d Duration) Minutes() int {
	return ParseDurationToMinutes(d)
}

func (d Duration) String() string {
	return FormatMinutesForDisplay(ParseDurationToMinutes(d))
}

// ParseDurationToMinutes normalizes any accepted encoding to whole minutes.
// It never fails: empty or unparseable input yields 0.
func ParseDurationToMinutes(d Duration) int {
	switch d.Kind {
	case DurationISO:
		return parseISOMinutes(d.ISO)
	case DurationSecondsObject, DurationSeconds:
		return secondsToMinutes(d.Seconds)
	default:
		return 0
	}
}

func parseISOMinutes(s string) int {
	if !strings.HasPrefix(s, "PT") {
		return 0
	}
	body := s[2:]
	total := 0
	if m := isoHours.FindStringSubmatch(body); m != nil {
		total += isoComponent(m[1], MaxMinutes/60) * 60
	}
	if m := isoMinutes.FindStringSubmatch(body); m != nil {
		total += isoComponent(m[1], MaxMinutes)
	}
	if total > MaxMinutes {
		return MaxMinutes
	}
	return total
}

// isoComponent parses a run of digits, saturating at limit.
func isoComponent(digits string, limit int) int {
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil || n > uint64(limit) {
		return limit
	}
	return int(n)
}

func secondsToMinutes(seconds float64) int {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds <= 0 {
		return 0
	}
	minutes := math.Floor(seconds / 60)
	if minutes >= MaxMinutes {
		return MaxMinutes
	}
	return int(minutes)
}

// FormatMinutesToISODuration renders minutes as "PT{h}H{m}M", omitting zero
// components. Non-positive input renders as "".
func FormatMinutesToISODuration(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	hours, rest := minutes/60, minutes%60
	var b strings.Builder
	b.WriteString("PT")
	if hours > 0 {
		fmt.Fprintf(&b, "%dH", hours)
	}
	if rest > 0 {
		fmt.Fprintf(&b, "%dM", rest)
	}
	return b.String()
}

// FormatMinutesForDisplay renders "1 hour 30 minutes", "45 minutes", "2 hours".
func FormatMinutesForDisplay(minutes int) string {
	if minutes <= 0 {
		return NotSet
	}
	hours, rest := minutes/60, minutes%60
	parts := make([]string, 0, 2)
	if hours > 0 {
		parts = append(parts, plural(hours, "hour"))
	}
	if rest > 0 {
		parts = append(parts, plural(rest, "minute"))
	}
	return strings.Join(parts, " ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
