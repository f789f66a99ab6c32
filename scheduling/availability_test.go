package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(t *testing.T, clock string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02T15:04", "2025-03-12T"+clock, time.Local)
	if err != nil {
		t.Fatalf("parse %s: %v", clock, err)
	}
	return ts
}

func nineToFive() *Doctor {
	return &Doctor{ID: 1, StartTime: "09:00", EndTime: "17:00"}
}

func TestIsValidTimeOfDay(t *testing.T) {
	valid := []string{"09:00", "9:00", "0:00", "00:00", "23:59", "12:30"}
	invalid := []string{"24:00", "12:60", "9am", "", "9:0", "09:00:00", "09-00", " 09:00", "123:00", "7:5"}
	for _, v := range valid {
		assert.True(t, IsValidTimeOfDay(v), v)
	}
	for _, v := range invalid {
		assert.False(t, IsValidTimeOfDay(v), v)
	}
}

func TestNormalizeTimeOfDay(t *testing.T) {
	got, ok := NormalizeTimeOfDay("9:05")
	assert.True(t, ok)
	assert.Equal(t, "09:05", got)

	got, ok = NormalizeTimeOfDay("17:30:00")
	assert.True(t, ok)
	assert.Equal(t, "17:30", got)

	_, ok = NormalizeTimeOfDay("25:00")
	assert.False(t, ok)
}

func TestIsTimeSlotAvailable_WorkingHours(t *testing.T) {
	doc := nineToFive()
	assert.False(t, IsTimeSlotAvailable(at(t, "16:45"), doc, []Booking{}, 30), "runs past closing")
	assert.True(t, IsTimeSlotAvailable(at(t, "16:30"), doc, []Booking{}, 30), "ends exactly at closing")
	assert.True(t, IsTimeSlotAvailable(at(t, "09:00"), doc, []Booking{}, 30), "starts at opening")
	assert.False(t, IsTimeSlotAvailable(at(t, "08:59"), doc, []Booking{}, 30), "before opening")
}

func TestIsTimeSlotAvailable_Overlap(t *testing.T) {
	doc := nineToFive()
	existing := []Booking{{DoctorID: 1, Start: at(t, "10:00"), Duration: ISODuration("PT30M")}}

	tests := []struct {
		name  string
		start string
		mins  int
		want  bool
	}{
		{"touching after", "10:30", 30, true},
		{"touching before", "09:30", 30, true},
		{"one minute early", "10:29", 30, false},
		{"same start", "10:00", 30, false},
		{"starts inside", "10:15", 30, false},
		{"ends inside", "09:45", 30, false},
		{"contains existing", "09:45", 60, false},
		{"inside existing", "10:05", 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTimeSlotAvailable(at(t, tt.start), doc, existing, tt.mins))
		})
	}
}

func TestIsTimeSlotAvailable_ExistingDurationForms(t *testing.T) {
	doc := nineToFive()
	for _, d := range []Duration{ISODuration("PT1H"), SecondsObject(3600), Seconds(3600)} {
		existing := []Booking{{DoctorID: 1, Start: at(t, "10:00"), Duration: d}}
		assert.False(t, IsTimeSlotAvailable(at(t, "10:45"), doc, existing, 15))
		assert.True(t, IsTimeSlotAvailable(at(t, "11:00"), doc, existing, 15))
	}
}

func TestIsTimeSlotAvailable_HugeExistingDurationBlocks(t *testing.T) {
	doc := &Doctor{ID: 1, StartTime: "08:00", EndTime: "17:00"}
	for _, d := range []Duration{Seconds(1e30), ISODuration("PT999999999999999999H")} {
		existing := []Booking{{DoctorID: 1, Start: at(t, "08:00"), Duration: d}}
		assert.False(t, IsTimeSlotAvailable(at(t, "09:00"), doc, existing, 30))
	}
}

func TestIsTimeSlotAvailable_OtherDoctorIgnored(t *testing.T) {
	doc := nineToFive()
	existing := []Booking{{DoctorID: 2, Start: at(t, "10:00"), Duration: ISODuration("PT1H")}}
	assert.True(t, IsTimeSlotAvailable(at(t, "10:15"), doc, existing, 30))
}

func TestIsTimeSlotAvailable_OtherDayIgnored(t *testing.T) {
	doc := nineToFive()
	existing := []Booking{{DoctorID: 1, Start: at(t, "10:00").AddDate(0, 0, 1), Duration: ISODuration("PT1H")}}
	assert.True(t, IsTimeSlotAvailable(at(t, "10:15"), doc, existing, 30))
}

func TestIsTimeSlotAvailable_MissingInputs(t *testing.T) {
	doc := nineToFive()
	assert.False(t, IsTimeSlotAvailable(time.Time{}, doc, []Booking{}, 30))
	assert.False(t, IsTimeSlotAvailable(at(t, "10:00"), nil, []Booking{}, 30))
	assert.False(t, IsTimeSlotAvailable(at(t, "10:00"), doc, nil, 30))
	assert.False(t, IsTimeSlotAvailable(at(t, "10:00"), doc, []Booking{}, 0))
}

func TestIsTimeSlotAvailable_MalformedDoctorHours(t *testing.T) {
	doc := &Doctor{ID: 1, StartTime: "nine", EndTime: "17:00"}
	assert.False(t, IsTimeSlotAvailable(at(t, "10:00"), doc, []Booking{}, 30))
}

func TestIsTimeSlotAvailable_DoesNotMutate(t *testing.T) {
	doc := nineToFive()
	existing := []Booking{
		{DoctorID: 2, Start: at(t, "10:00"), Duration: Seconds(1800)},
		{DoctorID: 1, Start: at(t, "11:00"), Duration: ISODuration("PT30M")},
	}
	snapshot := append([]Booking(nil), existing...)
	for i := 0; i < 3; i++ {
		IsTimeSlotAvailable(at(t, "11:15"), doc, existing, 30)
	}
	assert.Equal(t, snapshot, existing)
}

func TestIntervalOverlaps(t *testing.T) {
	a := NewInterval(at(t, "10:00"), 30)
	assert.False(t, a.Overlaps(NewInterval(at(t, "10:30"), 30)))
	assert.True(t, a.Overlaps(NewInterval(at(t, "10:29"), 30)))
	assert.True(t, NewInterval(at(t, "10:29"), 30).Overlaps(a))
}
