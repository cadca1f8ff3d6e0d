package timeutil

import (
	"fmt"
	"time"
)

const (
	// DayLayout renders "Monday, 07 Jul 2025".
	DayLayout = "Monday, 02 Jan 2006"
	// ClockLayout renders "02:00 PM".
	ClockLayout = "03:04 PM"
)

// FixedLocation returns a zone with a constant UTC offset. Offsets of
// +05:30 are named IST, anything else gets a UTC±hh:mm name.
func FixedLocation(offsetMinutes int) *time.Location {
	if offsetMinutes == 330 {
		return time.FixedZone("IST", offsetMinutes*60)
	}

	sign := '+'
	abs := offsetMinutes
	if abs < 0 {
		sign = '-'
		abs = -abs
	}
	return time.FixedZone(fmt.Sprintf("UTC%c%02d:%02d", sign, abs/60, abs%60), offsetMinutes*60)
}

// ParseRFC3339 parses an absolute timestamp and converts it to loc.
func ParseRFC3339(value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("time value is required")
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse time: %s", value)
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t, nil
}

// IsRFC3339 reports whether value is already an absolute timestamp.
func IsRFC3339(value string) bool {
	_, err := time.Parse(time.RFC3339, value)
	return err == nil
}

// FormatDay formats t in loc using DayLayout.
func FormatDay(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayLayout)
}

// FormatClock formats t in loc using ClockLayout.
func FormatClock(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(ClockLayout)
}
