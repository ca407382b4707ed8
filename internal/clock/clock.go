package clock

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTimeFormat is returned when user input does not match HH:MM.
var ErrInvalidTimeFormat = errors.New("invalid time format, expected HH:MM")

// MinutesPerDay is the number of minutes in one day.
const MinutesPerDay = 24 * 60

// TimeOfDay is a clock time with no date component, stored as minutes
// since midnight. The integer form is also the canonical persisted and
// wire representation: it cannot collide with the callback token
// separator the way a colon-bearing "HH:MM" string would.
type TimeOfDay int

// Parse parses a zero-padded 24-hour "HH:MM" string.
func Parse(s string) (TimeOfDay, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, ErrInvalidTimeFormat
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, ErrInvalidTimeFormat
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

// FromMinutes converts a minutes-since-midnight count, as carried in
// callback tokens and database rows, back into a TimeOfDay.
func FromMinutes(m int) (TimeOfDay, error) {
	if m < 0 || m >= MinutesPerDay {
		return 0, fmt.Errorf("minutes out of range: %d", m)
	}
	return TimeOfDay(m), nil
}

// FromTime truncates t to its minute of the day.
func FromTime(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

// String renders the time back in the same zero-padded HH:MM form it was
// parsed from.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Minutes returns the minutes-since-midnight count.
func (t TimeOfDay) Minutes() int {
	return int(t)
}

// Add returns the time shifted by the given number of minutes, wrapping
// at midnight in both directions.
func (t TimeOfDay) Add(minutes int) TimeOfDay {
	m := (int(t) + minutes) % MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return TimeOfDay(m)
}

// InWindow reports whether now's time of day falls inside the half-open
// window [t, t+period). Under a regular ticking of one period this makes
// a trigger due on exactly one tick per day. The window wraps across
// midnight when t is within one period of the end of the day.
func (t TimeOfDay) InWindow(now time.Time, period time.Duration) bool {
	if period <= 0 {
		return false
	}
	nowSec := now.Hour()*3600 + now.Minute()*60 + now.Second()
	start := int(t) * 60
	end := start + int(period/time.Second)
	if end <= 24*3600 {
		return nowSec >= start && nowSec < end
	}
	return nowSec >= start || nowSec < end-24*3600
}
