package sim

import (
	"fmt"
	"time"
)

// ClockLayout is the wall-clock format used by shift start times and visit rows.
const ClockLayout = "15:04"

const minutesPerDay = 24 * 60

// ClockParseError reports a wall-clock string that does not match "HH:MM".
type ClockParseError struct {
	Value string
	Err   error
}

func (e *ClockParseError) Error() string {
	return fmt.Sprintf("invalid clock %q: expected HH:MM", e.Value)
}

func (e *ClockParseError) Unwrap() error {
	return e.Err
}

// ParseClock converts an "HH:MM" string into minutes since midnight.
func ParseClock(s string) (int64, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, &ClockParseError{Value: s, Err: err}
	}
	return int64(t.Hour()*60 + t.Minute()), nil
}

// FormatClock renders startMinutes+offset as "HH:MM", wrapping past midnight.
func FormatClock(startMinutes, offset int64) string {
	m := (startMinutes + offset) % minutesPerDay
	if m < 0 {
		m += minutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// MinutesBetween returns to-from in minutes for two "HH:MM" clocks.
// No day rollover is applied, so a negative result means to is earlier in the day.
func MinutesBetween(from, to string) (int64, error) {
	a, err := ParseClock(from)
	if err != nil {
		return 0, err
	}
	b, err := ParseClock(to)
	if err != nil {
		return 0, err
	}
	return b - a, nil
}
