package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidClock = errors.New("clock time out of range")

// Clock is a time of day expressed as minutes since midnight.
type Clock int

// MinutesPerDay is the number of clock minutes in a calendar day.
const MinutesPerDay = 24 * 60

// NewClock builds a clock time from hours and minutes.
func NewClock(hour, minute int) Clock {
	return Clock(hour*60 + minute)
}

// ParseClock parses a 24-hour HH:MM string.
func ParseClock(s string) (Clock, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, ErrInvalidClock)
	}
	return NewClock(hour, minute), nil
}

// String renders the clock time as HH:MM.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Valid reports whether the clock time lies within a single day.
func (c Clock) Valid() bool {
	return c >= 0 && c < MinutesPerDay
}

// Add returns the clock time shifted by the given number of minutes.
func (c Clock) Add(minutes int) Clock {
	return c + Clock(minutes)
}

// RangesOverlap reports whether the half-open ranges [aStart, aEnd) and
// [bStart, bEnd) share at least one minute.
func RangesOverlap(aStart, aEnd, bStart, bEnd Clock) bool {
	return aStart < bEnd && bStart < aEnd
}

// Weekday numbers days of the week with 0 = Monday through 6 = Sunday.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// WeekdayOf converts a calendar date to the 0 = Monday numbering.
func WeekdayOf(date time.Time) Weekday {
	return Weekday((int(date.Weekday()) + 6) % 7)
}

// Valid reports whether the weekday is in [0, 6].
func (w Weekday) Valid() bool {
	return w >= 0 && w <= 6
}

func (w Weekday) String() string {
	names := [...]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	if !w.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return names[w]
}

// dateLayout is the ISO calendar date format used at every interface boundary.
const dateLayout = "2006-01-02"

// NewDate builds a UTC-midnight calendar date.
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf truncates a timestamp to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return NewDate(y, m, d)
}

// ParseDate parses an ISO YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders a date as ISO YYYY-MM-DD.
func FormatDate(date time.Time) string {
	return date.Format(dateLayout)
}

// AddDays returns the date shifted by n calendar days.
func AddDays(date time.Time, n int) time.Time {
	return date.AddDate(0, 0, n)
}

// DaysBetween returns the number of calendar days from a to b (b - a).
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}
