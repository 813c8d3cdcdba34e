package services

import "github.com/vitaplan/vitaplan/internal/scheduling/domain"

// Config carries the scheduler's tunable knobs. The defaults are part of
// the external contract; callers that change them take on interop risk
// with downstream consumers.
type Config struct {
	// DayStart and DayEnd bound the schedulable day, half-open on DayEnd.
	DayStart domain.Clock
	DayEnd   domain.Clock

	// SlotStepMinutes is the start-time enumeration granularity.
	SlotStepMinutes int

	// CandidateCap bounds the number of validator-accepted candidates
	// scored per occurrence.
	CandidateCap int

	// LightDayThreshold is the booked-count ceiling below which a day is
	// eligible for backfill.
	LightDayThreshold int
}

// DefaultConfig returns the contract defaults: a 06:00-21:00 day, 30-minute
// starts, 32 scored candidates per occurrence, and a light-day threshold of 15.
func DefaultConfig() Config {
	return Config{
		DayStart:          domain.NewClock(6, 0),
		DayEnd:            domain.NewClock(21, 0),
		SlotStepMinutes:   30,
		CandidateCap:      32,
		LightDayThreshold: 15,
	}
}
