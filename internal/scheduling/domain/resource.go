package domain

import (
	"errors"
	"sort"
	"time"
)

var (
	ErrInvalidAvailabilityBlock = errors.New("availability block end must be after start")
	ErrOverlappingAvailability  = errors.New("availability blocks overlap on the same weekday")
	ErrInvalidDateRange         = errors.New("date range end precedes start")
)

// AvailabilityBlock is one weekly recurring window a specialist works.
type AvailabilityBlock struct {
	Day   Weekday
	Start Clock
	End   Clock
}

// Specialist is a bookable person with weekly availability and holidays.
type Specialist struct {
	ID           string
	Discipline   string
	Availability []AvailabilityBlock
	DaysOff      []Weekday
	Holidays     []time.Time
}

// Validate checks block orientation and same-weekday overlap.
func (s Specialist) Validate() error {
	for _, b := range s.Availability {
		if !b.Day.Valid() {
			return ErrInvalidPreferredDay
		}
		if b.End <= b.Start {
			return ErrInvalidAvailabilityBlock
		}
	}
	byDay := make(map[Weekday][]AvailabilityBlock)
	for _, b := range s.Availability {
		byDay[b.Day] = append(byDay[b.Day], b)
	}
	for _, blocks := range byDay {
		sort.Slice(blocks, func(i, j int) bool { return blocks[i].Start < blocks[j].Start })
		for i := 1; i < len(blocks); i++ {
			if blocks[i].Start < blocks[i-1].End {
				return ErrOverlappingAvailability
			}
		}
	}
	return nil
}

// Normalize sorts set-like fields into a stable order.
func (s *Specialist) Normalize() {
	sort.Slice(s.Availability, func(i, j int) bool {
		if s.Availability[i].Day != s.Availability[j].Day {
			return s.Availability[i].Day < s.Availability[j].Day
		}
		return s.Availability[i].Start < s.Availability[j].Start
	})
	sort.Slice(s.DaysOff, func(i, j int) bool { return s.DaysOff[i] < s.DaysOff[j] })
	sort.Slice(s.Holidays, func(i, j int) bool { return s.Holidays[i].Before(s.Holidays[j]) })
	for i := range s.Holidays {
		s.Holidays[i] = DateOf(s.Holidays[i])
	}
}

// MaintenanceWindow takes a piece of equipment out of service for a clock
// range on every date of a date range.
type MaintenanceWindow struct {
	StartDate time.Time
	EndDate   time.Time
	Start     Clock
	End       Clock
}

// Validate checks both axes of the window.
func (w MaintenanceWindow) Validate() error {
	if DateOf(w.EndDate).Before(DateOf(w.StartDate)) {
		return ErrInvalidDateRange
	}
	if w.End < w.Start {
		return ErrInvalidDateRange
	}
	return nil
}

// CoversDate reports whether the window's date range includes the date.
func (w MaintenanceWindow) CoversDate(date time.Time) bool {
	date = DateOf(date)
	return !date.Before(DateOf(w.StartDate)) && !date.After(DateOf(w.EndDate))
}

// Equipment is a shared bookable resource with maintenance downtime.
type Equipment struct {
	ID          string
	Maintenance []MaintenanceWindow
}

// Validate checks each maintenance window.
func (e Equipment) Validate() error {
	for _, w := range e.Maintenance {
		if err := w.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Normalize sorts maintenance windows into a stable order.
func (e *Equipment) Normalize() {
	sort.Slice(e.Maintenance, func(i, j int) bool {
		if !e.Maintenance[i].StartDate.Equal(e.Maintenance[j].StartDate) {
			return e.Maintenance[i].StartDate.Before(e.Maintenance[j].StartDate)
		}
		return e.Maintenance[i].Start < e.Maintenance[j].Start
	})
}

// TravelPeriod is a date range during which the traveller is away.
// RemoteAllowed indicates whether remote-capable activities may continue.
type TravelPeriod struct {
	StartDate     time.Time
	EndDate       time.Time
	RemoteAllowed bool
}

// Validate checks the range orientation.
func (p TravelPeriod) Validate() error {
	if DateOf(p.EndDate).Before(DateOf(p.StartDate)) {
		return ErrInvalidDateRange
	}
	return nil
}

// Covers reports whether the date falls inside the travel period.
func (p TravelPeriod) Covers(date time.Time) bool {
	date = DateOf(date)
	return !date.Before(DateOf(p.StartDate)) && !date.After(DateOf(p.EndDate))
}
