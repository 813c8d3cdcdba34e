package services

import (
	"time"

	"github.com/vitaplan/vitaplan/internal/scheduling/domain"
)

// ResourceIndex precomputes per-weekday availability, holidays, maintenance
// windows, and per-activity occurrence counts so the hot loop never scans
// raw records. Lookups are side-effect free and stable across calls.
type ResourceIndex struct {
	horizon     domain.Horizon
	activities  map[string]*domain.Activity
	specialists map[string]*specialistIndex
	equipment   map[string]*domain.Equipment
	travel      []domain.TravelPeriod
	required    map[string]int
}

type specialistIndex struct {
	blocksByDay [7][]domain.AvailabilityBlock
	offDays     [7]bool
	holidays    map[string]bool
}

// BuildResourceIndex indexes validated, normalized input records for one run.
func BuildResourceIndex(
	horizon domain.Horizon,
	activities []domain.Activity,
	specialists []domain.Specialist,
	equipment []domain.Equipment,
	travel []domain.TravelPeriod,
) *ResourceIndex {
	idx := &ResourceIndex{
		horizon:     horizon,
		activities:  make(map[string]*domain.Activity, len(activities)),
		specialists: make(map[string]*specialistIndex, len(specialists)),
		equipment:   make(map[string]*domain.Equipment, len(equipment)),
		travel:      travel,
		required:    make(map[string]int, len(activities)),
	}

	for i := range activities {
		a := &activities[i]
		idx.activities[a.ID] = a
		idx.required[a.ID] = a.Frequency.RequiredOccurrences(horizon)
	}

	for i := range specialists {
		s := &specialists[i]
		si := &specialistIndex{holidays: make(map[string]bool, len(s.Holidays))}
		for _, b := range s.Availability {
			si.blocksByDay[b.Day] = append(si.blocksByDay[b.Day], b)
		}
		for _, d := range s.DaysOff {
			si.offDays[d] = true
		}
		for _, h := range s.Holidays {
			si.holidays[domain.FormatDate(h)] = true
		}
		idx.specialists[s.ID] = si
	}

	for i := range equipment {
		e := &equipment[i]
		idx.equipment[e.ID] = e
	}

	return idx
}

func (idx *ResourceIndex) Horizon() domain.Horizon { return idx.horizon }

// Activity resolves an activity record by identity.
func (idx *ResourceIndex) Activity(id string) (*domain.Activity, bool) {
	a, ok := idx.activities[id]
	return a, ok
}

// Required returns the occurrence count the activity's frequency demands.
func (idx *ResourceIndex) Required(activityID string) int {
	return idx.required[activityID]
}

// SpecialistFree reports whether the specialist works the proposed range:
// not a holiday, not a day off, and some availability block covers it.
func (idx *ResourceIndex) SpecialistFree(specialistID string, date time.Time, start, end domain.Clock) bool {
	si, ok := idx.specialists[specialistID]
	if !ok {
		return false
	}
	if si.holidays[domain.FormatDate(date)] {
		return false
	}
	day := domain.WeekdayOf(date)
	if si.offDays[day] {
		return false
	}
	for _, b := range si.blocksByDay[day] {
		if b.Start <= start && b.End >= end {
			return true
		}
	}
	return false
}

// EquipmentUnderMaintenance reports whether any maintenance window of the
// equipment covers the date and overlaps the proposed clock range.
func (idx *ResourceIndex) EquipmentUnderMaintenance(equipmentID string, date time.Time, start, end domain.Clock) bool {
	e, ok := idx.equipment[equipmentID]
	if !ok {
		return false
	}
	for _, w := range e.Maintenance {
		if w.CoversDate(date) && domain.RangesOverlap(w.Start, w.End, start, end) {
			return true
		}
	}
	return false
}

// TravelBlocks reports whether a travel period covering the date forbids
// the activity: non-remote activities pause during every travel period,
// remote ones only when the period itself disallows remote work.
func (idx *ResourceIndex) TravelBlocks(date time.Time, remoteCapable bool) bool {
	for _, p := range idx.travel {
		if !p.Covers(date) {
			continue
		}
		if !remoteCapable || !p.RemoteAllowed {
			return true
		}
	}
	return false
}
