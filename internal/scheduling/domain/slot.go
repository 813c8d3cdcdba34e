package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookedSlot is one concrete placement of an activity occurrence.
// The activity's type and location tags are denormalized onto the slot so
// scoring and presentation never need to resolve the activity table.
type BookedSlot struct {
	ID              uuid.UUID
	ActivityID      string
	ActivityType    ActivityType
	Location        string
	Date            time.Time
	Start           Clock
	DurationMinutes int
	SpecialistID    string
	EquipmentIDs    []string
}

// End returns the slot's half-open end clock.
func (s BookedSlot) End() Clock {
	return s.Start.Add(s.DurationMinutes)
}

// Overlaps reports whether the slot's time range overlaps [start, end)
// on the same date.
func (s BookedSlot) Overlaps(start, end Clock) bool {
	return RangesOverlap(s.Start, s.End(), start, end)
}

// UsesEquipment reports whether the slot bound the given equipment item.
func (s BookedSlot) UsesEquipment(equipmentID string) bool {
	for _, id := range s.EquipmentIDs {
		if id == equipmentID {
			return true
		}
	}
	return false
}
