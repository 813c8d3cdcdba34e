package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/vitaplan/vitaplan/internal/shared/domain"
)

// Plan is the mutable booking state of one scheduling run: an append-only
// sequence of booked slots with derived secondary indexes, the per-activity
// placement counters, and the placement-failure map. It is owned by the
// phase drivers; the validator and scorer only read it.
type Plan struct {
	sharedDomain.BaseAggregateRoot
	horizon Horizon
	slots   []BookedSlot

	byDate           map[string][]int
	bySpecialistDate map[string][]int
	byEquipmentDate  map[string][]int
	byActivity       map[string][]int
	placed           map[string]int
	failures         map[string][]PlacementFailure
}

// NewPlan creates an empty plan for the horizon.
func NewPlan(horizon Horizon) *Plan {
	return &Plan{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		horizon:           horizon,
		slots:             make([]BookedSlot, 0),
		byDate:            make(map[string][]int),
		bySpecialistDate:  make(map[string][]int),
		byEquipmentDate:   make(map[string][]int),
		byActivity:        make(map[string][]int),
		placed:            make(map[string]int),
		failures:          make(map[string][]PlacementFailure),
	}
}

func (p *Plan) Horizon() Horizon { return p.horizon }

func resourceDateKey(resourceID string, date time.Time) string {
	return resourceID + "|" + FormatDate(date)
}

// Book appends a slot and refreshes every secondary index in the same step.
// The caller must have validated the slot against the current state.
func (p *Plan) Book(slot BookedSlot) {
	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}
	slot.Date = DateOf(slot.Date)

	idx := len(p.slots)
	p.slots = append(p.slots, slot)

	dk := FormatDate(slot.Date)
	p.byDate[dk] = append(p.byDate[dk], idx)
	if slot.SpecialistID != "" {
		sk := resourceDateKey(slot.SpecialistID, slot.Date)
		p.bySpecialistDate[sk] = append(p.bySpecialistDate[sk], idx)
	}
	for _, eq := range slot.EquipmentIDs {
		ek := resourceDateKey(eq, slot.Date)
		p.byEquipmentDate[ek] = append(p.byEquipmentDate[ek], idx)
	}
	p.byActivity[slot.ActivityID] = append(p.byActivity[slot.ActivityID], idx)
	p.placed[slot.ActivityID]++
	p.Touch()

	p.AddDomainEvent(NewSlotBooked(p.ID(), slot))
}

// RecordFailure notes that occurrence k of the activity could not be placed.
func (p *Plan) RecordFailure(activityID string, occurrence int, reason FailureReason) {
	p.failures[activityID] = append(p.failures[activityID], PlacementFailure{
		Occurrence: occurrence,
		Reason:     reason,
	})
	p.Touch()
}

// ResolveFailure removes the failure entry for an occurrence that a later
// phase managed to place.
func (p *Plan) ResolveFailure(activityID string, occurrence int) {
	entries := p.failures[activityID]
	for i, f := range entries {
		if f.Occurrence == occurrence {
			p.failures[activityID] = append(entries[:i], entries[i+1:]...)
			break
		}
	}
	if len(p.failures[activityID]) == 0 {
		delete(p.failures, activityID)
	}
	p.Touch()
}

// Complete marks the run finished and emits the completion event.
func (p *Plan) Complete() {
	p.AddDomainEvent(NewPlanCompleted(p.ID(), len(p.slots), p.FailureCount()))
}

// Slots returns every booked slot in append order.
func (p *Plan) Slots() []BookedSlot {
	return p.slots
}

func (p *Plan) slotsAt(index map[string][]int, key string) []BookedSlot {
	ids := index[key]
	if len(ids) == 0 {
		return nil
	}
	out := make([]BookedSlot, 0, len(ids))
	for _, i := range ids {
		out = append(out, p.slots[i])
	}
	return out
}

// SlotsOn returns the slots booked on a date, in append order.
func (p *Plan) SlotsOn(date time.Time) []BookedSlot {
	return p.slotsAt(p.byDate, FormatDate(DateOf(date)))
}

// SpecialistSlotsOn returns the slots bound to a specialist on a date.
func (p *Plan) SpecialistSlotsOn(specialistID string, date time.Time) []BookedSlot {
	return p.slotsAt(p.bySpecialistDate, resourceDateKey(specialistID, DateOf(date)))
}

// EquipmentSlotsOn returns the slots that used an equipment item on a date.
func (p *Plan) EquipmentSlotsOn(equipmentID string, date time.Time) []BookedSlot {
	return p.slotsAt(p.byEquipmentDate, resourceDateKey(equipmentID, DateOf(date)))
}

// SlotsFor returns the slots placed for an activity, in append order.
func (p *Plan) SlotsFor(activityID string) []BookedSlot {
	return p.slotsAt(p.byActivity, activityID)
}

// PlacedCount returns how many occurrences of the activity are placed.
func (p *Plan) PlacedCount(activityID string) int {
	return p.placed[activityID]
}

// BookedCountOn returns how many slots are booked on a date.
func (p *Plan) BookedCountOn(date time.Time) int {
	return len(p.byDate[FormatDate(DateOf(date))])
}

// Failures returns the failure entries for an activity. A nil result means
// every occurrence was placed.
func (p *Plan) Failures(activityID string) []PlacementFailure {
	return p.failures[activityID]
}

// FailedActivityIDs returns the activities with at least one unplaced
// occurrence, in stable (sorted) order.
func (p *Plan) FailedActivityIDs() []string {
	out := make([]string, 0, len(p.failures))
	for id := range p.failures {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// FailureMap returns a copy of the whole failure map.
func (p *Plan) FailureMap() map[string][]PlacementFailure {
	out := make(map[string][]PlacementFailure, len(p.failures))
	for id, entries := range p.failures {
		cp := make([]PlacementFailure, len(entries))
		copy(cp, entries)
		out[id] = cp
	}
	return out
}

// FailureCount returns the total number of unplaced occurrences.
func (p *Plan) FailureCount() int {
	n := 0
	for _, entries := range p.failures {
		n += len(entries)
	}
	return n
}

// LightDays returns the horizon dates whose booked count is strictly below
// the threshold, sorted by (count ascending, date ascending).
func (p *Plan) LightDays(threshold int) []time.Time {
	type dayLoad struct {
		date  time.Time
		count int
	}
	var light []dayLoad
	for i := 0; i < p.horizon.Days(); i++ {
		d := p.horizon.DateAt(i)
		if c := p.BookedCountOn(d); c < threshold {
			light = append(light, dayLoad{date: d, count: c})
		}
	}
	sort.SliceStable(light, func(i, j int) bool {
		if light[i].count != light[j].count {
			return light[i].count < light[j].count
		}
		return light[i].date.Before(light[j].date)
	})
	out := make([]time.Time, len(light))
	for i, d := range light {
		out[i] = d.date
	}
	return out
}

// RehydratePlan recreates a plan from persisted state without emitting events.
func RehydratePlan(
	id uuid.UUID,
	horizon Horizon,
	slots []BookedSlot,
	failures map[string][]PlacementFailure,
	createdAt, updatedAt time.Time,
) *Plan {
	base := sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)
	p := &Plan{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(base),
		horizon:           horizon,
		slots:             make([]BookedSlot, 0, len(slots)),
		byDate:            make(map[string][]int),
		bySpecialistDate:  make(map[string][]int),
		byEquipmentDate:   make(map[string][]int),
		byActivity:        make(map[string][]int),
		placed:            make(map[string]int),
		failures:          make(map[string][]PlacementFailure),
	}
	for _, s := range slots {
		idx := len(p.slots)
		s.Date = DateOf(s.Date)
		p.slots = append(p.slots, s)
		dk := FormatDate(s.Date)
		p.byDate[dk] = append(p.byDate[dk], idx)
		if s.SpecialistID != "" {
			p.bySpecialistDate[resourceDateKey(s.SpecialistID, s.Date)] = append(p.bySpecialistDate[resourceDateKey(s.SpecialistID, s.Date)], idx)
		}
		for _, eq := range s.EquipmentIDs {
			p.byEquipmentDate[resourceDateKey(eq, s.Date)] = append(p.byEquipmentDate[resourceDateKey(eq, s.Date)], idx)
		}
		p.byActivity[s.ActivityID] = append(p.byActivity[s.ActivityID], idx)
		p.placed[s.ActivityID]++
	}
	for activityID, entries := range failures {
		cp := make([]PlacementFailure, len(entries))
		copy(cp, entries)
		p.failures[activityID] = cp
	}
	return p
}
