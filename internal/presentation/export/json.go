// Package export serializes finished plans for downstream consumers. The
// interface formats are binding: ISO dates, HH:MM clocks, weekday integers
// with 0 = Monday.
package export

import (
	"encoding/json"
	"io"

	"github.com/vitaplan/vitaplan/internal/scheduling/domain"
)

// Document is the JSON wire form of a finished plan. Slots appear in
// emission order (Phase 1 then Phase 2); consumers grouping by date must
// not assume the list is date-sorted.
type Document struct {
	PlanID    string                    `json:"plan_id"`
	StartDate string                    `json:"start_date"`
	EndDate   string                    `json:"end_date"`
	Slots     []SlotRecord              `json:"slots"`
	Failures  map[string][]FailureEntry `json:"failures"`
}

// SlotRecord is the wire form of one booked slot.
type SlotRecord struct {
	ActivityID      string   `json:"activity_id"`
	ActivityType    string   `json:"activity_type"`
	Location        string   `json:"location"`
	Date            string   `json:"date"`
	Start           string   `json:"start"`
	DurationMinutes int      `json:"duration_minutes"`
	SpecialistID    string   `json:"specialist_id,omitempty"`
	EquipmentIDs    []string `json:"equipment_ids,omitempty"`
}

// FailureEntry is the wire form of one unplaced occurrence.
type FailureEntry struct {
	Occurrence int    `json:"occurrence"`
	Reason     string `json:"reason"`
}

// FromPlan builds the wire document for a finished plan.
func FromPlan(plan *domain.Plan) Document {
	doc := Document{
		PlanID:    plan.ID().String(),
		StartDate: domain.FormatDate(plan.Horizon().Start()),
		EndDate:   domain.FormatDate(plan.Horizon().End()),
		Slots:     make([]SlotRecord, 0, len(plan.Slots())),
		Failures:  make(map[string][]FailureEntry),
	}
	for _, slot := range plan.Slots() {
		doc.Slots = append(doc.Slots, SlotRecord{
			ActivityID:      slot.ActivityID,
			ActivityType:    string(slot.ActivityType),
			Location:        slot.Location,
			Date:            domain.FormatDate(slot.Date),
			Start:           slot.Start.String(),
			DurationMinutes: slot.DurationMinutes,
			SpecialistID:    slot.SpecialistID,
			EquipmentIDs:    slot.EquipmentIDs,
		})
	}
	for activityID, entries := range plan.FailureMap() {
		for _, f := range entries {
			doc.Failures[activityID] = append(doc.Failures[activityID], FailureEntry{
				Occurrence: f.Occurrence,
				Reason:     string(f.Reason),
			})
		}
	}
	return doc
}

// WriteJSON renders the plan as indented JSON.
func WriteJSON(w io.Writer, plan *domain.Plan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(FromPlan(plan))
}
