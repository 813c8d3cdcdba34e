package services

import (
	"time"

	"github.com/vitaplan/vitaplan/internal/scheduling/domain"
)

// Proposal is a candidate placement awaiting validation and scoring.
type Proposal struct {
	Activity *domain.Activity
	Date     time.Time
	Start    domain.Clock
}

// End returns the proposal's half-open end clock.
func (p Proposal) End() domain.Clock {
	return p.Start.Add(p.Activity.DurationMinutes)
}

// Validator applies the hard constraints to a proposal against the current
// booking state. Checks run in a fixed order and the first failure wins.
type Validator struct {
	index *ResourceIndex
	cfg   Config
}

// NewValidator creates a validator over the run's resource index.
func NewValidator(index *ResourceIndex, cfg Config) *Validator {
	return &Validator{index: index, cfg: cfg}
}

// Check accepts the proposal or returns the reason of the first failed
// constraint. Rejection is final for the (date, start) pair.
func (v *Validator) Check(p Proposal, plan *domain.Plan) (bool, domain.FailureReason) {
	a := p.Activity
	start, end := p.Start, p.End()

	// Day boundary. The schedulable day is fixed; a slot escaping it is
	// classified as a time-window failure.
	if start < v.cfg.DayStart || end > v.cfg.DayEnd {
		return false, domain.ReasonTimeWindow
	}

	// Activity time window.
	if a.Window != nil && (start < a.Window.Start || end > a.Window.End) {
		return false, domain.ReasonTimeWindow
	}

	// Travel compatibility.
	if v.index.TravelBlocks(p.Date, a.RemoteCapable) {
		return false, domain.ReasonTravel
	}

	// No overlap with anything already on the calendar that day.
	for _, s := range plan.SlotsOn(p.Date) {
		if s.Overlaps(start, end) {
			return false, domain.ReasonOverlap
		}
	}

	// Specialist availability and double-booking.
	if a.RequiresSpecialist() {
		if !v.index.SpecialistFree(a.SpecialistID, p.Date, start, end) {
			return false, domain.ReasonSpecialistUnavailable
		}
		for _, s := range plan.SpecialistSlotsOn(a.SpecialistID, p.Date) {
			if s.Overlaps(start, end) {
				return false, domain.ReasonSpecialistBooked
			}
		}
	}

	// Equipment maintenance and double-booking.
	for _, eq := range a.EquipmentIDs {
		if v.index.EquipmentUnderMaintenance(eq, p.Date, start, end) {
			return false, domain.ReasonEquipmentUnavailable
		}
		for _, s := range plan.EquipmentSlotsOn(eq, p.Date) {
			if s.Overlaps(start, end) {
				return false, domain.ReasonEquipmentBooked
			}
		}
	}

	return true, ""
}
