package domain

import (
	"github.com/google/uuid"

	sharedDomain "github.com/vitaplan/vitaplan/internal/shared/domain"
)

const (
	// AggregateTypePlan identifies the plan aggregate in event envelopes.
	AggregateTypePlan = "plan"

	RoutingKeySlotBooked    = "plan.slot.booked"
	RoutingKeyPlanCompleted = "plan.completed"
)

// SlotBooked is emitted for every slot appended to a plan.
type SlotBooked struct {
	sharedDomain.BaseEvent
	Slot BookedSlot
}

// NewSlotBooked creates a SlotBooked event.
func NewSlotBooked(planID uuid.UUID, slot BookedSlot) SlotBooked {
	return SlotBooked{
		BaseEvent: sharedDomain.NewBaseEvent(planID, AggregateTypePlan, RoutingKeySlotBooked),
		Slot:      slot,
	}
}

// PlanCompleted is emitted once both scheduling phases have finished.
type PlanCompleted struct {
	sharedDomain.BaseEvent
	SlotCount    int
	FailureCount int
}

// NewPlanCompleted creates a PlanCompleted event.
func NewPlanCompleted(planID uuid.UUID, slotCount, failureCount int) PlanCompleted {
	return PlanCompleted{
		BaseEvent:    sharedDomain.NewBaseEvent(planID, AggregateTypePlan, RoutingKeyPlanCompleted),
		SlotCount:    slotCount,
		FailureCount: failureCount,
	}
}
