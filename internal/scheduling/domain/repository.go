package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrPlanNotFound = errors.New("plan not found")

// PlanRepository persists finished scheduling runs.
type PlanRepository interface {
	// Save persists the plan, its slots, and its failure map.
	Save(ctx context.Context, plan *Plan) error

	// FindByID loads a plan. Returns ErrPlanNotFound when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*Plan, error)

	// ListRecent returns the IDs of the most recently saved plans.
	ListRecent(ctx context.Context, limit int) ([]uuid.UUID, error)
}
