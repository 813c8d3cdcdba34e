package queries

import (
	"context"

	"github.com/google/uuid"

	"github.com/vitaplan/vitaplan/internal/scheduling/domain"
)

// GetPlanHandler loads a stored plan by identity.
type GetPlanHandler struct {
	repo domain.PlanRepository
}

// NewGetPlanHandler creates the handler.
func NewGetPlanHandler(repo domain.PlanRepository) *GetPlanHandler {
	return &GetPlanHandler{repo: repo}
}

// Handle returns the plan or domain.ErrPlanNotFound.
func (h *GetPlanHandler) Handle(ctx context.Context, id uuid.UUID) (*domain.Plan, error) {
	return h.repo.FindByID(ctx, id)
}
