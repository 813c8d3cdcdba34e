package queries

import (
	"context"

	"github.com/google/uuid"

	"github.com/vitaplan/vitaplan/internal/scheduling/domain"
)

// ListPlansHandler lists recently stored plan IDs.
type ListPlansHandler struct {
	repo domain.PlanRepository
}

// NewListPlansHandler creates the handler.
func NewListPlansHandler(repo domain.PlanRepository) *ListPlansHandler {
	return &ListPlansHandler{repo: repo}
}

// Handle returns up to limit plan IDs, most recent first.
func (h *ListPlansHandler) Handle(ctx context.Context, limit int) ([]uuid.UUID, error) {
	if limit <= 0 {
		limit = 20
	}
	return h.repo.ListRecent(ctx, limit)
}
