package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vitaplan/vitaplan/internal/scheduling/application/services"
	"github.com/vitaplan/vitaplan/internal/scheduling/domain"
	"github.com/vitaplan/vitaplan/internal/shared/infrastructure/eventbus"
)

// RunPlanCommand asks for one scheduling run over a validated input bundle.
type RunPlanCommand struct {
	Inputs services.Inputs
}

// RunPlanHandler executes the scheduler, persists the finished plan, and
// publishes its domain events. Repository and publisher are optional; the
// run itself never depends on them.
type RunPlanHandler struct {
	engine    *services.Engine
	repo      domain.PlanRepository
	publisher eventbus.Publisher
	logger    *slog.Logger
}

// NewRunPlanHandler creates the handler.
func NewRunPlanHandler(
	engine *services.Engine,
	repo domain.PlanRepository,
	publisher eventbus.Publisher,
	logger *slog.Logger,
) *RunPlanHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RunPlanHandler{
		engine:    engine,
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle runs the scheduler and returns the finished plan.
func (h *RunPlanHandler) Handle(ctx context.Context, cmd RunPlanCommand) (*domain.Plan, error) {
	plan, err := h.engine.Run(ctx, cmd.Inputs)
	if err != nil {
		return nil, fmt.Errorf("scheduling run: %w", err)
	}

	if h.repo != nil {
		if err := h.repo.Save(ctx, plan); err != nil {
			return nil, fmt.Errorf("save plan: %w", err)
		}
	}

	if h.publisher != nil {
		h.publishEvents(ctx, plan)
	}
	plan.ClearDomainEvents()

	return plan, nil
}

// eventEnvelope is the wire form of a published domain event.
type eventEnvelope struct {
	EventID     uuid.UUID       `json:"event_id"`
	AggregateID uuid.UUID       `json:"aggregate_id"`
	RoutingKey  string          `json:"routing_key"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Data        json.RawMessage `json:"data,omitempty"`
}

// publishEvents is best-effort: a broker outage must not fail the run.
func (h *RunPlanHandler) publishEvents(ctx context.Context, plan *domain.Plan) {
	for _, ev := range plan.DomainEvents() {
		data, err := eventData(ev)
		if err != nil {
			h.logger.Warn("skipping unencodable event", "routing_key", ev.RoutingKey(), "error", err)
			continue
		}
		payload, err := json.Marshal(eventEnvelope{
			EventID:     ev.EventID(),
			AggregateID: ev.AggregateID(),
			RoutingKey:  ev.RoutingKey(),
			OccurredAt:  ev.OccurredAt(),
			Data:        data,
		})
		if err != nil {
			h.logger.Warn("skipping unencodable event", "routing_key", ev.RoutingKey(), "error", err)
			continue
		}
		if err := h.publisher.Publish(ctx, ev.RoutingKey(), payload); err != nil {
			h.logger.Warn("event publish failed", "routing_key", ev.RoutingKey(), "error", err)
		}
	}
}

func eventData(ev interface{ RoutingKey() string }) (json.RawMessage, error) {
	switch e := ev.(type) {
	case domain.SlotBooked:
		return json.Marshal(map[string]any{
			"slot_id":     e.Slot.ID,
			"activity_id": e.Slot.ActivityID,
			"date":        domain.FormatDate(e.Slot.Date),
			"start":       e.Slot.Start.String(),
			"duration":    e.Slot.DurationMinutes,
		})
	case domain.PlanCompleted:
		return json.Marshal(map[string]any{
			"slot_count":    e.SlotCount,
			"failure_count": e.FailureCount,
		})
	default:
		return nil, nil
	}
}
