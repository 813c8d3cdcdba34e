package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitaplan/vitaplan/internal/scheduling/application/commands"
	"github.com/vitaplan/vitaplan/internal/scheduling/application/services"
	"github.com/vitaplan/vitaplan/internal/scheduling/domain"
)

type memoryRepo struct {
	saved []*domain.Plan
}

func (r *memoryRepo) Save(ctx context.Context, plan *domain.Plan) error {
	r.saved = append(r.saved, plan)
	return nil
}

func (r *memoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Plan, error) {
	for _, p := range r.saved {
		if p.ID() == id {
			return p, nil
		}
	}
	return nil, domain.ErrPlanNotFound
}

func (r *memoryRepo) ListRecent(ctx context.Context, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, p := range r.saved {
		ids = append(ids, p.ID())
	}
	return ids, nil
}

type capturingPublisher struct {
	keys []string
}

func (p *capturingPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	p.keys = append(p.keys, routingKey)
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

func sampleInputs(t *testing.T) services.Inputs {
	t.Helper()
	start := domain.NewDate(2026, time.January, 5)
	h, err := domain.NewHorizon(start, domain.AddDays(start, 6))
	require.NoError(t, err)

	return services.Inputs{
		Horizon: h,
		Activities: []domain.Activity{{
			ID:              "meds",
			Type:            domain.TypeMedication,
			Priority:        1,
			Frequency:       domain.NewDailyFrequency(),
			DurationMinutes: 15,
			Location:        "Home",
			RemoteCapable:   true,
		}},
	}
}

func TestRunPlanHandler_Handle(t *testing.T) {
	repo := &memoryRepo{}
	pub := &capturingPublisher{}
	engine := services.NewEngine(services.DefaultConfig(), nil)
	handler := commands.NewRunPlanHandler(engine, repo, pub, nil)

	plan, err := handler.Handle(context.Background(), commands.RunPlanCommand{Inputs: sampleInputs(t)})
	require.NoError(t, err)

	assert.Equal(t, 7, plan.PlacedCount("meds"))
	require.Len(t, repo.saved, 1)
	assert.Equal(t, plan.ID(), repo.saved[0].ID())

	// Seven slot events plus the completion event, then the plan is clean.
	require.Len(t, pub.keys, 8)
	assert.Equal(t, domain.RoutingKeySlotBooked, pub.keys[0])
	assert.Equal(t, domain.RoutingKeyPlanCompleted, pub.keys[7])
	assert.Empty(t, plan.DomainEvents())
}

func TestRunPlanHandler_ValidationErrorSkipsPersistence(t *testing.T) {
	repo := &memoryRepo{}
	engine := services.NewEngine(services.DefaultConfig(), nil)
	handler := commands.NewRunPlanHandler(engine, repo, nil, nil)

	in := sampleInputs(t)
	in.Activities[0].Priority = 9

	_, err := handler.Handle(context.Background(), commands.RunPlanCommand{Inputs: in})
	require.Error(t, err)
	assert.Empty(t, repo.saved)
}

func TestRunPlanHandler_WorksWithoutRepoAndPublisher(t *testing.T) {
	engine := services.NewEngine(services.DefaultConfig(), nil)
	handler := commands.NewRunPlanHandler(engine, nil, nil, nil)

	plan, err := handler.Handle(context.Background(), commands.RunPlanCommand{Inputs: sampleInputs(t)})
	require.NoError(t, err)
	assert.Equal(t, 7, plan.PlacedCount("meds"))
}
