package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitaplan/vitaplan/internal/scheduling/domain"
	"github.com/vitaplan/vitaplan/internal/scheduling/infrastructure/persistence"
)

func newRepo(t *testing.T) *persistence.SQLitePlanRepository {
	t.Helper()
	db, err := persistence.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return persistence.NewSQLitePlanRepository(db)
}

func buildPlan(t *testing.T) *domain.Plan {
	t.Helper()
	start := domain.NewDate(2026, time.January, 5)
	h, err := domain.NewHorizon(start, domain.AddDays(start, 13))
	require.NoError(t, err)

	plan := domain.NewPlan(h)
	plan.Book(domain.BookedSlot{
		ActivityID:      "meds",
		ActivityType:    domain.TypeMedication,
		Location:        "Home",
		Date:            start,
		Start:           domain.NewClock(8, 0),
		DurationMinutes: 15,
	})
	plan.Book(domain.BookedSlot{
		ActivityID:      "physio",
		ActivityType:    domain.TypeTherapy,
		Location:        "Clinic",
		Date:            domain.AddDays(start, 3),
		Start:           domain.NewClock(10, 30),
		DurationMinutes: 60,
		SpecialistID:    "dr-x",
		EquipmentIDs:    []string{"bands", "bench"},
	})
	plan.RecordFailure("swim", 0, domain.ReasonEquipmentUnavailable)
	plan.RecordFailure("swim", 3, domain.ReasonOverlap)
	return plan
}

func TestSQLitePlanRepository_SaveAndLoad(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	plan := buildPlan(t)

	require.NoError(t, repo.Save(ctx, plan))

	loaded, err := repo.FindByID(ctx, plan.ID())
	require.NoError(t, err)

	assert.Equal(t, plan.ID(), loaded.ID())
	assert.True(t, plan.Horizon().Start().Equal(loaded.Horizon().Start()))
	assert.True(t, plan.Horizon().End().Equal(loaded.Horizon().End()))

	want, got := plan.Slots(), loaded.Slots()
	require.Equal(t, len(want), len(got))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].ActivityID, got[i].ActivityID)
		assert.Equal(t, want[i].ActivityType, got[i].ActivityType)
		assert.Equal(t, want[i].Location, got[i].Location)
		assert.True(t, want[i].Date.Equal(got[i].Date))
		assert.Equal(t, want[i].Start, got[i].Start)
		assert.Equal(t, want[i].DurationMinutes, got[i].DurationMinutes)
		assert.Equal(t, want[i].SpecialistID, got[i].SpecialistID)
		assert.Equal(t, want[i].EquipmentIDs, got[i].EquipmentIDs)
	}

	assert.Equal(t, plan.FailureMap(), loaded.FailureMap())
	assert.Equal(t, 1, loaded.PlacedCount("meds"))
	assert.Len(t, loaded.SpecialistSlotsOn("dr-x", domain.AddDays(plan.Horizon().Start(), 3)), 1)
}

func TestSQLitePlanRepository_SaveIsIdempotent(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	plan := buildPlan(t)

	require.NoError(t, repo.Save(ctx, plan))
	require.NoError(t, repo.Save(ctx, plan))

	loaded, err := repo.FindByID(ctx, plan.ID())
	require.NoError(t, err)
	assert.Len(t, loaded.Slots(), 2)
}

func TestSQLitePlanRepository_NotFound(t *testing.T) {
	repo := newRepo(t)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)
}

func TestSQLitePlanRepository_ListRecent(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	first := buildPlan(t)
	require.NoError(t, repo.Save(ctx, first))
	second := buildPlan(t)
	require.NoError(t, repo.Save(ctx, second))

	ids, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Contains(t, ids, first.ID())
	assert.Contains(t, ids, second.ID())

	ids, err = repo.ListRecent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}
