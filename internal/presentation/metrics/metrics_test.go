package metrics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitaplan/vitaplan/internal/presentation/metrics"
	"github.com/vitaplan/vitaplan/internal/scheduling/domain"
)

func TestCompute(t *testing.T) {
	start := domain.NewDate(2026, time.January, 5)
	h, err := domain.NewHorizon(start, domain.AddDays(start, 6))
	require.NoError(t, err)

	activities := []domain.Activity{
		{
			ID:              "meds",
			Type:            domain.TypeMedication,
			Priority:        1,
			Frequency:       domain.NewDailyFrequency(),
			DurationMinutes: 15,
		},
		{
			ID:              "physio",
			Type:            domain.TypeTherapy,
			Priority:        3,
			Frequency:       domain.NewWeeklyFrequency(2),
			DurationMinutes: 60,
		},
	}

	plan := domain.NewPlan(h)
	for i := 0; i < 7; i++ {
		plan.Book(domain.BookedSlot{
			ActivityID:      "meds",
			ActivityType:    domain.TypeMedication,
			Date:            domain.AddDays(start, i),
			Start:           domain.NewClock(8, 0),
			DurationMinutes: 15,
		})
	}
	plan.Book(domain.BookedSlot{
		ActivityID:      "physio",
		ActivityType:    domain.TypeTherapy,
		Date:            start,
		Start:           domain.NewClock(10, 0),
		DurationMinutes: 60,
	})
	plan.RecordFailure("physio", 1, domain.ReasonSpecialistUnavailable)

	m := metrics.Compute(plan, activities)

	assert.Equal(t, 9, m.Total.Required) // 7 daily + 2 weekly
	assert.Equal(t, 8, m.Total.Placed)

	assert.Equal(t, metrics.Stat{Required: 7, Placed: 7}, m.ByPriority[1])
	assert.Equal(t, metrics.Stat{Required: 2, Placed: 1}, m.ByPriority[3])
	assert.Equal(t, 1.0, m.ByPriority[1].Rate())
	assert.Equal(t, 0.5, m.ByPriority[3].Rate())

	assert.Equal(t, metrics.Stat{Required: 7, Placed: 7}, m.ByType[domain.TypeMedication])
	assert.Equal(t, metrics.Stat{Required: 2, Placed: 1}, m.ByType[domain.TypeTherapy])

	assert.Equal(t, []int{1, 3}, m.Priorities())
	assert.Equal(t, 2, m.SlotsPerDay["2026-01-05"])
	assert.Equal(t, 1, m.SlotsPerDay["2026-01-06"])
	assert.Equal(t, "2026-01-05", m.BusiestDay)
	assert.Equal(t, "2026-01-06", m.LightestDay)
}

func TestStat_RateWithNothingRequired(t *testing.T) {
	assert.Equal(t, 1.0, metrics.Stat{}.Rate())
}
