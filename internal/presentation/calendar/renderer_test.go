package calendar_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitaplan/vitaplan/internal/presentation/calendar"
	"github.com/vitaplan/vitaplan/internal/scheduling/domain"
)

func samplePlan(t *testing.T) *domain.Plan {
	t.Helper()
	start := domain.NewDate(2026, time.January, 5)
	h, err := domain.NewHorizon(start, domain.AddDays(start, 6))
	require.NoError(t, err)

	plan := domain.NewPlan(h)
	// Booked out of clock order to prove the view sorts.
	plan.Book(domain.BookedSlot{
		ActivityID:      "physio",
		ActivityType:    domain.TypeTherapy,
		Location:        "Clinic",
		Date:            start,
		Start:           domain.NewClock(14, 0),
		DurationMinutes: 60,
		SpecialistID:    "dr-x",
	})
	plan.Book(domain.BookedSlot{
		ActivityID:      "meds",
		ActivityType:    domain.TypeMedication,
		Location:        "Home",
		Date:            start,
		Start:           domain.NewClock(8, 0),
		DurationMinutes: 15,
	})
	plan.RecordFailure("swim", 2, domain.ReasonEquipmentUnavailable)
	return plan
}

func TestDayView(t *testing.T) {
	plan := samplePlan(t)
	out := calendar.DayView(plan, plan.Horizon().Start())

	assert.Contains(t, out, "2026-01-05 (Mon)")
	assert.Contains(t, out, "08:00-08:15")
	assert.Contains(t, out, "14:00-15:00")
	assert.Contains(t, out, "@Clinic")
	assert.Contains(t, out, "[dr-x]")
	// Earlier slot rendered first.
	assert.Less(t, strings.Index(out, "meds"), strings.Index(out, "physio"))

	empty := calendar.DayView(plan, domain.AddDays(plan.Horizon().Start(), 1))
	assert.Contains(t, empty, "(no activities)")
}

func TestWeekGrid(t *testing.T) {
	plan := samplePlan(t)
	out := calendar.WeekGrid(plan)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2) // header plus one week
	assert.Contains(t, lines[0], "Mon")
	assert.Contains(t, lines[1], "2") // two slots on the first day
}

func TestFailureReport(t *testing.T) {
	plan := samplePlan(t)
	out := calendar.FailureReport(plan)
	assert.Contains(t, out, "swim occurrence 2: equipment-unavailable")

	clean := domain.NewPlan(plan.Horizon())
	assert.Equal(t, "all occurrences placed\n", calendar.FailureReport(clean))
}
