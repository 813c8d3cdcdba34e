package export_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitaplan/vitaplan/internal/presentation/export"
	"github.com/vitaplan/vitaplan/internal/scheduling/domain"
)

func samplePlan(t *testing.T) *domain.Plan {
	t.Helper()
	start := domain.NewDate(2026, time.January, 5)
	h, err := domain.NewHorizon(start, domain.AddDays(start, 6))
	require.NoError(t, err)

	plan := domain.NewPlan(h)
	plan.Book(domain.BookedSlot{
		ActivityID:      "morning-meds",
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
		Date:            domain.AddDays(start, 1),
		Start:           domain.NewClock(9, 30),
		DurationMinutes: 60,
		SpecialistID:    "dr-x",
		EquipmentIDs:    []string{"bands"},
	})
	plan.RecordFailure("swim", 0, domain.ReasonTravel)
	return plan
}

func TestFromPlan(t *testing.T) {
	plan := samplePlan(t)
	doc := export.FromPlan(plan)

	assert.Equal(t, plan.ID().String(), doc.PlanID)
	assert.Equal(t, "2026-01-05", doc.StartDate)
	assert.Equal(t, "2026-01-11", doc.EndDate)

	require.Len(t, doc.Slots, 2)
	assert.Equal(t, "morning-meds", doc.Slots[0].ActivityID)
	assert.Equal(t, "2026-01-05", doc.Slots[0].Date)
	assert.Equal(t, "08:00", doc.Slots[0].Start)
	assert.Equal(t, 15, doc.Slots[0].DurationMinutes)
	assert.Empty(t, doc.Slots[0].SpecialistID)

	assert.Equal(t, "09:30", doc.Slots[1].Start)
	assert.Equal(t, "dr-x", doc.Slots[1].SpecialistID)
	assert.Equal(t, []string{"bands"}, doc.Slots[1].EquipmentIDs)

	require.Len(t, doc.Failures["swim"], 1)
	assert.Equal(t, 0, doc.Failures["swim"][0].Occurrence)
	assert.Equal(t, "travel", doc.Failures["swim"][0].Reason)
}

func TestWriteJSON_RoundTrips(t *testing.T) {
	plan := samplePlan(t)

	var buf bytes.Buffer
	require.NoError(t, export.WriteJSON(&buf, plan))

	var doc export.Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, export.FromPlan(plan), doc)
}

func TestWriteICalendar(t *testing.T) {
	plan := samplePlan(t)

	var buf bytes.Buffer
	require.NoError(t, export.WriteICalendar(&buf, plan))

	out := buf.String()
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "morning-meds (Medication)")
	assert.Contains(t, out, "LOCATION:Clinic")
	assert.Contains(t, out, "Specialist: dr-x")
}
