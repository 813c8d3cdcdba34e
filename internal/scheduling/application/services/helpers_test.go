package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vitaplan/vitaplan/internal/scheduling/domain"
)

// monday is the first day of most test horizons; 2026-01-05 is a Monday.
var monday = domain.NewDate(2026, time.January, 5)

func mustHorizon(t *testing.T, start time.Time, days int) domain.Horizon {
	t.Helper()
	h, err := domain.NewHorizon(start, domain.AddDays(start, days-1))
	require.NoError(t, err)
	return h
}

func window(startH, startM, endH, endM int) *domain.TimeWindow {
	return &domain.TimeWindow{
		Start: domain.NewClock(startH, startM),
		End:   domain.NewClock(endH, endM),
	}
}

func fitness(id string, priority int, freq domain.Frequency, duration int) domain.Activity {
	return domain.Activity{
		ID:              id,
		Type:            domain.TypeFitness,
		Priority:        priority,
		Frequency:       freq,
		DurationMinutes: duration,
		Location:        "Home",
		RemoteCapable:   true,
	}
}
