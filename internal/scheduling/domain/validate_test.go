package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitaplan/vitaplan/internal/scheduling/domain"
)

func validActivity() domain.Activity {
	return domain.Activity{
		ID:              "walk",
		Type:            domain.TypeFitness,
		Priority:        2,
		Frequency:       domain.NewDailyFrequency(),
		DurationMinutes: 30,
		Location:        "Home",
		RemoteCapable:   true,
	}
}

func TestValidateRecords_OK(t *testing.T) {
	a := validActivity()
	a.SpecialistID = "dr-lee"
	a.EquipmentIDs = []string{"treadmill"}

	err := domain.ValidateRecords(
		[]domain.Activity{a},
		[]domain.Specialist{{
			ID: "dr-lee",
			Availability: []domain.AvailabilityBlock{
				{Day: domain.Monday, Start: domain.NewClock(8, 0), End: domain.NewClock(12, 0)},
			},
		}},
		[]domain.Equipment{{ID: "treadmill"}},
		nil,
	)
	assert.NoError(t, err)
}

func TestValidateRecords_FieldErrors(t *testing.T) {
	window := &domain.TimeWindow{Start: domain.NewClock(10, 0), End: domain.NewClock(9, 0)}

	tests := []struct {
		name   string
		mutate func(*domain.Activity)
		field  string
	}{
		{"duration too short", func(a *domain.Activity) { a.DurationMinutes = 4 }, "duration"},
		{"duration too long", func(a *domain.Activity) { a.DurationMinutes = 481 }, "duration"},
		{"priority too low", func(a *domain.Activity) { a.Priority = 0 }, "priority"},
		{"priority too high", func(a *domain.Activity) { a.Priority = 6 }, "priority"},
		{"inverted window", func(a *domain.Activity) { a.Window = window }, "window"},
		{"bad type", func(a *domain.Activity) { a.Type = "Exercise" }, "type"},
		{"bad frequency", func(a *domain.Activity) { a.Frequency = domain.NewWeeklyFrequency(9) }, "frequency"},
		{"dangling specialist", func(a *domain.Activity) { a.SpecialistID = "ghost" }, "specialist_id"},
		{"dangling equipment", func(a *domain.Activity) { a.EquipmentIDs = []string{"ghost"} }, "equipment_ids"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validActivity()
			tt.mutate(&a)

			err := domain.ValidateRecords([]domain.Activity{a}, nil, nil, nil)
			require.Error(t, err)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "walk", verr.Record)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestValidateRecords_OverlappingAvailability(t *testing.T) {
	err := domain.ValidateRecords(nil, []domain.Specialist{{
		ID: "dr-lee",
		Availability: []domain.AvailabilityBlock{
			{Day: domain.Monday, Start: domain.NewClock(8, 0), End: domain.NewClock(12, 0)},
			{Day: domain.Monday, Start: domain.NewClock(11, 0), End: domain.NewClock(14, 0)},
		},
	}}, nil, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOverlappingAvailability)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "dr-lee", verr.Record)
}

func TestValidateRecords_SameDayBlocksThatTouchAreFine(t *testing.T) {
	err := domain.ValidateRecords(nil, []domain.Specialist{{
		ID: "dr-lee",
		Availability: []domain.AvailabilityBlock{
			{Day: domain.Monday, Start: domain.NewClock(8, 0), End: domain.NewClock(12, 0)},
			{Day: domain.Monday, Start: domain.NewClock(12, 0), End: domain.NewClock(14, 0)},
		},
	}}, nil, nil)
	assert.NoError(t, err)
}

func TestValidateRecords_BadWindows(t *testing.T) {
	date := domain.NewDate(2026, time.January, 5)

	err := domain.ValidateRecords(nil, nil, []domain.Equipment{{
		ID: "treadmill",
		Maintenance: []domain.MaintenanceWindow{{
			StartDate: date,
			EndDate:   domain.AddDays(date, -1),
			Start:     domain.NewClock(8, 0),
			End:       domain.NewClock(10, 0),
		}},
	}}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)

	err = domain.ValidateRecords(nil, nil, nil, []domain.TravelPeriod{{
		StartDate: date,
		EndDate:   domain.AddDays(date, -2),
	}})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}
