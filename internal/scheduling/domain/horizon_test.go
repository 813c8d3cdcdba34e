package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitaplan/vitaplan/internal/scheduling/domain"
)

func mustHorizon(t *testing.T, start time.Time, days int) domain.Horizon {
	t.Helper()
	h, err := domain.NewHorizon(start, domain.AddDays(start, days-1))
	require.NoError(t, err)
	return h
}

func TestNewHorizon_Invalid(t *testing.T) {
	start := domain.NewDate(2026, time.January, 5)
	_, err := domain.NewHorizon(start, domain.AddDays(start, -1))
	assert.ErrorIs(t, err, domain.ErrInvalidHorizon)
}

func TestHorizon_Days(t *testing.T) {
	start := domain.NewDate(2026, time.January, 5)

	h := mustHorizon(t, start, 1)
	assert.Equal(t, 1, h.Days())
	assert.Equal(t, 0, h.Weeks())

	h = mustHorizon(t, start, 21)
	assert.Equal(t, 21, h.Days())
	assert.Equal(t, 3, h.Weeks())

	h = mustHorizon(t, start, 10)
	assert.Equal(t, 1, h.Weeks())
}

func TestHorizon_ContainsAndClamp(t *testing.T) {
	start := domain.NewDate(2026, time.January, 5)
	h := mustHorizon(t, start, 7)

	assert.True(t, h.Contains(start))
	assert.True(t, h.Contains(h.End()))
	assert.False(t, h.Contains(domain.AddDays(start, 7)))
	assert.False(t, h.Contains(domain.AddDays(start, -1)))

	assert.Equal(t, start, h.Clamp(domain.AddDays(start, -5)))
	assert.Equal(t, h.End(), h.Clamp(domain.AddDays(start, 40)))
	mid := domain.AddDays(start, 3)
	assert.Equal(t, mid, h.Clamp(mid))
}

func TestHorizon_Months(t *testing.T) {
	// Jan 20 through Mar 2 touches three calendar months.
	start := domain.NewDate(2026, time.January, 20)
	h, err := domain.NewHorizon(start, domain.NewDate(2026, time.March, 2))
	require.NoError(t, err)

	months := h.Months()
	require.Len(t, months, 3)
	assert.Equal(t, time.January, months[0].Month)
	assert.Equal(t, time.February, months[1].Month)
	assert.Equal(t, time.March, months[2].Month)

	assert.Equal(t, 31, months[0].DaysInMonth())
	assert.Equal(t, 28, months[1].DaysInMonth())
}

func TestHorizon_MonthsAcrossYearEnd(t *testing.T) {
	start := domain.NewDate(2025, time.December, 15)
	h, err := domain.NewHorizon(start, domain.NewDate(2026, time.January, 10))
	require.NoError(t, err)

	months := h.Months()
	require.Len(t, months, 2)
	assert.Equal(t, 2025, months[0].Year)
	assert.Equal(t, time.December, months[0].Month)
	assert.Equal(t, 2026, months[1].Year)
	assert.Equal(t, time.January, months[1].Month)
}
