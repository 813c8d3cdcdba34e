// Package metrics aggregates placement statistics over a finished plan.
// It is a pure consumer of the scheduler's output structures.
package metrics

import (
	"sort"

	"github.com/vitaplan/vitaplan/internal/scheduling/domain"
)

// Stat is a required/placed pair for one grouping bucket.
type Stat struct {
	Required int
	Placed   int
}

// Rate returns placed over required, or 1 when nothing was required.
func (s Stat) Rate() float64 {
	if s.Required == 0 {
		return 1
	}
	return float64(s.Placed) / float64(s.Required)
}

// Metrics summarizes one scheduling run.
type Metrics struct {
	Total       Stat
	ByPriority  map[int]Stat
	ByType      map[domain.ActivityType]Stat
	SlotsPerDay map[string]int
	BusiestDay  string
	LightestDay string
}

// Compute derives metrics from a finished plan and the activities it ran
// over. Required counts are re-derived from the activity frequencies.
func Compute(plan *domain.Plan, activities []domain.Activity) Metrics {
	m := Metrics{
		ByPriority:  make(map[int]Stat),
		ByType:      make(map[domain.ActivityType]Stat),
		SlotsPerDay: make(map[string]int),
	}
	h := plan.Horizon()

	for _, a := range activities {
		required := a.Frequency.RequiredOccurrences(h)
		placed := plan.PlacedCount(a.ID)

		m.Total.Required += required
		m.Total.Placed += placed

		p := m.ByPriority[a.Priority]
		p.Required += required
		p.Placed += placed
		m.ByPriority[a.Priority] = p

		t := m.ByType[a.Type]
		t.Required += required
		t.Placed += placed
		m.ByType[a.Type] = t
	}

	for i := 0; i < h.Days(); i++ {
		date := h.DateAt(i)
		m.SlotsPerDay[domain.FormatDate(date)] = plan.BookedCountOn(date)
	}
	m.BusiestDay, m.LightestDay = extremes(m.SlotsPerDay)

	return m
}

// Priorities returns the priority buckets present, ascending.
func (m Metrics) Priorities() []int {
	out := make([]int, 0, len(m.ByPriority))
	for p := range m.ByPriority {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

// Types returns the activity-type buckets present, in stable order.
func (m Metrics) Types() []domain.ActivityType {
	out := make([]domain.ActivityType, 0, len(m.ByType))
	for t := range m.ByType {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func extremes(perDay map[string]int) (busiest, lightest string) {
	days := make([]string, 0, len(perDay))
	for d := range perDay {
		days = append(days, d)
	}
	sort.Strings(days)

	maxCount, minCount := -1, -1
	for _, d := range days {
		c := perDay[d]
		if maxCount < 0 || c > maxCount {
			maxCount, busiest = c, d
		}
		if minCount < 0 || c < minCount {
			minCount, lightest = c, d
		}
	}
	return busiest, lightest
}
