package services

import (
	"sort"
	"time"

	"github.com/vitaplan/vitaplan/internal/scheduling/domain"
)

// CandidateGenerator derives the ordered (date, start) candidates for one
// occurrence of an activity. It is a finite demand-driven sequence: the
// drivers stop walking it as soon as they have enough accepted candidates.
type CandidateGenerator struct {
	index *ResourceIndex
	cfg   Config
}

// NewCandidateGenerator creates a generator over the run's resource index.
func NewCandidateGenerator(index *ResourceIndex, cfg Config) *CandidateGenerator {
	return &CandidateGenerator{index: index, cfg: cfg}
}

// Dates returns the candidate dates for occurrence k in preference order.
// For priority 3 and below the list is re-sorted by current day load so
// low-priority work drifts off congested days; the re-sort is stable, so
// the primary date stays first among equally loaded days.
func (g *CandidateGenerator) Dates(a *domain.Activity, k int, plan *domain.Plan) []time.Time {
	dates := g.patternDates(a, k)
	if a.Priority >= 3 && len(dates) > 1 {
		sort.SliceStable(dates, func(i, j int) bool {
			return plan.BookedCountOn(dates[i]) < plan.BookedCountOn(dates[j])
		})
	}
	return dates
}

// patternDates derives the primary date for occurrence k from the
// frequency pattern, plus backups where the pattern grants them.
func (g *CandidateGenerator) patternDates(a *domain.Activity, k int) []time.Time {
	h := g.index.Horizon()

	switch a.Frequency.Kind {
	case domain.FrequencyDaily:
		if k >= h.Days() {
			return nil
		}
		return []time.Time{h.DateAt(k)}

	case domain.FrequencyWeekly:
		return g.weeklyDates(a, k)

	case domain.FrequencyMonthly:
		c := a.Frequency.Count
		months := h.Months()
		m := k / c
		if m >= len(months) {
			return nil
		}
		span := months[m]
		day := 1 + (k%c)*(span.DaysInMonth()/c)
		if day > span.DaysInMonth() {
			day = span.DaysInMonth()
		}
		date := h.Clamp(domain.NewDate(span.Year, span.Month, day))
		return []time.Time{date}

	case domain.FrequencyCustom:
		date := h.DateAt(k * a.Frequency.IntervalDays)
		if !h.Contains(date) {
			return nil
		}
		return []time.Time{date}

	default:
		return nil
	}
}

// weeklyDates resolves the target weekday for occurrence k and returns the
// matching day of the primary week followed by the same weekday in every
// other week of the horizon, ascending. The flexible-week fallback is what
// lets a blocked week's occurrence land elsewhere.
func (g *CandidateGenerator) weeklyDates(a *domain.Activity, k int) []time.Time {
	h := g.index.Horizon()
	c := a.Frequency.Count
	week := k / c
	j := k % c

	var target domain.Weekday
	if len(a.Frequency.PreferredDays) > 0 {
		target = a.Frequency.PreferredDays[j%len(a.Frequency.PreferredDays)]
	} else {
		target = domain.Weekday(j % 5)
	}

	weekCount := (h.Days() + 6) / 7
	dateInWeek := func(w int) (time.Time, bool) {
		chunkStart := h.DateAt(7 * w)
		offset := (int(target) - int(domain.WeekdayOf(chunkStart)) + 7) % 7
		d := domain.AddDays(chunkStart, offset)
		return d, h.Contains(d)
	}

	var dates []time.Time
	if week < weekCount {
		if d, ok := dateInWeek(week); ok {
			dates = append(dates, d)
		}
	}
	for w := 0; w < weekCount; w++ {
		if w == week {
			continue
		}
		if d, ok := dateInWeek(w); ok {
			dates = append(dates, d)
		}
	}
	return dates
}

// Starts enumerates the start clocks for the activity at the configured
// granularity, anchored at the window start when a window is present and
// bounded so the slot never escapes the window or the schedulable day.
func (g *CandidateGenerator) Starts(a *domain.Activity) []domain.Clock {
	lo, hi := g.cfg.DayStart, g.cfg.DayEnd
	if a.Window != nil {
		if a.Window.Start > lo {
			lo = a.Window.Start
		}
		if a.Window.End < hi {
			hi = a.Window.End
		}
	}
	var starts []domain.Clock
	for s := lo; s.Add(a.DurationMinutes) <= hi; s = s.Add(g.cfg.SlotStepMinutes) {
		starts = append(starts, s)
	}
	return starts
}

// Each walks the (date, start) candidates for occurrence k in order,
// stopping early when fn returns false.
func (g *CandidateGenerator) Each(
	a *domain.Activity,
	k int,
	plan *domain.Plan,
	fn func(date time.Time, start domain.Clock) bool,
) {
	starts := g.Starts(a)
	for _, d := range g.Dates(a, k, plan) {
		for _, s := range starts {
			if !fn(d, s) {
				return
			}
		}
	}
}
