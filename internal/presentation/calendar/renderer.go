// Package calendar renders finished plans as human-readable text. It is a
// pure consumer of the scheduler's output structures.
package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vitaplan/vitaplan/internal/scheduling/domain"
)

// DayView renders the slots of one date as a time-ordered listing.
func DayView(plan *domain.Plan, date time.Time) string {
	slots := append([]domain.BookedSlot(nil), plan.SlotsOn(date)...)
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].Start < slots[j].Start })

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", domain.FormatDate(date), domain.WeekdayOf(date))
	if len(slots) == 0 {
		b.WriteString("  (no activities)\n")
		return b.String()
	}
	for _, s := range slots {
		fmt.Fprintf(&b, "  %s-%s  %-12s %s", s.Start, s.End(), s.ActivityType, s.ActivityID)
		if s.Location != "" {
			fmt.Fprintf(&b, " @%s", s.Location)
		}
		if s.SpecialistID != "" {
			fmt.Fprintf(&b, " [%s]", s.SpecialistID)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// HorizonView renders every date of the plan's horizon, one day per block.
func HorizonView(plan *domain.Plan) string {
	var b strings.Builder
	h := plan.Horizon()
	for i := 0; i < h.Days(); i++ {
		b.WriteString(DayView(plan, h.DateAt(i)))
	}
	return b.String()
}

// WeekGrid renders a compact week-by-weekday grid of booked-slot counts,
// useful for spotting congested and light days at a glance.
func WeekGrid(plan *domain.Plan) string {
	h := plan.Horizon()
	weekCount := (h.Days() + 6) / 7

	var b strings.Builder
	b.WriteString("week  ")
	startDay := domain.WeekdayOf(h.Start())
	for d := 0; d < 7; d++ {
		fmt.Fprintf(&b, "%5s", domain.Weekday((int(startDay)+d)%7))
	}
	b.WriteString("\n")

	for w := 0; w < weekCount; w++ {
		fmt.Fprintf(&b, "%4d  ", w+1)
		for d := 0; d < 7; d++ {
			i := 7*w + d
			if i >= h.Days() {
				b.WriteString("    .")
				continue
			}
			fmt.Fprintf(&b, "%5d", plan.BookedCountOn(h.DateAt(i)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FailureReport renders the failure map as one line per unplaced occurrence.
func FailureReport(plan *domain.Plan) string {
	ids := plan.FailedActivityIDs()
	if len(ids) == 0 {
		return "all occurrences placed\n"
	}
	var b strings.Builder
	for _, id := range ids {
		for _, f := range plan.Failures(id) {
			fmt.Fprintf(&b, "%s occurrence %d: %s\n", id, f.Occurrence, f.Reason)
		}
	}
	return b.String()
}
