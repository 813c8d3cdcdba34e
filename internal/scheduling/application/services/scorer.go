package services

import (
	"github.com/vitaplan/vitaplan/internal/scheduling/domain"
)

// Scoring terms. Applied only to proposals that already passed validation.
const (
	baseScore = 10

	morningBonus = 30
	middayBonus  = 20
	eveningBonus = 10

	dailyConsistencyBonus    = 20
	periodicConsistencyBonus = 15

	groupingBonus         = 15
	groupingWindowMinutes = 120
)

// Scorer ranks validated proposals. Higher is better; ties are broken by
// the drivers using (date, start, generation order).
type Scorer struct{}

// NewScorer creates a scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score sums the soft-constraint terms for a validated proposal.
func (s *Scorer) Score(p Proposal, plan *domain.Plan) int {
	score := baseScore
	score += timeOfDayBonus(p)
	score += consistencyBonus(p, plan)
	score += groupBonus(p, plan)
	return score
}

// timeOfDayBonus rewards windowed activities landing in the morning,
// midday, or evening band.
func timeOfDayBonus(p Proposal) int {
	if p.Activity.Window == nil {
		return 0
	}
	start := p.Start
	switch {
	case start >= domain.NewClock(6, 0) && start < domain.NewClock(9, 0):
		return morningBonus
	case start >= domain.NewClock(12, 0) && start < domain.NewClock(16, 0):
		return middayBonus
	case start >= domain.NewClock(17, 0) && start < domain.NewClock(21, 0):
		return eveningBonus
	default:
		return 0
	}
}

// consistencyBonus rewards placing an occurrence at the same start clock
// as an already-placed occurrence of the same activity.
func consistencyBonus(p Proposal, plan *domain.Plan) int {
	var bonus int
	switch p.Activity.Frequency.Kind {
	case domain.FrequencyDaily:
		bonus = dailyConsistencyBonus
	case domain.FrequencyWeekly, domain.FrequencyMonthly:
		bonus = periodicConsistencyBonus
	default:
		return 0
	}
	for _, prior := range plan.SlotsFor(p.Activity.ID) {
		if prior.Start == p.Start {
			return bonus
		}
	}
	return 0
}

// groupBonus rewards co-locating same-type activities within two hours
// (start to start) on the same day.
func groupBonus(p Proposal, plan *domain.Plan) int {
	for _, s := range plan.SlotsOn(p.Date) {
		if s.ActivityType != p.Activity.Type {
			continue
		}
		gap := int(s.Start - p.Start)
		if gap < 0 {
			gap = -gap
		}
		if gap <= groupingWindowMinutes && s.Location == p.Activity.Location {
			return groupingBonus
		}
	}
	return 0
}
