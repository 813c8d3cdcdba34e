package services

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/vitaplan/vitaplan/internal/scheduling/domain"
)

// Engine is the two-phase deterministic scheduler. Phase 1 walks activities
// in priority order and books the best valid candidate per occurrence;
// Phase 2 retries the leftovers on under-utilized days. The engine is
// single-threaded: given identical inputs it produces identical plans.
type Engine struct {
	cfg    Config
	logger *slog.Logger
}

// NewEngine creates an engine with the given configuration.
func NewEngine(cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{cfg: cfg, logger: logger}
}

// Inputs bundles the validated immutable records for one scheduling run.
type Inputs struct {
	Horizon     domain.Horizon
	Activities  []domain.Activity
	Specialists []domain.Specialist
	Equipment   []domain.Equipment
	Travel      []domain.TravelPeriod
}

// Run validates the inputs, executes both phases, and returns the final
// plan. Placement failures are recorded in the plan, never returned as
// errors; only input validation can fail.
func (e *Engine) Run(ctx context.Context, in Inputs) (*domain.Plan, error) {
	if err := domain.ValidateRecords(in.Activities, in.Specialists, in.Equipment, in.Travel); err != nil {
		return nil, err
	}

	activities := make([]domain.Activity, len(in.Activities))
	copy(activities, in.Activities)
	specialists := make([]domain.Specialist, len(in.Specialists))
	copy(specialists, in.Specialists)
	equipment := make([]domain.Equipment, len(in.Equipment))
	copy(equipment, in.Equipment)
	for i := range activities {
		activities[i].EquipmentIDs = append([]string(nil), activities[i].EquipmentIDs...)
		activities[i].Normalize()
	}
	for i := range specialists {
		s := &specialists[i]
		s.Availability = append([]domain.AvailabilityBlock(nil), s.Availability...)
		s.DaysOff = append([]domain.Weekday(nil), s.DaysOff...)
		s.Holidays = append([]time.Time(nil), s.Holidays...)
		s.Normalize()
	}
	for i := range equipment {
		equipment[i].Maintenance = append([]domain.MaintenanceWindow(nil), equipment[i].Maintenance...)
		equipment[i].Normalize()
	}

	index := BuildResourceIndex(in.Horizon, activities, specialists, equipment, in.Travel)
	r := &run{
		cfg:       e.cfg,
		index:     index,
		validator: NewValidator(index, e.cfg),
		scorer:    NewScorer(),
		generator: NewCandidateGenerator(index, e.cfg),
		plan:      domain.NewPlan(in.Horizon),
		logger:    e.logger,
	}

	ordered := orderActivities(activities)
	r.phaseOne(ordered)
	r.phaseTwo(ordered)
	r.plan.Complete()

	e.logger.Info("scheduling run finished",
		"plan_id", r.plan.ID(),
		"horizon_days", in.Horizon.Days(),
		"slots", len(r.plan.Slots()),
		"failures", r.plan.FailureCount(),
	)
	return r.plan, nil
}

// run holds the per-call collaborators so the phase drivers stay readable.
type run struct {
	cfg       Config
	index     *ResourceIndex
	validator *Validator
	scorer    *Scorer
	generator *CandidateGenerator
	plan      *domain.Plan
	logger    *slog.Logger
}

// orderActivities sorts by priority, then frequency-pattern rank, then
// identity so the booking order is fully deterministic.
func orderActivities(activities []domain.Activity) []*domain.Activity {
	ordered := make([]*domain.Activity, len(activities))
	for i := range activities {
		ordered[i] = &activities[i]
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority < ordered[j].Priority
		}
		ri, rj := ordered[i].Frequency.PatternRank(), ordered[j].Frequency.PatternRank()
		if ri != rj {
			return ri < rj
		}
		return ordered[i].ID < ordered[j].ID
	})
	return ordered
}

// phaseOne greedily places every occurrence of every activity.
func (r *run) phaseOne(ordered []*domain.Activity) {
	for _, a := range ordered {
		required := r.index.Required(a.ID)
		for k := 0; k < required; k++ {
			booked, reason := r.tryPlace(a, k, nil)
			if !booked {
				r.plan.RecordFailure(a.ID, k, reason)
			}
		}
	}
}

// phaseTwo retries every failed occurrence on light days. The light-day
// set is re-evaluated before each occurrence because backfill itself
// shifts day loads.
func (r *run) phaseTwo(ordered []*domain.Activity) {
	failed := r.plan.FailedActivityIDs()
	if len(failed) == 0 {
		return
	}

	byID := make(map[string]*domain.Activity, len(ordered))
	for _, a := range ordered {
		byID[a.ID] = a
	}

	type retryEntry struct {
		activity *domain.Activity
		missing  int
	}
	entries := make([]retryEntry, 0, len(failed))
	for _, id := range failed {
		a, ok := byID[id]
		if !ok {
			continue
		}
		entries = append(entries, retryEntry{
			activity: a,
			missing:  r.index.Required(id) - r.plan.PlacedCount(id),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].activity.Priority != entries[j].activity.Priority {
			return entries[i].activity.Priority < entries[j].activity.Priority
		}
		if entries[i].missing != entries[j].missing {
			return entries[i].missing > entries[j].missing
		}
		return entries[i].activity.ID < entries[j].activity.ID
	})

	for _, entry := range entries {
		a := entry.activity
		failures := append([]domain.PlacementFailure(nil), r.plan.Failures(a.ID)...)
		for _, f := range failures {
			dates := r.backfillDates(a, f.Occurrence)
			if len(dates) == 0 {
				continue
			}
			booked, _ := r.tryPlace(a, f.Occurrence, dates)
			if booked {
				r.plan.ResolveFailure(a.ID, f.Occurrence)
			}
		}
	}
}

// backfillDates restricts the occurrence's pattern dates to the current
// light days, re-ordered by (booked count ascending, date ascending)
// instead of the primary/backup preference. The light-day set is
// re-evaluated per occurrence because backfill itself shifts day loads.
func (r *run) backfillDates(a *domain.Activity, k int) []time.Time {
	light := r.plan.LightDays(r.cfg.LightDayThreshold)
	if len(light) == 0 {
		return nil
	}
	order := make(map[string]int, len(light))
	for i, d := range light {
		order[domain.FormatDate(d)] = i
	}

	var dates []time.Time
	for _, d := range r.generator.Dates(a, k, r.plan) {
		if _, ok := order[domain.FormatDate(d)]; ok {
			dates = append(dates, d)
		}
	}
	sort.SliceStable(dates, func(i, j int) bool {
		return order[domain.FormatDate(dates[i])] < order[domain.FormatDate(dates[j])]
	})
	return dates
}

// scoredCandidate is one validator-accepted placement option.
type scoredCandidate struct {
	date  time.Time
	start domain.Clock
	score int
}

// better implements the selection order: higher score, then earlier date,
// then earlier start. Generation order wins remaining ties because the
// walk only replaces the incumbent on a strict improvement.
func (c scoredCandidate) better(than scoredCandidate) bool {
	if c.score != than.score {
		return c.score > than.score
	}
	if !c.date.Equal(than.date) {
		return c.date.Before(than.date)
	}
	return c.start < than.start
}

// tryPlace walks the candidate sequence for occurrence k, scores up to
// CandidateCap accepted candidates, and books the best one. When dates is
// non-nil it overrides the generator's date order (backfill). On failure
// it returns the reason of the last rejected candidate, or no-candidate
// when the sequence was empty.
func (r *run) tryPlace(a *domain.Activity, k int, dates []time.Time) (bool, domain.FailureReason) {
	if dates == nil {
		dates = r.generator.Dates(a, k, r.plan)
	}
	starts := r.generator.Starts(a)

	var best scoredCandidate
	haveBest := false
	accepted := 0
	lastReason := domain.ReasonNoCandidate

walk:
	for _, d := range dates {
		for _, s := range starts {
			ok, reason := r.validator.Check(Proposal{Activity: a, Date: d, Start: s}, r.plan)
			if !ok {
				lastReason = reason
				continue
			}
			cand := scoredCandidate{
				date:  d,
				start: s,
				score: r.scorer.Score(Proposal{Activity: a, Date: d, Start: s}, r.plan),
			}
			if !haveBest || cand.better(best) {
				best = cand
				haveBest = true
			}
			accepted++
			if accepted >= r.cfg.CandidateCap {
				break walk
			}
		}
	}

	if !haveBest {
		return false, lastReason
	}

	r.plan.Book(domain.BookedSlot{
		ActivityID:      a.ID,
		ActivityType:    a.Type,
		Location:        a.Location,
		Date:            best.date,
		Start:           best.start,
		DurationMinutes: a.DurationMinutes,
		SpecialistID:    a.SpecialistID,
		EquipmentIDs:    a.EquipmentIDs,
	})
	return true, ""
}
