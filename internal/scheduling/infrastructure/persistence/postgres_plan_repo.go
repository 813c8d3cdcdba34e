package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vitaplan/vitaplan/internal/scheduling/domain"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS plans (
	id         UUID PRIMARY KEY,
	start_date DATE NOT NULL,
	end_date   DATE NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS plan_slots (
	id            UUID PRIMARY KEY,
	plan_id       UUID NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
	seq           INTEGER NOT NULL,
	activity_id   TEXT NOT NULL,
	activity_type TEXT NOT NULL,
	location      TEXT NOT NULL,
	slot_date     DATE NOT NULL,
	start_min     INTEGER NOT NULL,
	duration_min  INTEGER NOT NULL,
	specialist_id TEXT,
	equipment_ids JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_plan_slots_plan ON plan_slots(plan_id, seq);

CREATE TABLE IF NOT EXISTS plan_failures (
	plan_id        UUID NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
	activity_id    TEXT NOT NULL,
	occurrence_idx INTEGER NOT NULL,
	reason         TEXT NOT NULL,
	PRIMARY KEY (plan_id, activity_id, occurrence_idx)
);
`

// OpenPostgres connects a pool and migrates the schema.
func OpenPostgres(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate postgres schema: %w", err)
	}
	return pool, nil
}

// PostgresPlanRepository implements domain.PlanRepository using PostgreSQL.
type PostgresPlanRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresPlanRepository creates a new Postgres plan repository.
func NewPostgresPlanRepository(pool *pgxpool.Pool) *PostgresPlanRepository {
	return &PostgresPlanRepository{pool: pool}
}

// Save persists the plan, replacing any previous version of the same run.
func (r *PostgresPlanRepository) Save(ctx context.Context, plan *domain.Plan) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO plans (id, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET updated_at = excluded.updated_at`,
		plan.ID(),
		plan.Horizon().Start(),
		plan.Horizon().End(),
		plan.CreatedAt(),
		plan.UpdatedAt(),
	)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM plan_slots WHERE plan_id = $1`, plan.ID()); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM plan_failures WHERE plan_id = $1`, plan.ID()); err != nil {
		return err
	}

	for seq, slot := range plan.Slots() {
		equipment, err := json.Marshal(slot.EquipmentIDs)
		if err != nil {
			return err
		}
		var specialist *string
		if slot.SpecialistID != "" {
			specialist = &slot.SpecialistID
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO plan_slots
				(id, plan_id, seq, activity_id, activity_type, location, slot_date, start_min, duration_min, specialist_id, equipment_ids)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			slot.ID,
			plan.ID(),
			seq,
			slot.ActivityID,
			string(slot.ActivityType),
			slot.Location,
			slot.Date,
			int(slot.Start),
			slot.DurationMinutes,
			specialist,
			equipment,
		)
		if err != nil {
			return err
		}
	}

	for activityID, entries := range plan.FailureMap() {
		for _, f := range entries {
			_, err = tx.Exec(ctx, `
				INSERT INTO plan_failures (plan_id, activity_id, occurrence_idx, reason)
				VALUES ($1, $2, $3, $4)`,
				plan.ID(), activityID, f.Occurrence, string(f.Reason),
			)
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}

// FindByID loads a plan with its slots in append order.
func (r *PostgresPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Plan, error) {
	var (
		startDate, endDate time.Time
		created, updated   time.Time
	)
	err := r.pool.QueryRow(ctx,
		`SELECT start_date, end_date, created_at, updated_at FROM plans WHERE id = $1`, id,
	).Scan(&startDate, &endDate, &created, &updated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}

	horizon, err := domain.NewHorizon(startDate, endDate)
	if err != nil {
		return nil, err
	}

	slots, err := r.loadSlots(ctx, id)
	if err != nil {
		return nil, err
	}
	failures, err := r.loadFailures(ctx, id)
	if err != nil {
		return nil, err
	}

	return domain.RehydratePlan(id, horizon, slots, failures, created, updated), nil
}

func (r *PostgresPlanRepository) loadSlots(ctx context.Context, id uuid.UUID) ([]domain.BookedSlot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, activity_id, activity_type, location, slot_date, start_min, duration_min, specialist_id, equipment_ids
		FROM plan_slots WHERE plan_id = $1 ORDER BY seq`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []domain.BookedSlot
	for rows.Next() {
		var (
			slotID                             uuid.UUID
			activityID, activityType, location string
			slotDate                           time.Time
			startMin, durationMin              int
			specialist                         *string
			equipmentJSON                      []byte
		)
		if err := rows.Scan(&slotID, &activityID, &activityType, &location, &slotDate, &startMin, &durationMin, &specialist, &equipmentJSON); err != nil {
			return nil, err
		}
		var equipment []string
		if len(equipmentJSON) > 0 {
			if err := json.Unmarshal(equipmentJSON, &equipment); err != nil {
				return nil, err
			}
		}
		slot := domain.BookedSlot{
			ID:              slotID,
			ActivityID:      activityID,
			ActivityType:    domain.ActivityType(activityType),
			Location:        location,
			Date:            domain.DateOf(slotDate),
			Start:           domain.Clock(startMin),
			DurationMinutes: durationMin,
			EquipmentIDs:    equipment,
		}
		if specialist != nil {
			slot.SpecialistID = *specialist
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

func (r *PostgresPlanRepository) loadFailures(ctx context.Context, id uuid.UUID) (map[string][]domain.PlacementFailure, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT activity_id, occurrence_idx, reason
		FROM plan_failures WHERE plan_id = $1 ORDER BY activity_id, occurrence_idx`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	failures := make(map[string][]domain.PlacementFailure)
	for rows.Next() {
		var activityID, reason string
		var occurrence int
		if err := rows.Scan(&activityID, &occurrence, &reason); err != nil {
			return nil, err
		}
		failures[activityID] = append(failures[activityID], domain.PlacementFailure{
			Occurrence: occurrence,
			Reason:     domain.FailureReason(reason),
		})
	}
	return failures, rows.Err()
}

// ListRecent returns plan IDs ordered by creation time descending.
func (r *PostgresPlanRepository) ListRecent(ctx context.Context, limit int) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id FROM plans ORDER BY created_at DESC, id LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
