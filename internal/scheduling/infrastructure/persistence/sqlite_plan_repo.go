package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/vitaplan/vitaplan/internal/scheduling/domain"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS plans (
	id         TEXT PRIMARY KEY,
	start_date TEXT NOT NULL,
	end_date   TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS plan_slots (
	id            TEXT PRIMARY KEY,
	plan_id       TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
	seq           INTEGER NOT NULL,
	activity_id   TEXT NOT NULL,
	activity_type TEXT NOT NULL,
	location      TEXT NOT NULL,
	slot_date     TEXT NOT NULL,
	start_min     INTEGER NOT NULL,
	duration_min  INTEGER NOT NULL,
	specialist_id TEXT,
	equipment_ids TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_plan_slots_plan ON plan_slots(plan_id, seq);

CREATE TABLE IF NOT EXISTS plan_failures (
	plan_id        TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
	activity_id    TEXT NOT NULL,
	occurrence_idx INTEGER NOT NULL,
	reason         TEXT NOT NULL,
	PRIMARY KEY (plan_id, activity_id, occurrence_idx)
);
`

// OpenSQLite opens (and migrates) a SQLite database at the given path.
// Use ":memory:" for an ephemeral store.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite schema: %w", err)
	}
	return db, nil
}

// SQLitePlanRepository implements domain.PlanRepository using SQLite.
type SQLitePlanRepository struct {
	db *sql.DB
}

// NewSQLitePlanRepository creates a new SQLite plan repository.
func NewSQLitePlanRepository(db *sql.DB) *SQLitePlanRepository {
	return &SQLitePlanRepository{db: db}
}

// Save persists the plan, replacing any previous version of the same run.
func (r *SQLitePlanRepository) Save(ctx context.Context, plan *domain.Plan) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO plans (id, start_date, end_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET updated_at = excluded.updated_at`,
		plan.ID().String(),
		domain.FormatDate(plan.Horizon().Start()),
		domain.FormatDate(plan.Horizon().End()),
		plan.CreatedAt().Format(time.RFC3339),
		plan.UpdatedAt().Format(time.RFC3339),
	)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM plan_slots WHERE plan_id = ?`, plan.ID().String()); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM plan_failures WHERE plan_id = ?`, plan.ID().String()); err != nil {
		return err
	}

	for seq, slot := range plan.Slots() {
		equipment, err := json.Marshal(slot.EquipmentIDs)
		if err != nil {
			return err
		}
		var specialist sql.NullString
		if slot.SpecialistID != "" {
			specialist = sql.NullString{String: slot.SpecialistID, Valid: true}
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO plan_slots
				(id, plan_id, seq, activity_id, activity_type, location, slot_date, start_min, duration_min, specialist_id, equipment_ids)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			slot.ID.String(),
			plan.ID().String(),
			seq,
			slot.ActivityID,
			string(slot.ActivityType),
			slot.Location,
			domain.FormatDate(slot.Date),
			int(slot.Start),
			slot.DurationMinutes,
			specialist,
			string(equipment),
		)
		if err != nil {
			return err
		}
	}

	for activityID, entries := range plan.FailureMap() {
		for _, f := range entries {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO plan_failures (plan_id, activity_id, occurrence_idx, reason)
				VALUES (?, ?, ?, ?)`,
				plan.ID().String(), activityID, f.Occurrence, string(f.Reason),
			)
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// FindByID loads a plan with its slots in append order.
func (r *SQLitePlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Plan, error) {
	var startDate, endDate, createdAt, updatedAt string
	err := r.db.QueryRowContext(ctx,
		`SELECT start_date, end_date, created_at, updated_at FROM plans WHERE id = ?`,
		id.String(),
	).Scan(&startDate, &endDate, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}

	horizon, err := parseHorizon(startDate, endDate)
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

	created, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, err
	}
	updated, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, err
	}

	return domain.RehydratePlan(id, horizon, slots, failures, created, updated), nil
}

func (r *SQLitePlanRepository) loadSlots(ctx context.Context, id uuid.UUID) ([]domain.BookedSlot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, activity_id, activity_type, location, slot_date, start_min, duration_min, specialist_id, equipment_ids
		FROM plan_slots WHERE plan_id = ? ORDER BY seq`,
		id.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []domain.BookedSlot
	for rows.Next() {
		var (
			slotID, activityID, activityType, location, slotDate, equipmentJSON string
			startMin, durationMin                                              int
			specialist                                                         sql.NullString
		)
		if err := rows.Scan(&slotID, &activityID, &activityType, &location, &slotDate, &startMin, &durationMin, &specialist, &equipmentJSON); err != nil {
			return nil, err
		}
		slot, err := buildSlot(slotID, activityID, activityType, location, slotDate, startMin, durationMin, specialist.String, equipmentJSON)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

func (r *SQLitePlanRepository) loadFailures(ctx context.Context, id uuid.UUID) (map[string][]domain.PlacementFailure, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT activity_id, occurrence_idx, reason
		FROM plan_failures WHERE plan_id = ? ORDER BY activity_id, occurrence_idx`,
		id.String(),
	)
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
func (r *SQLitePlanRepository) ListRecent(ctx context.Context, limit int) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM plans ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func parseHorizon(startDate, endDate string) (domain.Horizon, error) {
	start, err := domain.ParseDate(startDate)
	if err != nil {
		return domain.Horizon{}, err
	}
	end, err := domain.ParseDate(endDate)
	if err != nil {
		return domain.Horizon{}, err
	}
	return domain.NewHorizon(start, end)
}

func buildSlot(
	slotID, activityID, activityType, location, slotDate string,
	startMin, durationMin int,
	specialistID, equipmentJSON string,
) (domain.BookedSlot, error) {
	var slot domain.BookedSlot
	id, err := uuid.Parse(slotID)
	if err != nil {
		return slot, err
	}
	date, err := domain.ParseDate(slotDate)
	if err != nil {
		return slot, err
	}
	var equipment []string
	if equipmentJSON != "" {
		if err := json.Unmarshal([]byte(equipmentJSON), &equipment); err != nil {
			return slot, err
		}
	}
	return domain.BookedSlot{
		ID:              id,
		ActivityID:      activityID,
		ActivityType:    domain.ActivityType(activityType),
		Location:        location,
		Date:            date,
		Start:           domain.Clock(startMin),
		DurationMinutes: durationMin,
		SpecialistID:    specialistID,
		EquipmentIDs:    equipment,
	}, nil
}
