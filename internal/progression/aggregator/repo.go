package aggregator

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/gymprogress/internal/telemetry/tracing"
)

// Only content changes touch a row: unchanged re-runs leave updated_at as is.
// Without a fresh gym snapshot ($10 false) the stored gym code is kept.
const upsertWeeklySQL = `
	INSERT INTO weekly_progression
		(user_id, week_id, xp, workouts, volume_kg, personal_records, active_days, gym_code, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (user_id, week_id) DO UPDATE
	SET xp = EXCLUDED.xp,
	    workouts = EXCLUDED.workouts,
	    volume_kg = EXCLUDED.volume_kg,
	    personal_records = EXCLUDED.personal_records,
	    active_days = EXCLUDED.active_days,
	    gym_code = CASE WHEN $10::boolean THEN EXCLUDED.gym_code ELSE weekly_progression.gym_code END,
	    updated_at = EXCLUDED.updated_at
	WHERE (weekly_progression.xp, weekly_progression.workouts, weekly_progression.volume_kg,
	       weekly_progression.personal_records, weekly_progression.active_days)
	      IS DISTINCT FROM
	      (EXCLUDED.xp, EXCLUDED.workouts, EXCLUDED.volume_kg,
	       EXCLUDED.personal_records, EXCLUDED.active_days)
	   OR ($10::boolean AND weekly_progression.gym_code IS DISTINCT FROM EXCLUDED.gym_code)
`

const weeklyColumns = `user_id, week_id, xp, workouts, volume_kg, personal_records, active_days, gym_code, updated_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Upsert writes the rows in one batch, every row independently idempotent.
// Returns the number of rows inserted or changed.
func (r *Repo) Upsert(ctx context.Context, rows []WeeklyProgression, gymKnown bool) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.weekly.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("rows", len(rows)),
		attribute.Bool("gym_known", gymKnown),
	)

	if len(rows) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(upsertWeeklySQL,
			row.UserID, row.WeekID,
			row.XP, row.Workouts, row.VolumeKg,
			row.PersonalRecords, row.ActiveDays,
			row.GymCode, row.UpdatedAt,
			gymKnown,
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer func() {
		if closeErr := results.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	changed := 0
	for _, row := range rows {
		tag, err := results.Exec()
		if err != nil {
			return changed, fmt.Errorf("upsert user %d: %w", row.UserID, err)
		}
		changed += int(tag.RowsAffected())
	}
	span.SetAttributes(attribute.Int("changed", changed))
	return changed, nil
}

// PruneWeek deletes the week's rows of every user not in keep.
func (r *Repo) PruneWeek(ctx context.Context, weekID string, keep []int64) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.weekly.prune")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if keep == nil {
		keep = []int64{}
	}
	tag, err := r.db.Exec(ctx, `
		DELETE FROM weekly_progression
		WHERE week_id = $1 AND NOT (user_id = ANY($2))
	`, weekID, keep)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// ListWeeks returns all rows of the given weeks, ordered by week and user.
func (r *Repo) ListWeeks(ctx context.Context, weekIDs []string) (_ []WeeklyProgression, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.weekly.listweeks")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT `+weeklyColumns+`
		FROM weekly_progression
		WHERE week_id = ANY($1)
		ORDER BY week_id, user_id
	`, weekIDs)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanWeekly)
}

func scanWeekly(row pgx.CollectableRow) (WeeklyProgression, error) {
	var w WeeklyProgression
	err := row.Scan(
		&w.UserID, &w.WeekID,
		&w.XP, &w.Workouts, &w.VolumeKg,
		&w.PersonalRecords, &w.ActiveDays,
		&w.GymCode, &w.UpdatedAt,
	)
	return w, err
}
