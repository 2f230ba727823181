package leaderboard

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/gymprogress/internal/telemetry/tracing"
)

// Filter narrows a week to a gym and/or a set of users. Zero values match all.
type Filter struct {
	GymCode string
	UserIDs []int64
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Page(ctx context.Context, weekID string, f Filter, limit, offset int) (_ []Entry, _ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.leaderboard.page")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("week_id", weekID),
		attribute.String("gym_code", f.GymCode),
		attribute.Int("users", len(f.UserIDs)),
	)

	// nil encodes as NULL (no user filter), an empty slice matches nobody
	userIDs := f.UserIDs

	batch := &pgx.Batch{}
	batch.Queue(`
		SELECT count(*)
		FROM weekly_progression
		WHERE week_id = $1
		  AND ($2::text = '' OR gym_code = $2::text)
		  AND ($3::bigint[] IS NULL OR user_id = ANY($3::bigint[]))
	`, weekID, f.GymCode, userIDs)
	batch.Queue(`
		SELECT row_number() OVER (ORDER BY xp DESC, user_id ASC) AS rank,
		       user_id, xp, workouts, volume_kg, personal_records, active_days, gym_code
		FROM weekly_progression
		WHERE week_id = $1
		  AND ($2::text = '' OR gym_code = $2::text)
		  AND ($3::bigint[] IS NULL OR user_id = ANY($3::bigint[]))
		ORDER BY xp DESC, user_id ASC
		LIMIT $4 OFFSET $5
	`, weekID, f.GymCode, userIDs, limit, offset)

	results := r.db.SendBatch(ctx, batch)
	defer func() {
		if closeErr := results.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	var total int
	if err := results.QueryRow().Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count standings: %w", err)
	}

	rows, err := results.Query()
	if err != nil {
		return nil, 0, fmt.Errorf("query standings: %w", err)
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Entry, error) {
		var e Entry
		err := row.Scan(
			&e.Rank, &e.UserID, &e.XP, &e.Workouts, &e.VolumeKg,
			&e.PersonalRecords, &e.ActiveDays, &e.GymCode,
		)
		return e, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("scan standings: %w", err)
	}
	return entries, total, nil
}
