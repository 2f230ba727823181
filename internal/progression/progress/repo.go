package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/gymprogress/internal/progression/streak"
	"github.com/2beens/gymprogress/internal/telemetry/tracing"
)

const stateColumns = `user_id, xp, level, current_streak, longest_streak, last_activity_date,
	prestige_count, last_prestige_at, updated_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// ApplyAward locks the user row (creating it if needed), records the award in
// the ledger and stores the mutated state, all in one transaction. Concurrent
// awards of the same user are serialized on the row lock; a session that is
// already in the ledger is reported as a replay and changes nothing.
func (r *Repo) ApplyAward(ctx context.Context, award Award, mutate Mutation) (_ ApplyResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.applyaward")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int64("user_id", award.UserID),
		attribute.Int64("session_id", award.SessionID),
	)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return ApplyResult{}, err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `
		INSERT INTO user_progression (user_id, updated_at)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
	`, award.UserID, award.AwardedAt); err != nil {
		return ApplyResult{}, fmt.Errorf("ensure user row: %w", err)
	}

	before, err := scanState(tx.QueryRow(ctx,
		`SELECT `+stateColumns+` FROM user_progression WHERE user_id = $1 FOR UPDATE`,
		award.UserID,
	))
	if err != nil {
		return ApplyResult{}, fmt.Errorf("lock user row: %w", err)
	}

	var dayAwarded bool
	if err = tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM progression_award
			WHERE user_id = $1 AND award_day = $2 AND session_id <> $3
		)
	`, award.UserID, award.Day, award.SessionID).Scan(&dayAwarded); err != nil {
		return ApplyResult{}, fmt.Errorf("check award day: %w", err)
	}

	after, awarded := mutate(*before, !dayAwarded)

	tag, err := tx.Exec(ctx, `
		INSERT INTO progression_award (user_id, session_id, xp, award_day, awarded_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, session_id) DO NOTHING
	`, award.UserID, award.SessionID, awarded, award.Day, award.AwardedAt)
	if err != nil {
		return ApplyResult{}, fmt.Errorf("insert award: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetAttributes(attribute.Bool("replay", true))
		return ApplyResult{Before: *before, After: *before, Replay: true}, nil
	}

	after.UpdatedAt = award.AwardedAt
	if _, err = tx.Exec(ctx, `
		UPDATE user_progression
		SET xp = $2, level = $3, current_streak = $4, longest_streak = $5,
		    last_activity_date = $6, updated_at = $7
		WHERE user_id = $1
	`,
		award.UserID,
		after.XP, after.Level,
		after.CurrentStreak, after.LongestStreak, after.LastActivityDate,
		after.UpdatedAt,
	); err != nil {
		return ApplyResult{}, fmt.Errorf("update user row: %w", err)
	}

	return ApplyResult{
		Before:  *before,
		After:   after,
		Awarded: awarded,
	}, nil
}

// AwardedSessions returns which of the given sessions are already in the award ledger.
func (r *Repo) AwardedSessions(ctx context.Context, userIDs, sessionIDs []int64) (_ map[int64]bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.awardedsessions")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("sessions", len(sessionIDs)))

	rows, err := r.db.Query(ctx, `
		SELECT session_id
		FROM progression_award
		WHERE user_id = ANY($1) AND session_id = ANY($2)
	`, userIDs, sessionIDs)
	if err != nil {
		return nil, err
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, err
	}

	awarded := make(map[int64]bool, len(ids))
	for _, id := range ids {
		awarded[id] = true
	}
	return awarded, nil
}

func (r *Repo) Get(ctx context.Context, userID int64) (_ *State, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	state, err := scanState(r.db.QueryRow(ctx,
		`SELECT `+stateColumns+` FROM user_progression WHERE user_id = $1`,
		userID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return state, err
}

// UpdateStreak overwrites the streak fields with a full recomputation.
func (r *Repo) UpdateStreak(ctx context.Context, userID int64, res streak.Result, at time.Time) (_ *State, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.updatestreak")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return scanState(r.db.QueryRow(ctx, `
		INSERT INTO user_progression (user_id, current_streak, longest_streak, last_activity_date, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET current_streak = EXCLUDED.current_streak,
		    longest_streak = EXCLUDED.longest_streak,
		    last_activity_date = EXCLUDED.last_activity_date,
		    updated_at = EXCLUDED.updated_at
		RETURNING `+stateColumns,
		userID, res.Current, res.Longest, res.LastActive, at,
	))
}

func scanState(row pgx.Row) (*State, error) {
	s := &State{}
	if err := row.Scan(
		&s.UserID, &s.XP, &s.Level,
		&s.CurrentStreak, &s.LongestStreak, &s.LastActivityDate,
		&s.PrestigeCount, &s.LastPrestigeAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return s, nil
}
