package prestige

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/2beens/gymprogress/internal/progression/progress"
	"github.com/2beens/gymprogress/internal/telemetry/tracing"
	"github.com/2beens/gymprogress/pkg"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) CompareAndReset(ctx context.Context, expected progress.State, entry HistoryEntry) (_ *HistoryEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.prestige.compareandreset")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
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

	tag, err := tx.Exec(ctx, `
		UPDATE user_progression
		SET xp = $4, level = $5, prestige_count = prestige_count + 1,
		    last_prestige_at = $6, updated_at = $6
		WHERE user_id = $1 AND prestige_count = $2 AND xp = $3
	`,
		expected.UserID, expected.PrestigeCount, expected.XP,
		entry.XPAfter, entry.LevelAfter, entry.OccurredAt,
	)
	if pkg.IsTransactionConflict(err) {
		return nil, ErrConcurrentModification
	}
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrConcurrentModification
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO prestige_history
			(user_id, xp_before, level_before, xp_after, level_after, prestige_count, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`,
		entry.UserID, entry.XPBefore, entry.LevelBefore,
		entry.XPAfter, entry.LevelAfter, entry.PrestigeCount, entry.OccurredAt,
	).Scan(&entry.ID)
	if pkg.IsUniqueViolation(err) {
		return nil, ErrConcurrentModification
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *Repo) History(ctx context.Context, userID int64) (_ []HistoryEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.prestige.history")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, xp_before, level_before, xp_after, level_after, prestige_count, occurred_at
		FROM prestige_history
		WHERE user_id = $1
		ORDER BY occurred_at, id
	`, userID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (HistoryEntry, error) {
		var h HistoryEntry
		err := row.Scan(&h.ID, &h.UserID, &h.XPBefore, &h.LevelBefore, &h.XPAfter, &h.LevelAfter, &h.PrestigeCount, &h.OccurredAt)
		return h, err
	})
}
