package anticheat

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/gymprogress/internal/telemetry/tracing"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Insert never updates an existing flag: a flag already raised for the same
// user, week, type and subject keeps its review status.
func (r *Repo) Insert(ctx context.Context, flags []Flag) (_ []Flag, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.anticheat.insert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("flags", len(flags)))

	if len(flags) == 0 {
		return nil, nil
	}

	batch := &pgx.Batch{}
	for _, f := range flags {
		batch.Queue(`
			INSERT INTO anticheat_flag
				(id, user_id, week_id, flag_type, subject, severity, status, detail, detected_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (user_id, week_id, flag_type, subject) DO NOTHING
		`, f.ID, f.UserID, f.WeekID, string(f.Type), f.Subject, string(f.Severity), f.Status, f.Detail, f.DetectedAt)
	}

	results := r.db.SendBatch(ctx, batch)
	defer func() {
		if closeErr := results.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	var inserted []Flag
	for _, f := range flags {
		tag, err := results.Exec()
		if err != nil {
			return nil, fmt.Errorf("insert flag %s of user %d: %w", f.Type, f.UserID, err)
		}
		if tag.RowsAffected() == 1 {
			inserted = append(inserted, f)
		}
	}
	return inserted, nil
}

// List returns the week's flags, optionally filtered by status.
func (r *Repo) List(ctx context.Context, weekID, status string) (_ []Flag, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.anticheat.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, week_id, flag_type, subject, severity, status, detail, detected_at
		FROM anticheat_flag
		WHERE week_id = $1 AND ($2::text = '' OR status = $2::text)
		ORDER BY detected_at, user_id, flag_type, subject
	`, weekID, status)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Flag, error) {
		var (
			f                  Flag
			flagType, severity string
		)
		err := row.Scan(&f.ID, &f.UserID, &f.WeekID, &flagType, &f.Subject, &severity, &f.Status, &f.Detail, &f.DetectedAt)
		f.Type = FlagType(flagType)
		f.Severity = Severity(severity)
		return f, err
	})
}
