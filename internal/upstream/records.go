package upstream

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/gymprogress/internal/telemetry/tracing"
)

type RecordsRepo struct {
	db *pgxpool.Pool
}

func NewRecordsRepo(db *pgxpool.Pool) *RecordsRepo {
	return &RecordsRepo{
		db: db,
	}
}

// CountPersonalRecords counts PR events achieved in [from, to) per user.
// Users without any PR are absent from the result.
func (r *RecordsRepo) CountPersonalRecords(ctx context.Context, userIDs []int64, from, to time.Time) (_ map[int64]int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.upstream.records.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("users", len(userIDs)))

	counts := make(map[int64]int, len(userIDs))
	if len(userIDs) == 0 {
		return counts, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT user_id, count(*)
		FROM personal_record
		WHERE user_id = ANY($1)
		  AND achieved_at >= $2 AND achieved_at < $3
		GROUP BY user_id
	`, userIDs, from, to)
	if err != nil {
		return nil, unavailable("count personal records", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			userID int64
			count  int
		)
		if err := rows.Scan(&userID, &count); err != nil {
			return nil, unavailable("scan personal records", err)
		}
		counts[userID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate personal records", err)
	}
	return counts, nil
}
