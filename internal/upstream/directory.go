package upstream

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/gymprogress/internal/telemetry/tracing"
)

// DirectoryRepo reads gym memberships, accounts and friendships.
type DirectoryRepo struct {
	db *pgxpool.Pool
}

func NewDirectoryRepo(db *pgxpool.Pool) *DirectoryRepo {
	return &DirectoryRepo{
		db: db,
	}
}

// GymAffiliations returns the gym code of every user with an approved,
// leaderboard opted-in membership. With several memberships, the lowest gym code wins.
func (r *DirectoryRepo) GymAffiliations(ctx context.Context, userIDs []int64) (_ map[int64]string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.upstream.directory.gyms")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("users", len(userIDs)))

	gyms := make(map[int64]string, len(userIDs))
	if len(userIDs) == 0 {
		return gyms, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT ON (user_id) user_id, gym_code
		FROM gym_membership
		WHERE user_id = ANY($1)
		  AND status = 'approved'
		  AND leaderboard_opt_in
		ORDER BY user_id, gym_code
	`, userIDs)
	if err != nil {
		return nil, unavailable("list gym memberships", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			userID  int64
			gymCode string
		)
		if err := rows.Scan(&userID, &gymCode); err != nil {
			return nil, unavailable("scan gym membership", err)
		}
		gyms[userID] = gymCode
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate gym memberships", err)
	}
	return gyms, nil
}

// AccountsCreatedAt returns account creation times; unknown users are absent.
func (r *DirectoryRepo) AccountsCreatedAt(ctx context.Context, userIDs []int64) (_ map[int64]time.Time, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.upstream.directory.accounts")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	created := make(map[int64]time.Time, len(userIDs))
	if len(userIDs) == 0 {
		return created, nil
	}

	rows, err := r.db.Query(ctx, `SELECT id, created_at FROM account WHERE id = ANY($1)`, userIDs)
	if err != nil {
		return nil, unavailable("list accounts", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			userID    int64
			createdAt time.Time
		)
		if err := rows.Scan(&userID, &createdAt); err != nil {
			return nil, unavailable("scan account", err)
		}
		created[userID] = createdAt
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate accounts", err)
	}
	return created, nil
}

// Friends returns the ids of the user's accepted friends.
func (r *DirectoryRepo) Friends(ctx context.Context, userID int64) (_ []int64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.upstream.directory.friends")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("user_id", userID))

	rows, err := r.db.Query(ctx, `
		SELECT friend_id
		FROM friendship
		WHERE user_id = $1 AND accepted
		ORDER BY friend_id
	`, userID)
	if err != nil {
		return nil, unavailable("list friends", err)
	}
	friends, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, unavailable("scan friends", err)
	}
	return friends, nil
}
