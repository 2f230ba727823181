package upstream

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/gymprogress/internal/progression/xp"
	"github.com/2beens/gymprogress/internal/telemetry/tracing"
)

const DefaultPageSize = 500

// Session is a workout session together with all of its set entries.
type Session struct {
	ID        int64         `json:"id"`
	UserID    int64         `json:"userId"`
	StartedAt time.Time     `json:"startedAt"`
	Sets      []xp.SetEntry `json:"sets"`
}

// SessionPage selects sessions started in [From, To), strictly after the
// (AfterUserID, AfterSessionID) cursor, ordered by user and session id.
type SessionPage struct {
	From           time.Time
	To             time.Time
	AfterUserID    int64
	AfterSessionID int64
	Limit          int
}

// Next returns the page following the given sessions, or false when there is none.
func (p SessionPage) Next(sessions []Session) (SessionPage, bool) {
	if len(sessions) < p.limit() {
		return p, false
	}
	last := sessions[len(sessions)-1]
	p.AfterUserID = last.UserID
	p.AfterSessionID = last.ID
	return p, true
}

func (p SessionPage) limit() int {
	if p.Limit <= 0 {
		return DefaultPageSize
	}
	return p.Limit
}

type ActivityRepo struct {
	db *pgxpool.Pool
}

func NewActivityRepo(db *pgxpool.Pool) *ActivityRepo {
	return &ActivityRepo{
		db: db,
	}
}

func (r *ActivityRepo) ListSessions(ctx context.Context, page SessionPage) (_ []Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.upstream.activity.listsessions")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("from", page.From.String()),
		attribute.String("to", page.To.String()),
		attribute.Int64("after_user_id", page.AfterUserID),
		attribute.Int64("after_session_id", page.AfterSessionID),
	)

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, started_at
		FROM workout_session
		WHERE started_at >= $1 AND started_at < $2
		  AND (user_id, id) > ($3, $4)
		ORDER BY user_id, id
		LIMIT $5
	`,
		page.From, page.To,
		page.AfterUserID, page.AfterSessionID,
		page.limit(),
	)
	if err != nil {
		return nil, unavailable("list sessions", err)
	}
	sessions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Session, error) {
		var s Session
		err := row.Scan(&s.ID, &s.UserID, &s.StartedAt)
		return s, err
	})
	if err != nil {
		return nil, unavailable("scan sessions", err)
	}

	if err := r.attachSets(ctx, sessions); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("sessions", len(sessions)))
	return sessions, nil
}

// Session loads a single session owned by userID.
func (r *ActivityRepo) Session(ctx context.Context, userID, sessionID int64) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.upstream.activity.session")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s := Session{}
	err = r.db.QueryRow(ctx, `
		SELECT id, user_id, started_at
		FROM workout_session
		WHERE id = $1 AND user_id = $2
	`, sessionID, userID).Scan(&s.ID, &s.UserID, &s.StartedAt)
	if err != nil {
		return nil, unavailable("get session", err)
	}

	sessions := []Session{s}
	if err := r.attachSets(ctx, sessions); err != nil {
		return nil, err
	}
	return &sessions[0], nil
}

// QualifyingActivity returns start times of the user's sessions with at least one working set.
func (r *ActivityRepo) QualifyingActivity(ctx context.Context, userID int64) (_ []time.Time, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.upstream.activity.qualifying")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("user_id", userID))

	rows, err := r.db.Query(ctx, `
		SELECT s.started_at
		FROM workout_session s
		WHERE s.user_id = $1
		  AND EXISTS (SELECT 1 FROM set_entry e WHERE e.session_id = s.id AND NOT e.warm_up)
		ORDER BY s.started_at
	`, userID)
	if err != nil {
		return nil, unavailable("list qualifying activity", err)
	}
	instants, err := pgx.CollectRows(rows, pgx.RowTo[time.Time])
	if err != nil {
		return nil, unavailable("scan qualifying activity", err)
	}
	return instants, nil
}

func (r *ActivityRepo) attachSets(ctx context.Context, sessions []Session) error {
	if len(sessions) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(sessions))
	index := make(map[int64]int, len(sessions))
	for i, s := range sessions {
		ids = append(ids, s.ID)
		index[s.ID] = i
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, session_id, reps, weight, unit, warm_up, performed_at
		FROM set_entry
		WHERE session_id = ANY($1)
		ORDER BY session_id, performed_at, id
	`, ids)
	if err != nil {
		return unavailable("list set entries", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			set       xp.SetEntry
			sessionID int64
			unit      string
		)
		if err := rows.Scan(&set.ID, &sessionID, &set.Reps, &set.Weight, &unit, &set.WarmUp, &set.PerformedAt); err != nil {
			return unavailable("scan set entry", err)
		}
		set.Unit = xp.Unit(unit)
		i := index[sessionID]
		sessions[i].Sets = append(sessions[i].Sets, set)
	}
	if err := rows.Err(); err != nil {
		return unavailable("iterate set entries", err)
	}
	return nil
}
