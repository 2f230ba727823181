//go:build integration_test || all_tests

package test

import (
	"database/sql"
	"time"

	"github.com/2beens/gymprogress/internal/progression/xp"
)

// upstreamSchemaSQL mirrors the read-only tables owned by the activity and
// social services.
const upstreamSchemaSQL = `
CREATE TABLE account
(
    id         BIGINT PRIMARY KEY,
    created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE workout_session
(
    id         BIGINT PRIMARY KEY,
    user_id    BIGINT      NOT NULL REFERENCES account (id),
    started_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX ix_workout_session_started ON workout_session (started_at, user_id, id);

CREATE TABLE set_entry
(
    id           BIGSERIAL PRIMARY KEY,
    session_id   BIGINT           NOT NULL REFERENCES workout_session (id),
    reps         INTEGER          NOT NULL,
    weight       DOUBLE PRECISION NOT NULL,
    unit         VARCHAR(2)       NOT NULL,
    warm_up      BOOLEAN          NOT NULL DEFAULT FALSE,
    performed_at TIMESTAMPTZ      NOT NULL
);

CREATE TABLE personal_record
(
    id          BIGSERIAL PRIMARY KEY,
    user_id     BIGINT      NOT NULL,
    achieved_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE gym_membership
(
    user_id            BIGINT      NOT NULL,
    gym_code           VARCHAR(64) NOT NULL,
    status             VARCHAR(16) NOT NULL,
    leaderboard_opt_in BOOLEAN     NOT NULL DEFAULT TRUE,
    PRIMARY KEY (user_id, gym_code)
);

CREATE TABLE friendship
(
    user_id   BIGINT  NOT NULL,
    friend_id BIGINT  NOT NULL,
    accepted  BOOLEAN NOT NULL DEFAULT FALSE,
    PRIMARY KEY (user_id, friend_id)
);
`

type seedSession struct {
	ID        int64
	UserID    int64
	StartedAt time.Time
	Sets      []xp.SetEntry
}

func seedAccount(db *sql.DB, userID int64, createdAt time.Time) error {
	_, err := db.Exec(`INSERT INTO account (id, created_at) VALUES ($1, $2) ON CONFLICT DO NOTHING`, userID, createdAt)
	return err
}

func seedSessions(db *sql.DB, sessions ...seedSession) error {
	for _, s := range sessions {
		if _, err := db.Exec(
			`INSERT INTO workout_session (id, user_id, started_at) VALUES ($1, $2, $3)`,
			s.ID, s.UserID, s.StartedAt,
		); err != nil {
			return err
		}
		for _, set := range s.Sets {
			if _, err := db.Exec(`
				INSERT INTO set_entry (session_id, reps, weight, unit, warm_up, performed_at)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, s.ID, set.Reps, set.Weight, string(set.Unit), set.WarmUp, set.PerformedAt); err != nil {
				return err
			}
		}
	}
	return nil
}

func seedGym(db *sql.DB, userID int64, gymCode string) error {
	_, err := db.Exec(
		`INSERT INTO gym_membership (user_id, gym_code, status) VALUES ($1, $2, 'approved')`,
		userID, gymCode,
	)
	return err
}

func workingSets(at time.Time, n int, reps int, weightKg float64) []xp.SetEntry {
	sets := make([]xp.SetEntry, 0, n)
	for i := 0; i < n; i++ {
		sets = append(sets, xp.SetEntry{
			Reps:        reps,
			Weight:      weightKg,
			Unit:        xp.UnitKilograms,
			PerformedAt: at.Add(time.Duration(i) * 3 * time.Minute),
		})
	}
	return sets
}
