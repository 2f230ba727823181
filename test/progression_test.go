//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/gymprogress/internal/leaderboard"
	"github.com/2beens/gymprogress/internal/middleware"
	"github.com/2beens/gymprogress/internal/notify"
	"github.com/2beens/gymprogress/internal/progression"
)

func (s *IntegrationTestSuite) TestLoginLogout() {
	t := s.T()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	token := doLogin(ctx, t)

	resp := doRequest(ctx, t, "GET", "/anticheat/flags/2026-W10", nil, sessionHeaders(token))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(ctx, t, "POST", "/a/logout", nil, sessionHeaders(token))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(ctx, t, "GET", "/anticheat/flags/2026-W10", nil, sessionHeaders(token))
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestWorkoutHook() {
	t := s.T()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startedAt := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, seedAccount(s.DB, 101, startedAt.AddDate(-1, 0, 0)))
	require.NoError(t, seedSessions(s.DB, seedSession{
		ID:        1001,
		UserID:    101,
		StartedAt: startedAt,
		Sets:      workingSets(startedAt, 3, 10, 100),
	}))

	body, err := json.Marshal(notify.WorkoutLogged{UserID: 101, SessionID: 1001})
	require.NoError(t, err)
	serviceHeaders := map[string]string{middleware.ServiceTokenHeader: testServiceSecret}

	resp := doRequest(ctx, t, "POST", "/progression/workouts", body, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(ctx, t, "POST", "/progression/workouts", body, serviceHeaders)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	var accepted progression.WorkoutAccepted
	decodeJSON(t, resp, &accepted)
	require.False(t, accepted.Deferred)
	require.NotNil(t, accepted.Update)
	assert.True(t, accepted.Update.Qualifying)
	assert.Equal(t, int64(3100), accepted.Update.Awarded)
	assert.Equal(t, int64(3100), accepted.Update.XP)
	assert.Equal(t, 1, accepted.Update.Streak)

	// the activity service retries: no double award
	resp = doRequest(ctx, t, "POST", "/progression/workouts", body, serviceHeaders)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	decodeJSON(t, resp, &accepted)
	require.NotNil(t, accepted.Update)
	assert.True(t, accepted.Update.Replay)
	assert.Equal(t, int64(3100), accepted.Update.XP)

	resp = doRequest(ctx, t, "GET", "/progression/users/101", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var view progression.View
	decodeJSON(t, resp, &view)
	assert.Equal(t, int64(3100), view.XP)
	assert.Equal(t, 1, view.CurrentStreak)
	assert.Equal(t, 0, view.PrestigeCount)
}

type weeklySnapshotRow struct {
	UserID   int64
	XP       int64
	Workouts int
	GymCode  *string
}

func (s *IntegrationTestSuite) weeklySnapshot(weekID string) []weeklySnapshotRow {
	rows, err := s.DB.Query(`
		SELECT user_id, xp, workouts, gym_code
		FROM weekly_progression
		WHERE week_id = $1
		ORDER BY user_id
	`, weekID)
	s.Require().NoError(err)
	defer rows.Close()

	var snapshot []weeklySnapshotRow
	for rows.Next() {
		var r weeklySnapshotRow
		s.Require().NoError(rows.Scan(&r.UserID, &r.XP, &r.Workouts, &r.GymCode))
		snapshot = append(snapshot, r)
	}
	s.Require().NoError(rows.Err())
	return snapshot
}

func (s *IntegrationTestSuite) TestWeeklyAggregation() {
	t := s.T()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	const weekID = "2026-W10"
	monday := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	accountsCreated := monday.AddDate(-1, 0, 0)
	for _, userID := range []int64{201, 202, 203} {
		require.NoError(t, seedAccount(s.DB, userID, accountsCreated))
	}
	require.NoError(t, seedGym(s.DB, 201, "gym-a"))
	require.NoError(t, seedGym(s.DB, 202, "gym-a"))
	require.NoError(t, seedSessions(s.DB,
		seedSession{ID: 2011, UserID: 201, StartedAt: monday, Sets: workingSets(monday, 3, 10, 50)},
		seedSession{ID: 2021, UserID: 202, StartedAt: monday, Sets: workingSets(monday, 5, 10, 80)},
		seedSession{ID: 2022, UserID: 202, StartedAt: monday.AddDate(0, 0, 2), Sets: workingSets(monday.AddDate(0, 0, 2), 3, 8, 60)},
		seedSession{ID: 2031, UserID: 203, StartedAt: monday.AddDate(0, 0, 1), Sets: workingSets(monday.AddDate(0, 0, 1), 2, 5, 20)},
		// next week, must not count
		seedSession{ID: 2032, UserID: 203, StartedAt: monday.AddDate(0, 0, 7), Sets: workingSets(monday.AddDate(0, 0, 7), 9, 10, 100)},
	))

	token := doLogin(ctx, t)
	aggregate := func() {
		resp := doRequest(ctx, t, "POST", "/progression/aggregate?week="+weekID, nil, sessionHeaders(token))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var aggResp progression.AggregateResponse
		decodeJSON(t, resp, &aggResp)
		require.Empty(t, aggResp.Error)
		require.Len(t, aggResp.Runs, 1)
		assert.Equal(t, weekID, aggResp.Runs[0].WeekID)
	}

	aggregate()
	first := s.weeklySnapshot(weekID)
	require.Len(t, first, 3)
	assert.Equal(t, int64(201), first[0].UserID)
	assert.Equal(t, int64(100+1500), first[0].XP)
	assert.Equal(t, 2, first[1].Workouts)
	require.NotNil(t, first[1].GymCode)
	assert.Equal(t, "gym-a", *first[1].GymCode)
	assert.Nil(t, first[2].GymCode)

	// re-running a week changes nothing
	aggregate()
	assert.Equal(t, first, s.weeklySnapshot(weekID))

	resp := doRequest(ctx, t, "GET", "/leaderboard/weekly/"+weekID, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page leaderboard.Page
	decodeJSON(t, resp, &page)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Entries, 3)
	assert.Equal(t, int64(202), page.Entries[0].UserID)
	assert.Equal(t, 1, page.Entries[0].Rank)
	assert.Equal(t, int64(203), page.Entries[2].UserID)

	resp = doRequest(ctx, t, "GET", fmt.Sprintf("/leaderboard/weekly/%s?scope=gym&gym=gym-a", weekID), nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &page)
	assert.Equal(t, 2, page.Total)

	// a late correction upstream is picked up by the next run
	require.NoError(t, seedSessions(s.DB, seedSession{
		ID:        2033,
		UserID:    203,
		StartedAt: monday.AddDate(0, 0, 4),
		Sets:      workingSets(monday.AddDate(0, 0, 4), 10, 10, 100),
	}))
	aggregate()
	resp = doRequest(ctx, t, "GET", "/leaderboard/weekly/"+weekID+"?limit=1", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &page)
	require.Len(t, page.Entries, 1)
	assert.Equal(t, int64(203), page.Entries[0].UserID)

	// overlapping manual runs are refused, never interleaved
	results := make(chan int, 2)
	for i := 0; i < 2; i++ {
		go func() {
			resp := doRequest(ctx, t, "POST", "/progression/aggregate?week="+weekID, nil, sessionHeaders(token))
			resp.Body.Close()
			results <- resp.StatusCode
		}()
	}
	codes := []int{<-results, <-results}
	assert.Contains(t, codes, http.StatusOK)
	for _, code := range codes {
		assert.Contains(t, []int{http.StatusOK, http.StatusConflict}, code)
	}
}

func (s *IntegrationTestSuite) TestWeeklyAggregation_CatchesUpMissedLiveAward() {
	t := s.T()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	const weekID = "2026-W11"
	tuesday := time.Date(2026, 3, 10, 7, 30, 0, 0, time.UTC)
	require.NoError(t, seedAccount(s.DB, 301, tuesday.AddDate(-1, 0, 0)))
	// the workout hook never reached the engine for this session
	require.NoError(t, seedSessions(s.DB, seedSession{
		ID:        3011,
		UserID:    301,
		StartedAt: tuesday,
		Sets:      workingSets(tuesday, 3, 10, 100),
	}))

	progressionOf := func() progression.View {
		resp := doRequest(ctx, t, "GET", "/progression/users/301", nil, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var view progression.View
		decodeJSON(t, resp, &view)
		return view
	}
	assert.Zero(t, progressionOf().XP)

	token := doLogin(ctx, t)
	aggregate := func() int {
		resp := doRequest(ctx, t, "POST", "/progression/aggregate?week="+weekID, nil, sessionHeaders(token))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var aggResp progression.AggregateResponse
		decodeJSON(t, resp, &aggResp)
		require.Empty(t, aggResp.Error)
		require.Len(t, aggResp.Runs, 1)
		return aggResp.Runs[0].Aggregation.AwardsCaughtUp
	}

	assert.Equal(t, 1, aggregate())
	view := progressionOf()
	assert.Equal(t, int64(3100), view.XP)

	// the award is in the ledger now, a replay through the hook adds nothing
	body, err := json.Marshal(notify.WorkoutLogged{UserID: 301, SessionID: 3011})
	require.NoError(t, err)
	resp := doRequest(ctx, t, "POST", "/progression/workouts", body, map[string]string{middleware.ServiceTokenHeader: testServiceSecret})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	var accepted progression.WorkoutAccepted
	decodeJSON(t, resp, &accepted)
	require.NotNil(t, accepted.Update)
	assert.True(t, accepted.Update.Replay)

	assert.Zero(t, aggregate())
	assert.Equal(t, int64(3100), progressionOf().XP)
}
