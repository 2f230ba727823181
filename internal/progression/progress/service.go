// Package progress applies live workout awards to the cumulative progression
// of a user: XP, level and streak.
package progress

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/gymprogress/internal/notify"
	"github.com/2beens/gymprogress/internal/progression/streak"
	"github.com/2beens/gymprogress/internal/progression/week"
	"github.com/2beens/gymprogress/internal/progression/xp"
	"github.com/2beens/gymprogress/internal/telemetry/metrics"
	"github.com/2beens/gymprogress/internal/telemetry/tracing"
	"github.com/2beens/gymprogress/internal/upstream"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=progress_test

type progressRepo interface {
	ApplyAward(ctx context.Context, award Award, mutate Mutation) (ApplyResult, error)
	AwardedSessions(ctx context.Context, userIDs, sessionIDs []int64) (map[int64]bool, error)
	Get(ctx context.Context, userID int64) (*State, error)
	UpdateStreak(ctx context.Context, userID int64, res streak.Result, at time.Time) (*State, error)
}

type sessionLoader interface {
	Session(ctx context.Context, userID, sessionID int64) (*upstream.Session, error)
}

type streakRecomputer interface {
	Recompute(ctx context.Context, userID int64, now time.Time) (streak.Result, error)
}

type levelUpPublisher interface {
	LevelUp(ctx context.Context, event notify.LevelUp) error
}

// Update is the outcome of recording one live workout.
type Update struct {
	UserID     int64 `json:"userId"`
	SessionID  int64 `json:"sessionId"`
	Qualifying bool  `json:"qualifying"`
	Replay     bool  `json:"replay"`
	Awarded    int64 `json:"awarded"`
	XP         int64 `json:"xp"`
	Level      int   `json:"level"`
	LevelUp    bool  `json:"levelUp"`
	Streak     int   `json:"streak"`
}

type Service struct {
	repo           progressRepo
	sessions       sessionLoader
	tracker        streakRecomputer
	publisher      levelUpPublisher
	policy         xp.Policy
	curve          xp.Curve
	loc            *time.Location
	metricsManager *metrics.Manager

	// ability to inject the clock (for unit testing)
	Now func() time.Time
}

func NewService(
	repo progressRepo,
	sessions sessionLoader,
	tracker streakRecomputer,
	publisher levelUpPublisher,
	policy xp.Policy,
	curve xp.Curve,
	loc *time.Location,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		repo:           repo,
		sessions:       sessions,
		tracker:        tracker,
		publisher:      publisher,
		policy:         policy,
		curve:          curve,
		loc:            loc,
		metricsManager: metricsManager,
		Now:            time.Now,
	}
}

// RecordWorkout awards XP for a freshly logged workout and advances the
// user's streak. Submitting the same session again is a no-op.
func (s *Service) RecordWorkout(ctx context.Context, workout notify.WorkoutLogged) (_ Update, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.recordworkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int64("user_id", workout.UserID),
		attribute.Int64("session_id", workout.SessionID),
	)

	// the activity store is the source of truth for anything the event left out
	if len(workout.Sets) == 0 || workout.StartedAt.IsZero() {
		session, err := s.sessions.Session(ctx, workout.UserID, workout.SessionID)
		if err != nil {
			return Update{}, fmt.Errorf("load session %d: %w", workout.SessionID, err)
		}
		workout.Sets = session.Sets
		workout.StartedAt = session.StartedAt
	}

	upd := Update{
		UserID:    workout.UserID,
		SessionID: workout.SessionID,
	}

	// validates the sets, first-of-day is only known once the user row is locked
	if _, err := s.policy.WorkoutXP(workout.Sets, false); err != nil {
		return Update{}, err
	}
	if !xp.IsQualifying(workout.Sets) {
		s.metricsManager.CounterWorkouts.WithLabelValues("not_qualifying").Inc()
		return upd, nil
	}
	upd.Qualifying = true

	day := week.CivilDay(workout.StartedAt, s.loc)
	award := Award{
		UserID:    workout.UserID,
		SessionID: workout.SessionID,
		Day:       day,
		AwardedAt: s.Now(),
	}

	res, err := s.repo.ApplyAward(ctx, award, func(before State, firstOfDay bool) (State, int64) {
		// sets were validated above
		workoutAward, _ := s.policy.WorkoutXP(workout.Sets, firstOfDay)

		st := streak.Advance(streak.State{
			Current:    before.CurrentStreak,
			Longest:    before.LongestStreak,
			LastActive: before.LastActivityDate,
		}, day)

		after := before
		after.XP += workoutAward.XP
		after.Level = s.curve.Level(after.XP)
		after.CurrentStreak = st.Current
		after.LongestStreak = st.Longest
		after.LastActivityDate = st.LastActive
		return after, workoutAward.XP
	})
	if err != nil {
		return Update{}, fmt.Errorf("apply award: %w", err)
	}

	upd.Replay = res.Replay
	upd.Awarded = res.Awarded
	upd.XP = res.After.XP
	upd.Level = res.After.Level
	upd.Streak = res.After.CurrentStreak
	upd.LevelUp = res.After.Level > res.Before.Level

	if res.Replay {
		s.metricsManager.CounterWorkouts.WithLabelValues("replay").Inc()
		log.Debugf("workout %d of user %d already awarded", workout.SessionID, workout.UserID)
		return upd, nil
	}

	s.metricsManager.CounterWorkouts.WithLabelValues("awarded").Inc()
	s.metricsManager.CounterXPAwarded.Add(float64(res.Awarded))

	if upd.LevelUp {
		if err := s.publisher.LevelUp(ctx, notify.LevelUp{
			UserID:     workout.UserID,
			FromLevel:  res.Before.Level,
			ToLevel:    res.After.Level,
			XP:         res.After.XP,
			OccurredAt: award.AwardedAt,
		}); err != nil {
			log.Warnf("user %d level up not published: %s", workout.UserID, err)
		}
	}

	return upd, nil
}

// RecordWorkoutBestEffort never fails the caller: the workout itself is
// already saved, a missed award is caught up by the weekly aggregation (see CatchUp).
func (s *Service) RecordWorkoutBestEffort(ctx context.Context, workout notify.WorkoutLogged) {
	upd, err := s.RecordWorkout(ctx, workout)
	if err != nil {
		s.metricsManager.CounterWorkouts.WithLabelValues("failed").Inc()
		if errors.Is(err, xp.ErrInvalidInput) {
			log.Warnf("workout %d of user %d rejected: %s", workout.SessionID, workout.UserID, err)
			return
		}
		log.Errorf("record workout %d of user %d: %s", workout.SessionID, workout.UserID, err)
		return
	}
	log.Tracef("workout %d of user %d recorded: %+v", workout.SessionID, workout.UserID, upd)
}

// CatchUp awards the given sessions that are missing from the award ledger,
// oldest first, and returns how many were awarded. Sessions are expected to be
// valid and qualifying, as folded by the weekly aggregation.
func (s *Service) CatchUp(ctx context.Context, sessions []upstream.Session) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.catchup")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("sessions", len(sessions)))

	if len(sessions) == 0 {
		return 0, nil
	}

	userIDs := make([]int64, 0, len(sessions))
	sessionIDs := make([]int64, 0, len(sessions))
	seenUsers := make(map[int64]bool)
	for _, session := range sessions {
		sessionIDs = append(sessionIDs, session.ID)
		if !seenUsers[session.UserID] {
			seenUsers[session.UserID] = true
			userIDs = append(userIDs, session.UserID)
		}
	}

	awarded, err := s.repo.AwardedSessions(ctx, userIDs, sessionIDs)
	if err != nil {
		return 0, fmt.Errorf("awarded sessions: %w", err)
	}

	var missing []upstream.Session
	for _, session := range sessions {
		if !awarded[session.ID] {
			missing = append(missing, session)
		}
	}
	sort.SliceStable(missing, func(i, j int) bool {
		return missing[i].StartedAt.Before(missing[j].StartedAt)
	})

	caughtUp := 0
	for _, session := range missing {
		upd, err := s.RecordWorkout(ctx, notify.WorkoutLogged{
			UserID:    session.UserID,
			SessionID: session.ID,
			StartedAt: session.StartedAt,
			Sets:      session.Sets,
		})
		if err != nil {
			return caughtUp, fmt.Errorf("catch up session %d of user %d: %w", session.ID, session.UserID, err)
		}
		if upd.Qualifying && !upd.Replay {
			caughtUp++
			s.metricsManager.CounterWorkouts.WithLabelValues("caught_up").Inc()
			log.Infof("missed award of workout %d of user %d caught up: +%d xp", session.ID, session.UserID, upd.Awarded)
		}
	}
	return caughtUp, nil
}

// Get returns the stored progression; users without any yet get a zero state.
func (s *Service) Get(ctx context.Context, userID int64) (_ *State, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	state, err := s.repo.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return &State{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get progression of user %d: %w", userID, err)
	}
	return state, nil
}

// RepairStreak recomputes the streak fields from the full activity history.
func (s *Service) RepairStreak(ctx context.Context, userID int64) (_ *State, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.repairstreak")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	now := s.Now()
	res, err := s.tracker.Recompute(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("recompute streak: %w", err)
	}

	state, err := s.repo.UpdateStreak(ctx, userID, res, now)
	if err != nil {
		return nil, fmt.Errorf("update streak: %w", err)
	}
	log.Infof("streak of user %d repaired: current=%d longest=%d", userID, res.Current, res.Longest)
	return state, nil
}

// EffectiveStreak is the streak to display right now, see streak.Effective.
func (s *Service) EffectiveStreak(state *State) int {
	return streak.Effective(streak.State{
		Current:    state.CurrentStreak,
		Longest:    state.LongestStreak,
		LastActive: state.LastActivityDate,
	}, week.CivilDay(s.Now(), s.loc))
}

func (s *Service) Curve() xp.Curve {
	return s.curve
}
