package progression

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/gymprogress/internal/jobs"
	"github.com/2beens/gymprogress/internal/leaderboard"
	"github.com/2beens/gymprogress/internal/middleware"
	"github.com/2beens/gymprogress/internal/notify"
	"github.com/2beens/gymprogress/internal/progression/anticheat"
	"github.com/2beens/gymprogress/internal/progression/prestige"
	"github.com/2beens/gymprogress/internal/progression/progress"
	"github.com/2beens/gymprogress/internal/progression/week"
	"github.com/2beens/gymprogress/internal/progression/xp"
	"github.com/2beens/gymprogress/internal/telemetry/metrics"
	"github.com/2beens/gymprogress/internal/telemetry/tracing"
	"github.com/2beens/gymprogress/internal/upstream"
	"github.com/2beens/gymprogress/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=progression_test

type progressService interface {
	RecordWorkout(ctx context.Context, workout notify.WorkoutLogged) (progress.Update, error)
	Get(ctx context.Context, userID int64) (*progress.State, error)
	RepairStreak(ctx context.Context, userID int64) (*progress.State, error)
	EffectiveStreak(state *progress.State) int
	Curve() xp.Curve
}

type prestigeEngine interface {
	Eligibility(ctx context.Context, userID int64) (prestige.Eligibility, error)
	Reset(ctx context.Context, userID int64) (*prestige.Outcome, error)
	History(ctx context.Context, userID int64) ([]prestige.HistoryEntry, error)
}

type leaderboardReader interface {
	Weekly(ctx context.Context, q leaderboard.Query) (*leaderboard.Page, error)
}

type flagLister interface {
	List(ctx context.Context, weekID, status string) ([]anticheat.Flag, error)
}

type weeklyRunner interface {
	Run(ctx context.Context, override *week.ID) ([]jobs.RunSummary, error)
}

// WorkoutAccepted answers the live workout hook. Deferred means the award
// could not be applied now and is left to the weekly aggregation.
type WorkoutAccepted struct {
	Deferred bool             `json:"deferred"`
	Update   *progress.Update `json:"update,omitempty"`
}

type AggregateResponse struct {
	Runs  []jobs.RunSummary `json:"runs"`
	Error string            `json:"error,omitempty"`
}

type Handler struct {
	progress       progressService
	prestige       prestigeEngine
	leaderboard    leaderboardReader
	weeklyJob      weeklyRunner
	flags          flagLister
	ranks          *xp.RankTable
	loc            *time.Location
	jobTimeout     time.Duration
	metricsManager *metrics.Manager

	// manual aggregation runs allowed per client and minute
	AggregateRatePerMin int

	// ability to inject the clock (for unit testing)
	Now func() time.Time
}

// DefaultAggregateRatePerMin keeps manual runs rare, the weekly job is heavy.
const DefaultAggregateRatePerMin = 2

func NewHandler(
	progress progressService,
	prestige prestigeEngine,
	leaderboard leaderboardReader,
	weeklyJob weeklyRunner,
	flags flagLister,
	ranks *xp.RankTable,
	loc *time.Location,
	jobTimeout time.Duration,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		progress:       progress,
		prestige:       prestige,
		leaderboard:    leaderboard,
		weeklyJob:      weeklyJob,
		flags:          flags,
		ranks:          ranks,
		loc:            loc,
		jobTimeout:     jobTimeout,
		metricsManager: metricsManager,

		AggregateRatePerMin: DefaultAggregateRatePerMin,
		Now:                 time.Now,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	metricsManager *metrics.Manager,
) {
	progressionRouter := mainRouter.PathPrefix("/progression").Subrouter()
	progressionRouter.HandleFunc("/workouts", handler.HandleWorkoutLogged).Methods("POST").Name("workout-logged")
	progressionRouter.HandleFunc("/users/{id}", handler.HandleGetProgression).Methods("GET").Name("progression")
	progressionRouter.HandleFunc("/users/{id}/streak/repair", handler.HandleRepairStreak).Methods("POST").Name("streak-repair")
	progressionRouter.HandleFunc("/users/{id}/prestige", handler.HandlePrestigeEligibility).Methods("GET").Name("prestige-eligibility")
	progressionRouter.HandleFunc("/users/{id}/prestige", handler.HandlePrestigeReset).Methods("POST").Name("prestige-reset")
	progressionRouter.HandleFunc("/users/{id}/prestige/history", handler.HandlePrestigeHistory).Methods("GET").Name("prestige-history")

	aggregateRouter := progressionRouter.PathPrefix("/aggregate").Subrouter()
	aggregateRouter.HandleFunc("", handler.HandleAggregate).Methods("POST").Name("aggregate")
	aggregateRouter.Use(middleware.RateLimit(rateLimiter, "aggregate", handler.AggregateRatePerMin, metricsManager))

	mainRouter.HandleFunc("/leaderboard/weekly/{week}", handler.HandleWeeklyLeaderboard).Methods("GET").Name("leaderboard-weekly")
	mainRouter.HandleFunc("/anticheat/flags/{week}", handler.HandleListFlags).Methods("GET").Name("anticheat-flags")
}

func (handler *Handler) HandleWorkoutLogged(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.workout")
	defer span.End()

	var workout notify.WorkoutLogged
	if err := json.NewDecoder(r.Body).Decode(&workout); err != nil {
		log.Errorf("workout logged, unmarshal json params: %s", err)
		http.Error(w, "invalid workout", http.StatusBadRequest)
		return
	}
	if workout.UserID <= 0 || workout.SessionID <= 0 {
		http.Error(w, "error, user id or session id missing", http.StatusBadRequest)
		return
	}
	span.SetAttributes(
		attribute.Int64("user_id", workout.UserID),
		attribute.Int64("session_id", workout.SessionID),
	)

	upd, err := handler.progress.RecordWorkout(ctx, workout)
	switch {
	case errors.Is(err, xp.ErrInvalidInput):
		log.Warnf("workout %d of user %d rejected: %s", workout.SessionID, workout.UserID, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		// the workout itself is saved upstream, never fail the caller for progression
		handler.metricsManager.CounterWorkouts.WithLabelValues("failed").Inc()
		log.Errorf("record workout %d of user %d: %s", workout.SessionID, workout.UserID, err)
		pkg.WriteJSON(w, WorkoutAccepted{Deferred: true}, http.StatusAccepted)
		return
	}

	pkg.WriteJSON(w, WorkoutAccepted{Update: &upd}, http.StatusAccepted)
}

func (handler *Handler) HandleGetProgression(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.get")
	defer span.End()

	userID, ok := userIDVar(w, r)
	if !ok {
		return
	}

	state, err := handler.progress.Get(ctx, userID)
	if err != nil {
		log.Errorf("get progression of user %d: %s", userID, err)
		http.Error(w, "failed to get progression", http.StatusInternalServerError)
		return
	}

	view := NewView(state, handler.progress.EffectiveStreak(state), handler.progress.Curve(), handler.ranks)
	pkg.WriteJSON(w, view, http.StatusOK)
}

func (handler *Handler) HandleRepairStreak(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.repairstreak")
	defer span.End()

	userID, ok := userIDVar(w, r)
	if !ok {
		return
	}

	state, err := handler.progress.RepairStreak(ctx, userID)
	if err != nil {
		log.Errorf("repair streak of user %d: %s", userID, err)
		http.Error(w, "failed to repair streak", statusFor(err))
		return
	}

	view := NewView(state, handler.progress.EffectiveStreak(state), handler.progress.Curve(), handler.ranks)
	pkg.WriteJSON(w, view, http.StatusOK)
}

func (handler *Handler) HandlePrestigeEligibility(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.prestigeeligibility")
	defer span.End()

	userID, ok := userIDVar(w, r)
	if !ok {
		return
	}

	eligibility, err := handler.prestige.Eligibility(ctx, userID)
	if err != nil {
		log.Errorf("prestige eligibility of user %d: %s", userID, err)
		http.Error(w, "failed to check eligibility", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSON(w, eligibility, http.StatusOK)
}

func (handler *Handler) HandlePrestigeReset(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.prestigereset")
	defer span.End()

	userID, ok := userIDVar(w, r)
	if !ok {
		return
	}

	outcome, err := handler.prestige.Reset(ctx, userID)
	if errors.Is(err, prestige.ErrConcurrentModification) {
		log.Warnf("prestige reset of user %d lost a race, client may retry", userID)
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		log.Errorf("prestige reset of user %d: %s", userID, err)
		http.Error(w, "failed to reset", http.StatusInternalServerError)
		return
	}

	// an ineligible user gets the reason, not an error
	pkg.WriteJSON(w, outcome, http.StatusOK)
}

func (handler *Handler) HandlePrestigeHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.prestigehistory")
	defer span.End()

	userID, ok := userIDVar(w, r)
	if !ok {
		return
	}

	history, err := handler.prestige.History(ctx, userID)
	if err != nil {
		log.Errorf("prestige history of user %d: %s", userID, err)
		http.Error(w, "failed to get history", http.StatusInternalServerError)
		return
	}
	if history == nil {
		history = []prestige.HistoryEntry{}
	}
	pkg.WriteJSON(w, history, http.StatusOK)
}

func (handler *Handler) HandleWeeklyLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.leaderboard")
	defer span.End()

	q, err := handler.leaderboardQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	page, err := handler.leaderboard.Weekly(ctx, q)
	if errors.Is(err, leaderboard.ErrInvalidQuery) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Errorf("weekly leaderboard %s: %s", q.WeekID, err)
		http.Error(w, "failed to get leaderboard", statusFor(err))
		return
	}
	pkg.WriteJSON(w, page, http.StatusOK)
}

func (handler *Handler) leaderboardQuery(r *http.Request) (leaderboard.Query, error) {
	var q leaderboard.Query

	weekStr := mux.Vars(r)["week"]
	if weekStr == "current" {
		q.WeekID = week.Of(handler.Now(), handler.loc)
	} else {
		weekID, err := week.Parse(weekStr)
		if err != nil {
			return q, err
		}
		q.WeekID = weekID
	}

	params := r.URL.Query()
	q.Scope = leaderboard.Scope(params.Get("scope"))
	q.GymCode = params.Get("gym")

	var err error
	if q.UserID, err = int64Param(params.Get("user"), "user"); err != nil {
		return q, err
	}
	if users := params.Get("users"); users != "" {
		for _, idStr := range strings.Split(users, ",") {
			id, err := int64Param(strings.TrimSpace(idStr), "users")
			if err != nil {
				return q, err
			}
			q.UserIDs = append(q.UserIDs, id)
		}
	}

	limit, err := int64Param(params.Get("limit"), "limit")
	if err != nil {
		return q, err
	}
	offset, err := int64Param(params.Get("offset"), "offset")
	if err != nil {
		return q, err
	}
	q.Limit, q.Offset = int(limit), int(offset)
	return q, nil
}

func (handler *Handler) HandleAggregate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.aggregate")
	defer span.End()

	var override *week.ID
	if weekStr := r.URL.Query().Get("week"); weekStr != "" {
		weekID, err := week.Parse(weekStr)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		override = &weekID
		span.SetAttributes(attribute.String("week_id", weekID.String()))
	}

	// a dropped client connection must not abort a half-done run
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), handler.jobTimeout)
	defer cancel()

	runs, err := handler.weeklyJob.Run(ctx, override)
	if errors.Is(err, jobs.ErrAlreadyRunning) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		log.Errorf("manual aggregation: %s", err)
		// weeks before the failed one did complete
		pkg.WriteJSON(w, AggregateResponse{Runs: runs, Error: err.Error()}, statusFor(err))
		return
	}

	log.Infof("manual aggregation done, %d week(s)", len(runs))
	pkg.WriteJSON(w, AggregateResponse{Runs: runs}, http.StatusOK)
}

// HandleListFlags is the moderation review queue of one week.
func (handler *Handler) HandleListFlags(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.listflags")
	defer span.End()

	weekID, err := week.Parse(mux.Vars(r)["week"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	flags, err := handler.flags.List(ctx, weekID.String(), r.URL.Query().Get("status"))
	if err != nil {
		log.Errorf("list anti-cheat flags of %s: %s", weekID, err)
		http.Error(w, "failed to list flags", http.StatusInternalServerError)
		return
	}
	if flags == nil {
		flags = []anticheat.Flag{}
	}
	pkg.WriteJSON(w, flags, http.StatusOK)
}

func userIDVar(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := mux.Vars(r)["id"]
	if idStr == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return 0, false
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// statusFor tells a broken upstream store apart from our own failures.
func statusFor(err error) int {
	if errors.Is(err, upstream.ErrUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func int64Param(s, name string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.New("invalid " + name + " parameter")
	}
	return v, nil
}
