// Package prestige gates and performs voluntary XP resets.
package prestige

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/gymprogress/internal/notify"
	"github.com/2beens/gymprogress/internal/progression/progress"
	"github.com/2beens/gymprogress/internal/progression/xp"
	"github.com/2beens/gymprogress/internal/telemetry/metrics"
	"github.com/2beens/gymprogress/internal/telemetry/tracing"
)

// ErrConcurrentModification means the user's progression changed between the
// eligibility check and the reset; the reset was not applied.
var ErrConcurrentModification = errors.New("progression modified concurrently")

//go:generate mockgen -source=$GOFILE -destination=engine_mocks_test.go -package=prestige_test

type stateReader interface {
	Get(ctx context.Context, userID int64) (*progress.State, error)
}

type prestigeRepo interface {
	// CompareAndReset applies the reset only if the stored prestige count and
	// XP still match expected, and appends the history entry in the same transaction.
	CompareAndReset(ctx context.Context, expected progress.State, entry HistoryEntry) (*HistoryEntry, error)
	History(ctx context.Context, userID int64) ([]HistoryEntry, error)
}

type prestigePublisher interface {
	PrestigeCompleted(ctx context.Context, event notify.PrestigeCompleted) error
}

type HistoryEntry struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"userId"`
	XPBefore      int64     `json:"xpBefore"`
	LevelBefore   int       `json:"levelBefore"`
	XPAfter       int64     `json:"xpAfter"`
	LevelAfter    int       `json:"levelAfter"`
	PrestigeCount int       `json:"prestigeCount"`
	OccurredAt    time.Time `json:"occurredAt"`
}

type Outcome struct {
	Reset       bool          `json:"reset"`
	Eligibility Eligibility   `json:"eligibility"`
	Entry       *HistoryEntry `json:"entry,omitempty"`
	Badge       string        `json:"badge,omitempty"`
}

type Engine struct {
	states         stateReader
	repo           prestigeRepo
	publisher      prestigePublisher
	policy         Policy
	curve          xp.Curve
	metricsManager *metrics.Manager

	// ability to inject the clock (for unit testing)
	Now func() time.Time
}

func NewEngine(
	states stateReader,
	repo prestigeRepo,
	publisher prestigePublisher,
	policy Policy,
	curve xp.Curve,
	metricsManager *metrics.Manager,
) *Engine {
	return &Engine{
		states:         states,
		repo:           repo,
		publisher:      publisher,
		policy:         policy,
		curve:          curve,
		metricsManager: metricsManager,
		Now:            time.Now,
	}
}

func (e *Engine) Policy() Policy {
	return e.policy
}

func (e *Engine) Eligibility(ctx context.Context, userID int64) (_ Eligibility, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "prestige.eligibility")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	state, err := e.state(ctx, userID)
	if err != nil {
		return Eligibility{}, err
	}
	return Evaluate(*state, e.policy, e.Now()), nil
}

// Reset performs the prestige transition if the user is eligible. Being
// ineligible yields an Outcome without error; losing a race against another
// reset or a live award yields ErrConcurrentModification.
func (e *Engine) Reset(ctx context.Context, userID int64) (_ *Outcome, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "prestige.reset")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("user_id", userID))

	state, err := e.state(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := e.Now()
	eligibility := Evaluate(*state, e.policy, now)
	if !eligibility.Eligible {
		e.metricsManager.CounterPrestige.WithLabelValues("ineligible").Inc()
		return &Outcome{Eligibility: eligibility}, nil
	}

	entry, err := e.repo.CompareAndReset(ctx, *state, HistoryEntry{
		UserID:        userID,
		XPBefore:      state.XP,
		LevelBefore:   state.Level,
		XPAfter:       0,
		LevelAfter:    e.curve.Level(0),
		PrestigeCount: state.PrestigeCount + 1,
		OccurredAt:    now,
	})
	if errors.Is(err, ErrConcurrentModification) {
		e.metricsManager.CounterPrestige.WithLabelValues("conflict").Inc()
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("reset user %d: %w", userID, err)
	}

	e.metricsManager.CounterPrestige.WithLabelValues("reset").Inc()
	badge := Badge(entry.PrestigeCount)
	log.Infof("user %d prestiged to %d (%s), xp before %d", userID, entry.PrestigeCount, badge, entry.XPBefore)

	if err := e.publisher.PrestigeCompleted(ctx, notify.PrestigeCompleted{
		UserID:        userID,
		PrestigeCount: entry.PrestigeCount,
		Badge:         badge,
		XPBefore:      entry.XPBefore,
		LevelBefore:   entry.LevelBefore,
		OccurredAt:    entry.OccurredAt,
	}); err != nil {
		log.Warnf("prestige of user %d not published: %s", userID, err)
	}

	return &Outcome{
		Reset:       true,
		Eligibility: eligibility,
		Entry:       entry,
		Badge:       badge,
	}, nil
}

func (e *Engine) History(ctx context.Context, userID int64) (_ []HistoryEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "prestige.history")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	return e.repo.History(ctx, userID)
}

func (e *Engine) state(ctx context.Context, userID int64) (*progress.State, error) {
	state, err := e.states.Get(ctx, userID)
	if errors.Is(err, progress.ErrNotFound) {
		return &progress.State{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get progression of user %d: %w", userID, err)
	}
	return state, nil
}
