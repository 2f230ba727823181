// Package jobs runs the weekly re-aggregation: fold the week's activity,
// scan it for anti-cheat signals and drop the cached leaderboard pages.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/baggage"

	"github.com/2beens/gymprogress/internal/progression/aggregator"
	"github.com/2beens/gymprogress/internal/progression/anticheat"
	"github.com/2beens/gymprogress/internal/progression/week"
	"github.com/2beens/gymprogress/internal/telemetry/metrics"
	"github.com/2beens/gymprogress/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=weekly_mocks_test.go -package=jobs_test

var ErrAlreadyRunning = errors.New("weekly job already running")

type weekAggregator interface {
	Aggregate(ctx context.Context, weekID week.ID) (aggregator.Summary, error)
}

type weekScanner interface {
	Scan(ctx context.Context, weekID week.ID) (*anticheat.ScanSummary, error)
}

type cacheInvalidator interface {
	InvalidateWeek(ctx context.Context, weekID string) error
}

type RunSummary struct {
	RunID       string                 `json:"runId"`
	WeekID      string                 `json:"weekId"`
	Aggregation aggregator.Summary     `json:"aggregation"`
	AntiCheat   *anticheat.ScanSummary `json:"antiCheat,omitempty"`
	// AntiCheatError is set when the scan failed, the aggregation still stands.
	AntiCheatError string `json:"antiCheatError,omitempty"`
}

type WeeklyJob struct {
	aggregator     weekAggregator
	scanner        weekScanner
	invalidator    cacheInvalidator
	loc            *time.Location
	graceWindow    time.Duration
	metricsManager *metrics.Manager

	running sync.Mutex

	// ability to inject the clock (for unit testing)
	Now func() time.Time
}

func NewWeeklyJob(
	aggregator weekAggregator,
	scanner weekScanner,
	invalidator cacheInvalidator,
	loc *time.Location,
	graceWindow time.Duration,
	metricsManager *metrics.Manager,
) *WeeklyJob {
	return &WeeklyJob{
		aggregator:     aggregator,
		scanner:        scanner,
		invalidator:    invalidator,
		loc:            loc,
		graceWindow:    graceWindow,
		metricsManager: metricsManager,
		Now:            time.Now,
	}
}

// Weeks returns the weeks a run covers: the override, or the current week
// preceded by the previous one while still inside the grace window.
func (j *WeeklyJob) Weeks(override *week.ID) []week.ID {
	if override != nil {
		return []week.ID{*override}
	}
	now := j.Now()
	current := week.Of(now, j.loc)
	start, _ := current.Bounds(j.loc)
	if now.Sub(start) < j.graceWindow {
		return []week.ID{current.Prev(), current}
	}
	return []week.ID{current}
}

// Run processes the weeks in order and stops at the first failed aggregation.
// Overlapping runs are refused with ErrAlreadyRunning.
func (j *WeeklyJob) Run(ctx context.Context, override *week.ID) (_ []RunSummary, err error) {
	if !j.running.TryLock() {
		return nil, ErrAlreadyRunning
	}
	defer j.running.Unlock()

	runID := uuid.NewString()
	if member, mErr := baggage.NewMember("run_id", runID); mErr == nil {
		if bag, bErr := baggage.New(member); bErr == nil {
			ctx = baggage.ContextWithBaggage(ctx, bag)
		}
	}

	ctx, span := tracing.GlobalTracer.Start(ctx, "jobs.weekly.run")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("run_id", runID))

	var summaries []RunSummary
	for _, weekID := range j.Weeks(override) {
		summary, err := j.runWeek(ctx, runID, weekID)
		if err != nil {
			return summaries, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (j *WeeklyJob) runWeek(ctx context.Context, runID string, weekID week.ID) (RunSummary, error) {
	summary := RunSummary{
		RunID:  runID,
		WeekID: weekID.String(),
	}

	log.Infof("weekly job %s: aggregating %s", runID, weekID)
	aggSummary, err := j.aggregator.Aggregate(ctx, weekID)
	if err != nil {
		return summary, fmt.Errorf("aggregate %s: %w", weekID, err)
	}
	summary.Aggregation = aggSummary

	scan, err := j.scanner.Scan(ctx, weekID)
	if err != nil {
		log.Errorf("weekly job %s: anticheat scan %s: %s", runID, weekID, err)
		summary.AntiCheatError = err.Error()
	} else {
		summary.AntiCheat = scan
	}

	if err := j.invalidator.InvalidateWeek(ctx, weekID.String()); err != nil {
		// cached pages expire on their own
		log.Warnf("weekly job %s: invalidate leaderboard %s: %s", runID, weekID, err)
	}

	log.Infof("weekly job %s: %s done, users updated %d, pruned %d",
		runID, weekID, aggSummary.UsersUpdated, aggSummary.UsersPruned)
	return summary, nil
}
