package streak

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/gymprogress/internal/progression/week"
	"github.com/2beens/gymprogress/internal/telemetry/tracing"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=tracker_mocks_test.go -package=streak_test

type activityStore interface {
	// QualifyingActivity returns the start instants of all the user's qualifying sessions.
	QualifyingActivity(ctx context.Context, userID int64) ([]time.Time, error)
}

// Tracker recomputes streaks from the full activity history.
type Tracker struct {
	activity activityStore
	loc      *time.Location
}

func NewTracker(activity activityStore, loc *time.Location) *Tracker {
	return &Tracker{
		activity: activity,
		loc:      loc,
	}
}

func (t *Tracker) Recompute(ctx context.Context, userID int64, now time.Time) (_ Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "streak.tracker.recompute")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("user_id", userID))

	instants, err := t.activity.QualifyingActivity(ctx, userID)
	if err != nil {
		return Result{}, fmt.Errorf("list qualifying activity: %w", err)
	}

	return Compute(DistinctDays(instants, t.loc), week.CivilDay(now, t.loc)), nil
}

// Today returns the current calendar day in the tracker's timezone.
func (t *Tracker) Today(now time.Time) time.Time {
	return week.CivilDay(now, t.loc)
}
