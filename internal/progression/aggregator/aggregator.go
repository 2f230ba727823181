// Package aggregator derives the weekly progression rows of an ISO week from
// the raw activity, from scratch. Runs are idempotent: re-running a week over
// unchanged activity leaves every row untouched. Live awards the hook missed
// are replayed into the cumulative progression along the way.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/gymprogress/internal/progression/week"
	"github.com/2beens/gymprogress/internal/progression/xp"
	"github.com/2beens/gymprogress/internal/telemetry/metrics"
	"github.com/2beens/gymprogress/internal/telemetry/tracing"
	"github.com/2beens/gymprogress/internal/upstream"
)

const DefaultBatchSize = 200

//go:generate mockgen -source=$GOFILE -destination=aggregator_mocks_test.go -package=aggregator_test

type activityStore interface {
	ListSessions(ctx context.Context, page upstream.SessionPage) ([]upstream.Session, error)
}

type recordsStore interface {
	CountPersonalRecords(ctx context.Context, userIDs []int64, from, to time.Time) (map[int64]int, error)
}

type gymDirectory interface {
	GymAffiliations(ctx context.Context, userIDs []int64) (map[int64]string, error)
}

type weeklyRepo interface {
	Upsert(ctx context.Context, rows []WeeklyProgression, gymKnown bool) (int, error)
	PruneWeek(ctx context.Context, weekID string, keep []int64) (int, error)
}

// awardCatchUp replays qualifying sessions missing from the live award ledger.
type awardCatchUp interface {
	CatchUp(ctx context.Context, sessions []upstream.Session) (int, error)
}

type Options struct {
	PageSize  int
	BatchSize int
}

type Aggregator struct {
	activity       activityStore
	records        recordsStore
	gyms           gymDirectory
	repo           weeklyRepo
	awards         awardCatchUp
	policy         xp.Policy
	loc            *time.Location
	opts           Options
	metricsManager *metrics.Manager

	// ability to inject the clock (for unit testing)
	Now func() time.Time
}

func NewAggregator(
	activity activityStore,
	records recordsStore,
	gyms gymDirectory,
	repo weeklyRepo,
	awards awardCatchUp,
	policy xp.Policy,
	loc *time.Location,
	opts Options,
	metricsManager *metrics.Manager,
) *Aggregator {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.PageSize <= 0 {
		opts.PageSize = upstream.DefaultPageSize
	}
	return &Aggregator{
		activity:       activity,
		records:        records,
		gyms:           gyms,
		repo:           repo,
		awards:         awards,
		policy:         policy,
		loc:            loc,
		opts:           opts,
		metricsManager: metricsManager,
		Now:            time.Now,
	}
}

// userTotals accumulates the sessions of one user; sessions arrive grouped by user.
type userTotals struct {
	userID   int64
	workouts int
	volume   float64
	xp       int64
	// distinct calendar days with a qualifying session
	days       map[time.Time]struct{}
	qualifying []upstream.Session
}

// Aggregate folds the week's sessions user by user and upserts one row per
// user with qualifying activity. Rows of users that no longer qualify are
// pruned once the whole week has been folded. A failing activity or PR store
// aborts the run, so does failing to catch up missed live awards; a failing
// gym directory leaves gym codes as they are.
func (a *Aggregator) Aggregate(ctx context.Context, weekID week.ID) (_ Summary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "aggregator.aggregate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("week_id", weekID.String()))

	summary := Summary{
		WeekID:    weekID.String(),
		StartedAt: a.Now(),
	}
	from, to := weekID.Bounds(a.loc)

	var (
		current *userTotals
		batch   = make([]*userTotals, 0, a.opts.BatchSize)
		kept    []int64
	)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		ids, err := a.flush(ctx, &summary, batch, from, to)
		if err != nil {
			return err
		}
		kept = append(kept, ids...)
		batch = batch[:0]
		return nil
	}

	page := upstream.SessionPage{From: from, To: to, Limit: a.opts.PageSize}
	for {
		sessions, err := a.activity.ListSessions(ctx, page)
		if err != nil {
			return summary, fmt.Errorf("list sessions of %s: %w", weekID, err)
		}

		for _, s := range sessions {
			if current != nil && current.userID != s.UserID {
				batch = append(batch, current)
				current = nil
				if len(batch) >= a.opts.BatchSize {
					if err := flush(); err != nil {
						return summary, err
					}
				}
			}
			if current == nil {
				current = &userTotals{
					userID: s.UserID,
					days:   make(map[time.Time]struct{}),
				}
			}
			a.addSession(&summary, current, s)
		}

		next, ok := page.Next(sessions)
		if !ok {
			break
		}
		page = next
	}
	if current != nil {
		batch = append(batch, current)
	}
	if err := flush(); err != nil {
		return summary, err
	}

	pruned, err := a.repo.PruneWeek(ctx, summary.WeekID, kept)
	if err != nil {
		return summary, fmt.Errorf("prune %s: %w", weekID, err)
	}
	summary.UsersPruned = pruned
	summary.Duration = a.Now().Sub(summary.StartedAt)

	a.metricsManager.HistAggregationDuration.Observe(summary.Duration.Seconds())
	a.metricsManager.GaugeLastAggregation.SetToCurrentTime()
	log.Infof(
		"aggregated %s: sessions=%d invalid=%d users=%d changed=%d pruned=%d caught_up=%d in %s",
		summary.WeekID, summary.Sessions, summary.InvalidSessions,
		summary.UsersUpdated, summary.RowsChanged, summary.UsersPruned, summary.AwardsCaughtUp, summary.Duration,
	)
	return summary, nil
}

func (a *Aggregator) addSession(summary *Summary, totals *userTotals, s upstream.Session) {
	summary.Sessions++

	vol, err := xp.TrainingVolume(s.Sets)
	if err != nil {
		summary.InvalidSessions++
		a.metricsManager.CounterInvalidSessions.Inc()
		log.Warnf("skipping session %d of user %d: %s", s.ID, s.UserID, err)
		return
	}
	if !xp.IsQualifying(s.Sets) {
		return
	}

	day := week.CivilDay(s.StartedAt, a.loc)
	_, seen := totals.days[day]
	totals.days[day] = struct{}{}

	totals.workouts++
	totals.qualifying = append(totals.qualifying, s)
	totals.volume += vol
	totals.xp += a.policy.Award(vol, true, !seen)
}

// flush enriches a batch of finished users and upserts their rows. Returns the
// ids of the users that got a row.
func (a *Aggregator) flush(ctx context.Context, summary *Summary, batch []*userTotals, from, to time.Time) ([]int64, error) {
	ids := make([]int64, 0, len(batch))
	for _, t := range batch {
		if t.workouts > 0 {
			ids = append(ids, t.userID)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	prs, err := a.records.CountPersonalRecords(ctx, ids, from, to)
	if err != nil {
		return nil, fmt.Errorf("count personal records: %w", err)
	}

	gymKnown := true
	gyms, err := a.gyms.GymAffiliations(ctx, ids)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		gymKnown = false
		summary.GymLookupFailed = true
		log.Warnf("gym affiliations of %d users unavailable, keeping stored gym codes: %s", len(ids), err)
	}

	now := a.Now()
	rows := make([]WeeklyProgression, 0, len(ids))
	for _, t := range batch {
		if t.workouts == 0 {
			continue
		}
		row := WeeklyProgression{
			UserID:          t.userID,
			WeekID:          summary.WeekID,
			XP:              t.xp,
			Workouts:        t.workouts,
			VolumeKg:        t.volume,
			PersonalRecords: prs[t.userID],
			ActiveDays:      len(t.days),
			UpdatedAt:       now,
		}
		if code, ok := gyms[t.userID]; ok && gymKnown {
			row.GymCode = &code
		}
		rows = append(rows, row)
	}

	changed, err := a.repo.Upsert(ctx, rows, gymKnown)
	if err != nil {
		return nil, fmt.Errorf("upsert %d rows: %w", len(rows), err)
	}
	summary.UsersUpdated += len(rows)
	summary.RowsChanged += changed
	a.metricsManager.CounterAggregatedUsers.Add(float64(len(rows)))

	var folded []upstream.Session
	for _, t := range batch {
		folded = append(folded, t.qualifying...)
	}
	caughtUp, err := a.awards.CatchUp(ctx, folded)
	summary.AwardsCaughtUp += caughtUp
	if err != nil {
		return nil, fmt.Errorf("catch up live awards: %w", err)
	}
	return ids, nil
}
