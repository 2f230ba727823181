// Package anticheat derives review flags from weekly progression rows and raw
// set data. Flags are informational: nothing here touches progression state.
package anticheat

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/gymprogress/internal/notify"
	"github.com/2beens/gymprogress/internal/progression/aggregator"
	"github.com/2beens/gymprogress/internal/progression/week"
	"github.com/2beens/gymprogress/internal/telemetry/metrics"
	"github.com/2beens/gymprogress/internal/telemetry/tracing"
	"github.com/2beens/gymprogress/internal/upstream"
)

//go:generate mockgen -source=$GOFILE -destination=detector_mocks_test.go -package=anticheat_test

type weeklyReader interface {
	ListWeeks(ctx context.Context, weekIDs []string) ([]aggregator.WeeklyProgression, error)
}

type activityStore interface {
	ListSessions(ctx context.Context, page upstream.SessionPage) ([]upstream.Session, error)
}

type accountDirectory interface {
	AccountsCreatedAt(ctx context.Context, userIDs []int64) (map[int64]time.Time, error)
}

type flagRepo interface {
	// Insert stores the flags that do not exist yet and returns those.
	Insert(ctx context.Context, flags []Flag) ([]Flag, error)
}

type flagPublisher interface {
	FlagsRaised(ctx context.Context, flags []notify.FlagRaised) error
}

type ScanSummary struct {
	WeekID  string         `json:"weekId"`
	Users   int            `json:"users"`
	Raised  int            `json:"raised"`
	Known   int            `json:"known"`
	ByType  map[string]int `json:"byType"`
	Skipped []string       `json:"skipped,omitempty"`
}

type Detector struct {
	weekly         weeklyReader
	activity       activityStore
	accounts       accountDirectory
	repo           flagRepo
	publisher      flagPublisher
	cfg            Config
	loc            *time.Location
	metricsManager *metrics.Manager

	// ability to inject the clock (for unit testing)
	Now func() time.Time
}

func NewDetector(
	weekly weeklyReader,
	activity activityStore,
	accounts accountDirectory,
	repo flagRepo,
	publisher flagPublisher,
	cfg Config,
	loc *time.Location,
	metricsManager *metrics.Manager,
) *Detector {
	return &Detector{
		weekly:         weekly,
		activity:       activity,
		accounts:       accounts,
		repo:           repo,
		publisher:      publisher,
		cfg:            cfg,
		loc:            loc,
		metricsManager: metricsManager,
		Now:            time.Now,
	}
}

// Scan evaluates every rule for the week and stores the resulting flags.
// Re-scanning a week only raises flags that were not raised before.
func (d *Detector) Scan(ctx context.Context, weekID week.ID) (_ *ScanSummary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "anticheat.scan")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("week_id", weekID.String()))

	summary := &ScanSummary{
		WeekID: weekID.String(),
		ByType: make(map[string]int),
	}
	if !d.cfg.Enabled {
		summary.Skipped = []string{
			string(FlagXPSpike), string(FlagVolumeSpike), string(FlagImpossibleSet),
			string(FlagScriptedPattern), string(FlagNewAccountRisk),
		}
		return summary, nil
	}

	weekIDs := []string{weekID.String()}
	prev := weekID
	for range d.cfg.TrailingWeights {
		prev = prev.Prev()
		weekIDs = append(weekIDs, prev.String())
	}
	rows, err := d.weekly.ListWeeks(ctx, weekIDs)
	if err != nil {
		return nil, fmt.Errorf("list weekly rows: %w", err)
	}

	var (
		current []aggregator.WeeklyProgression
		history = make(map[int64]map[string]aggregator.WeeklyProgression)
	)
	for _, r := range rows {
		if r.WeekID == summary.WeekID {
			current = append(current, r)
			continue
		}
		if history[r.UserID] == nil {
			history[r.UserID] = make(map[string]aggregator.WeeklyProgression)
		}
		history[r.UserID][r.WeekID] = r
	}
	summary.Users = len(current)

	var flags []Flag
	for _, r := range current {
		flags = append(flags, SpikeFlags(r, history[r.UserID], weekID, d.cfg)...)
	}

	from, to := weekID.Bounds(d.loc)
	page := upstream.SessionPage{From: from, To: to}
	for {
		sessions, err := d.activity.ListSessions(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}
		for _, s := range sessions {
			flags = append(flags, ImpossibleSetFlags(s, summary.WeekID, d.cfg)...)
			flags = append(flags, ScriptedPatternFlags(s, summary.WeekID, d.cfg)...)
		}
		next, ok := page.Next(sessions)
		if !ok {
			break
		}
		page = next
	}

	ids := make([]int64, 0, len(current))
	for _, r := range current {
		ids = append(ids, r.UserID)
	}
	createdAt, err := d.accounts.AccountsCreatedAt(ctx, ids)
	if err != nil {
		log.Warnf("anticheat %s: account ages unavailable, skipping %s: %s", summary.WeekID, FlagNewAccountRisk, err)
		summary.Skipped = append(summary.Skipped, string(FlagNewAccountRisk))
	} else {
		flags = append(flags, NewAccountFlags(current, createdAt, to, d.cfg)...)
	}

	now := d.Now()
	for i := range flags {
		flags[i].DetectedAt = now
	}

	raised, err := d.repo.Insert(ctx, flags)
	if err != nil {
		return nil, fmt.Errorf("store %d flags: %w", len(flags), err)
	}
	summary.Raised = len(raised)
	summary.Known = len(flags) - len(raised)

	events := make([]notify.FlagRaised, 0, len(raised))
	for _, f := range raised {
		summary.ByType[string(f.Type)]++
		d.metricsManager.CounterFlags.WithLabelValues(string(f.Type)).Inc()
		events = append(events, notify.FlagRaised{
			ID:         f.ID.String(),
			UserID:     f.UserID,
			WeekID:     f.WeekID,
			Type:       string(f.Type),
			Subject:    f.Subject,
			Severity:   string(f.Severity),
			Detail:     f.Detail,
			DetectedAt: f.DetectedAt,
		})
	}
	if err := d.publisher.FlagsRaised(ctx, events); err != nil {
		// flags are stored, the review queue can be backfilled from the table
		log.Errorf("anticheat %s: publish %d flags: %s", summary.WeekID, len(events), err)
	}

	log.Infof("anticheat %s: users=%d raised=%d known=%d", summary.WeekID, summary.Users, summary.Raised, summary.Known)
	return summary, nil
}
