package internal

import (
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/2beens/gymprogress/internal/config"
	"github.com/2beens/gymprogress/internal/jobs"
	"github.com/2beens/gymprogress/internal/leaderboard"
	"github.com/2beens/gymprogress/internal/notify"
	"github.com/2beens/gymprogress/internal/progression/aggregator"
	"github.com/2beens/gymprogress/internal/progression/anticheat"
	"github.com/2beens/gymprogress/internal/progression/prestige"
	"github.com/2beens/gymprogress/internal/progression/progress"
	"github.com/2beens/gymprogress/internal/progression/streak"
	"github.com/2beens/gymprogress/internal/progression/xp"
	"github.com/2beens/gymprogress/internal/telemetry/metrics"
	"github.com/2beens/gymprogress/internal/upstream"
)

// Components is the progression engine wired over one db pool, one redis
// client and one event publisher. Shared by the service and the cli tools.
type Components struct {
	Location    *time.Location
	Ranks       *xp.RankTable
	Progress    *progress.Service
	Prestige    *prestige.Engine
	Leaderboard *leaderboard.Service
	Weekly      *aggregator.Repo
	Flags       *anticheat.Repo
	WeeklyJob   *jobs.WeeklyJob
}

func NewComponents(
	cfg *config.Config,
	dbPool *pgxpool.Pool,
	rdb *redis.Client,
	publisher *notify.Publisher,
	metricsManager *metrics.Manager,
) (*Components, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	ranks, err := xp.NewRankTable(cfg.Progression.Ranks)
	if err != nil {
		return nil, fmt.Errorf("rank table: %w", err)
	}

	activityRepo := upstream.NewActivityRepo(dbPool)
	directoryRepo := upstream.NewDirectoryRepo(dbPool)
	recordsRepo := upstream.NewRecordsRepo(dbPool)

	progressRepo := progress.NewRepo(dbPool)
	progressService := progress.NewService(
		progressRepo,
		activityRepo,
		streak.NewTracker(activityRepo, loc),
		publisher,
		cfg.Progression.XP,
		cfg.Progression.Curve,
		loc,
		metricsManager,
	)

	prestigeEngine := prestige.NewEngine(
		progressRepo,
		prestige.NewRepo(dbPool),
		publisher,
		cfg.Prestige,
		cfg.Progression.Curve,
		metricsManager,
	)

	leaderboardService := leaderboard.NewService(
		leaderboard.NewRepo(dbPool),
		directoryRepo,
		leaderboard.NewCache(rdb, cfg.Leaderboard.LocalTTL, cfg.Leaderboard.RedisTTL),
		metricsManager,
	)

	weeklyRepo := aggregator.NewRepo(dbPool)
	agg := aggregator.NewAggregator(
		activityRepo,
		recordsRepo,
		directoryRepo,
		weeklyRepo,
		progressService,
		cfg.Progression.XP,
		loc,
		aggregator.Options{
			PageSize:  cfg.Progression.PageSize,
			BatchSize: cfg.Progression.BatchSize,
		},
		metricsManager,
	)

	flagsRepo := anticheat.NewRepo(dbPool)
	detector := anticheat.NewDetector(
		weeklyRepo,
		activityRepo,
		directoryRepo,
		flagsRepo,
		publisher,
		cfg.AntiCheat,
		loc,
		metricsManager,
	)

	weeklyJob := jobs.NewWeeklyJob(
		agg,
		detector,
		leaderboardService,
		loc,
		cfg.Progression.GraceWindow,
		metricsManager,
	)

	return &Components{
		Location:    loc,
		Ranks:       ranks,
		Progress:    progressService,
		Prestige:    prestigeEngine,
		Leaderboard: leaderboardService,
		Weekly:      weeklyRepo,
		Flags:       flagsRepo,
		WeeklyJob:   weeklyJob,
	}, nil
}
