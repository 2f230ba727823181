package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/gymprogress/internal"
	"github.com/2beens/gymprogress/internal/config"
	"github.com/2beens/gymprogress/internal/db"
	"github.com/2beens/gymprogress/internal/logging"
	"github.com/2beens/gymprogress/internal/notify"
	"github.com/2beens/gymprogress/internal/progression/week"
	"github.com/2beens/gymprogress/internal/telemetry/metrics"
)

// aggregate runs the weekly job once, outside of the service schedule.
// Used for backfills and for re-running a week after an upstream fix.
func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	weekFlag := flag.String("week", "", "ISO week to aggregate, e.g. 2026-W41 (default: current week, plus the previous one inside the grace window)")
	publish := flag.Bool("publish", false, "publish anti-cheat flags to kafka instead of only logging them")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	// one-shot runs log to the terminal only
	logCfg := cfg.Logging
	logCfg.File = ""
	logCfg.ToStdout = true
	logging.Setup(logCfg, logging.SentryParams{
		DSN:         os.Getenv("SENTRY_DSN"),
		ServerName:  "gymprogress-aggregate",
		Environment: cfg.Environment,
	})

	var override *week.ID
	if *weekFlag != "" {
		weekID, err := week.Parse(*weekFlag)
		if err != nil {
			log.Fatalf("invalid -week: %s", err)
		}
		override = &weekID
	}

	if err := run(cfg, override, *publish); err != nil {
		log.Fatalf("aggregate: %s", err)
	}
}

type closingProducer interface {
	WriteMessages(ctx context.Context, topic string, msgs ...kafka.Message) error
	Close() error
}

func run(cfg *config.Config, override *week.ID, publish bool) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx, timeoutCancel := context.WithTimeout(ctx, cfg.Progression.JobTimeout)
	defer timeoutCancel()

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     os.Getenv("GYMPROGRESS_DB_USER"),
		DBPassword: os.Getenv("GYMPROGRESS_DB_PASS"),
		MaxConns:   4,
	})
	if err != nil {
		return fmt.Errorf("new db pool: %w", err)
	}
	defer dbPool.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: os.Getenv("GYMPROGRESS_REDIS_PASS"),
	})
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warnf("close redis client: %s", err)
		}
	}()

	var producer closingProducer = notify.LogProducer{}
	if publish && len(cfg.KafkaBrokers) > 0 {
		producer = notify.NewKafkaProducer(cfg.KafkaBrokers)
	}
	defer func() {
		if err := producer.Close(); err != nil {
			log.Warnf("close producer: %s", err)
		}
	}()

	metricsManager := metrics.NewManager("gymprogress", "aggregate", prometheus.NewRegistry())
	publisher := notify.NewPublisher(producer, cfg.Topics, metricsManager)

	components, err := internal.NewComponents(cfg, dbPool, rdb, publisher, metricsManager)
	if err != nil {
		return err
	}

	summaries, runErr := components.WeeklyJob.Run(ctx, override)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summaries); err != nil {
		log.Errorf("encode summaries: %s", err)
	}
	return runErr
}
