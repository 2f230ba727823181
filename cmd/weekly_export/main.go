package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/gymprogress/internal/config"
	"github.com/2beens/gymprogress/internal/db"
	"github.com/2beens/gymprogress/internal/export"
	"github.com/2beens/gymprogress/internal/logging"
	"github.com/2beens/gymprogress/internal/progression/aggregator"
	"github.com/2beens/gymprogress/internal/progression/week"
	"github.com/2beens/gymprogress/pkg"
)

// weekly_export dumps weekly progression rows to a parquet file, for the
// analytics team. With -out - the file is written to stdout.
func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	weeksFlag := flag.String("weeks", "", "comma separated ISO weeks, e.g. 2026-W40,2026-W41 (default: previous week)")
	out := flag.String("out", "./exports", "output directory, or - for stdout")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	// stdout carries the parquet file with -out -
	logCfg := cfg.Logging
	logCfg.File = ""
	logCfg.ToStdout = *out != "-"
	logCfg.Sentry = false
	logging.Setup(logCfg, logging.SentryParams{})

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal(err)
	}

	weekIDs, err := parseWeeks(*weeksFlag, time.Now(), loc)
	if err != nil {
		log.Fatalf("invalid -weeks: %s", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     os.Getenv("GYMPROGRESS_DB_USER"),
		DBPassword: os.Getenv("GYMPROGRESS_DB_PASS"),
		MaxConns:   2,
	})
	if err != nil {
		log.Fatalf("new db pool: %s", err)
	}
	defer dbPool.Close()

	weeklyRepo := aggregator.NewRepo(dbPool)

	if *out == "-" {
		rows, err := weeklyRepo.ListWeeks(ctx, weekIDs)
		if err != nil {
			log.Fatalf("list weekly rows: %s", err)
		}
		b, err := export.Marshal(rows)
		if err != nil {
			log.Fatalf("marshal parquet: %s", err)
		}
		if _, err := os.Stdout.Write(b); err != nil {
			log.Fatalf("write stdout: %s", err)
		}
		return
	}

	isDir, err := pkg.PathExists(*out, true)
	if err != nil {
		log.Fatalf("check output dir: %s", err)
	}
	if !isDir {
		if err := os.MkdirAll(*out, 0o755); err != nil {
			log.Fatalf("create output dir: %s", err)
		}
	}

	path := filepath.Join(*out, fmt.Sprintf("weekly-%s.parquet", strings.Join(weekIDs, "_")))
	n, err := export.NewExporter(weeklyRepo).WriteFile(ctx, weekIDs, path)
	if err != nil {
		log.Fatalf("export: %s", err)
	}
	log.Printf("%d rows written to %s", n, path)
}

func parseWeeks(s string, now time.Time, loc *time.Location) ([]string, error) {
	if s == "" {
		return []string{week.Of(now, loc).Prev().String()}, nil
	}
	var weekIDs []string
	for _, part := range strings.Split(s, ",") {
		weekID, err := week.Parse(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		weekIDs = append(weekIDs, weekID.String())
	}
	return weekIDs, nil
}
