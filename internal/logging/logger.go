package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/2beens/gymprogress/pkg"
)

// Config is the [<env>.logging] section of the TOML config.
type Config struct {
	Level    string `toml:"level"`
	File     string `toml:"file"`
	ToStdout bool   `toml:"to_stdout"`
	JSON     bool   `toml:"json"`
	Sentry   bool   `toml:"sentry"`
	// rotation of File; zero MaxBackups and MaxAgeDays keep every rotated file
	MaxSizeMB  int `toml:"max_size_mb"`
	MaxBackups int `toml:"max_backups"`
	MaxAgeDays int `toml:"max_age_days"`
}

func DefaultConfig() Config {
	return Config{
		Level:     "info",
		ToStdout:  true,
		MaxSizeMB: 50,
	}
}

func (c Config) Validate() error {
	if _, err := logrus.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if c.File != "" && !c.ToStdout && c.MaxSizeMB <= 0 {
		return fmt.Errorf("logging.max_size_mb must be positive, got %d", c.MaxSizeMB)
	}
	if c.File == "" && !c.ToStdout {
		return fmt.Errorf("logging: neither a file nor stdout is enabled")
	}
	return nil
}

// SentryParams are the parts of the sentry client that do not come from the
// TOML file.
type SentryParams struct {
	DSN         string
	ServerName  string
	Environment string
}

// Setup points the global logrus logger to the configured outputs. A file
// output gets a ".log" suffix and is rotated by lumberjack.
func Setup(cfg Config, sentryParams SentryParams) {
	if cfg.JSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	if cfg.Sentry {
		setupSentry(sentryParams)
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
		logrus.Warnf("log level %q: %s, using %s", cfg.Level, err, level)
	}
	logrus.SetLevel(level)

	var writers []io.Writer
	if cfg.ToStdout {
		writers = append(writers, os.Stdout)
	}
	if cfg.File != "" {
		writers = append(writers, rotatingFile(cfg))
	}

	switch len(writers) {
	case 0:
		logrus.SetOutput(io.Discard)
	case 1:
		logrus.SetOutput(writers[0])
	default:
		logrus.SetOutput(pkg.NewCombinedWriter(writers...))
	}
	logrus.Debugf("logging at %s: stdout=%t file=%q", level, cfg.ToStdout, cfg.File)
}

func setupSentry(params SentryParams) {
	if err := sentry.Init(sentry.ClientOptions{
		Environment:      params.Environment,
		Dsn:              params.DSN,
		TracesSampleRate: 1.0,
		ServerName:       params.ServerName,
	}); err != nil {
		logrus.Errorf("sentry.Init: %s", err)
		return
	}

	logrus.AddHook(NewSentryHook([]logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
	}))
	logrus.Infoln("sentry set up")
}

func rotatingFile(cfg Config) *lumberjack.Logger {
	name := cfg.File
	if filepath.Ext(name) != ".log" {
		name += ".log"
	}
	return &lumberjack.Logger{
		Filename:   name,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		LocalTime:  false,
		Compress:   true,
	}
}
