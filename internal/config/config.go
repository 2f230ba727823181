package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"

	"github.com/2beens/gymprogress/internal/jobs"
	"github.com/2beens/gymprogress/internal/leaderboard"
	"github.com/2beens/gymprogress/internal/logging"
	"github.com/2beens/gymprogress/internal/notify"
	"github.com/2beens/gymprogress/internal/progression/aggregator"
	"github.com/2beens/gymprogress/internal/progression/anticheat"
	"github.com/2beens/gymprogress/internal/progression/prestige"
	"github.com/2beens/gymprogress/internal/progression/xp"
	"github.com/2beens/gymprogress/internal/upstream"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	MetricsPort int    `toml:"metrics_port"`
	// http
	AllowedOrigins []string `toml:"allowed_origins"`
	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	RunMigrations  bool   `toml:"run_migrations"`
	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// kafka
	KafkaBrokers    []string      `toml:"kafka_brokers"`
	KafkaGroupID    string        `toml:"kafka_group_id"`
	ConsumerEnabled bool          `toml:"consumer_enabled"`
	Topics          notify.Topics `toml:"topics"`

	Logging     logging.Config    `toml:"logging"`
	Progression Progression       `toml:"progression"`
	Prestige    prestige.Policy   `toml:"prestige"`
	AntiCheat   anticheat.Config  `toml:"anticheat"`
	Leaderboard LeaderboardConfig `toml:"leaderboard"`
}

type Progression struct {
	Timezone    string        `toml:"timezone"`
	XP          xp.Policy     `toml:"xp"`
	Curve       xp.Curve      `toml:"curve"`
	Ranks       []xp.RankTier `toml:"ranks"`
	Schedule    string        `toml:"schedule"`
	GraceWindow time.Duration `toml:"grace_window"`
	JobTimeout  time.Duration `toml:"job_timeout"`
	PageSize    int           `toml:"page_size"`
	BatchSize   int           `toml:"batch_size"`
	// manual runs through the admin api
	AggregateRatePerMin int `toml:"aggregate_rate_per_min"`
}

type LeaderboardConfig struct {
	LocalTTL time.Duration `toml:"local_ttl"`
	RedisTTL time.Duration `toml:"redis_ttl"`
}

// Default is the configuration every TOML section is decoded over: keys
// missing from the file keep these values.
func Default() Config {
	return Config{
		Port:           9000,
		MetricsPort:    2112,
		AllowedOrigins: []string{"http://localhost:3000"},
		PostgresHost:   "localhost",
		PostgresPort:   "5432",
		PostgresDBName: "gymprogress",
		RunMigrations:  true,
		RedisHost:      "localhost",
		RedisPort:      "6379",
		KafkaGroupID:   "gymprogress",
		Topics:         notify.DefaultTopics(),
		Logging:        logging.DefaultConfig(),
		Progression: Progression{
			Timezone:    "UTC",
			XP:          xp.DefaultPolicy(),
			Curve:       xp.DefaultCurve(),
			Ranks:       xp.DefaultRankTiers(),
			Schedule:    jobs.DefaultSchedule,
			GraceWindow: 6 * time.Hour,
			JobTimeout:  30 * time.Minute,
			PageSize:    upstream.DefaultPageSize,
			BatchSize:   aggregator.DefaultBatchSize,

			AggregateRatePerMin: 2,
		},
		Prestige:  prestige.DefaultPolicy(),
		AntiCheat: anticheat.DefaultConfig(),
		Leaderboard: LeaderboardConfig{
			LocalTTL: leaderboard.DefaultLocalTTL,
			RedisTTL: leaderboard.DefaultRedisTTL,
		},
	}
}

type Toml struct {
	Development Config `toml:"development"`
	Production  Config `toml:"production"`
}

func (t *Toml) Get(env string) (*Config, string, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return &t.Development, "development", nil
	case "prod", "production":
		return &t.Production, "production", nil
	default:
		return nil, "", fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the env section of the TOML file and validates it.
func Load(env, path string) (*Config, error) {
	t := Toml{Development: Default(), Production: Default()}
	md, err := toml.DecodeFile(path, &t)
	if err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	return fromToml(&t, md, env)
}

// Parse is Load for an in-memory TOML document.
func Parse(env, doc string) (*Config, error) {
	t := Toml{Development: Default(), Production: Default()}
	md, err := toml.Decode(doc, &t)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return fromToml(&t, md, env)
}

func fromToml(t *Toml, md toml.MetaData, env string) (*Config, error) {
	cfg, section, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if !md.IsDefined(section) {
		return nil, fmt.Errorf("config section [%s] missing", section)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config keys: %v", undecoded)
	}
	if cfg.Environment == "" {
		cfg.Environment = section
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid [%s] config: %w", section, err)
	}
	return cfg, nil
}

func (c *Config) Validate() (err error) {
	if logErr := c.Logging.Validate(); logErr != nil {
		err = multierr.Append(err, logErr)
	}
	if _, locErr := c.Location(); locErr != nil {
		err = multierr.Append(err, locErr)
	}
	if c.Progression.Curve.XPPerLevelSquared <= 0 {
		err = multierr.Append(err, errors.New("progression.curve.xp_per_level_squared must be positive"))
	}
	if c.Progression.XP.BaseAward < 0 || c.Progression.XP.PerKilogram < 0 || c.Progression.XP.FirstOfDayBonus < 0 {
		err = multierr.Append(err, errors.New("progression.xp values must not be negative"))
	}
	if _, rankErr := xp.NewRankTable(c.Progression.Ranks); rankErr != nil {
		err = multierr.Append(err, fmt.Errorf("progression.ranks: %w", rankErr))
	}
	if c.Progression.PageSize <= 0 || c.Progression.BatchSize <= 0 {
		err = multierr.Append(err, errors.New("progression.page_size and progression.batch_size must be positive"))
	}
	if c.Progression.AggregateRatePerMin <= 0 {
		err = multierr.Append(err, errors.New("progression.aggregate_rate_per_min must be positive"))
	}
	if c.Progression.GraceWindow < 0 || c.Progression.GraceWindow >= 7*24*time.Hour {
		err = multierr.Append(err, errors.New("progression.grace_window must be within a week"))
	}
	if c.Prestige.MinXP <= 0 || c.Prestige.Cooldown < 0 {
		err = multierr.Append(err, errors.New("prestige.min_xp must be positive, prestige.cooldown not negative"))
	}
	if len(c.AntiCheat.TrailingWeights) == 0 {
		err = multierr.Append(err, errors.New("anticheat.trailing_weights must not be empty"))
	}
	if c.AntiCheat.MinHistoryWeeks > len(c.AntiCheat.TrailingWeights) {
		err = multierr.Append(err, errors.New("anticheat.min_history_weeks exceeds the trailing window"))
	}
	if p := c.AntiCheat.NewAccountPercentile; p <= 0 || p > 1 {
		err = multierr.Append(err, errors.New("anticheat.new_account_percentile must be in (0, 1]"))
	}
	if c.ConsumerEnabled && len(c.KafkaBrokers) == 0 {
		err = multierr.Append(err, errors.New("consumer_enabled needs kafka_brokers"))
	}
	return err
}

// Location is the platform reference timezone for weeks and streak days.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Progression.Timezone)
	if err != nil {
		return nil, fmt.Errorf("progression.timezone %q: %w", c.Progression.Timezone, err)
	}
	return loc, nil
}
