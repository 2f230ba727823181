package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/multierr"

	"github.com/2beens/gymprogress/internal/auth"
	"github.com/2beens/gymprogress/internal/config"
	"github.com/2beens/gymprogress/internal/db"
	"github.com/2beens/gymprogress/internal/jobs"
	"github.com/2beens/gymprogress/internal/middleware"
	"github.com/2beens/gymprogress/internal/misc"
	"github.com/2beens/gymprogress/internal/notify"
	"github.com/2beens/gymprogress/internal/progression"
	"github.com/2beens/gymprogress/internal/telemetry/metrics"
	"github.com/2beens/gymprogress/internal/telemetry/tracing"
)

const authCleanupInterval = 8 * time.Hour

type eventProducer interface {
	WriteMessages(ctx context.Context, topic string, msgs ...kafka.Message) error
	Close() error
}

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	serviceSecret     string // shared with the activity service, posting logged workouts
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client
	producer    eventProducer
	components  *Components
	scheduler   *jobs.Scheduler
	consumer    *notify.WorkoutConsumer

	loginChecker *auth.LoginChecker
	authService  *auth.Service

	// background workers (auth cleanup, workout consumer)
	cancelWorkers context.CancelFunc
	workersWg     sync.WaitGroup

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	ServiceSecret           string
	VersionInfo             string
	AdminUsername           string
	AdminPasswordHash       string
	PostgresUser            string
	PostgresPassword        string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "gymprogress")
	if err != nil {
		return nil, err
	}

	dbParams := db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         params.PostgresUser,
		DBPassword:     params.PostgresPassword,
		TracingEnabled: params.HoneycombTracingEnabled,
	}
	if cfg.RunMigrations {
		if err := db.Migrate(dbParams); err != nil {
			return nil, fmt.Errorf("migrate db: %w", err)
		}
	}

	dbPool, err := db.NewDBPool(ctx, dbParams)
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("gymprogress", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})
	if params.HoneycombTracingEnabled {
		rdb.AddHook(redisotel.NewTracingHook())
	}

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	var producer eventProducer = notify.LogProducer{}
	if len(cfg.KafkaBrokers) > 0 {
		producer = notify.NewKafkaProducer(cfg.KafkaBrokers)
	} else {
		log.Warnln("no kafka brokers configured, progression events will only be logged")
	}
	publisher := notify.NewPublisher(producer, cfg.Topics, metricsManager)

	components, err := NewComponents(cfg, dbPool, rdb, publisher, metricsManager)
	if err != nil {
		return nil, err
	}

	scheduler, err := jobs.NewScheduler(
		components.WeeklyJob,
		cfg.Progression.Schedule,
		components.Location,
		cfg.Progression.JobTimeout,
	)
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:        cfg,
		dbPool:        dbPool,
		redisClient:   rdb,
		producer:      producer,
		components:    components,
		scheduler:     scheduler,
		serviceSecret: params.ServiceSecret,
		versionInfo:   params.VersionInfo,

		authService: auth.NewAuthService(&auth.Admin{
			Username:     params.AdminUsername,
			PasswordHash: params.AdminPasswordHash,
		}, auth.DefaultTTL, rdb),
		loginChecker: auth.NewLoginChecker(auth.DefaultTTL, rdb),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	if cfg.ConsumerEnabled {
		s.consumer = notify.NewWorkoutConsumer(
			notify.NewKafkaReader(cfg.KafkaBrokers, cfg.KafkaGroupID, cfg.Topics.Workouts),
			components.Progress,
			metricsManager,
		)
	}

	return s, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)

	miscHandler := misc.NewHandler(s.versionInfo, s.authService, map[string]misc.HealthCheck{
		"postgres": func(ctx context.Context) error {
			return s.dbPool.Ping(ctx)
		},
		"redis": func(ctx context.Context) error {
			return s.redisClient.Ping(ctx).Err()
		},
	})
	miscHandler.SetupRoutes(r, reqRateLimiter, s.metricsManager)

	progressionHandler := progression.NewHandler(
		s.components.Progress,
		s.components.Prestige,
		s.components.Leaderboard,
		s.components.WeeklyJob,
		s.components.Flags,
		s.components.Ranks,
		s.components.Location,
		s.config.Progression.JobTimeout,
		s.metricsManager,
	)
	progressionHandler.AggregateRatePerMin = s.config.Progression.AggregateRatePerMin
	progressionHandler.SetupRoutes(r, reqRateLimiter, s.metricsManager)

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(
		s.serviceSecret,
		s.loginChecker,
	)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.LimitAndDrainBody(middleware.DefaultMaxBodyBytes))

	return r, nil
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{Registry: s.promRegistry},
	))
	metricsAddr := net.JoinHostPort(host, strconv.Itoa(s.config.MetricsPort))
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.startWorkers(ctx)
	s.scheduler.Start()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) startWorkers(ctx context.Context) {
	workersCtx, cancel := context.WithCancel(ctx)
	s.cancelWorkers = cancel

	s.workersWg.Add(1)
	go func() {
		defer s.workersWg.Done()
		ticker := time.NewTicker(authCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-workersCtx.Done():
				return
			case <-ticker.C:
				s.authService.ScanAndClean(workersCtx)
			}
		}
	}()

	if s.consumer == nil {
		log.Debugln("workout consumer disabled")
		return
	}

	s.workersWg.Add(1)
	go func() {
		defer s.workersWg.Done()
		log.Infof("workout consumer started on topic [%s]", s.config.Topics.Workouts)
		if err := s.consumer.Run(workersCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Errorf("workout consumer stopped: %s", err)
		}
	}()
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")

	// a running aggregation is allowed to finish within the wait duration
	if err := s.scheduler.Stop(ctx); err != nil {
		log.Errorf("weekly job scheduler stop: %s", err)
	}

	if s.cancelWorkers != nil {
		s.cancelWorkers()
	}
	s.workersWg.Wait()

	if err := s.closeClients(); err != nil {
		log.Errorf("failed to close clients: %s", err)
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}

func (s *Server) closeClients() error {
	var err error
	if s.consumer != nil {
		err = multierr.Append(err, s.consumer.Close())
	}
	if s.producer != nil {
		err = multierr.Append(err, s.producer.Close())
	}
	if s.redisClient != nil {
		err = multierr.Append(err, s.redisClient.Close())
	}
	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}
	return err
}
