package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests            *prometheus.CounterVec
	CounterHandleRequestPanic  prometheus.Counter
	CounterRateLimitedRequests prometheus.Counter
	CounterWorkouts            *prometheus.CounterVec // result: awarded | replay | not_qualifying | failed | caught_up
	CounterXPAwarded           prometheus.Counter
	CounterInvalidSessions     prometheus.Counter
	CounterAggregatedUsers     prometheus.Counter
	CounterPrestige            *prometheus.CounterVec // outcome: reset | ineligible | conflict
	CounterFlags               *prometheus.CounterVec // type
	CounterPublishFailures     prometheus.Counter
	CounterConsumedMessages    *prometheus.CounterVec // result: processed | malformed
	CounterLeaderboardCache    *prometheus.CounterVec // result: local | redis | miss

	// gauges
	GaugeRequests        prometheus.Gauge
	GaugeLifeSignal      prometheus.Gauge
	GaugeLastAggregation prometheus.Gauge

	// histograms
	HistAggregationDuration  prometheus.Histogram
	HistogramRequestDuration *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("gymprogress", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("gymprogress", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterHandleRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})
	counterRateLimitedRequests := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rate_limited_requests",
		Help:      "The total number of rate limited requests",
	})
	counterWorkouts := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "workouts_recorded",
		Help:      "Live workouts processed by the incremental progression path, by result",
	}, []string{"result"})
	counterXPAwarded := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "xp_awarded",
		Help:      "Total XP awarded by the incremental progression path",
	})
	counterInvalidSessions := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "invalid_sessions",
		Help:      "Sessions skipped by the weekly aggregation because of malformed set data",
	})
	counterAggregatedUsers := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "aggregated_users",
		Help:      "Weekly progression rows upserted by the aggregator",
	})
	counterPrestige := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "prestige_attempts",
		Help:      "Prestige reset attempts, by outcome",
	}, []string{"outcome"})
	counterFlags := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "anticheat_flags",
		Help:      "Newly created anti-cheat flags, by type",
	}, []string{"type"})
	counterPublishFailures := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "publish_failures",
		Help:      "Events that could not be published to the message broker",
	})
	counterConsumedMessages := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "consumed_messages",
		Help:      "Workout logged messages consumed from the message broker, by result",
	}, []string{"result"})
	counterLeaderboardCache := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "leaderboard_cache",
		Help:      "Leaderboard page lookups, by cache result",
	}, []string{"result"})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})
	gaugeLifeSignal := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "life_signal",
		Help:      "Shows whether the service is alive",
	})
	gaugeLastAggregation := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "last_aggregation_timestamp_seconds",
		Help:      "Unix timestamp of the last successful weekly aggregation run",
	})

	histAggregationDuration := factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets: []float64{
				0.01, 0.1, 1, 10,
				60, 120, 240, 480, 1000, 2000,
				4000, 10000,
			},
			Name: "aggregation_duration_seconds",
			Help: "Total duration of a single weekly aggregation run in seconds",
		},
	)

	histogramRequestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Histogram of response time for requests in seconds",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"route", "method", "status_code"})

	return &Manager{
		CounterRequests:            counterRequests,
		CounterHandleRequestPanic:  counterHandleRequestPanic,
		CounterRateLimitedRequests: counterRateLimitedRequests,
		CounterWorkouts:            counterWorkouts,
		CounterXPAwarded:           counterXPAwarded,
		CounterInvalidSessions:     counterInvalidSessions,
		CounterAggregatedUsers:     counterAggregatedUsers,
		CounterPrestige:            counterPrestige,
		CounterFlags:               counterFlags,
		CounterPublishFailures:     counterPublishFailures,
		CounterConsumedMessages:    counterConsumedMessages,
		CounterLeaderboardCache:    counterLeaderboardCache,
		GaugeRequests:              gaugeRequests,
		GaugeLifeSignal:            gaugeLifeSignal,
		GaugeLastAggregation:       gaugeLastAggregation,
		HistAggregationDuration:    histAggregationDuration,
		HistogramRequestDuration:   histogramRequestDuration,
	}
}
