package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests          *prometheus.CounterVec
	CounterSessionsStarted   prometheus.Counter
	CounterSessionsFinished  *prometheus.CounterVec
	CounterSetsLogged        prometheus.Counter
	CounterPlanAdvances      *prometheus.CounterVec
	CounterImmutableRejected prometheus.Counter
	CounterEventsPublished   *prometheus.CounterVec

	// gauges
	GaugeRequests prometheus.Gauge

	// histograms
	HistRequestDuration  prometheus.Histogram
	HistSessionDuration  prometheus.Histogram
	HistSessionVolume    prometheus.Histogram
	HistSessionCompleted prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("workout", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("workout", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterSessionsStarted := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sessions_started",
		Help:      "The total number of started workout sessions",
	})
	counterSessionsFinished := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sessions_finished",
		Help:      "The total number of finished workout sessions by outcome",
	}, []string{"status"})
	counterSetsLogged := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sets_logged",
		Help:      "The total number of created set logs",
	})
	counterPlanAdvances := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "plan_advances",
		Help:      "The total number of plan day advances by resulting tracker status",
	}, []string{"status"})
	counterImmutableRejected := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "immutable_rejections",
		Help:      "Writes rejected because the session was already completed",
	})
	counterEventsPublished := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "events_published",
		Help:      "Domain events delivered to publishers",
	}, []string{"event"})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})

	histReqDuration := factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets: []float64{
				0.0001, 0.0005, 0.001, 0.0025, 0.005,
				0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
			},
			Name: "request_duration_seconds",
			Help: "Total duration of requests in seconds",
		},
	)
	histSessionDuration := factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets: []float64{
				300, 600, 900, 1200, 1800, 2700,
				3600, 5400, 7200, 10800,
			},
			Name: "session_duration_seconds",
			Help: "Duration of completed workout sessions in seconds",
		},
	)
	histSessionVolume := factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets:   prometheus.ExponentialBuckets(100, 2, 10),
			Name:      "session_volume_kg",
			Help:      "Total volume (weight x reps) of completed workout sessions",
		},
	)
	histSessionCompleted := factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
			Name:      "session_completion_percentage",
			Help:      "Share of prescribed exercises completed per finished session",
		},
	)

	return &Manager{
		CounterRequests:          counterRequests,
		CounterSessionsStarted:   counterSessionsStarted,
		CounterSessionsFinished:  counterSessionsFinished,
		CounterSetsLogged:        counterSetsLogged,
		CounterPlanAdvances:      counterPlanAdvances,
		CounterImmutableRejected: counterImmutableRejected,
		CounterEventsPublished:   counterEventsPublished,
		GaugeRequests:            gaugeRequests,
		HistRequestDuration:      histReqDuration,
		HistSessionDuration:      histSessionDuration,
		HistSessionVolume:        histSessionVolume,
		HistSessionCompleted:     histSessionCompleted,
	}
}
