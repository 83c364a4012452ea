package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TrainingRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spec_agent_training_runs_total",
			Help: "Total training loop runs",
		},
		[]string{"status"},
	)

	IterationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "spec_agent_iterations_total",
			Help: "Total loop iterations executed",
		},
	)

	IterationReward = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "spec_agent_iteration_reward",
			Help:    "Reward values per iteration",
			Buckets: []float64{-1.5, -1, -0.5, -0.2, 0, 0.2, 0.5, 1, 1.5},
		},
	)

	EvaluationScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "spec_agent_evaluation_score",
			Help:    "Weighted evaluation scores (0-100)",
			Buckets: []float64{10, 25, 50, 70, 80, 90, 95, 100},
		},
	)

	QualityScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "spec_agent_quality_score",
			Help:    "Rule-based quality scores (0-10)",
			Buckets: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		},
	)

	SessionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "spec_agent_session_duration_seconds",
			Help:    "Training session wall-clock duration",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
	)

	PersistenceFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "spec_agent_persistence_failures_total",
			Help: "History store write failures",
		},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spec_agent_cache_hits_total",
			Help: "Total cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spec_agent_cache_misses_total",
			Help: "Total cache misses",
		},
		[]string{"cache_type"},
	)
)

func Init() {
	prometheus.MustRegister(TrainingRuns)
	prometheus.MustRegister(IterationsTotal)
	prometheus.MustRegister(IterationReward)
	prometheus.MustRegister(EvaluationScore)
	prometheus.MustRegister(QualityScore)
	prometheus.MustRegister(SessionDuration)
	prometheus.MustRegister(PersistenceFailures)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
