package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values shared by the counters below.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"

	BucketRejected     = "rejected"
	BucketAutoAccepted = "auto_accepted"
	BucketNeedsReview  = "needs_review"

	StatusAnalyzed = "analyzed"
	StatusDegraded = "degraded"
)

var (
	ItemsRouted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sentiment_items_routed_total",
		Help: "Items partitioned by the staged relevance router, per bucket",
	}, []string{"bucket"})

	LLMAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sentiment_llm_attempts_total",
		Help: "Individual LLM request attempts, per provider and outcome",
	}, []string{"provider", "outcome"})

	BatchItems = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sentiment_batch_items_total",
		Help: "Items completed by the batch orchestrator, per status",
	}, []string{"status"})

	AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sentiment_analysis_duration_seconds",
		Help:    "Wall-clock duration of a single item analysis",
		Buckets: prometheus.DefBuckets,
	})
)
