package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CapabilityCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legal_capability_calls_total",
			Help: "Total number of LLM capability calls by capability and outcome",
		},
		[]string{"capability", "outcome"},
	)

	CapabilityDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "legal_capability_duration_seconds",
			Help:    "Duration of LLM capability calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
		},
		[]string{"capability"},
	)

	SchemaViolations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legal_schema_violations_total",
			Help: "Model outputs that failed schema validation and were coerced",
		},
		[]string{"capability"},
	)

	InsightOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legal_insight_outcomes_total",
			Help: "Insight queries by retrieval path and outcome",
		},
		[]string{"path", "outcome"},
	)

	RetrievalErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legal_hosted_retrieval_errors_total",
			Help: "Hosted retrieval failures by error kind",
		},
		[]string{"kind"},
	)

	SupersededQueries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "legal_superseded_queries_total",
			Help: "Query results discarded because a newer query was issued for the same scope",
		},
	)

	LibraryAppends = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legal_library_appends_total",
			Help: "Documents appended to custom libraries by source",
		},
		[]string{"source"},
	)
)
