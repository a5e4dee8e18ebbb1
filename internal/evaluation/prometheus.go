package evaluation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Query outcome label values for the queries_total counter.
const (
	// outcomeHit means every expected article was retrieved (recall 1.0).
	outcomeHit = "hit"
	// outcomeMiss means retrieval succeeded but recall fell below 1.0.
	outcomeMiss = "miss"
	// outcomeError means the retrieval step itself failed and was scored zero.
	outcomeError = "error"
)

// Metrics holds the Prometheus metrics emitted during an evaluation run.
// A single instance is created per run and registered against a caller-owned
// registry so that unit tests stay hermetic.
type Metrics struct {
	// queriesTotal counts evaluated queries, partitioned by outcome:
	// "hit", "miss", or "error".
	queriesTotal *prometheus.CounterVec

	// retrievalDuration records the wall-clock duration of each
	// strategy.Retrieve call, in seconds.
	retrievalDuration prometheus.Histogram
}

// NewMetrics registers all evaluation metrics against reg and returns the
// populated Metrics. promauto.With(reg) registers into the provided
// registry rather than the global default.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		queriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lawrag",
			Subsystem: "eval",
			Name:      "queries_total",
			Help:      "Total number of labeled queries evaluated, partitioned by outcome.",
		}, []string{"outcome"}),

		retrievalDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lawrag",
			Subsystem: "eval",
			Name:      "retrieval_duration_seconds",
			Help:      "Wall-clock duration of each retrieval call during evaluation.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}
