package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robynasuro/octra-client/logx"
)

// SubmitOutcome labels the terminal state of a single submission attempt.
type SubmitOutcome string

var (
	SubmitAccepted  SubmitOutcome = "accepted"
	SubmitRejected  SubmitOutcome = "rejected"
	SubmitTimeout   SubmitOutcome = "timeout"
	SubmitTransport SubmitOutcome = "transport_error"
	SubmitInvalid   SubmitOutcome = "invalid"
)

type clientPromMetrics struct {
	submitCount       *prometheus.CounterVec
	submitLatency     prometheus.Histogram
	cacheRefreshCount *prometheus.CounterVec
	panicCount        prometheus.Counter
}

func newClientPromMetrics() *clientPromMetrics {
	return &clientPromMetrics{
		submitCount: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "octra_client_submit_total",
				Help: "Number of transaction submissions by outcome",
			},
			[]string{"outcome"},
		),
		submitLatency: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "octra_client_submit_latency_seconds",
				Help:    "Round-trip time of accepted submissions",
				Buckets: prometheus.DefBuckets,
			},
		),
		cacheRefreshCount: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "octra_client_cache_refresh_total",
				Help: "Number of cache refreshes by cache name",
			},
			[]string{"cache"},
		),
		panicCount: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "octra_client_panic_total",
				Help: "Number of recovered panics in background goroutines",
			},
		),
	}
}

var metrics = newClientPromMetrics()

// RecordSubmit counts one submission outcome; latency is only observed for
// accepted submissions.
func RecordSubmit(outcome SubmitOutcome, latency time.Duration) {
	metrics.submitCount.WithLabelValues(string(outcome)).Inc()
	if outcome == SubmitAccepted {
		metrics.submitLatency.Observe(latency.Seconds())
	}
}

func IncreaseCacheRefresh(cache string) {
	metrics.cacheRefreshCount.WithLabelValues(cache).Inc()
}

func IncreasePanicCount() {
	metrics.panicCount.Inc()
}

// Serve exposes /metrics on addr. Blocks; callers run it in a goroutine.
func Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logx.Info("MONITORING", "Serving metrics on ", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logx.Error("MONITORING", "Metrics listener stopped: ", err)
	}
}
