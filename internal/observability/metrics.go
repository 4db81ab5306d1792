// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Gateway metrics
	CollectionsFetched prometheus.Counter
	DegradedRecords    prometheus.Counter
	ProbeFailures      prometheus.Counter
	UpstreamLatency    *prometheus.HistogramVec

	// Cache metrics
	CacheLoads *prometheus.CounterVec
	CacheState prometheus.Gauge

	// Engine metrics
	PersonaMatches *prometheus.CounterVec
	SynthesisRuns  *prometheus.CounterVec
	ClassifierRuns *prometheus.CounterVec
	TextGenCalls   *prometheus.CounterVec

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Health metrics
	ProgressClients prometheus.Gauge
	UptimeSeconds   prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "nft_persona_lab"
	}

	return &Metrics{
		// Gateway metrics
		CollectionsFetched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "collections_fetched_total",
			Help:      "Total number of collection records fetched, degraded included",
		}),
		DegradedRecords: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "degraded_records_total",
			Help:      "Total number of degraded placeholder records produced",
		}),
		ProbeFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "probe_failures_total",
			Help:      "Total number of failed upstream liveness probes",
		}),
		UpstreamLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "alchemy",
			Name:      "call_latency_seconds",
			Help:      "Upstream API call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),

		// Cache metrics
		CacheLoads: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "loads_total",
			Help:      "Total number of cache load calls by outcome",
		}, []string{"outcome"}),
		CacheState: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "state",
			Help:      "Cache lifecycle state (0=EMPTY 1=LOADING 2=POPULATED)",
		}),

		// Engine metrics
		PersonaMatches: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "persona",
			Name:      "matches_total",
			Help:      "Total number of persona matches by outcome",
		}, []string{"outcome"}),
		SynthesisRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "synthesis",
			Name:      "runs_total",
			Help:      "Total number of deep-dive synthesis runs by path and status",
		}, []string{"path", "status"}),
		ClassifierRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "classifier_runs_total",
			Help:      "Total number of classifier runs by kind and status",
		}, []string{"kind", "status"}),
		TextGenCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "textgen",
			Name:      "calls_total",
			Help:      "Total number of text generation calls by caller",
		}, []string{"caller"}),

		// HTTP metrics
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by path and status code",
		}, []string{"path", "code"}),
		HTTPDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),

		// Health metrics
		ProgressClients: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "progress_clients",
			Help:      "Number of connected progress WebSocket clients",
		}),
		UptimeSeconds: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "uptime_seconds_total",
			Help:      "Total uptime in seconds",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordCollectionFetched increments the fetched-collection counter, tracking
// degraded placeholders separately.
func RecordCollectionFetched(degraded bool) {
	DefaultMetrics.CollectionsFetched.Inc()
	if degraded {
		DefaultMetrics.DegradedRecords.Inc()
	}
}

// RecordProbeFailure increments the probe failure counter.
func RecordProbeFailure() {
	DefaultMetrics.ProbeFailures.Inc()
}

// RecordCacheLoad records one cache load call and the resulting state.
func RecordCacheLoad(outcome string, state float64) {
	DefaultMetrics.CacheLoads.WithLabelValues(outcome).Inc()
	DefaultMetrics.CacheState.Set(state)
}

// RecordPersonaMatch increments the persona match counter by outcome.
func RecordPersonaMatch(outcome string) {
	DefaultMetrics.PersonaMatches.WithLabelValues(outcome).Inc()
}

// RecordSynthesis records one deep-dive synthesis run.
func RecordSynthesis(path string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	DefaultMetrics.SynthesisRuns.WithLabelValues(path, status).Inc()
}

// RecordClassifierRun records one classifier run.
func RecordClassifierRun(kind string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	DefaultMetrics.ClassifierRuns.WithLabelValues(kind, status).Inc()
}

// RecordUpstreamLatency records one upstream API call latency.
func RecordUpstreamLatency(method string, seconds float64) {
	DefaultMetrics.UpstreamLatency.WithLabelValues(method).Observe(seconds)
}

// RecordHTTPRequest records one served HTTP request.
func RecordHTTPRequest(path, code string, seconds float64) {
	DefaultMetrics.HTTPRequests.WithLabelValues(path, code).Inc()
	DefaultMetrics.HTTPDuration.WithLabelValues(path).Observe(seconds)
}
