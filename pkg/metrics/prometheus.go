package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder records pipeline metrics. A nil *Recorder is a no-op.
type Recorder struct {
	registry      *prometheus.Registry
	requestsTotal *prometheus.CounterVec
	fetchLatency  *prometheus.HistogramVec
	fetchFailures *prometheus.CounterVec
	modelLatency  *prometheus.HistogramVec
	cacheLookups  *prometheus.CounterVec
}

// New creates a recorder with its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_requests_total",
				Help: "Total number of answered queries by outcome",
			},
			[]string{"outcome"},
		),
		fetchLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "assistant_source_fetch_duration_seconds",
				Help:    "Duration of upstream data fetches in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		fetchFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_source_failures_total",
				Help: "Total number of failed upstream data fetches",
			},
			[]string{"source", "kind"},
		),
		modelLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "assistant_model_call_duration_seconds",
				Help:    "Duration of language model calls in seconds",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 45, 60},
			},
			[]string{"provider", "outcome"},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_cache_lookups_total",
				Help: "Total number of snapshot cache lookups",
			},
			[]string{"source", "result"},
		),
	}
}

// RecordRequest records one answered query.
func (r *Recorder) RecordRequest(outcome string) {
	if r == nil {
		return
	}
	r.requestsTotal.WithLabelValues(outcome).Inc()
}

// RecordFetch records the latency of one source fetch, and its failure kind if it failed.
func (r *Recorder) RecordFetch(source string, d time.Duration, failureKind string) {
	if r == nil {
		return
	}
	r.fetchLatency.WithLabelValues(source).Observe(d.Seconds())
	if failureKind != "" {
		r.fetchFailures.WithLabelValues(source, failureKind).Inc()
	}
}

// RecordModelCall records one model call.
func (r *Recorder) RecordModelCall(provider, outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.modelLatency.WithLabelValues(provider, outcome).Observe(d.Seconds())
}

// RecordCacheLookup records a cache hit or miss.
func (r *Recorder) RecordCacheLookup(source string, hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(source, result).Inc()
}

// Gatherer exposes the registry for tests and scrapers.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
