// Package metrics provides Prometheus metrics export for the
// recommendation service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Exporter exports recommendation service metrics in Prometheus format.
type Exporter struct {
	registry *prometheus.Registry

	// Recommendation operation metrics
	operationLatency  *prometheus.HistogramVec
	operationRequests *prometheus.CounterVec

	// Embedding provider metrics
	embeddingRequests *prometheus.CounterVec
	embeddingLatency  *prometheus.HistogramVec
	embeddedVectors   prometheus.Counter
}

// Config configures the metrics exporter.
type Config struct {
	// Registry to use (if nil, creates a new one)
	Registry *prometheus.Registry

	// Buckets for latency histograms (in seconds)
	LatencyBuckets []float64
}

// DefaultConfig returns default metrics configuration.
func DefaultConfig() Config {
	return Config{
		LatencyBuckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
	}
}

// NewExporter creates a new Prometheus metrics exporter.
func NewExporter(cfg Config) *Exporter {
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = DefaultConfig().LatencyBuckets
	}

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	e := &Exporter{registry: registry}

	e.operationLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "thesismatch",
			Subsystem: "recommend",
			Name:      "operation_latency_seconds",
			Help:      "Recommendation operation latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"operation"},
	)

	e.operationRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "thesismatch",
			Subsystem: "recommend",
			Name:      "operation_requests_total",
			Help:      "Total number of recommendation operations",
		},
		[]string{"operation", "status"},
	)

	e.embeddingRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "thesismatch",
			Subsystem: "embedding",
			Name:      "requests_total",
			Help:      "Total number of embedding provider requests",
		},
		[]string{"text_type", "status"},
	)

	e.embeddingLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "thesismatch",
			Subsystem: "embedding",
			Name:      "request_latency_seconds",
			Help:      "Embedding provider request latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"text_type"},
	)

	e.embeddedVectors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "thesismatch",
			Subsystem: "embedding",
			Name:      "vectors_stored_total",
			Help:      "Total number of vectors written by the population job",
		},
	)

	registry.MustRegister(
		e.operationLatency,
		e.operationRequests,
		e.embeddingRequests,
		e.embeddingLatency,
		e.embeddedVectors,
	)

	return e
}

// RecordOperation records one recommendation operation.
func (e *Exporter) RecordOperation(operation string, latency time.Duration, success bool) {
	status := "success"
	if !success {
		status = "error"
	}

	e.operationRequests.WithLabelValues(operation, status).Inc()
	e.operationLatency.WithLabelValues(operation).Observe(latency.Seconds())
}

// RecordEmbeddingRequest records one call to the embedding provider.
func (e *Exporter) RecordEmbeddingRequest(textType string, latency time.Duration, success bool) {
	status := "success"
	if !success {
		status = "error"
	}

	e.embeddingRequests.WithLabelValues(textType, status).Inc()
	e.embeddingLatency.WithLabelValues(textType).Observe(latency.Seconds())
}

// RecordVectorsStored counts vectors persisted by the population job.
func (e *Exporter) RecordVectorsStored(count int) {
	e.embeddedVectors.Add(float64(count))
}

// Handler returns the HTTP handler for the metrics endpoint.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// Registry returns the Prometheus registry.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}
