// Package metrics exposes Prometheus counters and histograms for the
// chunking pipeline and its REST adapter.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hsn0918/mdchunk/pkg/chunking"
)

// Metrics collects chunking-pipeline and HTTP-adapter telemetry in a
// private registry.
type Metrics struct {
	registry *prometheus.Registry

	chunkRuns       *prometheus.CounterVec
	chunkDuration   *prometheus.HistogramVec
	chunkErrors     *prometheus.CounterVec
	chunksProduced  *prometheus.HistogramVec
	chunkSizeBytes  *prometheus.HistogramVec
	oversizedChunks *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New builds a Metrics instance with its own registry, so embedding this
// package never collides with the default global registry.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.chunkRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mdchunk",
		Subsystem: "chunking",
		Name:      "runs_total",
		Help:      "Total number of Chunk() invocations by strategy used.",
	}, []string{"strategy"})

	m.chunkDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mdchunk",
		Subsystem: "chunking",
		Name:      "duration_seconds",
		Help:      "Chunk() wall-clock duration in seconds.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
	}, []string{"strategy"})

	m.chunkErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mdchunk",
		Subsystem: "chunking",
		Name:      "errors_total",
		Help:      "Total number of Chunk() calls that returned an error, by error kind.",
	}, []string{"kind"})

	m.chunksProduced = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mdchunk",
		Subsystem: "chunking",
		Name:      "chunks_produced",
		Help:      "Number of chunks produced per document.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	}, []string{"strategy"})

	m.chunkSizeBytes = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mdchunk",
		Subsystem: "chunking",
		Name:      "chunk_size_bytes",
		Help:      "Size in bytes of individual chunks.",
		Buckets:   prometheus.ExponentialBuckets(64, 2, 12),
	}, []string{"content_type"})

	m.oversizedChunks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mdchunk",
		Subsystem: "chunking",
		Name:      "oversized_chunks_total",
		Help:      "Total number of chunks emitted with allow_oversize=true, by reason.",
	}, []string{"reason"})

	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mdchunk",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests handled by the REST adapter.",
	}, []string{"method", "path", "status"})

	m.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mdchunk",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	m.registry.MustRegister(
		m.chunkRuns, m.chunkDuration, m.chunkErrors, m.chunksProduced,
		m.chunkSizeBytes, m.oversizedChunks, m.httpRequests, m.httpDuration,
	)
	return m
}

// RecordRun records one Chunk() invocation's outcome against the result.
func (m *Metrics) RecordRun(result *chunking.ChunkingResult, duration time.Duration, runErr error) {
	if m == nil {
		return
	}
	if runErr != nil {
		kind := "unknown"
		var ce *chunking.ChunkingError
		if errors.As(runErr, &ce) {
			kind = string(ce.Kind)
		}
		m.chunkErrors.WithLabelValues(kind).Inc()
		return
	}

	strategy := string(result.StrategyUsed)
	m.chunkRuns.WithLabelValues(strategy).Inc()
	m.chunkDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	m.chunksProduced.WithLabelValues(strategy).Observe(float64(len(result.Chunks)))

	for _, c := range result.Chunks {
		contentType, _ := c.Metadata[chunking.MetaContentType].(string)
		m.chunkSizeBytes.WithLabelValues(contentType).Observe(float64(c.Size()))
		if reason, ok := c.Metadata[chunking.MetaOversizeReason].(string); ok {
			m.oversizedChunks.WithLabelValues(reason).Inc()
		}
	}
}

// RecordHTTPRequest records one REST adapter request/response.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, path, statusLabel(status)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func statusLabel(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
