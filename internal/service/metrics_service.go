package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and the
// bulk import pipeline.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheOps        *prometheus.CounterVec
	importRows      *prometheus.CounterVec
	importDuration  prometheus.Observer
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reference_cache_operations_total",
		Help: "Reference data cache lookups by outcome",
	}, []string{"outcome"})

	importRows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "import_rows_total",
		Help: "Bulk import rows processed by outcome",
	}, []string{"outcome"})

	importDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "import_batch_duration_seconds",
		Help:    "Duration of bulk import batches",
		Buckets: prometheus.DefBuckets,
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheOps, importRows, importDuration, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheOps:        cacheOps,
		importRows:      importRows,
		importDuration:  importDuration,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation counts a reference cache lookup, outcome "hit" or "miss".
func (m *MetricsService) RecordCacheOperation(outcome string) {
	if m == nil {
		return
	}
	m.cacheOps.WithLabelValues(outcome).Inc()
}

// RecordImportRows counts committed and rejected rows of a bulk upload batch.
func (m *MetricsService) RecordImportRows(succeeded, failed int) {
	if m == nil {
		return
	}
	if succeeded > 0 {
		m.importRows.WithLabelValues("succeeded").Add(float64(succeeded))
	}
	if failed > 0 {
		m.importRows.WithLabelValues("failed").Add(float64(failed))
	}
}

// ObserveImportBatch records the wall time of one bulk upload batch.
func (m *MetricsService) ObserveImportBatch(duration time.Duration) {
	if m == nil {
		return
	}
	m.importDuration.Observe(duration.Seconds())
}
