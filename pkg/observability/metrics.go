package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Backend query metrics, labeled by store
	BackendQueriesTotal  *prometheus.CounterVec
	BackendQueryDuration *prometheus.HistogramVec

	// Event write-path metrics
	EventsRecordedTotal *prometheus.CounterVec

	// Load classification gauges, refreshed by the analyzer
	LoadAverage   prometheus.Gauge
	HighLoadHours prometheus.Gauge
	LowLoadHours  prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lens_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lens_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		BackendQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lens_backend_queries_total",
				Help: "Total number of backend queries by store and outcome",
			},
			[]string{"backend", "status"},
		),
		BackendQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lens_backend_query_duration_seconds",
				Help:    "Backend query duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"backend"},
		),
		EventsRecordedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lens_events_recorded_total",
				Help: "Total number of events written by kind",
			},
			[]string{"kind"},
		),
		LoadAverage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lens_load_average",
			Help: "Average hourly event count from the last load analysis",
		}),
		HighLoadHours: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lens_load_high_hours",
			Help: "Hours classified high in the last load analysis",
		}),
		LowLoadHours: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lens_load_low_hours",
			Help: "Hours classified low in the last load analysis",
		}),
		registry: registry,
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.BackendQueriesTotal,
		m.BackendQueryDuration,
		m.EventsRecordedTotal,
		m.LoadAverage,
		m.HighLoadHours,
		m.LowLoadHours,
	)

	return m
}

// ObserveBackendQuery records outcome and duration of one backend query
func (m *Metrics) ObserveBackendQuery(backend string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.BackendQueriesTotal.WithLabelValues(backend, status).Inc()
	m.BackendQueryDuration.WithLabelValues(backend).Observe(duration.Seconds())
}

// RecordEvent counts one event write
func (m *Metrics) RecordEvent(kind string) {
	m.EventsRecordedTotal.WithLabelValues(kind).Inc()
}

// Handler returns the Prometheus scrape handler for this registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// statusRecorder captures the response status for instrumentation
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware instruments an HTTP handler with request count and duration
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		m.HTTPRequestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(recorder.status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
	})
}
