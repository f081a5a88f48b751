package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/dataobs/lens/pkg/httputil"
	"github.com/dataobs/lens/pkg/metrics"
	"github.com/dataobs/lens/pkg/observability"
	"github.com/dataobs/lens/pkg/storage"
)

// DefaultWindow is the trailing window used when a request omits start/end.
const DefaultWindow = 7 * 24 * time.Hour

// MetricsHandlers provides the metrics query API endpoints
type MetricsHandlers struct {
	service  *metrics.Service
	recorder *metrics.Recorder
	logger   *observability.Logger

	// injectable for deterministic window defaults in tests
	now func() time.Time
}

// NewMetricsHandlers creates a new metrics handlers instance
func NewMetricsHandlers(service *metrics.Service, recorder *metrics.Recorder, logger *observability.Logger) *MetricsHandlers {
	return &MetricsHandlers{
		service:  service,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// RegisterRoutes registers metrics API routes
func (h *MetricsHandlers) RegisterRoutes(r *mux.Router) {
	// Per-backend reports
	r.HandleFunc("/api/v1/metrics/creation", h.getCreationMetrics).Methods("GET")
	r.HandleFunc("/api/v1/metrics/access", h.getAccessPatterns).Methods("GET")
	r.HandleFunc("/api/v1/metrics/movement", h.getMovementData).Methods("GET")
	r.HandleFunc("/api/v1/metrics/usage", h.getUsageAnalytics).Methods("GET")

	// Cross-backend views
	r.HandleFunc("/api/v1/metrics/snapshot", h.getSnapshot).Methods("GET")
	r.HandleFunc("/api/v1/metrics/load", h.analyzeLoad).Methods("GET")

	// Event write paths
	r.HandleFunc("/api/v1/events/access", h.recordAccess).Methods("POST")
	r.HandleFunc("/api/v1/events/movement", h.recordMovement).Methods("POST")
	r.HandleFunc("/api/v1/events/creation", h.recordCreation).Methods("POST")
}

// parseWindow builds the query time window from start/end query parameters.
// Both default to a trailing seven day window ending now.
func (h *MetricsHandlers) parseWindow(w http.ResponseWriter, r *http.Request) (metrics.TimeWindow, bool) {
	end, err := httputil.ParseQueryTime(r, "end", h.now().UTC())
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return metrics.TimeWindow{}, false
	}
	start, err := httputil.ParseQueryTime(r, "start", end.Add(-DefaultWindow))
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return metrics.TimeWindow{}, false
	}

	window, err := metrics.NewTimeWindow(start, end)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return metrics.TimeWindow{}, false
	}
	return window, true
}

// writeBackendError maps backend failures onto HTTP status codes
func (h *MetricsHandlers) writeBackendError(w http.ResponseWriter, r *http.Request, err error) {
	logger := h.logger
	var backendErr *metrics.BackendError
	if errors.As(err, &backendErr) {
		logger = logger.WithBackend(backendErr.Backend)
	}
	if requestID := observability.GetRequestID(r.Context()); requestID != "" {
		logger = logger.WithField("request_id", requestID)
	}
	logger.WithError(err).Error("metrics query failed")

	switch {
	case errors.Is(err, storage.ErrUnavailable):
		httputil.WriteServiceUnavailable(w, err.Error())
	case errors.Is(err, storage.ErrQueryRejected):
		httputil.WriteInternalError(w, err)
	default:
		httputil.WriteInternalError(w, err)
	}
}

// getCreationMetrics handles GET /api/v1/metrics/creation
// Query params:
//   - start: RFC 3339 window start - default: end minus 7 days
//   - end: RFC 3339 window end - default: now
func (h *MetricsHandlers) getCreationMetrics(w http.ResponseWriter, r *http.Request) {
	window, ok := h.parseWindow(w, r)
	if !ok {
		return
	}

	report, err := h.service.GetCreationMetrics(r.Context(), window)
	if err != nil {
		h.writeBackendError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, report)
}

// getAccessPatterns handles GET /api/v1/metrics/access
func (h *MetricsHandlers) getAccessPatterns(w http.ResponseWriter, r *http.Request) {
	window, ok := h.parseWindow(w, r)
	if !ok {
		return
	}

	report, err := h.service.GetAccessPatterns(r.Context(), window)
	if err != nil {
		h.writeBackendError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, report)
}

// getMovementData handles GET /api/v1/metrics/movement
func (h *MetricsHandlers) getMovementData(w http.ResponseWriter, r *http.Request) {
	window, ok := h.parseWindow(w, r)
	if !ok {
		return
	}

	report, err := h.service.GetMovementData(r.Context(), window)
	if err != nil {
		h.writeBackendError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, report)
}

// getUsageAnalytics handles GET /api/v1/metrics/usage
func (h *MetricsHandlers) getUsageAnalytics(w http.ResponseWriter, r *http.Request) {
	window, ok := h.parseWindow(w, r)
	if !ok {
		return
	}

	report, err := h.service.GetUsageAnalytics(r.Context(), window)
	if err != nil {
		h.writeBackendError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, report)
}

// getSnapshot handles GET /api/v1/metrics/snapshot
// A snapshot always returns 200: failures of individual backends are
// reported in the response body, not as an HTTP error.
func (h *MetricsHandlers) getSnapshot(w http.ResponseWriter, r *http.Request) {
	window, ok := h.parseWindow(w, r)
	if !ok {
		return
	}

	snapshot, err := h.service.GetSnapshot(r.Context(), window)
	if err != nil {
		h.writeBackendError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, snapshot)
}

// analyzeLoad handles GET /api/v1/metrics/load
// Defaults to a trailing 24 hour window, the natural horizon for
// hourly load classification.
func (h *MetricsHandlers) analyzeLoad(w http.ResponseWriter, r *http.Request) {
	end, err := httputil.ParseQueryTime(r, "end", h.now().UTC())
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	start, err := httputil.ParseQueryTime(r, "start", end.Add(-24*time.Hour))
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	window, err := metrics.NewTimeWindow(start, end)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	analysis, err := h.service.AnalyzeLoad(r.Context(), window)
	if err != nil {
		h.writeBackendError(w, r, err)
		return
	}
	if analysis == nil {
		httputil.WriteSuccess(w, map[string]string{
			"status": "no_data",
		})
		return
	}
	httputil.WriteSuccess(w, analysis)
}
