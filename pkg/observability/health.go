package observability

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"
)

// Pinger is the minimal health surface a backing store exposes
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker probes the four backing stores
type HealthChecker struct {
	db       *sql.DB
	backends map[string]Pinger
}

// NewHealthChecker creates a new health checker. The time-series store is
// passed as *sql.DB; the remaining stores register by name via AddBackend.
func NewHealthChecker(db *sql.DB) *HealthChecker {
	return &HealthChecker{
		db:       db,
		backends: make(map[string]Pinger),
	}
}

// AddBackend registers a named backend for readiness probing
func (h *HealthChecker) AddBackend(name string, p Pinger) {
	h.backends[name] = p
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status       string                      `json:"status"`
	Timestamp    time.Time                   `json:"timestamp"`
	Dependencies map[string]DependencyStatus `json:"dependencies,omitempty"`
}

// DependencyStatus represents the health of a single dependency
type DependencyStatus struct {
	Status  string        `json:"status"`
	Message string        `json:"message,omitempty"`
	Latency time.Duration `json:"latency_ms,omitempty"`
}

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// Liveness returns a simple liveness probe (always 200 if the server is running)
func (h *HealthChecker) Liveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    StatusHealthy,
		"timestamp": time.Now(),
	})
}

// Readiness probes every backing store. A single unreachable store degrades
// readiness rather than failing it: the engine still serves the reports whose
// stores are up.
func (h *HealthChecker) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := h.Check(ctx)

	w.Header().Set("Content-Type", "application/json")
	if status.Status == StatusUnhealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	json.NewEncoder(w).Encode(status)
}

// Check probes all registered stores
func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:       StatusHealthy,
		Timestamp:    time.Now(),
		Dependencies: make(map[string]DependencyStatus),
	}

	down := 0

	if h.db != nil {
		dep := h.checkDatabase(ctx)
		status.Dependencies["timescaledb"] = dep
		if dep.Status == StatusUnhealthy {
			down++
		}
	}

	for name, p := range h.backends {
		dep := h.checkPinger(ctx, p)
		status.Dependencies[name] = dep
		if dep.Status == StatusUnhealthy {
			down++
		}
	}

	switch {
	case down == 0:
	case down < len(status.Dependencies):
		status.Status = StatusDegraded
	default:
		status.Status = StatusUnhealthy
	}
	return status
}

func (h *HealthChecker) checkDatabase(ctx context.Context) DependencyStatus {
	start := time.Now()
	dep := DependencyStatus{Status: StatusHealthy}

	err := h.db.PingContext(ctx)
	dep.Latency = time.Since(start) / time.Millisecond

	if err != nil {
		dep.Status = StatusUnhealthy
		dep.Message = err.Error()
		return dep
	}

	stats := h.db.Stats()
	if stats.MaxOpenConnections > 0 && stats.OpenConnections >= stats.MaxOpenConnections {
		dep.Status = StatusDegraded
		dep.Message = "connection pool exhausted"
	}
	return dep
}

func (h *HealthChecker) checkPinger(ctx context.Context, p Pinger) DependencyStatus {
	start := time.Now()
	dep := DependencyStatus{Status: StatusHealthy}

	if err := p.Ping(ctx); err != nil {
		dep.Status = StatusUnhealthy
		dep.Message = err.Error()
	}
	dep.Latency = time.Since(start) / time.Millisecond
	return dep
}
