package api

import (
	"net/http"

	"github.com/dataobs/lens/pkg/httputil"
)

// accessEventRequest is the body for POST /api/v1/events/access
type accessEventRequest struct {
	UserID string `json:"user_id"`
	DataID string `json:"data_id"`
	Action string `json:"action"`
}

// movementEventRequest is the body for POST /api/v1/events/movement
type movementEventRequest struct {
	DataID      string `json:"data_id"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

// creationEventRequest is the body for POST /api/v1/events/creation
type creationEventRequest struct {
	DataID string `json:"data_id"`
	Source string `json:"source"`
}

// recordAccess handles POST /api/v1/events/access
func (h *MetricsHandlers) recordAccess(w http.ResponseWriter, r *http.Request) {
	var req accessEventRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.UserID, "user_id") {
		return
	}
	if !httputil.RequireNonEmpty(w, req.DataID, "data_id") {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Action, "action") {
		return
	}

	if err := h.recorder.RecordAccess(r.Context(), req.UserID, req.DataID, req.Action); err != nil {
		h.writeBackendError(w, r, err)
		return
	}
	httputil.WriteCreated(w, map[string]string{"status": "recorded"})
}

// recordMovement handles POST /api/v1/events/movement
func (h *MetricsHandlers) recordMovement(w http.ResponseWriter, r *http.Request) {
	var req movementEventRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.DataID, "data_id") {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Source, "source") {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Destination, "destination") {
		return
	}

	if err := h.recorder.RecordMovement(r.Context(), req.DataID, req.Source, req.Destination); err != nil {
		h.writeBackendError(w, r, err)
		return
	}
	httputil.WriteCreated(w, map[string]string{"status": "recorded"})
}

// recordCreation handles POST /api/v1/events/creation
func (h *MetricsHandlers) recordCreation(w http.ResponseWriter, r *http.Request) {
	var req creationEventRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.DataID, "data_id") {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Source, "source") {
		return
	}

	if err := h.recorder.RecordCreation(r.Context(), req.DataID, req.Source); err != nil {
		h.writeBackendError(w, r, err)
		return
	}
	httputil.WriteCreated(w, map[string]string{"status": "recorded"})
}
