package ops

import (
	"encoding/json"
	"net/http"
)

// HealthStatus is the liveness response body.
type HealthStatus struct {
	Status string `json:"status"`
	Bus    string `json:"bus"`
}

// HealthHandler reports process liveness and the bus connection state.
type HealthHandler struct {
	busState func() string
}

// NewHealthHandler creates a handler reading the bus state through busState
// on every request. Pass a constant func for processes without a bus.
func NewHealthHandler(busState func() string) *HealthHandler {
	return &HealthHandler{busState: busState}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	status := HealthStatus{
		Status: "ok",
		Bus:    h.busState(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(status)
}
