package api

import (
	"net/http"
	"time"
)

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status        string  `json:"status"`
	Timestamp     string  `json:"timestamp"`
	Env           string  `json:"env"`
	UptimeSeconds float64 `json:"uptimeSeconds"`
}

// handleHealth reports liveness. It has no failure branch.
func (reg *Registrar) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Env:           reg.env,
		UptimeSeconds: time.Since(reg.startedAt).Seconds(),
	})
}
