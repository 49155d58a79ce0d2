package handler

import (
	"context"
	"net/http"
	"time"
)

// Health probes PostgreSQL connectivity and reports service status in the
// standard envelope. Deeper liveness/readiness live on /livez and /readyz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		respondErrorMessage(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}

	respondData(w, http.StatusOK, struct {
		Service  string `json:"service"`
		Database string `json:"database"`
	}{Service: "ok", Database: "ok"})
}
