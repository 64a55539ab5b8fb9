package handler

import (
	"context"
	"net/http"
	"time"
)

const healthPingTimeout = 2 * time.Second

// GetHealth handles GET /healthz.
// It returns HTTP 200 with {"status":"ok"} when the server is running and, if a
// Pinger is configured, the database answers; otherwise 503 {"status":"unavailable"}.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()
		if err := s.db.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// GetOpenAPI handles GET /openapi.yaml.
func (s *Server) GetOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(s.openAPI)
}
