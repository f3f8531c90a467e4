package handlers

import (
	stdctx "context"
	"net/http"
	"time"
)

// HandleHealth reports liveness and store reachability
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		status := "healthy"
		if s.MongoDB != nil {
			ctx, cancel := stdctx.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := s.MongoDB.Client.Ping(ctx, nil); err != nil {
				status = "degraded"
			}
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":      status,
			"server_time": time.Now(),
		})
	}
}

// HandleStats exposes the metrics snapshot
func (s *Server) HandleStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, s.Metrics.Snapshot())
	}
}
