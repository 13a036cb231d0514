package api

import "net/http"

// handleStats reports edit operation latencies and the live session count.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sessions":   s.sessions.Len(),
		"operations": s.sessions.Stats.Snapshot(),
	})
}
