// Package ops serves the operational endpoints on a separate port.
package ops

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// SessionCounter reports how many dashboard sessions are open
type SessionCounter interface {
	ActiveSessions() int
}

// NewRouter builds the ops router with /health and /metrics
func NewRouter(sessions SessionCounter, metrics http.Handler, startedAt time.Time) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/health", handleHealth(sessions, startedAt))
	r.Method(http.MethodGet, "/metrics", metrics)

	return r
}

func handleHealth(sessions SessionCounter, startedAt time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":          "healthy",
			"service":         "mastersol",
			"active_sessions": sessions.ActiveSessions(),
			"uptime_seconds":  int64(time.Since(startedAt).Seconds()),
			"timestamp":       time.Now().UTC().Format(time.RFC3339),
		})
	}
}
