package web

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"telegram-prompt-bot/internal/domain/ports/repository"
)

// Server exposes the operational surface: liveness and prometheus metrics.
// There is no user-facing HTTP API; the bot speaks only Telegram.
type Server struct {
	sessions repository.SessionStore
	log      *zerolog.Logger
}

func NewServer(sessions repository.SessionStore, logger *zerolog.Logger) *Server {
	l := logger.With().Str("component", "web").Logger()
	return &Server{sessions: sessions, log: &l}
}

// RegisterRoutes sets up the admin endpoints.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	}); err != nil {
		s.log.Warn().Err(err).Msg("health response write failed")
	}
}
