package server

import (
	"context"
	"fmt"
	"minigames/internal/config"
	"minigames/internal/db"
	"minigames/internal/games"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler wires every route behind the CORS and logging middleware.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/game-stats", s.handleSaveStats).Methods(http.MethodPost)
	api.HandleFunc("/leaderboard/{gameType}", s.handleLeaderboard).Methods(http.MethodGet)
	api.HandleFunc("/best-score/{gameType}", s.handleBestScore).Methods(http.MethodGet)
	api.HandleFunc("/best-scores", s.handleBestScores).Methods(http.MethodGet)
	api.HandleFunc("/player-stats/{playerId}", s.handlePlayerStats).Methods(http.MethodGet)
	api.HandleFunc("/overall-stats", s.handleOverallStats).Methods(http.MethodGet)
	api.HandleFunc("/app-info", s.handleAppInfo).Methods(http.MethodGet)
	api.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)
	api.HandleFunc("/live", s.handleLive).Methods(http.MethodGet)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.Metrics.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	return corsMiddleware(s.loggingMiddleware(r))
}

// Run opens the configured store and serves until the listener fails.
func Run(cfg config.Config) error {
	policy := games.DefaultPolicy()
	if cfg.PolicyFile != "" {
		p, err := games.LoadPolicyFile(cfg.PolicyFile)
		if err != nil {
			return fmt.Errorf("loading ranking policy: %w", err)
		}
		policy = p
	}

	store, err := db.Open(context.Background(), cfg.StoreDriver, cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		return fmt.Errorf("opening record store: %w", err)
	}
	defer store.Close()

	srv := New(store, policy, cfg.LeaderboardLimit)
	defer srv.Close()

	addr := "0.0.0.0:" + cfg.Port
	fmt.Printf("Server listening on http://localhost:%s\n", cfg.Port)
	return http.ListenAndServe(addr, srv.Handler())
}
