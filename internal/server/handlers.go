package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"minigames/internal/analytics"
	"minigames/internal/broadcast"
	"minigames/internal/db"
	"minigames/internal/events"
	"minigames/internal/games"
	"minigames/internal/ranking"
	"minigames/internal/wshub"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
)

const (
	AppName     = "minigames"
	maxBodySize = 1 << 16
)

// Version is overridden at build time with -ldflags.
var Version = "1.0.0"

type Server struct {
	Store       db.Store
	Queries     *analytics.Queries
	Bus         *events.Bus
	Broadcaster *broadcast.Broadcaster
	Hub         *wshub.Hub
	Metrics     *Metrics
	Limit       int // default leaderboard size
	now         func() time.Time
}

func New(store db.Store, policy games.Policy, limit int) *Server {
	if limit <= 0 {
		limit = ranking.DefaultLimit
	}
	bus := events.NewBus()
	hub := wshub.NewHub()
	return &Server{
		Store:       store,
		Queries:     analytics.NewQueries(store, policy),
		Bus:         bus,
		Broadcaster: broadcast.NewBroadcaster(bus, hub),
		Hub:         hub,
		Metrics:     NewMetrics(hub),
		Limit:       limit,
		now:         time.Now,
	}
}

// Close stops the live feed relay. The store is owned by the caller.
func (s *Server) Close() {
	s.Bus.Close()
}

type saveStatsRequest struct {
	GameType   string   `json:"gameType"`
	PlayerID   string   `json:"playerId"`
	PlayerName string   `json:"playerName"`
	Score      *float64 `json:"score"`
	Time       *float64 `json:"time"`
	Difficulty string   `json:"difficulty"`
}

type saveStatsResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Data    db.GameRecord `json:"data"`
}

func (s *Server) handleSaveStats(w http.ResponseWriter, r *http.Request) {
	var req saveStatsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.GameType == "" || req.PlayerID == "" || req.Score == nil {
		writeError(w, http.StatusBadRequest, "gameType, playerId and score are required")
		return
	}
	gt, err := games.Parse(req.GameType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec := db.GameRecord{
		GameType:   gt,
		PlayerID:   req.PlayerID,
		PlayerName: req.PlayerName,
		Score:      *req.Score,
		Difficulty: req.Difficulty,
	}
	if req.Time != nil {
		rec.Time = *req.Time
	}
	rec.Normalize(s.now())
	if err := rec.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.Store.Insert(r.Context(), rec)
	if err != nil {
		if errors.Is(err, db.ErrInvalidRecord) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[Server] Saving record failed: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to save game stats")
		return
	}
	rec.ID = id

	s.Metrics.RecordsSaved.WithLabelValues(string(gt)).Inc()
	if !s.Bus.PublishRecord(rec) {
		log.Printf("[Server] Live feed full, dropped record %s\n", rec.ID)
	}
	log.Printf("[Server] Saved %s score %.2f for %s (%s)\n", gt, rec.Score, rec.PlayerName, rec.PlayerID)

	writeJSON(w, http.StatusOK, saveStatsResponse{
		Success: true,
		Message: "Game stats saved",
		Data:    rec,
	})
}

type leaderboardEntry struct {
	Rank       int       `json:"rank"`
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	Score      float64   `json:"score"`
	Time       float64   `json:"time"`
	Difficulty string    `json:"difficulty"`
	Date       time.Time `json:"date"`
}

type leaderboardResponse struct {
	Success     bool               `json:"success"`
	GameType    games.GameType     `json:"gameType"`
	Leaderboard []leaderboardEntry `json:"leaderboard"`
}

// gameTypeVar parses the {gameType} path variable, writing a 400 on failure.
func gameTypeVar(w http.ResponseWriter, r *http.Request) (games.GameType, bool) {
	gt, err := games.Parse(mux.Vars(r)["gameType"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return gt, true
}

func (s *Server) limitParam(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		limit = 0
	}
	return ranking.ClampLimit(limit, s.Limit)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	gt, ok := gameTypeVar(w, r)
	if !ok {
		return
	}

	entries, err := s.Queries.Leaderboard(r.Context(), gt, s.limitParam(r))
	if err != nil {
		log.Printf("[Server] Leaderboard error: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to load leaderboard")
		return
	}

	out := make([]leaderboardEntry, len(entries))
	for i, e := range entries {
		out[i] = leaderboardEntry{
			Rank:       e.Rank,
			PlayerID:   e.PlayerID,
			PlayerName: e.PlayerName,
			Score:      e.Score,
			Time:       e.Time,
			Difficulty: e.Difficulty,
			Date:       e.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, leaderboardResponse{Success: true, GameType: gt, Leaderboard: out})
}

// bestScoreView renders a missing best score as nulls rather than zeros.
type bestScoreView struct {
	Found      bool       `json:"found"`
	BestScore  *float64   `json:"bestScore"`
	PlayerName *string    `json:"playerName"`
	PlayerID   *string    `json:"playerId"`
	Difficulty *string    `json:"difficulty"`
	Date       *time.Time `json:"date"`
}

func newBestScoreView(e *ranking.Entry) bestScoreView {
	if e == nil {
		return bestScoreView{}
	}
	return bestScoreView{
		Found:      true,
		BestScore:  &e.Score,
		PlayerName: &e.PlayerName,
		PlayerID:   &e.PlayerID,
		Difficulty: &e.Difficulty,
		Date:       &e.CreatedAt,
	}
}

type bestScoreResponse struct {
	Success  bool           `json:"success"`
	GameType games.GameType `json:"gameType"`
	bestScoreView
}

func (s *Server) handleBestScore(w http.ResponseWriter, r *http.Request) {
	gt, ok := gameTypeVar(w, r)
	if !ok {
		return
	}

	best, found, err := s.Queries.BestScore(r.Context(), gt)
	if err != nil {
		log.Printf("[Server] Best score error: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to load best score")
		return
	}

	resp := bestScoreResponse{Success: true, GameType: gt}
	if found {
		resp.bestScoreView = newBestScoreView(&best)
	}
	writeJSON(w, http.StatusOK, resp)
}

type bestScoresResponse struct {
	Success    bool                             `json:"success"`
	BestScores map[games.GameType]bestScoreView `json:"bestScores"`
}

func (s *Server) handleBestScores(w http.ResponseWriter, r *http.Request) {
	bests, err := s.Queries.BestScores(r.Context())
	if err != nil {
		log.Printf("[Server] Best scores error: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to load best scores")
		return
	}

	out := make(map[games.GameType]bestScoreView, len(bests))
	for gt, e := range bests {
		out[gt] = newBestScoreView(e)
	}
	writeJSON(w, http.StatusOK, bestScoresResponse{Success: true, BestScores: out})
}

type playerStatsResponse struct {
	Success bool `json:"success"`
	analytics.PlayerStats
}

func (s *Server) handlePlayerStats(w http.ResponseWriter, r *http.Request) {
	playerID := mux.Vars(r)["playerId"]

	stats, err := s.Queries.PlayerStats(r.Context(), playerID)
	if err != nil {
		log.Printf("[Server] Player stats error: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to load player stats")
		return
	}
	writeJSON(w, http.StatusOK, playerStatsResponse{Success: true, PlayerStats: stats})
}

type overallStatsResponse struct {
	Success bool `json:"success"`
	analytics.OverallStats
}

func (s *Server) handleOverallStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Queries.OverallStats(r.Context())
	if err != nil {
		log.Printf("[Server] Overall stats error: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to load overall stats")
		return
	}
	writeJSON(w, http.StatusOK, overallStatsResponse{Success: true, OverallStats: stats})
}

type appInfoResponse struct {
	Success     bool   `json:"success"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

func (s *Server) handleAppInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	writeJSON(w, http.StatusOK, appInfoResponse{
		Success:     true,
		Name:        AppName,
		Version:     Version,
		Description: "Scores, leaderboards and stats for seven mini-games",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	status := "ok"
	if err := s.Store.Ping(r.Context()); err != nil {
		status = "db_error"
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintf(w, `{"status":%q,"error":%q}`, status, err.Error())
		return
	}
	fmt.Fprintf(w, `{"status":%q}`, status)
}
