// Package localstats keeps a player's identity and personal bests in a small
// JSON file so terminal play remembers them between runs.
package localstats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"minigames/internal/db"
	"minigames/internal/games"
	"minigames/internal/sessions"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type GameStat struct {
	Games int      `json:"games"`
	Best  *float64 `json:"best"` // nil until the first game
}

type fileData struct {
	PlayerID   string                       `json:"playerId"`
	PlayerName string                       `json:"playerName"`
	Games      map[games.GameType]*GameStat `json:"games"`
}

// Repository is not safe for concurrent use.
type Repository struct {
	path   string
	policy games.Policy
	data   fileData
}

func New(path string, policy games.Policy) *Repository {
	r := &Repository{path: path, policy: policy}
	r.reset()
	return r
}

func (r *Repository) reset() {
	r.data = fileData{
		PlayerID:   uuid.New().String(),
		PlayerName: db.DefaultPlayerName,
		Games:      make(map[games.GameType]*GameStat),
	}
}

// Load reads the stats file. A missing file leaves fresh stats with a newly
// generated player id; nothing is written until Save.
func (r *Repository) Load() error {
	b, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading local stats: %w", err)
	}

	var data fileData
	if err := json.Unmarshal(b, &data); err != nil {
		return fmt.Errorf("parsing local stats: %w", err)
	}
	if data.PlayerID == "" {
		data.PlayerID = r.data.PlayerID
	}
	if strings.TrimSpace(data.PlayerName) == "" {
		data.PlayerName = db.DefaultPlayerName
	}
	if data.Games == nil {
		data.Games = make(map[games.GameType]*GameStat)
	}
	for gt, s := range data.Games {
		if !gt.Valid() || s == nil {
			delete(data.Games, gt)
		}
	}
	r.data = data
	return nil
}

// Save writes the stats file atomically.
func (r *Repository) Save() error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("creating stats directory: %w", err)
	}
	b, err := json.MarshalIndent(r.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding local stats: %w", err)
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("writing local stats: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replacing local stats: %w", err)
	}
	return nil
}

func (r *Repository) PlayerID() string   { return r.data.PlayerID }
func (r *Repository) PlayerName() string { return r.data.PlayerName }

func (r *Repository) SetPlayerName(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = db.DefaultPlayerName
	}
	r.data.PlayerName = name
}

// Record counts a finished game and reports whether it set a new personal best.
func (r *Repository) Record(gt games.GameType, score float64) bool {
	s, ok := r.data.Games[gt]
	if !ok {
		s = &GameStat{}
		r.data.Games[gt] = s
	}
	s.Games++
	if s.Best == nil || r.policy.Better(gt, score, *s.Best) {
		best := score
		s.Best = &best
		return true
	}
	return false
}

// Stat returns a copy of the stats for gt.
func (r *Repository) Stat(gt games.GameType) GameStat {
	s, ok := r.data.Games[gt]
	if !ok {
		return GameStat{}
	}
	out := GameStat{Games: s.Games}
	if s.Best != nil {
		best := *s.Best
		out.Best = &best
	}
	return out
}

// Reporter records each result and saves the file.
func (r *Repository) Reporter() sessions.Reporter {
	return sessions.ReporterFunc(func(_ context.Context, res sessions.Result) error {
		r.Record(res.GameType, res.Score)
		return r.Save()
	})
}
