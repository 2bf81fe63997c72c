// Package report delivers finished session results to a record store,
// either over HTTP or directly.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"minigames/internal/db"
	"minigames/internal/sessions"
	"net/http"
	"strings"
	"time"
)

// Identity is the player every report is filed under.
type Identity struct {
	PlayerID   string
	PlayerName string
}

type gameStatsPayload struct {
	GameType   string  `json:"gameType"`
	PlayerID   string  `json:"playerId"`
	PlayerName string  `json:"playerName"`
	Score      float64 `json:"score"`
	Time       float64 `json:"time"`
	Difficulty string  `json:"difficulty"`
}

// Client posts results to the stats API.
type Client struct {
	BaseURL  string // e.g. http://localhost:8080/api
	HTTP     *http.Client
	Identity Identity
}

func NewClient(baseURL string, id Identity) *Client {
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		HTTP:     &http.Client{Timeout: 10 * time.Second},
		Identity: id,
	}
}

func (c *Client) Report(ctx context.Context, r sessions.Result) error {
	body, err := json.Marshal(gameStatsPayload{
		GameType:   string(r.GameType),
		PlayerID:   c.Identity.PlayerID,
		PlayerName: c.Identity.PlayerName,
		Score:      r.Score,
		Time:       r.Time,
		Difficulty: r.Difficulty,
	})
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/game-stats", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("posting result: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(b, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("stats API returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("stats API returned %d", resp.StatusCode)
	}

	log.Printf("[Report] Saved %s score %.2f\n", r.GameType, r.Score)
	return nil
}

// StoreReporter writes results straight into a store, for offline play.
type StoreReporter struct {
	Store    db.Store
	Identity Identity
}

func (s StoreReporter) Report(ctx context.Context, r sessions.Result) error {
	_, err := s.Store.Insert(ctx, db.GameRecord{
		GameType:   r.GameType,
		PlayerID:   s.Identity.PlayerID,
		PlayerName: s.Identity.PlayerName,
		Score:      r.Score,
		Time:       r.Time,
		Difficulty: r.Difficulty,
	})
	if err != nil {
		return fmt.Errorf("storing result: %w", err)
	}
	return nil
}

// Multi reports to each reporter in turn and returns the first error.
// Every reporter runs even when an earlier one fails.
type Multi []sessions.Reporter

func (m Multi) Report(ctx context.Context, r sessions.Result) error {
	var first error
	for _, rep := range m {
		if err := rep.Report(ctx, r); err != nil && first == nil {
			first = err
		}
	}
	return first
}
