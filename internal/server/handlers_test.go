package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"minigames/internal/db"
	"minigames/internal/games"
	"minigames/internal/ranking"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
)

func newTestServer(t *testing.T, store db.Store) (*Server, *httptest.Server) {
	t.Helper()
	if store == nil {
		store = db.NewMemoryStore()
	}
	srv := New(store, games.DefaultPolicy(), 10)
	t.Cleanup(srv.Close)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func postStats(t *testing.T, baseURL, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(baseURL+"/api/game-stats", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func mustSave(t *testing.T, baseURL, body string) {
	t.Helper()
	resp := postStats(t, baseURL, body)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("save status = %d, want 200 (%s)", resp.StatusCode, b)
	}
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decoding %s: %v", url, err)
	}
	return resp.StatusCode
}

type failingStore struct{ err error }

func (f failingStore) Insert(context.Context, db.GameRecord) (string, error) { return "", f.err }
func (f failingStore) Query(context.Context, db.Filter) ([]db.GameRecord, error) {
	return nil, f.err
}
func (f failingStore) Aggregate(context.Context) (db.Summary, error) { return db.Summary{}, f.err }
func (f failingStore) Ping(context.Context) error                    { return f.err }
func (f failingStore) Close() error                                  { return nil }

func TestSaveStats_AppliesDefaults(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp := postStats(t, ts.URL, `{"gameType":"typing","playerId":"p1","score":53.65,"time":40}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body saveStatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !body.Success {
		t.Error("success = false, want true")
	}
	if body.Data.ID == "" {
		t.Error("saved record should have an id")
	}
	if body.Data.PlayerName != db.DefaultPlayerName {
		t.Errorf("playerName = %q, want %q", body.Data.PlayerName, db.DefaultPlayerName)
	}
	if body.Data.Difficulty != db.DefaultDifficulty {
		t.Errorf("difficulty = %q, want %q", body.Data.Difficulty, db.DefaultDifficulty)
	}
	if body.Data.Score != 53.65 {
		t.Errorf("score = %v, want 53.65", body.Data.Score)
	}
}

func TestSaveStats_ZeroScoreIsValid(t *testing.T) {
	_, ts := newTestServer(t, nil)
	mustSave(t, ts.URL, `{"gameType":"tetris","playerId":"p1","score":0}`)
}

func TestSaveStats_Rejects(t *testing.T) {
	_, ts := newTestServer(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"gameType":`},
		{"missing game type", `{"playerId":"p1","score":1}`},
		{"missing player", `{"gameType":"puzzle","score":1}`},
		{"missing score", `{"gameType":"puzzle","playerId":"p1"}`},
		{"unknown game", `{"gameType":"chess","playerId":"p1","score":1}`},
		{"negative score", `{"gameType":"puzzle","playerId":"p1","score":-1}`},
		{"negative time", `{"gameType":"puzzle","playerId":"p1","score":1,"time":-2}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postStats(t, ts.URL, tt.body)
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			var body errorResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Success || body.Error == "" {
				t.Errorf("body = %+v, want success=false with an error", body)
			}
		})
	}
}

func TestLeaderboard_OrderFollowsPolicy(t *testing.T) {
	_, ts := newTestServer(t, nil)

	for _, b := range []string{
		`{"gameType":"number-guess","playerId":"a","playerName":"Ann","score":5}`,
		`{"gameType":"number-guess","playerId":"b","playerName":"Bo","score":3}`,
		`{"gameType":"number-guess","playerId":"c","playerName":"Cy","score":8}`,
		`{"gameType":"typing","playerId":"a","score":40}`,
		`{"gameType":"typing","playerId":"b","score":90}`,
	} {
		mustSave(t, ts.URL, b)
	}

	var guess leaderboardResponse
	getJSON(t, ts.URL+"/api/leaderboard/number-guess", &guess)
	if len(guess.Leaderboard) != 3 {
		t.Fatalf("len = %d, want 3", len(guess.Leaderboard))
	}
	wantScores := []float64{3, 5, 8}
	for i, e := range guess.Leaderboard {
		if e.Score != wantScores[i] || e.Rank != i+1 {
			t.Errorf("entry %d = rank %d score %v, want rank %d score %v", i, e.Rank, e.Score, i+1, wantScores[i])
		}
	}
	if guess.Leaderboard[0].PlayerName != "Bo" {
		t.Errorf("top player = %q, want %q", guess.Leaderboard[0].PlayerName, "Bo")
	}

	var typing leaderboardResponse
	getJSON(t, ts.URL+"/api/leaderboard/typing?limit=1", &typing)
	if len(typing.Leaderboard) != 1 || typing.Leaderboard[0].Score != 90 {
		t.Errorf("typing leaderboard = %+v, want single entry scoring 90", typing.Leaderboard)
	}
}

func TestLeaderboard_LimitParam(t *testing.T) {
	srv := &Server{Limit: 10}
	tests := []struct {
		query string
		want  int
	}{
		{"", 10},
		{"limit=abc", 10},
		{"limit=0", 10},
		{"limit=25", 25},
		{"limit=1000", ranking.MaxLimit},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/api/leaderboard/typing?"+tt.query, nil)
		if got := srv.limitParam(r); got != tt.want {
			t.Errorf("limitParam(%q) = %d, want %d", tt.query, got, tt.want)
		}
	}
}

func TestLeaderboard_UnknownGame(t *testing.T) {
	_, ts := newTestServer(t, nil)

	var body errorResponse
	if status := getJSON(t, ts.URL+"/api/leaderboard/chess", &body); status != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", status)
	}
}

func TestBestScore_AbsentIsNull(t *testing.T) {
	_, ts := newTestServer(t, nil)

	var body map[string]any
	getJSON(t, ts.URL+"/api/best-score/reaction", &body)

	if body["found"] != false {
		t.Errorf("found = %v, want false", body["found"])
	}
	for _, key := range []string{"bestScore", "playerName", "playerId", "difficulty", "date"} {
		v, ok := body[key]
		if !ok {
			t.Errorf("%s missing from response", key)
		}
		if v != nil {
			t.Errorf("%s = %v, want null", key, v)
		}
	}
}

func TestBestScore_ZeroIsABestScore(t *testing.T) {
	_, ts := newTestServer(t, nil)
	mustSave(t, ts.URL, `{"gameType":"tetris","playerId":"p1","playerName":"Zed","score":0}`)

	var body map[string]any
	getJSON(t, ts.URL+"/api/best-score/tetris", &body)
	if body["found"] != true {
		t.Errorf("found = %v, want true", body["found"])
	}
	if body["bestScore"] != float64(0) {
		t.Errorf("bestScore = %v, want 0", body["bestScore"])
	}
	if body["playerName"] != "Zed" {
		t.Errorf("playerName = %v, want Zed", body["playerName"])
	}
}

func TestBestScores_CoversAllGames(t *testing.T) {
	_, ts := newTestServer(t, nil)
	mustSave(t, ts.URL, `{"gameType":"reaction","playerId":"p1","score":250}`)
	mustSave(t, ts.URL, `{"gameType":"reaction","playerId":"p2","score":210}`)

	var body bestScoresResponse
	getJSON(t, ts.URL+"/api/best-scores", &body)

	if len(body.BestScores) != len(games.All()) {
		t.Fatalf("len(bestScores) = %d, want %d", len(body.BestScores), len(games.All()))
	}
	reaction := body.BestScores[games.Reaction]
	if !reaction.Found || reaction.BestScore == nil || *reaction.BestScore != 210 {
		t.Errorf("reaction best = %+v, want 210", reaction)
	}
	if body.BestScores[games.Puzzle].Found {
		t.Error("puzzle should have no best score")
	}
}

func TestPlayerStats(t *testing.T) {
	_, ts := newTestServer(t, nil)
	mustSave(t, ts.URL, `{"gameType":"puzzle","playerId":"p1","score":40}`)
	mustSave(t, ts.URL, `{"gameType":"puzzle","playerId":"p1","score":70}`)
	mustSave(t, ts.URL, `{"gameType":"puzzle","playerId":"p2","score":99}`)

	var body playerStatsResponse
	getJSON(t, ts.URL+"/api/player-stats/p1", &body)

	if body.PlayerID != "p1" {
		t.Errorf("playerId = %q, want p1", body.PlayerID)
	}
	if body.TotalGames != 2 {
		t.Errorf("totalGames = %d, want 2", body.TotalGames)
	}
	if body.BestScores[games.Puzzle] != 70 {
		t.Errorf("best puzzle = %v, want 70", body.BestScores[games.Puzzle])
	}
	if len(body.RecentGames) != 2 || body.RecentGames[0].Score != 70 {
		t.Errorf("recentGames = %+v, want most recent first", body.RecentGames)
	}
}

func TestOverallStats(t *testing.T) {
	_, ts := newTestServer(t, nil)
	mustSave(t, ts.URL, `{"gameType":"number-guess","playerId":"p1","score":4,"time":10}`)
	mustSave(t, ts.URL, `{"gameType":"number-guess","playerId":"p2","score":6,"time":20}`)

	var body overallStatsResponse
	getJSON(t, ts.URL+"/api/overall-stats", &body)

	if body.TotalGames != 2 || body.TotalTime != 30 {
		t.Errorf("totals = %d/%v, want 2/30", body.TotalGames, body.TotalTime)
	}
	if len(body.GameStats) != 1 {
		t.Fatalf("len(gameStats) = %d, want 1", len(body.GameStats))
	}
	gs := body.GameStats[0]
	if gs.BestScore != 4 || gs.WorstScore != 6 || gs.AvgScore != 5 {
		t.Errorf("gameStats = %+v, want best 4 worst 6 avg 5", gs)
	}
}

func TestStorageErrors_Return500(t *testing.T) {
	_, ts := newTestServer(t, failingStore{err: errors.New("connection refused")})

	for _, path := range []string{
		"/api/leaderboard/typing",
		"/api/best-score/typing",
		"/api/best-scores",
		"/api/player-stats/p1",
		"/api/overall-stats",
	} {
		var body errorResponse
		if status := getJSON(t, ts.URL+path, &body); status != http.StatusInternalServerError {
			t.Errorf("%s status = %d, want 500", path, status)
		}
		if body.Success {
			t.Errorf("%s success = true, want false", path)
		}
	}

	resp := postStats(t, ts.URL, `{"gameType":"typing","playerId":"p1","score":1}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("save status = %d, want 500", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t, nil)

	var body map[string]string
	if status := getJSON(t, ts.URL+"/health", &body); status != http.StatusOK {
		t.Errorf("status = %d, want 200", status)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

func TestHealth_StoreDown(t *testing.T) {
	_, ts := newTestServer(t, failingStore{err: errors.New("down")})

	var body map[string]string
	if status := getJSON(t, ts.URL+"/health", &body); status != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", status)
	}
	if body["status"] != "db_error" {
		t.Errorf("status = %q, want db_error", body["status"])
	}
}

func TestAppInfo_NoCache(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/api/app-info")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Cache-Control"); got != "no-cache, no-store, must-revalidate" {
		t.Errorf("Cache-Control = %q", got)
	}
	var body appInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Name != AppName || body.Version != Version {
		t.Errorf("app info = %+v", body)
	}
}

func TestCORS_Preflight(t *testing.T) {
	_, ts := newTestServer(t, nil)

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/game-stats", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
}

func TestMetrics_CountsSavedRecords(t *testing.T) {
	_, ts := newTestServer(t, nil)
	mustSave(t, ts.URL, `{"gameType":"color-match","playerId":"p1","score":93.5}`)

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	text := string(b)

	for _, want := range []string{
		`minigames_records_saved_total{game_type="color-match"} 1`,
		"minigames_http_request_duration_seconds_count",
		`minigames_live_clients 0`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestEvents_StreamsSavedRecord(t *testing.T) {
	srv, ts := newTestServer(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("Content-Type = %q, want text/event-stream", got)
	}

	waitFor(t, func() bool {
		srv.Broadcaster.Mu.Lock()
		defer srv.Broadcaster.Mu.Unlock()
		return len(srv.Broadcaster.Clients) == 1
	})
	mustSave(t, ts.URL, `{"gameType":"puzzle","playerId":"p9","score":67.14}`)

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	if err != nil {
		t.Fatal(err)
	}
	if line != "event: record\n" {
		t.Fatalf("event line = %q", line)
	}
	data, err := reader.ReadString('\n')
	if err != nil {
		t.Fatal(err)
	}
	var rec db.GameRecord
	if err := json.Unmarshal([]byte(strings.TrimPrefix(strings.TrimSpace(data), "data: ")), &rec); err != nil {
		t.Fatalf("decoding event data %q: %v", data, err)
	}
	if rec.PlayerID != "p9" || rec.Score != 67.14 {
		t.Errorf("streamed record = %+v", rec)
	}
}

func TestLive_WebsocketReceivesRecord(t *testing.T) {
	srv, ts := newTestServer(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/api/live", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.CloseNow()

	// first message is the viewer count sent on registration
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatal(err)
	}
	var hello map[string]any
	if err := json.Unmarshal(data, &hello); err != nil {
		t.Fatal(err)
	}
	if hello["t"] != "viewers" || hello["viewers"] != float64(1) {
		t.Errorf("first message = %v, want viewers=1", hello)
	}
	if srv.Hub.Count() != 1 {
		t.Errorf("hub count = %d, want 1", srv.Hub.Count())
	}

	mustSave(t, ts.URL, `{"gameType":"tetris","playerId":"p3","score":1200}`)

	_, data, err = conn.Read(ctx)
	if err != nil {
		t.Fatal(err)
	}
	var msg struct {
		Type   string        `json:"t"`
		Record db.GameRecord `json:"record"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != "record" || msg.Record.Score != 1200 {
		t.Errorf("live message = %+v, want tetris record", msg)
	}
}

func TestClose_StopsLiveFeedRelay(t *testing.T) {
	srv := New(db.NewMemoryStore(), games.DefaultPolicy(), 10)

	srv.Close()

	select {
	case <-srv.Broadcaster.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("broadcaster still running after Close")
	}
	if srv.Bus.PublishRecord(db.GameRecord{}) {
		t.Error("publishing after Close should be dropped")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
