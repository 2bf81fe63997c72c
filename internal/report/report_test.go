package report

import (
	"context"
	"encoding/json"
	"errors"
	"minigames/internal/db"
	"minigames/internal/games"
	"minigames/internal/sessions"
	"net/http"
	"net/http/httptest"
	"testing"
)

var result = sessions.Result{GameType: games.Puzzle, Score: 67.14, Time: 96, Difficulty: "normal"}

func TestClient_PostsResult(t *testing.T) {
	var got gameStatsPayload
	var path string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		w.Write([]byte(`{"success":true}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL+"/api/", Identity{PlayerID: "p1", PlayerName: "Ann"})
	if err := c.Report(context.Background(), result); err != nil {
		t.Fatalf("Report() error: %v", err)
	}

	if path != "/api/game-stats" {
		t.Errorf("path = %q, want /api/game-stats", path)
	}
	want := gameStatsPayload{
		GameType:   "puzzle",
		PlayerID:   "p1",
		PlayerName: "Ann",
		Score:      67.14,
		Time:       96,
		Difficulty: "normal",
	}
	if got != want {
		t.Errorf("payload = %+v, want %+v", got, want)
	}
}

func TestClient_Non2xxIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"error":"unknown game type"}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, Identity{PlayerID: "p1"})
	err := c.Report(context.Background(), result)
	if err == nil {
		t.Fatal("Report() should fail on a 400")
	}
	if want := "stats API returned 400: unknown game type"; err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestClient_ServerDown(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c := NewClient(url, Identity{PlayerID: "p1"})
	if err := c.Report(context.Background(), result); err == nil {
		t.Error("Report() should fail when the server is unreachable")
	}
}

func TestStoreReporter(t *testing.T) {
	store := db.NewMemoryStore()
	rep := StoreReporter{Store: store, Identity: Identity{PlayerID: "p1"}}

	if err := rep.Report(context.Background(), result); err != nil {
		t.Fatalf("Report() error: %v", err)
	}

	records, err := store.Query(context.Background(), db.Filter{PlayerID: "p1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	if records[0].PlayerName != db.DefaultPlayerName {
		t.Errorf("PlayerName = %q, want %q", records[0].PlayerName, db.DefaultPlayerName)
	}
	if records[0].Score != 67.14 || records[0].GameType != games.Puzzle {
		t.Errorf("record = %+v", records[0])
	}
}

func TestMulti_RunsAllAndReturnsFirstError(t *testing.T) {
	var calls int
	boom := errors.New("boom")
	m := Multi{
		sessions.ReporterFunc(func(context.Context, sessions.Result) error { calls++; return boom }),
		sessions.ReporterFunc(func(context.Context, sessions.Result) error { calls++; return nil }),
	}

	if err := m.Report(context.Background(), result); !errors.Is(err, boom) {
		t.Errorf("error = %v, want %v", err, boom)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}
