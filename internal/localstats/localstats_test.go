package localstats

import (
	"context"
	"minigames/internal/db"
	"minigames/internal/games"
	"minigames/internal/sessions"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (*Repository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "stats.json")
	return New(path, games.DefaultPolicy()), path
}

func TestLoad_MissingFileStartsFresh(t *testing.T) {
	repo, path := newRepo(t)

	require.NoError(t, repo.Load())
	assert.NotEmpty(t, repo.PlayerID())
	assert.Equal(t, db.DefaultPlayerName, repo.PlayerName())
	assert.Equal(t, GameStat{}, repo.Stat(games.Typing))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "Load should not create the file")
}

func TestSaveLoad_KeepsPlayerIDAndStats(t *testing.T) {
	repo, path := newRepo(t)
	require.NoError(t, repo.Load())
	repo.SetPlayerName("Ann")
	repo.Record(games.Reaction, 240)
	require.NoError(t, repo.Save())

	again := New(path, games.DefaultPolicy())
	require.NoError(t, again.Load())

	assert.Equal(t, repo.PlayerID(), again.PlayerID())
	assert.Equal(t, "Ann", again.PlayerName())
	stat := again.Stat(games.Reaction)
	assert.Equal(t, 1, stat.Games)
	require.NotNil(t, stat.Best)
	assert.Equal(t, 240.0, *stat.Best)
}

func TestRecord_FollowsRankingDirection(t *testing.T) {
	repo, _ := newRepo(t)

	assert.True(t, repo.Record(games.NumberGuess, 6))
	assert.True(t, repo.Record(games.NumberGuess, 4), "fewer guesses is better")
	assert.False(t, repo.Record(games.NumberGuess, 9))

	assert.True(t, repo.Record(games.Typing, 40))
	assert.True(t, repo.Record(games.Typing, 55), "higher typing score is better")
	assert.False(t, repo.Record(games.Typing, 10))

	assert.Equal(t, 4.0, *repo.Stat(games.NumberGuess).Best)
	assert.Equal(t, 55.0, *repo.Stat(games.Typing).Best)
	assert.Equal(t, 3, repo.Stat(games.Typing).Games)
}

func TestRecord_ZeroIsARealBest(t *testing.T) {
	repo, _ := newRepo(t)

	assert.True(t, repo.Record(games.Tetris, 0))
	best := repo.Stat(games.Tetris).Best
	require.NotNil(t, best)
	assert.Equal(t, 0.0, *best)

	assert.True(t, repo.Record(games.Tetris, 100))
}

func TestSetPlayerName_BlankFallsBack(t *testing.T) {
	repo, _ := newRepo(t)
	repo.SetPlayerName("  ")
	assert.Equal(t, db.DefaultPlayerName, repo.PlayerName())
}

func TestLoad_DropsUnknownGames(t *testing.T) {
	repo, path := newRepo(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`{
		"playerId": "p-1",
		"playerName": "",
		"games": {"chess": {"games": 3, "best": 1}, "puzzle": {"games": 2, "best": 67.14}}
	}`), 0o644))

	require.NoError(t, repo.Load())
	assert.Equal(t, "p-1", repo.PlayerID())
	assert.Equal(t, db.DefaultPlayerName, repo.PlayerName())
	assert.Equal(t, GameStat{}, repo.Stat(games.GameType("chess")))
	assert.Equal(t, 2, repo.Stat(games.Puzzle).Games)
}

func TestLoad_CorruptFile(t *testing.T) {
	repo, path := newRepo(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	assert.Error(t, repo.Load())
}

func TestReporter_RecordsAndSaves(t *testing.T) {
	repo, path := newRepo(t)

	err := repo.Reporter().Report(context.Background(), sessions.Result{GameType: games.ColorMatch, Score: 93.5})
	require.NoError(t, err)

	again := New(path, games.DefaultPolicy())
	require.NoError(t, again.Load())
	assert.Equal(t, 1, again.Stat(games.ColorMatch).Games)
	assert.Equal(t, repo.PlayerID(), again.PlayerID())
}
