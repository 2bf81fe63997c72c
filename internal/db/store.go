package db

import (
	"context"
	"errors"
	"fmt"
	"math"
	"minigames/internal/games"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidRecord = errors.New("invalid game record")

const (
	DefaultPlayerName = "anonymous"
	DefaultDifficulty = "normal"
)

// GameRecord is one completed play session. Records are append-only.
type GameRecord struct {
	ID         string         `json:"id"`
	GameType   games.GameType `json:"gameType"`
	PlayerID   string         `json:"playerId"`
	PlayerName string         `json:"playerName"`
	Score      float64        `json:"score"`
	Time       float64        `json:"time"`
	Difficulty string         `json:"difficulty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// Normalize fills defaults for optional fields.
func (r *GameRecord) Normalize(now time.Time) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if strings.TrimSpace(r.PlayerName) == "" {
		r.PlayerName = DefaultPlayerName
	}
	if strings.TrimSpace(r.Difficulty) == "" {
		r.Difficulty = DefaultDifficulty
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now.UTC()
	}
}

func (r GameRecord) Validate() error {
	if !r.GameType.Valid() {
		return fmt.Errorf("%w: unknown game type %q", ErrInvalidRecord, r.GameType)
	}
	if strings.TrimSpace(r.PlayerID) == "" {
		return fmt.Errorf("%w: player id is required", ErrInvalidRecord)
	}
	if r.Score < 0 || math.IsNaN(r.Score) || math.IsInf(r.Score, 0) {
		return fmt.Errorf("%w: score must be a non-negative number", ErrInvalidRecord)
	}
	if r.Time < 0 || math.IsNaN(r.Time) || math.IsInf(r.Time, 0) {
		return fmt.Errorf("%w: time must be a non-negative number", ErrInvalidRecord)
	}
	return nil
}

type Order int

const (
	OrderInserted Order = iota
	OrderScoreAsc
	OrderScoreDesc
)

// OrderFor maps a ranking direction to the score order that puts the best first.
func OrderFor(dir games.Direction) Order {
	if dir == games.Ascending {
		return OrderScoreAsc
	}
	return OrderScoreDesc
}

// Filter narrows a Query. Zero values match everything; Limit <= 0 means no limit.
type Filter struct {
	GameType games.GameType
	PlayerID string
	Order    Order
	Limit    int
}

type GroupSummary struct {
	GameType  games.GameType
	Count     int
	AvgScore  float64
	MinScore  float64
	MaxScore  float64
	TotalTime float64
}

type Summary struct {
	TotalGames int
	TotalTime  float64
	Groups     []GroupSummary
}

// Store is the persistence boundary for game records.
type Store interface {
	Insert(ctx context.Context, rec GameRecord) (string, error)
	Query(ctx context.Context, f Filter) ([]GameRecord, error)
	Aggregate(ctx context.Context) (Summary, error)
	Ping(ctx context.Context) error
	Close() error
}

// orderGroups sorts groups into games.All() order so every backend reports
// them the same way.
func orderGroups(groups []GroupSummary) {
	pos := make(map[games.GameType]int)
	for i, gt := range games.All() {
		pos[gt] = i
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return pos[groups[i].GameType] < pos[groups[j].GameType]
	})
}

func summarize(groups []GroupSummary) Summary {
	orderGroups(groups)
	s := Summary{Groups: groups}
	for _, g := range groups {
		s.TotalGames += g.Count
		s.TotalTime += g.TotalTime
	}
	return s
}

// selectSQL builds the record query shared by the SQL backends. placeholder
// renders the n-th bind parameter.
func selectSQL(f Filter, placeholder func(n int) string) (string, []any) {
	var (
		where []string
		args  []any
	)
	if f.GameType != "" {
		args = append(args, string(f.GameType))
		where = append(where, "game_type = "+placeholder(len(args)))
	}
	if f.PlayerID != "" {
		args = append(args, f.PlayerID)
		where = append(where, "player_id = "+placeholder(len(args)))
	}

	var b strings.Builder
	b.WriteString(`SELECT id, game_type, player_id, player_name, score, time_seconds, difficulty, created_at FROM game_records`)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	switch f.Order {
	case OrderScoreAsc:
		b.WriteString(" ORDER BY score ASC, seq ASC")
	case OrderScoreDesc:
		b.WriteString(" ORDER BY score DESC, seq ASC")
	default:
		b.WriteString(" ORDER BY seq ASC")
	}
	if f.Limit > 0 {
		args = append(args, f.Limit)
		b.WriteString(" LIMIT " + placeholder(len(args)))
	}
	return b.String(), args
}
