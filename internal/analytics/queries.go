package analytics

import (
	"context"
	"fmt"
	"minigames/internal/db"
	"minigames/internal/games"
	"minigames/internal/ranking"
)

// Queries answers leaderboard and stats questions against a record store.
type Queries struct {
	Store  db.Store
	Policy games.Policy
}

func NewQueries(store db.Store, policy games.Policy) *Queries {
	return &Queries{Store: store, Policy: policy}
}

func (q *Queries) Leaderboard(ctx context.Context, gt games.GameType, limit int) ([]ranking.Entry, error) {
	if limit <= 0 {
		limit = ranking.DefaultLimit
	}
	records, err := q.Store.Query(ctx, db.Filter{
		GameType: gt,
		Order:    db.OrderFor(q.Policy.Direction(gt)),
		Limit:    limit,
	})
	if err != nil {
		return nil, fmt.Errorf("getting leaderboard: %w", err)
	}
	return ranking.Rank(records, gt, limit, q.Policy), nil
}

func (q *Queries) BestScore(ctx context.Context, gt games.GameType) (ranking.Entry, bool, error) {
	top, err := q.Leaderboard(ctx, gt, 1)
	if err != nil {
		return ranking.Entry{}, false, err
	}
	if len(top) == 0 {
		return ranking.Entry{}, false, nil
	}
	return top[0], true, nil
}

// BestScores returns the best entry per game type; absent games map to nil.
func (q *Queries) BestScores(ctx context.Context) (map[games.GameType]*ranking.Entry, error) {
	out := make(map[games.GameType]*ranking.Entry, len(games.All()))
	for _, gt := range games.All() {
		best, ok, err := q.BestScore(ctx, gt)
		if err != nil {
			return nil, err
		}
		if ok {
			out[gt] = &best
		} else {
			out[gt] = nil
		}
	}
	return out, nil
}

func (q *Queries) PlayerStats(ctx context.Context, playerID string) (PlayerStats, error) {
	records, err := q.Store.Query(ctx, db.Filter{PlayerID: playerID})
	if err != nil {
		return PlayerStats{}, fmt.Errorf("getting player stats: %w", err)
	}
	return PlayerSummary(records, playerID, q.Policy), nil
}

func (q *Queries) OverallStats(ctx context.Context) (OverallStats, error) {
	sum, err := q.Store.Aggregate(ctx)
	if err != nil {
		return OverallStats{}, fmt.Errorf("getting overall stats: %w", err)
	}
	return FromSummary(sum, q.Policy), nil
}
