package analytics

import (
	"log"
	"minigames/internal/db"
	"minigames/internal/games"
)

const RecentGamesLimit = 5

// Overall rolls up every record by game type.
func Overall(records []db.GameRecord, policy games.Policy) OverallStats {
	byType := make(map[games.GameType]*db.GroupSummary)
	for _, r := range records {
		g, ok := byType[r.GameType]
		if !ok {
			g = &db.GroupSummary{GameType: r.GameType, MinScore: r.Score, MaxScore: r.Score}
			byType[r.GameType] = g
		}
		g.Count++
		g.AvgScore += r.Score
		g.TotalTime += r.Time
		if r.Score < g.MinScore {
			g.MinScore = r.Score
		}
		if r.Score > g.MaxScore {
			g.MaxScore = r.Score
		}
	}

	var sum db.Summary
	for _, gt := range games.All() {
		g, ok := byType[gt]
		if !ok {
			continue
		}
		g.AvgScore /= float64(g.Count)
		sum.Groups = append(sum.Groups, *g)
		sum.TotalGames += g.Count
		sum.TotalTime += g.TotalTime
	}
	return FromSummary(sum, policy)
}

// FromSummary resolves best and worst for a store-computed rollup. Rows with
// an unknown game type are left out of the totals as well as the groups.
func FromSummary(sum db.Summary, policy games.Policy) OverallStats {
	out := OverallStats{
		GameStats: make([]GameStats, 0, len(sum.Groups)),
	}
	for _, g := range sum.Groups {
		if !g.GameType.Valid() {
			log.Printf("[Analytics] Skipping %d records with unknown game type %q\n", g.Count, g.GameType)
			continue
		}
		out.TotalGames += g.Count
		out.TotalTime += g.TotalTime
		gs := GameStats{
			GameType:   g.GameType,
			TotalGames: g.Count,
			AvgScore:   g.AvgScore,
			MinScore:   g.MinScore,
			MaxScore:   g.MaxScore,
			TotalTime:  g.TotalTime,
			BestScore:  g.MaxScore,
			WorstScore: g.MinScore,
		}
		if policy.Direction(g.GameType) == games.Ascending {
			gs.BestScore, gs.WorstScore = g.MinScore, g.MaxScore
		}
		out.GameStats = append(out.GameStats, gs)
	}
	return out
}

// PlayerSummary computes one player's stats from records in insertion order.
func PlayerSummary(records []db.GameRecord, playerID string, policy games.Policy) PlayerStats {
	stats := PlayerStats{
		PlayerID:   playerID,
		BestScores: make(map[games.GameType]float64),
	}

	var mine []db.GameRecord
	for _, r := range records {
		if r.PlayerID != playerID {
			continue
		}
		mine = append(mine, r)
		best, ok := stats.BestScores[r.GameType]
		if !ok || policy.Better(r.GameType, r.Score, best) {
			stats.BestScores[r.GameType] = r.Score
		}
	}
	stats.TotalGames = len(mine)

	start := len(mine) - RecentGamesLimit
	if start < 0 {
		start = 0
	}
	stats.RecentGames = make([]db.GameRecord, 0, len(mine)-start)
	for i := len(mine) - 1; i >= start; i-- {
		stats.RecentGames = append(stats.RecentGames, mine[i])
	}
	return stats
}
