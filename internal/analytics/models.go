package analytics

import (
	"minigames/internal/db"
	"minigames/internal/games"
)

type GameStats struct {
	GameType   games.GameType `json:"gameType"`
	TotalGames int            `json:"totalGames"`
	AvgScore   float64        `json:"avgScore"`
	MinScore   float64        `json:"minScore"`
	MaxScore   float64        `json:"maxScore"`
	TotalTime  float64        `json:"totalTime"`
	BestScore  float64        `json:"bestScore"` // min for ascending games, max otherwise
	WorstScore float64        `json:"worstScore"`
}

type OverallStats struct {
	TotalGames int         `json:"totalGames"`
	TotalTime  float64     `json:"totalTime"`
	GameStats  []GameStats `json:"gameStats"`
}

type PlayerStats struct {
	PlayerID    string                     `json:"playerId"`
	TotalGames  int                        `json:"totalGames"`
	BestScores  map[games.GameType]float64 `json:"bestScores"`
	RecentGames []db.GameRecord            `json:"recentGames"` // most recent first
}
