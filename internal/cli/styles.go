package cli

import (
	"fmt"
	"io"
	"minigames/internal/analytics"
	"minigames/internal/games"
	"minigames/internal/localstats"
	"minigames/internal/ranking"
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	goldStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	goodStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	badStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func renderLeaderboard(w io.Writer, gt games.GameType, entries []ranking.Entry) {
	fmt.Fprintln(w, titleStyle.Render("Leaderboard: "+gt.String()))
	if len(entries) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No records yet."))
		return
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-5s %-20s %10s %10s  %s", "RANK", "PLAYER", "SCORE", "TIME", "DATE")))
	for _, e := range entries {
		line := fmt.Sprintf("%-5d %-20s %10s %10s  %s",
			e.Rank, e.PlayerName, formatScore(e.Score), formatScore(e.Time), e.CreatedAt.Local().Format("2006-01-02 15:04"))
		if e.Rank == 1 {
			line = goldStyle.Render(line)
		}
		fmt.Fprintln(w, line)
	}
}

func renderLocalStats(w io.Writer, repo *localstats.Repository) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Player %s (%s)", repo.PlayerName(), repo.PlayerID())))
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-14s %6s %10s", "GAME", "PLAYED", "BEST")))
	for _, gt := range games.All() {
		s := repo.Stat(gt)
		best := mutedStyle.Render(fmt.Sprintf("%10s", "-"))
		if s.Best != nil {
			best = fmt.Sprintf("%10s", formatScore(*s.Best))
		}
		fmt.Fprintf(w, "%-14s %6d %s\n", gt, s.Games, best)
	}
}

func renderOverallStats(w io.Writer, stats analytics.OverallStats) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("All players: %d games, %s seconds played", stats.TotalGames, formatScore(stats.TotalTime))))
	if len(stats.GameStats) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No records yet."))
		return
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-14s %6s %10s %10s %10s", "GAME", "PLAYED", "AVG", "BEST", "WORST")))
	for _, gs := range stats.GameStats {
		fmt.Fprintf(w, "%-14s %6d %10.2f %10s %10s\n",
			gs.GameType, gs.TotalGames, gs.AvgScore, formatScore(gs.BestScore), formatScore(gs.WorstScore))
	}
}
