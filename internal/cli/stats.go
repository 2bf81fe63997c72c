package cli

import (
	"minigames/internal/analytics"
	"minigames/internal/games"
	"minigames/internal/localstats"
	"minigames/internal/ranking"

	"github.com/spf13/cobra"
)

func newLeaderboardCmd(app *App) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "leaderboard <game>",
		Short: "Show the top scores for a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gt, err := games.Parse(args[0])
			if err != nil {
				return err
			}
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}
			policy, err := loadPolicy(cfg)
			if err != nil {
				return err
			}
			store, err := openLocalStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := analytics.NewQueries(store, policy).Leaderboard(cmd.Context(), gt, ranking.ClampLimit(limit, cfg.LeaderboardLimit))
			if err != nil {
				return err
			}
			renderLeaderboard(cmd.OutOrStdout(), gt, entries)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of entries (defaults to LEADERBOARD_LIMIT)")
	return cmd
}

func newStatsCmd(app *App) *cobra.Command {
	var overall bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show your personal bests, or everyone's totals with --overall",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}
			policy, err := loadPolicy(cfg)
			if err != nil {
				return err
			}

			if !overall {
				repo := localstats.New(cfg.LocalStatsPath, policy)
				if err := repo.Load(); err != nil {
					return err
				}
				renderLocalStats(cmd.OutOrStdout(), repo)
				return nil
			}

			store, err := openLocalStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			stats, err := analytics.NewQueries(store, policy).OverallStats(cmd.Context())
			if err != nil {
				return err
			}
			renderOverallStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}
	cmd.Flags().BoolVar(&overall, "overall", false, "Show totals for every player from the record store")
	return cmd
}

