// Package cli holds the minigames command tree.
package cli

import (
	"context"
	"fmt"
	"minigames/internal/config"
	"minigames/internal/db"
	"minigames/internal/games"
	"minigames/internal/server"
	"os"

	"github.com/spf13/cobra"
)

// App carries what the commands need from the outside world.
type App struct {
	LoadConfig func() (config.Config, error)
}

func Execute() {
	root := NewRootCmd(&App{LoadConfig: config.Load})
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "minigames",
		Short: "Scores, leaderboards and stats for seven mini-games",
		Long: `minigames runs the stats API for the mini-game collection and lets you
play the turn-based games from a terminal.

Games: number-guess, memory-card, puzzle, typing, color-match, reaction, tetris.`,
		SilenceUsage: true,
	}
	root.AddCommand(
		newServeCmd(app),
		newLeaderboardCmd(app),
		newStatsCmd(app),
		newPlayCmd(app),
	)
	return root
}

func newServeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the stats HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}
			return server.Run(cfg)
		},
	}
}

func loadPolicy(cfg config.Config) (games.Policy, error) {
	if cfg.PolicyFile == "" {
		return games.DefaultPolicy(), nil
	}
	return games.LoadPolicyFile(cfg.PolicyFile)
}

// openLocalStore opens the store the terminal commands read and write.
// An in-memory store would always be empty here, so that driver maps to the
// SQLite file instead.
func openLocalStore(ctx context.Context, cfg config.Config) (db.Store, error) {
	driver := cfg.StoreDriver
	if driver == db.DriverMemory {
		driver = db.DriverSQLite
	}
	store, err := db.Open(ctx, driver, cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("opening record store: %w", err)
	}
	return store, nil
}
