package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port             string
	DatabaseURL      string
	StoreDriver      string // memory, postgres or sqlite
	SQLitePath       string
	LeaderboardLimit int
	PolicyFile       string
	AppEnv           string
	APIBaseURL       string
	LocalStatsPath   string
}

// Load reads configuration from the environment, after loading a .env file
// outside production.
func Load() (Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		// a missing .env file is normal
		_ = godotenv.Load()
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8080")
	v.SetDefault("SQLITE_PATH", "minigames.db")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("API_BASE_URL", "http://localhost:8080/api")
	v.SetDefault("LOCAL_STATS_PATH", defaultLocalStatsPath())

	cfg := Config{
		Port:             v.GetString("PORT"),
		DatabaseURL:      v.GetString("DATABASE_URL"),
		StoreDriver:      strings.ToLower(v.GetString("STORE_DRIVER")),
		SQLitePath:       v.GetString("SQLITE_PATH"),
		LeaderboardLimit: getInt(v, "LEADERBOARD_LIMIT", 10),
		PolicyFile:       v.GetString("POLICY_FILE"),
		AppEnv:           v.GetString("APP_ENV"),
		APIBaseURL:       strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
		LocalStatsPath:   v.GetString("LOCAL_STATS_PATH"),
	}

	if cfg.StoreDriver == "" {
		cfg.StoreDriver = "memory"
		if cfg.DatabaseURL != "" {
			cfg.StoreDriver = "postgres"
		}
	}
	switch cfg.StoreDriver {
	case "memory", "sqlite":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return cfg, fmt.Errorf("STORE_DRIVER=postgres requires DATABASE_URL")
		}
	default:
		return cfg, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	return cfg, nil
}

func getInt(v *viper.Viper, key string, fallback int) int {
	if s := v.GetString(key); s != "" {
		if i, err := strconv.Atoi(s); err == nil && i > 0 {
			return i
		}
	}
	return fallback
}

func defaultLocalStatsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".minigames-stats.json"
	}
	return filepath.Join(home, ".minigames", "stats.json")
}
