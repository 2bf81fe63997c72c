package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"minigames/internal/games"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists records in a single SQLite file.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	// one writer; WAL lets readers proceed alongside it
	conn.SetMaxOpenConns(1)
	if _, err := conn.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}
	s := &SQLiteStore{db: conn, now: time.Now}
	if err := s.migrate(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	log.Printf("[DB] Opened SQLite store at %s\n", path)
	return s, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS game_records (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			game_type TEXT NOT NULL,
			player_id TEXT NOT NULL,
			player_name TEXT NOT NULL DEFAULT 'anonymous',
			score REAL NOT NULL CHECK (score >= 0),
			time_seconds REAL NOT NULL CHECK (time_seconds >= 0),
			difficulty TEXT NOT NULL DEFAULT 'normal',
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_game_records_type_score ON game_records(game_type, score)`,
		`CREATE INDEX IF NOT EXISTS idx_game_records_player ON game_records(player_id, seq)`,
	}
	for _, m := range migrations {
		if _, err := s.db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("sqlite migration failed: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Insert(ctx context.Context, rec GameRecord) (string, error) {
	rec.Normalize(s.now())
	if err := rec.Validate(); err != nil {
		return "", fmt.Errorf("inserting record: %w", err)
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO game_records (
		id, game_type, player_id, player_name, score, time_seconds, difficulty, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, string(rec.GameType), rec.PlayerID, rec.PlayerName,
		rec.Score, rec.Time, rec.Difficulty, rec.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return "", fmt.Errorf("inserting record: %w", err)
	}
	return rec.ID, nil
}

func (s *SQLiteStore) Query(ctx context.Context, f Filter) ([]GameRecord, error) {
	query, args := selectSQL(f, func(int) string { return "?" })
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var out []GameRecord
	for rows.Next() {
		var (
			r         GameRecord
			gt        string
			createdMs int64
		)
		if err := rows.Scan(&r.ID, &gt, &r.PlayerID, &r.PlayerName, &r.Score, &r.Time, &r.Difficulty, &createdMs); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		r.GameType = games.GameType(gt)
		r.CreatedAt = time.UnixMilli(createdMs).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Aggregate(ctx context.Context) (Summary, error) {
	rows, err := s.db.QueryContext(ctx, aggregateSQL)
	if err != nil {
		return Summary{}, fmt.Errorf("aggregating records: %w", err)
	}
	defer rows.Close()
	return scanGroups(rows)
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
