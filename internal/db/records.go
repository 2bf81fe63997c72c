package db

import (
	"context"
	"database/sql"
	"fmt"
	"minigames/internal/games"
	"strconv"
)

func pgPlaceholder(n int) string {
	return "$" + strconv.Itoa(n)
}

func (d *PostgresStore) Insert(ctx context.Context, rec GameRecord) (string, error) {
	rec.Normalize(d.now())
	if err := rec.Validate(); err != nil {
		return "", fmt.Errorf("inserting record: %w", err)
	}

	var id string
	err := d.conn.QueryRowContext(ctx, `
		INSERT INTO game_records (id, game_type, player_id, player_name, score, time_seconds, difficulty, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, rec.ID, string(rec.GameType), rec.PlayerID, rec.PlayerName, rec.Score, rec.Time, rec.Difficulty, rec.CreatedAt).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("inserting record: %w", err)
	}
	return id, nil
}

func (d *PostgresStore) Query(ctx context.Context, f Filter) ([]GameRecord, error) {
	query, args := selectSQL(f, pgPlaceholder)
	rows, err := d.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var out []GameRecord
	for rows.Next() {
		var (
			r  GameRecord
			gt string
		)
		if err := rows.Scan(&r.ID, &gt, &r.PlayerID, &r.PlayerName, &r.Score, &r.Time, &r.Difficulty, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		r.GameType = games.GameType(gt)
		out = append(out, r)
	}
	return out, rows.Err()
}

const aggregateSQL = `
	SELECT game_type, COUNT(*), AVG(score), MIN(score), MAX(score), COALESCE(SUM(time_seconds), 0)
	FROM game_records
	GROUP BY game_type`

func (d *PostgresStore) Aggregate(ctx context.Context) (Summary, error) {
	rows, err := d.conn.QueryContext(ctx, aggregateSQL)
	if err != nil {
		return Summary{}, fmt.Errorf("aggregating records: %w", err)
	}
	defer rows.Close()
	return scanGroups(rows)
}

func scanGroups(rows *sql.Rows) (Summary, error) {
	var groups []GroupSummary
	for rows.Next() {
		var (
			g  GroupSummary
			gt string
		)
		if err := rows.Scan(&gt, &g.Count, &g.AvgScore, &g.MinScore, &g.MaxScore, &g.TotalTime); err != nil {
			return Summary{}, fmt.Errorf("scanning group: %w", err)
		}
		g.GameType = games.GameType(gt)
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return Summary{}, err
	}
	return summarize(groups), nil
}
