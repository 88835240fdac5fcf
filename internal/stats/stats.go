// Package stats persists finished game results to SQLite and answers
// aggregate queries over them: games played, win rates and per-round
// scoring averages, grouped by opponent.
package stats

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS game_results (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    player TEXT NOT NULL,
    opponent TEXT NOT NULL,
    won INTEGER NOT NULL,
    rounds INTEGER NOT NULL,
    points_pegged INTEGER NOT NULL,
    hand_points INTEGER NOT NULL,
    crib_points INTEGER NOT NULL,
    created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_game_results_player ON game_results(player);
`

// Result is one finished game from the recorded player's point of view.
// Point columns are totals across the game's rounds; averages are computed
// at query time.
type Result struct {
	Player       string
	Opponent     string
	Won          bool
	Rounds       int
	PointsPegged int
	HandPoints   int
	CribPoints   int
	CreatedAt    time.Time
}

// OpponentSummary aggregates a player's results against one opponent type.
type OpponentSummary struct {
	Opponent        string
	Games           int
	Wins            int
	WinRate         float64
	AvgPointsPegged float64
	AvgHandPoints   float64
	AvgCribPoints   float64
}

// Store provides SQLite-backed persistence for game results.
type Store struct {
	sqlDB *sql.DB
}

// Open opens and migrates a results store at the given path. ":memory:" is
// accepted for throwaway stores.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// RecordResult appends one finished game.
func (s *Store) RecordResult(ctx context.Context, r Result) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	r.Player = strings.TrimSpace(r.Player)
	if r.Player == "" {
		return fmt.Errorf("player is required")
	}
	r.Opponent = strings.TrimSpace(r.Opponent)
	if r.Opponent == "" {
		return fmt.Errorf("opponent is required")
	}
	if r.Rounds <= 0 {
		return fmt.Errorf("rounds must be positive, got %d", r.Rounds)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	won := 0
	if r.Won {
		won = 1
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO game_results (
		    player, opponent, won, rounds, points_pegged, hand_points, crib_points, created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Player, r.Opponent, won, r.Rounds,
		r.PointsPegged, r.HandPoints, r.CribPoints,
		r.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("record result: %w", err)
	}
	return nil
}

// PlayerSummary aggregates a player's results grouped by opponent, sorted by
// opponent name. Per-round averages divide each game's point totals by its
// round count before averaging across games.
func (s *Store) PlayerSummary(ctx context.Context, player string) ([]OpponentSummary, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	player = strings.TrimSpace(player)
	if player == "" {
		return nil, fmt.Errorf("player is required")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT opponent,
		        COUNT(*),
		        SUM(won),
		        AVG(CAST(points_pegged AS REAL) / rounds),
		        AVG(CAST(hand_points AS REAL) / rounds),
		        AVG(CAST(crib_points AS REAL) / rounds)
		 FROM game_results
		 WHERE player = ?
		 GROUP BY opponent
		 ORDER BY opponent`,
		player,
	)
	if err != nil {
		return nil, fmt.Errorf("query player summary: %w", err)
	}
	defer rows.Close()

	var out []OpponentSummary
	for rows.Next() {
		var sum OpponentSummary
		if err := rows.Scan(
			&sum.Opponent, &sum.Games, &sum.Wins,
			&sum.AvgPointsPegged, &sum.AvgHandPoints, &sum.AvgCribPoints,
		); err != nil {
			return nil, fmt.Errorf("scan player summary: %w", err)
		}
		if sum.Games > 0 {
			sum.WinRate = float64(sum.Wins) / float64(sum.Games)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate player summary: %w", err)
	}
	return out, nil
}

// RecentResults returns the player's latest games, newest first.
func (s *Store) RecentResults(ctx context.Context, player string, limit int) ([]Result, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT player, opponent, won, rounds, points_pegged, hand_points, crib_points, created_at
		 FROM game_results
		 WHERE player = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		strings.TrimSpace(player), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent results: %w", err)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var r Result
		var won int64
		var createdAt int64
		if err := rows.Scan(
			&r.Player, &r.Opponent, &won, &r.Rounds,
			&r.PointsPegged, &r.HandPoints, &r.CribPoints, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan recent result: %w", err)
		}
		r.Won = won != 0
		r.CreatedAt = time.UnixMilli(createdAt).UTC()
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent results: %w", err)
	}
	return out, nil
}
