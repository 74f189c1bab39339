package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/medusa-dj/djrogue/internal/game"
)

// SQLiteStore persists each session as one JSON row. Turn and score are copied
// into their own columns so finished games can be queried without decoding.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("session: open db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("session: enable WAL: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// NewSQLiteStoreFromDB wraps an existing sql.DB.
func NewSQLiteStoreFromDB(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			state_json TEXT NOT NULL,
			turn INTEGER NOT NULL DEFAULT 0,
			score INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_score ON sessions(score)`,
	}
	for _, m := range migrations {
		if _, err := s.db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("session: migrate: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*game.State, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT state_json FROM sessions WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session: get %s: %w", id, err)
	}
	var st game.State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return nil, fmt.Errorf("session: decode %s: %w", id, err)
	}
	return &st, nil
}

func (s *SQLiteStore) Put(ctx context.Context, id string, st *game.State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("session: encode %s: %w", id, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, state_json, turn, score, updated_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(id) DO UPDATE SET
			state_json = excluded.state_json,
			turn = excluded.turn,
			score = excluded.score,
			updated_at = CURRENT_TIMESTAMP`,
		id, string(raw), st.Turn, st.Score,
	)
	if err != nil {
		return fmt.Errorf("session: put %s: %w", id, err)
	}
	return nil
}

// TopScores returns up to limit sessions with turn >= minTurn, best score first.
func (s *SQLiteStore) TopScores(ctx context.Context, minTurn, limit int) ([]ScoreRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, turn, score FROM sessions WHERE turn >= ? ORDER BY score DESC, id LIMIT ?`,
		minTurn, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("session: top scores: %w", err)
	}
	defer rows.Close()

	var out []ScoreRow
	for rows.Next() {
		var r ScoreRow
		if err := rows.Scan(&r.ID, &r.Turn, &r.Score); err != nil {
			return nil, fmt.Errorf("session: scan: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
