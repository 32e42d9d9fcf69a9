// Package store handles SQLite persistence of attempt history.
package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/verte-zerg/tuisplit/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for attempt data.
type Store struct {
	db *sql.DB
}

// NewAttemptID generates a ULID attempt identifier.
func NewAttemptID(at time.Time) string {
	return ulid.MustNew(ulid.Timestamp(at), rand.Reader).String()
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS attempts (
			id TEXT PRIMARY KEY,
			run_key TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			finished INTEGER NOT NULL,
			total_ms INTEGER NOT NULL,
			personal_best INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS attempt_splits (
			attempt_id TEXT NOT NULL,
			idx INTEGER NOT NULL,
			name TEXT NOT NULL,
			time_ms INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			gold INTEGER NOT NULL,
			PRIMARY KEY (attempt_id, idx)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_run_key ON attempts(run_key, ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertAttempt stores an attempt and its recorded splits.
func (s *Store) InsertAttempt(ctx context.Context, attempt model.Attempt, splits []model.AttemptSplit) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	id := NewAttemptID(attempt.EndedAt)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO attempts (id, run_key, started_at, ended_at, finished, total_ms, personal_best)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id,
		attempt.RunKey,
		attempt.StartedAt.Format(time.RFC3339Nano),
		attempt.EndedAt.Format(time.RFC3339Nano),
		attempt.Finished,
		attempt.TotalMs,
		attempt.PersonalBest,
	)
	if err != nil {
		return "", err
	}

	if len(splits) > 0 {
		var stmt *sql.Stmt
		stmt, err = tx.PrepareContext(ctx,
			`INSERT INTO attempt_splits (attempt_id, idx, name, time_ms, skipped, gold)
			 VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return "", err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, sp := range splits {
			if _, err = stmt.ExecContext(ctx, id, sp.Index, sp.Name, sp.TimeMs, sp.Skipped, sp.Gold); err != nil {
				return "", err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// ListAttempts returns attempts filtered by stats config, oldest first.
func (s *Store) ListAttempts(ctx context.Context, cfg model.StatsConfig) ([]model.AttemptAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.RunKey != "" {
		clauses = append(clauses, "run_key = ?")
		args = append(args, cfg.RunKey)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, finished, total_ms, personal_best
		FROM attempts
		WHERE %s
		ORDER BY ended_at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var attempts []model.AttemptAggregate
	for rows.Next() {
		var agg model.AttemptAggregate
		var endedAt string
		if err := rows.Scan(&agg.AttemptID, &endedAt, &agg.Finished, &agg.TotalMs, &agg.PersonalBest); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		attempts = append(attempts, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return attempts, nil
}

// ListSplitAggregates aggregates recorded segment times per split index
// across the given attempts.
func (s *Store) ListSplitAggregates(ctx context.Context, attemptIDs []string) ([]model.SplitAggregate, error) {
	if len(attemptIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(attemptIDs))
	args := make([]any, len(attemptIDs))
	for i, id := range attemptIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT idx, MAX(name),
		SUM(CASE WHEN skipped = 0 THEN 1 ELSE 0 END) AS recorded,
		SUM(skipped) AS skipped,
		SUM(CASE WHEN skipped = 0 THEN time_ms ELSE 0 END) AS sum_ms,
		COALESCE(MIN(CASE WHEN skipped = 0 THEN time_ms END), 0) AS best_ms
		FROM attempt_splits
		WHERE attempt_id IN (%s)
		GROUP BY idx
		ORDER BY idx`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.SplitAggregate
	for rows.Next() {
		var agg model.SplitAggregate
		if err := rows.Scan(&agg.Index, &agg.Name, &agg.Count, &agg.Skipped, &agg.SumMs, &agg.BestMs); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
