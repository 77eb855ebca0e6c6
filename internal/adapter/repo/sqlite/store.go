// Package sqliterepo persists build history to a local SQLite file for runs
// without a Postgres instance.
package sqliterepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"urbandesign/internal/app/ports"
	"urbandesign/internal/domain/economy"

	_ "modernc.org/sqlite"
)

type Store struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	// One connection keeps ":memory:" databases and write ordering consistent.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}
	s.db = db
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, errors.New("sqlite store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS build_batches (
			episode_id TEXT NOT NULL,
			step INTEGER NOT NULL,
			build_count INTEGER NOT NULL,
			builds TEXT NOT NULL,
			recorded_at INTEGER NOT NULL,
			PRIMARY KEY (episode_id, step)
		)
	`)
	return err
}

func (s *Store) Append(ctx context.Context, record ports.BuildBatchRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	builds := record.Builds
	if builds == nil {
		builds = economy.BuildBatch{}
	}
	payload, err := json.Marshal(builds)
	if err != nil {
		return fmt.Errorf("encode builds: %w", err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO build_batches (episode_id, step, build_count, builds, recorded_at)
		VALUES (?, ?, ?, ?, ?)
	`, record.EpisodeID, record.Step, len(builds), string(payload), record.RecordedAt.UnixNano())
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ports.ErrConflict
	}
	return err
}

func (s *Store) ListByEpisode(ctx context.Context, episodeID string, limit int) ([]ports.BuildBatchRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}
	query := `SELECT step, builds, recorded_at FROM build_batches WHERE episode_id = ? ORDER BY step ASC`
	args := []any{episodeID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ports.BuildBatchRecord, 0)
	for rows.Next() {
		var (
			step       int
			payload    string
			recordedAt int64
		)
		if err := rows.Scan(&step, &payload, &recordedAt); err != nil {
			return nil, err
		}
		builds := economy.BuildBatch{}
		if err := json.Unmarshal([]byte(payload), &builds); err != nil {
			return nil, fmt.Errorf("decode builds of step %d: %w", step, err)
		}
		out = append(out, ports.BuildBatchRecord{
			EpisodeID:  episodeID,
			Step:       step,
			Builds:     builds,
			RecordedAt: time.Unix(0, recordedAt).UTC(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ports.ErrNotFound
	}
	return out, nil
}
