// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/catchme/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for records and rounds.
type Store struct {
	db *sql.DB
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
	// SSH sessions share one database; serialize writers.
	db.SetMaxOpenConns(1)
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
		`CREATE TABLE IF NOT EXISTS kv (
			profile TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (profile, key)
		);`,
		`CREATE TABLE IF NOT EXISTS rounds (
			id TEXT PRIMARY KEY,
			profile TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			duration INTEGER NOT NULL,
			score INTEGER NOT NULL,
			new_record INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_profile_ended_at ON rounds(profile, ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the value stored under key for profile.
func (s *Store) Get(ctx context.Context, profile, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE profile = ? AND key = ?`, profile, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set stores value under key for profile, replacing any previous value.
func (s *Store) Set(ctx context.Context, profile, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (profile, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(profile, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		profile, key, value, time.Now().Format(time.RFC3339Nano))
	return err
}

// DeleteProfile removes the stored keys of a profile and, if rounds is set,
// its journal. It returns the number of deleted rows.
func (s *Store) DeleteProfile(ctx context.Context, profile string, rounds bool) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	tables := []string{"kv"}
	if rounds {
		tables = append(tables, "rounds")
	}
	var deleted int64
	for _, table := range tables {
		var res sql.Result
		res, err = tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE profile = ?`, table), profile)
		if err != nil {
			return 0, err
		}
		var n int64
		n, err = res.RowsAffected()
		if err != nil {
			return 0, err
		}
		deleted += n
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return deleted, nil
}

// InsertRound stores a completed round and returns its id.
func (s *Store) InsertRound(ctx context.Context, round model.RoundResult) (string, error) {
	id := round.ID
	if id == "" {
		id = uuid.New().String()
	}
	newRecord := 0
	if round.NewRecord {
		newRecord = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rounds (id, profile, started_at, ended_at, duration, score, new_record)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id,
		round.Profile,
		round.StartedAt.UTC().Format(time.RFC3339Nano),
		round.EndedAt.UTC().Format(time.RFC3339Nano),
		round.Duration,
		round.Score,
		newRecord,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// ListRounds returns rounds filtered by stats config, oldest first.
func (s *Store) ListRounds(ctx context.Context, cfg model.StatsConfig) ([]model.RoundAggregate, error) {
	clauses := []string{"profile = ?"}
	args := []any{cfg.Profile}
	if cfg.Duration > 0 {
		clauses = append(clauses, "duration = ?")
		args = append(args, cfg.Duration)
	}
	query := fmt.Sprintf(`SELECT id, ended_at, duration, score, new_record
		FROM rounds
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
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

	var rounds []model.RoundAggregate
	for rows.Next() {
		var agg model.RoundAggregate
		var endedAt string
		var newRecord int
		if err := rows.Scan(&agg.ID, &endedAt, &agg.Duration, &agg.Score, &newRecord); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		agg.NewRecord = newRecord != 0
		rounds = append(rounds, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rounds, nil
}

// KV returns a key-value view of the store bound to profile.
func (s *Store) KV(profile string) *KV {
	return &KV{store: s, profile: profile}
}

// KV scopes Store access to one profile. It also journals rounds.
type KV struct {
	store   *Store
	profile string
}

// Get implements game.KV.
func (k *KV) Get(key string) (string, bool, error) {
	return k.store.Get(context.Background(), k.profile, key)
}

// Set implements game.KV.
func (k *KV) Set(key, value string) error {
	return k.store.Set(context.Background(), k.profile, key, value)
}

// RecordRound implements game.Journal.
func (k *KV) RecordRound(round model.RoundResult) error {
	round.Profile = k.profile
	_, err := k.store.InsertRound(context.Background(), round)
	return err
}
