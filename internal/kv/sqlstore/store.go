package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/finboard/internal/kv"
)

// Dialect selects the placeholder and timestamp syntax of the backing database.
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

type queries struct {
	get    string
	upsert string
}

var dialectQueries = map[Dialect]queries{
	Postgres: {
		get: `SELECT value FROM state_entries WHERE key = $1`,
		upsert: `
			INSERT INTO state_entries (key, value, updated_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
		`,
	},
	SQLite: {
		get: `SELECT value FROM state_entries WHERE key = ?`,
		upsert: `
			INSERT INTO state_entries (key, value, updated_at)
			VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
		`,
	},
}

// Store keeps key/value entries in the state_entries table.
type Store struct {
	db *sql.DB
	q  queries
}

func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, q: dialectQueries[dialect]}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte

	err := s.db.QueryRowContext(ctx, s.q.get, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, kv.ErrNotFound
		}

		return nil, fmt.Errorf("getting %s: %w", key, err)
	}

	return value, nil
}

// Put upserts every entry inside one database transaction.
func (s *Store) Put(ctx context.Context, entries []kv.Entry) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	for _, e := range entries {
		if _, err := dbTx.ExecContext(ctx, s.q.upsert, e.Key, string(e.Value)); err != nil {
			return fmt.Errorf("upserting %s: %w", e.Key, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}
