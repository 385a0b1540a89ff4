// Package storage opens the key/value store selected by the configuration.
package storage

import (
	"database/sql"
	"fmt"

	"github.com/MrJamesThe3rd/finboard/internal/config"
	"github.com/MrJamesThe3rd/finboard/internal/database"
	"github.com/MrJamesThe3rd/finboard/internal/kv"
	"github.com/MrJamesThe3rd/finboard/internal/kv/sqlstore"
)

// Open migrates and connects the configured backend. The returned func releases it.
func Open(cfg *config.Config) (kv.Store, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return kv.NewMemory(), func() {}, nil
	case config.BackendSQLite:
		return openSQL(database.DriverSQLite, cfg.Store.SQLitePath, sqlstore.SQLite)
	case config.BackendPostgres:
		return openSQL(database.DriverPostgres, cfg.ConnectionString(), sqlstore.Postgres)
	}

	return nil, nil, fmt.Errorf("unsupported store backend %q", cfg.Store.Backend)
}

func openSQL(driver database.Driver, dsn string, dialect sqlstore.Dialect) (kv.Store, func(), error) {
	db, err := database.New(driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := database.Migrate(driver, dsn); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrating database: %w", err)
	}

	return sqlstore.New(db, dialect), closer(db), nil
}

func closer(db *sql.DB) func() {
	return func() { db.Close() }
}
