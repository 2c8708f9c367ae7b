package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DBFile is the database file name inside the config directory
const DBFile = "data.db"

// DB is the local SQLite database. It only holds Strava credentials;
// trials are never persisted.
type DB struct {
	*sql.DB
}

// Open opens <dir>/data.db, creating the directory and schema if necessary
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return OpenPath(filepath.Join(dir, DBFile))
}

// OpenPath opens the database at path (":memory:" works for tests)
func OpenPath(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared
	sqlDB.SetMaxOpenConns(1)

	if err := migrate(sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &DB{sqlDB}, nil
}
