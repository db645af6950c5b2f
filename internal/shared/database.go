package shared

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const memoryDatabase = ":memory:"

// busyTimeout is how long a locked database is retried, in milliseconds.
const busyTimeout = 5000

// NewDatabase opens the SQLite file at path and checks the connection.
//
// An in-memory database is pinned to one connection so every query sees the same schema.
func NewDatabase(path string) (*sql.DB, error) {
	dsn := path
	if path != memoryDatabase {
		dsn = fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL", path, busyTimeout)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	if path == memoryDatabase {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database %s: %w", path, err)
	}
	return db, nil
}

// OpenDatabase opens the job history described by config and brings its schema up to date.
func OpenDatabase(config DatabaseConfig) (*sql.DB, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("%w: database.path is empty", ErrInvalidConfig)
	}
	if config.Path != memoryDatabase {
		if dir := filepath.Dir(config.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	db, err := NewDatabase(config.Path)
	if err != nil {
		return nil, err
	}

	if config.MaxOpenConns > 0 && config.Path != memoryDatabase {
		db.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		db.SetMaxIdleConns(config.MaxIdleConns)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}
