package db

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/russross/meddler"

	"github.com/goran-ethernal/BBSCache/pkg/config"
)

// pgx registers its database/sql driver under this name.
const pgxDriverName = "pgx"

// DB is a database handle that remembers which backend it talks to.
type DB struct {
	*sql.DB

	// Driver is config.DriverSQLite or config.DriverPostgres
	Driver string
	// Path is the SQLite file path, empty for postgres
	Path string
}

// Open opens the database described by cfg.
func Open(cfg config.DatabaseConfig) (*DB, error) {
	switch cfg.Driver {
	case config.DriverSQLite, "":
		sqlDB, err := NewSQLiteDBFromConfig(cfg)
		if err != nil {
			return nil, err
		}
		return &DB{DB: sqlDB, Driver: config.DriverSQLite, Path: cfg.Path}, nil
	case config.DriverPostgres:
		sqlDB, err := NewPostgresDB(cfg)
		if err != nil {
			return nil, err
		}
		return &DB{DB: sqlDB, Driver: config.DriverPostgres}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Meddler returns the meddler dialect matching the driver.
func (d *DB) Meddler() *meddler.Database {
	if d.Driver == config.DriverPostgres {
		return meddler.PostgreSQL
	}
	return meddler.SQLite
}

// IsSQLite reports whether the handle points to a SQLite database.
func (d *DB) IsSQLite() bool {
	return d.Driver == config.DriverSQLite
}

// NewSQLiteDB creates a new SQLite DB
func NewSQLiteDB(dbPath string) (*sql.DB, error) {
	return sql.Open("sqlite3", fmt.Sprintf(
		"file:%s?_txlock=immediate&_foreign_keys=on&_journal_mode=WAL&_busy_timeout=30000",
		dbPath,
	))
}

// NewSQLiteDBFromConfig creates a new SQLite DB with the given configuration.
func NewSQLiteDBFromConfig(cfg config.DatabaseConfig) (*sql.DB, error) {
	connStr := fmt.Sprintf(
		"file:%s?_txlock=immediate&_journal_mode=%s&_busy_timeout=%d",
		cfg.Path,
		cfg.JournalMode,
		cfg.BusyTimeout,
	)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConnections)

	pragmas := []string{
		fmt.Sprintf("PRAGMA synchronous = %s", cfg.Synchronous),
		fmt.Sprintf("PRAGMA cache_size = %d", cfg.CacheSize),
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	return db, nil
}

// NewPostgresDB opens a Postgres database through the pgx stdlib driver and checks connectivity.
func NewPostgresDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open(pgxDriverName, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxOpenConnections > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConnections)
	}
	if cfg.MaxIdleConnections > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConnections)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return db, nil
}
