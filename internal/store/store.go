// Package store persists the distance cache and round snapshots in SQL.
// SQLite (modernc.org/sqlite, driver "sqlite") is the default; PostgreSQL is
// reached through pgx's database/sql driver ("pgx"). Queries are written
// with ? placeholders and rebound for PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// ErrUnknownDriver indicates a driver name other than sqlite or pgx.
var ErrUnknownDriver = errors.New("store: unknown driver")

// Store wraps the database handle shared by the repositories.
type Store struct {
	db     *sql.DB
	driver string
}

// Open connects, applies connection settings and creates missing tables.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	switch driver {
	case DriverSQLite:
		if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(filepath.Dir(dsn), 0o700); err != nil {
				return nil, fmt.Errorf("store: create database directory: %w", err)
			}
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s database: %w", driver, err)
	}
	s := &Store{db: db, driver: driver}

	if err = s.configure(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if err = s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	log.Printf("[STORE] opened %s database", driver)

	return s, nil
}

func (s *Store) configure(ctx context.Context) error {
	if s.driver == DriverPostgres {
		s.db.SetMaxOpenConns(10)
		s.db.SetMaxIdleConns(10)
		s.db.SetConnMaxLifetime(30 * time.Minute)

		if err := s.db.PingContext(ctx); err != nil {
			return fmt.Errorf("store: verify postgres connection: %w", err)
		}

		return nil
	}

	// One connection: SQLite has a single writer, and PRAGMAs are per connection.
	s.db.SetMaxOpenConns(1)
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := s.db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("store: set pragma %q: %w", p, err)
		}
	}

	return nil
}

func (s *Store) migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS distance_cache (
			namespace   TEXT NOT NULL,
			origin      TEXT NOT NULL,
			destination TEXT NOT NULL,
			meters      DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (namespace, origin, destination)
		)`,
		`CREATE TABLE IF NOT EXISTS round_snapshots (
			id          TEXT PRIMARY KEY,
			fingerprint TEXT NOT NULL,
			payload     TEXT NOT NULL,
			created_at  TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_round_snapshots_fingerprint
			ON round_snapshots (fingerprint)`,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: migrate: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store: migrate: statement #%d: %w", i+1, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("store: migrate: commit: %w", err)
	}

	return nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Driver returns the driver name the store was opened with.
func (s *Store) Driver() string { return s.driver }

// rebind turns ? placeholders into $1, $2, ... for PostgreSQL.
func (s *Store) rebind(q string) string {
	if s.driver != DriverPostgres {
		return q
	}
	var (
		sb strings.Builder
		n  int
	)
	sb.Grow(len(q) + 8)
	for _, r := range q {
		if r != '?' {
			sb.WriteRune(r)
			continue
		}
		n++
		sb.WriteByte('$')
		sb.WriteString(strconv.Itoa(n))
	}

	return sb.String()
}
