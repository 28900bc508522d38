package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	_ "github.com/mattn/go-sqlite3"

	"github.com/loamdb/loam/adapter"
)

const defaultBusyTimeout = 5000

var errNotStarted = errors.New("sqlite: adapter not started")

func init() {
	adapter.Register("sqlite", func() adapter.Adapter { return New() })
}

// Adapter executes queries against a SQLite database. The zero value is
// unusable; construct with New and call Start before use.
type Adapter struct {
	db *sql.DB
}

var _ adapter.Adapter = (*Adapter)(nil)

// New returns an unstarted SQLite adapter.
func New() *Adapter {
	return &Adapter{}
}

// Name reports the registry name.
func (a *Adapter) Name() string {
	return "sqlite"
}

// Start opens the database at opts.Database, creating the file if it does
// not exist, and applies the required pragmas.
func (a *Adapter) Start(ctx context.Context, opts adapter.Options) error {
	if a.db != nil {
		return errors.New("sqlite: adapter already started")
	}
	if opts.Database == "" {
		return errors.New("sqlite: options name no database path")
	}

	busyTimeout := defaultBusyTimeout
	if raw, ok := opts.Params["busy_timeout"]; ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return fmt.Errorf("sqlite: invalid busy_timeout %q", raw)
		}
		busyTimeout = n
	}

	db, err := sql.Open("sqlite3", opts.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(ctx, db, busyTimeout); err != nil {
		db.Close()
		return fmt.Errorf("failed to apply pragmas: %w", err)
	}

	a.db = db
	return nil
}

// Stop closes the database connection. Safe to call on a never-started or
// already-stopped adapter.
func (a *Adapter) Stop(context.Context) error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

// Ping verifies the database is still reachable.
func (a *Adapter) Ping(ctx context.Context) error {
	if a.db == nil {
		return errNotStarted
	}
	if err := a.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to reach database: %w", err)
	}
	return nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(ctx context.Context, db *sql.DB, busyTimeout int) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", busyTimeout),
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}
