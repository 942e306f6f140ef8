// Package sqlite is the durable job store: a single SQLite file holding
// the jobs table, opened with pragmas that make every mutating call a
// serializable, process-shared transaction, plus an atomic claim-next
// operation that hands a job to at most one worker.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // cgo-free SQLite driver

	"github.com/sripriyakonjarla/QueueCTL-CLI-based-background-job-queue-system/internal/clock"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Store implements the job store over a single SQLite database file.
type Store struct {
	db    *sql.DB
	clock clock.Clock
}

// Option configures a Store at construction time.
type Option func(*Store)

// WithClock overrides the time source used for claim-window comparisons
// and timestamp stamping. Tests use this to drive backoff deterministically.
func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// Open opens (creating if necessary) the SQLite database at path, applies
// pending goose migrations, and returns a ready Store.
//
// The DSN pragmas are load-bearing: WAL mode lets readers proceed while a
// writer holds the database, busy_timeout makes concurrent writers queue
// instead of failing immediately with SQLITE_BUSY, and _txlock=immediate
// makes every BeginTx acquire the write lock up front so claim_next's
// read-then-CAS sequence is never interleaved with another process's
// transaction — a process-shared lock on the database file plus
// compare-and-set semantics inside it.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite database: %v", errStoreOpen, err)
	}
	// A single writable handle avoids readers and the writer fighting over
	// modernc.org/sqlite's connection-level lock; WAL mode still lets
	// external processes (other workers) connect concurrently.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping sqlite database: %v", errStoreOpen, err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db, clock: clock.Real{}}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("%w: set goose dialect: %v", errStoreOpen, err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("%w: apply migrations: %v", errStoreOpen, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
