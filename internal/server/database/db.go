package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/semaphore"
	_ "modernc.org/sqlite"
)

// Dialect identifies the SQL backend behind a DB.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// sqlitePragmas are applied by the modernc driver on every new connection.
const sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"

// Options configures Open.
type Options struct {
	// URL is either a SQLite file path (optionally prefixed with sqlite://)
	// or a postgres:// connection string.
	URL          string
	MaxOpenConns int
	// Timeout bounds every statement issued through the DB.
	Timeout time.Duration
}

// DB wraps a pooled database/sql handle. Writes are admitted through a
// semaphore sized to what the backend can run concurrently.
type DB struct {
	sql      *sql.DB
	dialect  Dialect
	timeout  time.Duration
	writeSem *semaphore.Weighted
}

// Open connects to the database described by opts and verifies it with a ping.
// It does not touch the schema; call Migrate for that.
func Open(ctx context.Context, opts Options) (*DB, error) {
	dialect, dsn, err := parseURL(opts.URL)
	if err != nil {
		return nil, err
	}

	maxConns := opts.MaxOpenConns
	if maxConns <= 0 {
		maxConns = 10
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	driverName := "sqlite"
	writers := int64(1)
	if dialect == DialectPostgres {
		driverName = "pgx"
		writers = int64(maxConns)
	} else {
		path := strings.SplitN(dsn, "?", 2)[0]
		if path == ":memory:" {
			// Every pooled connection would otherwise get its own empty database.
			maxConns = 1
		} else if err := ensureParentDir(path); err != nil {
			return nil, err
		}
	}

	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect, err)
	}
	sqlDB.SetMaxOpenConns(maxConns)
	sqlDB.SetMaxIdleConns(maxConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", dialect, err)
	}

	slog.Info("connected to database", "dialect", dialect, "max_open_conns", maxConns)
	return &DB{
		sql:      sqlDB,
		dialect:  dialect,
		timeout:  timeout,
		writeSem: semaphore.NewWeighted(writers),
	}, nil
}

// Dialect reports which backend the DB talks to.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// HealthCheck verifies the database connection is alive.
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, db.timeout)
	defer cancel()
	return db.sql.PingContext(ctx)
}

// Close shuts down the connection pool.
func (db *DB) Close() error {
	return db.sql.Close()
}

// rebind rewrites ? placeholders into the backend's native form.
func (db *DB) rebind(query string) string {
	if db.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 16)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func parseURL(raw string) (Dialect, string, error) {
	switch {
	case raw == "":
		return "", "", fmt.Errorf("database URL is empty")
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return DialectPostgres, raw, nil
	}

	path := strings.TrimPrefix(raw, "sqlite://")
	if path == "" {
		return "", "", fmt.Errorf("database URL %q has no file path", raw)
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return DialectSQLite, path + sep + sqlitePragmas, nil
}

// ensureParentDir creates the directory holding the SQLite file if needed.
func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create database directory %s: %w", dir, err)
	}
	return nil
}
