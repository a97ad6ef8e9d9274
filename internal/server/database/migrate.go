package database

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// The SQL differs per backend only in column types.
//
//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// Migrate brings the schema up to the latest embedded version. Running it
// against an up-to-date database is a no-op.
func (db *DB) Migrate() error {
	source, err := iofs.New(migrationsFS, "migrations/"+string(db.dialect))
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	// m.Close would close the shared SQLite pool, so resources are released
	// individually.
	defer source.Close()

	driver, err := db.migrationDriver()
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}
	if db.dialect == DialectPostgres {
		// The pgx driver pins a dedicated connection; closing it returns
		// that connection without touching the pool.
		defer driver.Close()
	}

	m, err := migrate.NewWithInstance("iofs", source, string(db.dialect), driver)
	if err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("schema version %d is dirty", version)
	}

	slog.Info("database migrations complete", "dialect", db.dialect, "version", version)
	return nil
}

func (db *DB) migrationDriver() (migratedb.Driver, error) {
	switch db.dialect {
	case DialectPostgres:
		return migratepgx.WithInstance(db.sql, &migratepgx.Config{})
	default:
		return migratesqlite.WithInstance(db.sql, &migratesqlite.Config{})
	}
}
