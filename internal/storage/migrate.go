package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// historyMigrationsTable records the applied visit history schema version.
const historyMigrationsTable = "visits_schema_version"

// migrateHistory brings the visit history schema up to the newest embedded
// version and returns that version. A database left dirty by an
// interrupted migration is reported rather than repaired; the factory then
// falls back to memory.
func migrateHistory(db *sql.DB) (uint, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return 0, fmt.Errorf("visit history schema: reading embedded migrations: %w", err)
	}

	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{
		MigrationsTable: historyMigrationsTable,
	})
	if err != nil {
		return 0, fmt.Errorf("visit history schema: preparing %s: %w", historyMigrationsTable, err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return 0, fmt.Errorf("visit history schema: %w", err)
	}

	switch err := m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
	case err != nil:
		return 0, fmt.Errorf("visit history schema: upgrading: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("visit history schema: reading version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("visit history schema: version %d is dirty", version)
	}

	slog.Debug("visit history schema ready", "version", version)
	return version, nil
}
