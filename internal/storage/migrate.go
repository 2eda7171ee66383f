package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrDirtySchema means an earlier migration stopped half way and the file
// needs manual repair before the ledger can use it.
var ErrDirtySchema = errors.New("ledger schema is dirty")

// SchemaChange reports the schema version of a ledger database before and
// after RunMigrations. From is 0 for a new file.
type SchemaChange struct {
	From uint
	To   uint
}

func (c SchemaChange) Changed() bool {
	return c.From != c.To
}

// RunMigrations upgrades the ledger table at dbPath to the newest embedded
// migration. The migrator closes the handle it is given, so it gets its own.
func RunMigrations(dbPath string) (SchemaChange, error) {
	var change SchemaChange

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return change, fmt.Errorf("open migration database: %w", err)
	}
	defer conn.Close()

	driver, err := sqlite.WithInstance(conn, &sqlite.Config{})
	if err != nil {
		return change, fmt.Errorf("create sqlite driver: %w", err)
	}
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return change, fmt.Errorf("read embedded migrations: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return change, fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if change.From, err = schemaVersion(m); err != nil {
		return change, err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return change, fmt.Errorf("migrate ledger schema from version %d: %w", change.From, err)
	}
	if change.To, err = schemaVersion(m); err != nil {
		return change, err
	}
	return change, nil
}

func schemaVersion(m *migrate.Migrate) (uint, error) {
	v, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("read schema version: %w", err)
	case dirty:
		return v, fmt.Errorf("%w at version %d", ErrDirtySchema, v)
	}
	return v, nil
}
