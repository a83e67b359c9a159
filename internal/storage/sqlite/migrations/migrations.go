// Package migrations holds the task table schema and applies it with golang-migrate.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/slok/taskboard/internal/log"
)

//go:embed sql/*.sql
var schemaFS embed.FS

// Migrator applies the embedded task schema.
type Migrator struct {
	db     *sql.DB
	logger log.Logger
}

// NewMigrator returns a migrator over an opened SQLite database.
func NewMigrator(db *sql.DB, logger log.Logger) (*Migrator, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	if logger == nil {
		logger = log.Noop
	}

	return &Migrator{db: db, logger: logger.WithValues(log.Kv{"svc": "storage.sqlite.Migrator"})}, nil
}

// Up brings the schema to the latest version. An up to date schema is not an error.
func (m *Migrator) Up() error {
	return m.run("up", func(mg *migrate.Migrate) error { return mg.Up() })
}

// Down drops the whole schema.
func (m *Migrator) Down() error {
	return m.run("down", func(mg *migrate.Migrate) error { return mg.Down() })
}

// Version returns the applied schema version, 0 when nothing was applied yet.
func (m *Migrator) Version() (uint, error) {
	var version uint
	err := m.run("version", func(mg *migrate.Migrate) error {
		v, dirty, err := mg.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			return nil
		}
		if err != nil {
			return err
		}
		if dirty {
			return fmt.Errorf("schema version %d is dirty", v)
		}
		version = v
		return nil
	})

	return version, err
}

func (m *Migrator) run(op string, fn func(*migrate.Migrate) error) error {
	src, err := iofs.New(schemaFS, "sql")
	if err != nil {
		return fmt.Errorf("could not open embedded schema: %w", err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			m.logger.Warningf("could not close embedded schema: %s", err)
		}
	}()

	// Closing the driver would close the shared *sql.DB, so it is left open.
	driver, err := sqlite3.WithInstance(m.db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	mg, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	err = fn(mg)
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("schema %s failed: %w", op, err)
	}

	m.logger.Debugf("Schema %s done", op)
	return nil
}
