// Package migrations bootstraps the links schema from migrations embedded in the binary.
package migrations

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Migrator struct {
	migrate *migrate.Migrate
	source  source.Driver
	logger  *zap.SugaredLogger
}

// New builds a migrator on top of the shared pool. Closing the migrator leaves the pool open.
func New(pool *pgxpool.Pool, logger *zap.SugaredLogger) (*Migrator, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("error creating migration source: %w", err)
	}

	driver, err := postgres.WithInstance(stdlib.OpenDBFromPool(pool), &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("error creating migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return &Migrator{
		migrate: m,
		source:  src,
		logger:  logger,
	}, nil
}

// Up applies every pending migration. Running it against an up-to-date schema is a no-op.
func (m *Migrator) Up() error {
	version, dirty, err := m.migrate.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("error reading schema version: %w", err)
	}

	if dirty {
		if err := m.resetDirty(version); err != nil {
			return err
		}
	}

	if err := m.migrate.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Debug("schema is up to date")
			return nil
		}
		return fmt.Errorf("error applying migrations: %w", err)
	}

	newVersion, _, err := m.migrate.Version()
	if err != nil {
		return fmt.Errorf("error reading schema version: %w", err)
	}
	m.logger.Infof("schema migrated to version %d", newVersion)

	return nil
}

// resetDirty rolls the recorded version back to the one before the failed migration,
// so the following Up applies it again. Migrations must therefore be idempotent.
func (m *Migrator) resetDirty(version uint) error {
	r, _, err := m.source.ReadUp(version)
	if err != nil {
		return fmt.Errorf("dirty version %d not found in migrations: %w", version, err)
	}
	_ = r.Close()

	prev := database.NilVersion
	prevVersion, err := m.source.Prev(version)
	switch {
	case err == nil:
		prev = int(prevVersion)
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("error reading migration before version %d: %w", version, err)
	}

	m.logger.Warnf("schema version %d is dirty, rolling back to %d before retrying", version, prev)
	if err := m.migrate.Force(prev); err != nil {
		return fmt.Errorf("error forcing version %d: %w", prev, err)
	}
	return nil
}

// Down reverts every migration.
func (m *Migrator) Down() error {
	if err := m.migrate.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error reverting migrations: %w", err)
	}
	return nil
}

func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	if sourceErr != nil {
		return fmt.Errorf("error closing migration source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("error closing migration driver: %w", dbErr)
	}
	return nil
}

// Run applies pending migrations and releases the migrator.
func Run(pool *pgxpool.Pool, logger *zap.SugaredLogger) (err error) {
	m, err := New(pool, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := m.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return m.Up()
}
