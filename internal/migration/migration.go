package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/smallbiznis/corte/internal/config"
)

//go:embed migrations
var embeddedMigrations embed.FS

const migrationsDir = "migrations"

// RunMigrations applies the embedded schema for dialect. Every table the
// controller needs is created on first boot, so a fresh device only needs a
// writable database path.
func RunMigrations(db *sql.DB, dialect string) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}
	if dialect == "" {
		dialect = config.DBTypeSQLite
	}

	sub, err := fs.Sub(embeddedMigrations, path.Join(migrationsDir, dialect))
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := newDriver(db, dialect)
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, dialect, driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Do not call migrator.Close here because it would close the shared *sql.DB.

	return nil
}

// Version reports the applied schema version.
func Version(db *sql.DB, dialect string) (uint, bool, error) {
	driver, err := newDriver(db, dialect)
	if err != nil {
		return 0, false, err
	}
	version, dirty, err := driver.Version()
	if err != nil {
		return 0, false, err
	}
	if version == database.NilVersion {
		return 0, false, nil
	}
	return uint(version), dirty, nil
}

func newDriver(db *sql.DB, dialect string) (database.Driver, error) {
	switch dialect {
	case config.DBTypePostgres:
		return postgres.WithInstance(db, &postgres.Config{})
	case config.DBTypeMySQL:
		return mysql.WithInstance(db, &mysql.Config{})
	case config.DBTypeSQLite, "":
		return sqlite3.WithInstance(db, &sqlite3.Config{})
	default:
		return nil, fmt.Errorf("unsupported migration dialect %q", dialect)
	}
}
