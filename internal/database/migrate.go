package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"brand-plan/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// Direction selects which way migrations are applied.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

//go:embed migrations
var migrationsFS embed.FS

// RunMigrations applies the embedded migrations for driver. SQLite uses
// golang-migrate directly; golang-migrate has no Oracle driver, so Oracle
// uses a small runner over the same migration source.
func RunMigrations(driver, dsn string, direction Direction) error {
	if direction != Up && direction != Down {
		return fmt.Errorf("unknown migration direction %q", direction)
	}

	switch driver {
	case DriverSQLite:
		return runSQLiteMigrations(dsn, direction)
	case DriverOracle:
		db, err := sql.Open(DriverOracle, dsn)
		if err != nil {
			return fmt.Errorf("could not open database: %w", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			return fmt.Errorf("could not ping database: %w", err)
		}
		return RunOracleMigrations(context.Background(), db, direction)
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}
}

func migrationSource(driver string) (source.Driver, error) {
	src, err := iofs.New(migrationsFS, "migrations/"+driver)
	if err != nil {
		return nil, fmt.Errorf("could not load %s migrations: %w", driver, err)
	}
	return src, nil
}

func runSQLiteMigrations(dsn string, direction Direction) error {
	l := logger.Get()

	db, err := sql.Open(DriverSQLite, sqliteDSN(dsn))
	if err != nil {
		return fmt.Errorf("could not open database: %w", err)
	}

	src, err := migrationSource(DriverSQLite)
	if err != nil {
		db.Close()
		return err
	}

	dbDriver, err := sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
	if err != nil {
		db.Close()
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, DriverSQLite, dbDriver)
	if err != nil {
		db.Close()
		return fmt.Errorf("could not create migrator: %w", err)
	}
	defer m.Close()

	if direction == Up {
		err = m.Up()
	} else {
		err = m.Down()
	}
	if errors.Is(err, migrate.ErrNoChange) {
		l.Info("Database schema is up to date", zap.String("direction", string(direction)))
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not run migrations %s: %w", direction, err)
	}

	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return fmt.Errorf("could not read migration version: %w", verr)
	}
	l.Info("Migrations completed",
		zap.String("direction", string(direction)),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty))
	return nil
}

// oracleMigrator tracks the applied version in schema_migrations, using the
// same layout golang-migrate uses for its own drivers.
type oracleMigrator struct {
	db  *sql.DB
	src source.Driver
}

// RunOracleMigrations applies the embedded Oracle migrations on db. Each
// migration file holds a single statement, as Oracle rejects batches.
func RunOracleMigrations(ctx context.Context, db *sql.DB, direction Direction) error {
	src, err := migrationSource(DriverOracle)
	if err != nil {
		return err
	}
	defer src.Close()

	m := &oracleMigrator{db: db, src: src}
	if err := m.ensureVersionTable(ctx); err != nil {
		return err
	}

	current, dirty, err := m.version(ctx)
	if err != nil {
		return err
	}
	if dirty {
		return fmt.Errorf("database is dirty at version %d; fix it manually", current)
	}

	if direction == Up {
		return m.up(ctx, current)
	}
	return m.down(ctx, current)
}

func (m *oracleMigrator) ensureVersionTable(ctx context.Context) error {
	var count int
	err := m.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM user_tables WHERE table_name = 'SCHEMA_MIGRATIONS'").Scan(&count)
	if err != nil {
		return fmt.Errorf("could not check schema_migrations: %w", err)
	}
	if count > 0 {
		return nil
	}
	if _, err := m.db.ExecContext(ctx,
		"CREATE TABLE schema_migrations (version NUMBER(19) NOT NULL, dirty NUMBER(1) NOT NULL)"); err != nil {
		return fmt.Errorf("could not create schema_migrations: %w", err)
	}
	return nil
}

func (m *oracleMigrator) version(ctx context.Context) (uint, bool, error) {
	var version int64
	var dirty int
	err := m.db.QueryRowContext(ctx, "SELECT version, dirty FROM schema_migrations").Scan(&version, &dirty)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("could not read schema_migrations: %w", err)
	}
	return uint(version), dirty == 1, nil
}

func (m *oracleMigrator) setVersion(ctx context.Context, version uint, dirty bool) error {
	if _, err := m.db.ExecContext(ctx, "DELETE FROM schema_migrations"); err != nil {
		return fmt.Errorf("could not reset schema_migrations: %w", err)
	}
	if version == 0 {
		return nil
	}
	dirtyFlag := 0
	if dirty {
		dirtyFlag = 1
	}
	if _, err := m.db.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, dirty) VALUES (:1, :2)", int64(version), dirtyFlag); err != nil {
		return fmt.Errorf("could not write schema_migrations: %w", err)
	}
	return nil
}

func (m *oracleMigrator) up(ctx context.Context, current uint) error {
	l := logger.Get()

	var next uint
	var err error
	if current == 0 {
		next, err = m.src.First()
	} else {
		next, err = m.src.Next(current)
	}

	for err == nil {
		body, name, readErr := readMigration(m.src.ReadUp, next)
		if readErr != nil {
			return readErr
		}
		if err := m.apply(ctx, next, next, body); err != nil {
			return fmt.Errorf("could not execute migration %s: %w", name, err)
		}
		l.Info("Executed migration", zap.Uint("version", next), zap.String("name", name))
		current = next
		next, err = m.src.Next(current)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("could not read next migration: %w", err)
	}

	l.Info("Migrations completed", zap.String("direction", string(Up)), zap.Uint("version", current))
	return nil
}

func (m *oracleMigrator) down(ctx context.Context, current uint) error {
	l := logger.Get()

	for current > 0 {
		body, name, err := readMigration(m.src.ReadDown, current)
		if err != nil {
			return err
		}

		prev, err := m.src.Prev(current)
		if errors.Is(err, fs.ErrNotExist) {
			prev = 0
		} else if err != nil {
			return fmt.Errorf("could not read previous migration: %w", err)
		}

		if err := m.apply(ctx, current, prev, body); err != nil {
			return fmt.Errorf("could not execute migration %s: %w", name, err)
		}
		l.Info("Reverted migration", zap.Uint("version", current), zap.String("name", name))
		current = prev
	}

	l.Info("Migrations completed", zap.String("direction", string(Down)), zap.Uint("version", current))
	return nil
}

// apply marks the database dirty at version, runs body and records target.
func (m *oracleMigrator) apply(ctx context.Context, version, target uint, body string) error {
	if err := m.setVersion(ctx, version, true); err != nil {
		return err
	}
	if _, err := m.db.ExecContext(ctx, body); err != nil {
		return err
	}
	return m.setVersion(ctx, target, false)
}

func readMigration(read func(uint) (io.ReadCloser, string, error), version uint) (string, string, error) {
	r, name, err := read(version)
	if err != nil {
		return "", "", fmt.Errorf("could not open migration %d: %w", version, err)
	}
	defer r.Close()

	body, err := io.ReadAll(r)
	if err != nil {
		return "", "", fmt.Errorf("could not read migration %s: %w", name, err)
	}
	return string(body), name, nil
}
