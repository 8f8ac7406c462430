package database

import (
	"fmt"

	"brand-plan/internal/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
	_ "github.com/sijms/go-ora/v2"  // Oracle driver
	"go.uber.org/zap"
)

const (
	DriverOracle = "oracle"
	DriverSQLite = "sqlite3"
)

func init() {
	// go-ora registers itself as "oracle", which sqlx does not know about.
	sqlx.BindDriver(DriverOracle, sqlx.NAMED)
}

// NewSQLXDB connects to the plan archive database.
func NewSQLXDB(driver, dsn string) (*sqlx.DB, error) {
	if driver != DriverOracle && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	if driver == DriverSQLite {
		dsn = sqliteDSN(dsn)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	if driver == DriverSQLite {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
	}

	logger.Get().Info("Connected to plan archive database", zap.String("driver", driver))
	return db, nil
}

func sqliteDSN(path string) string {
	return fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on", path)
}
