package database

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrations_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")

	require.NoError(t, RunMigrations(DriverSQLite, path, Up))
	// Running again is a no-op.
	require.NoError(t, RunMigrations(DriverSQLite, path, Up))

	db, err := NewSQLXDB(DriverSQLite, path)
	require.NoError(t, err)

	var tables int
	require.NoError(t, db.Get(&tables, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'plans'"))
	assert.Equal(t, 1, tables)

	var indexes int
	require.NoError(t, db.Get(&indexes, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = 'idx_plans_session_created'"))
	assert.Equal(t, 1, indexes)
	require.NoError(t, db.Close())

	require.NoError(t, RunMigrations(DriverSQLite, path, Down))

	db, err = NewSQLXDB(DriverSQLite, path)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Get(&tables, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'plans'"))
	assert.Equal(t, 0, tables)
}

func TestRunMigrations_InvalidArguments(t *testing.T) {
	assert.ErrorContains(t, RunMigrations("postgres", "dsn", Up), "unsupported database driver")
	assert.ErrorContains(t, RunMigrations(DriverSQLite, "x.db", "sideways"), "unknown migration direction")
}

func TestNewSQLXDB_UnsupportedDriver(t *testing.T) {
	_, err := NewSQLXDB("mysql", "dsn")
	assert.ErrorContains(t, err, "unsupported database driver")
}

func expectSetVersion(mock sqlmock.Sqlmock, version int64, dirty int64) {
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schema_migrations")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schema_migrations (version, dirty) VALUES (:1, :2)")).
		WithArgs(version, dirty).
		WillReturnResult(sqlmock.NewResult(0, 1))
}

func TestRunOracleMigrations_UpFromEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM user_tables WHERE table_name = 'SCHEMA_MIGRATIONS'")).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE schema_migrations")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT version, dirty FROM schema_migrations")).
		WillReturnRows(sqlmock.NewRows([]string{"VERSION", "DIRTY"}))

	expectSetVersion(mock, 1, 1)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE plans")).WillReturnResult(sqlmock.NewResult(0, 0))
	expectSetVersion(mock, 1, 0)

	expectSetVersion(mock, 2, 1)
	mock.ExpectExec(regexp.QuoteMeta("CREATE INDEX idx_plans_session_created")).WillReturnResult(sqlmock.NewResult(0, 0))
	expectSetVersion(mock, 2, 0)

	require.NoError(t, RunOracleMigrations(context.Background(), db, Up))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunOracleMigrations_UpToDate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM user_tables")).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT version, dirty FROM schema_migrations")).
		WillReturnRows(sqlmock.NewRows([]string{"VERSION", "DIRTY"}).AddRow(2, 0))

	require.NoError(t, RunOracleMigrations(context.Background(), db, Up))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunOracleMigrations_DownAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM user_tables")).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT version, dirty FROM schema_migrations")).
		WillReturnRows(sqlmock.NewRows([]string{"VERSION", "DIRTY"}).AddRow(2, 0))

	expectSetVersion(mock, 2, 1)
	mock.ExpectExec(regexp.QuoteMeta("DROP INDEX idx_plans_session_created")).WillReturnResult(sqlmock.NewResult(0, 0))
	expectSetVersion(mock, 1, 0)

	expectSetVersion(mock, 1, 1)
	mock.ExpectExec(regexp.QuoteMeta("DROP TABLE plans")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schema_migrations")).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, RunOracleMigrations(context.Background(), db, Down))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunOracleMigrations_DirtyDatabase(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM user_tables")).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT version, dirty FROM schema_migrations")).
		WillReturnRows(sqlmock.NewRows([]string{"VERSION", "DIRTY"}).AddRow(1, 1))

	err = RunOracleMigrations(context.Background(), db, Up)
	assert.ErrorContains(t, err, "database is dirty at version 1")
	assert.NoError(t, mock.ExpectationsWereMet())
}
