package db

import (
	"context"
	"regexp"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrationsFS_AppliesPendingInOrder(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	conn := sqlx.NewDb(mockDB, "postgres")

	fsys := fstest.MapFS{
		"002_second.sql": {Data: []byte("CREATE TABLE b (id INT);")},
		"001_first.sql":  {Data: []byte("CREATE TABLE a (id INT);")},
		"README.md":      {Data: []byte("ignored")},
	}

	countQuery := regexp.QuoteMeta(`SELECT COUNT(*) FROM schema_migrations WHERE name = $1`)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))

	mock.ExpectQuery(countQuery).WithArgs("001_first.sql").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(countQuery).WithArgs("002_second.sql").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE b (id INT);")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO schema_migrations (name) VALUES ($1)`)).
		WithArgs("002_second.sql").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, RunMigrationsFS(context.Background(), conn, fsys))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrationsFS_RollsBackOnFailure(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	conn := sqlx.NewDb(mockDB, "postgres")

	fsys := fstest.MapFS{"001_broken.sql": {Data: []byte("CREATE TABLE broken (")}}

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT COUNT").WithArgs("001_broken.sql").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE broken (")).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err = RunMigrationsFS(context.Background(), conn, fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "001_broken.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}
