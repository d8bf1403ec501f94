package database

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/config"
)

func newTestSQLite(t *testing.T) *Database {
	t.Helper()
	db, err := NewSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(context.Background()))
	return db
}

func TestRebind(t *testing.T) {
	pg := New(nil, DialectPostgres)
	lite := New(nil, DialectSQLite)

	query := "SELECT name FROM locations WHERE institution_name = ? AND status = ?"

	assert.Equal(t, "SELECT name FROM locations WHERE institution_name = $1 AND status = $2", pg.Rebind(query))
	assert.Equal(t, query, lite.Rebind(query))
	assert.Equal(t, "postgres", DialectPostgres.String())
	assert.Equal(t, "sqlite", DialectSQLite.String())
}

func TestMigrate_IsIdempotent(t *testing.T) {
	db := newTestSQLite(t)

	require.NoError(t, db.Migrate(context.Background()))

	var count int
	err := db.DB.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table'`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 9, count)
}

func TestWithTx_Commit(t *testing.T) {
	db := newTestSQLite(t)
	ctx := context.Background()

	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO locations (institution_name, status, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
			"旭川医療センター", "pending_review")
		return err
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, db.DB.QueryRow(`SELECT COUNT(*) FROM locations`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestWithTx_RollbackOnError(t *testing.T) {
	db := newTestSQLite(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO locations (institution_name, status, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
			"旭川医療センター", "pending_review"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, db.DB.QueryRow(`SELECT COUNT(*) FROM locations`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestWithLockedTx_PostgresTakesAdvisoryLock(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	db := New(mockDB, DialectPostgres)

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock\(hashtext\(\$1\)\)`).
		WithArgs(TableMedicalInstitutions).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err = db.WithLockedTx(context.Background(), TableMedicalInstitutions, func(tx *sql.Tx) error {
		return nil
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithLockedTx_RollsBackWhenLockFails(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	db := New(mockDB, DialectPostgres)

	mock.ExpectBegin()
	mock.ExpectExec(`pg_advisory_xact_lock`).WillReturnError(errors.New("lock timeout"))
	mock.ExpectRollback()

	called := false
	err = db.WithLockedTx(context.Background(), TableOutpatients, func(tx *sql.Tx) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to acquire advisory lock")
	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithLockedTx_SerializesInProcess(t *testing.T) {
	db := newTestSQLite(t)
	ctx := context.Background()

	var (
		mu      sync.Mutex
		active  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = db.WithLockedTx(ctx, TableLocations, func(tx *sql.Tx) error {
				mu.Lock()
				active++
				if active > maxSeen {
					maxSeen = active
				}
				mu.Unlock()

				_, err := tx.ExecContext(ctx, `SELECT COUNT(*) FROM locations`)

				mu.Lock()
				active--
				mu.Unlock()
				return err
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{Driver: "mysql"})
	assert.Error(t, err)
}

func TestOpen_SQLite(t *testing.T) {
	db, err := Open(context.Background(), config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, DialectSQLite, db.Dialect)
	assert.NoError(t, db.Ping(context.Background()))
	assert.Nil(t, db.PoolStats())
}
