package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/database"
)

var (
	firstRun  = time.Date(2021, 3, 1, 9, 0, 0, 0, time.UTC)
	secondRun = time.Date(2021, 3, 2, 9, 0, 0, 0, time.UTC)
)

// newTestDB returns a migrated in-memory store.
func newTestDB(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.NewSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(context.Background()))
	return db
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func boolRef(b bool) *bool {
	return &b
}
