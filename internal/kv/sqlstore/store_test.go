package sqlstore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finboard/internal/database"
	"github.com/MrJamesThe3rd/finboard/internal/kv"
	"github.com/MrJamesThe3rd/finboard/internal/kv/sqlstore"
)

func newSQLiteStore(t *testing.T) *sqlstore.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "state.db")
	require.NoError(t, database.Migrate(database.DriverSQLite, path))

	db, err := database.New(database.DriverSQLite, path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlstore.New(db, sqlstore.SQLite)
}

func TestStore_GetMissing(t *testing.T) {
	s := newSQLiteStore(t)

	_, err := s.Get(context.Background(), "income")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestStore_PutAndGet(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	err := s.Put(ctx, []kv.Entry{
		{Key: "balance", Value: []byte(`6400`)},
		{Key: "notifications", Value: []byte(`["a","b"]`)},
	})
	require.NoError(t, err)

	got, err := s.Get(ctx, "notifications")
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b"]`, string(got))

	err = s.Put(ctx, []kv.Entry{{Key: "balance", Value: []byte(`100`)}})
	require.NoError(t, err)

	got, err = s.Get(ctx, "balance")
	require.NoError(t, err)
	assert.Equal(t, "100", string(got))
}

func TestStore_MigrateTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	require.NoError(t, database.Migrate(database.DriverSQLite, path))
	require.NoError(t, database.Migrate(database.DriverSQLite, path))
}
