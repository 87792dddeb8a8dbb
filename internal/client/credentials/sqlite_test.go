package credentials

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE credentials (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL CHECK (value <> 'reject-me')
);`)
	require.NoError(t, err)
	return db
}

func TestSQLiteStore_SetGetDelete(t *testing.T) {
	s := NewSQLiteStore(setupDB(t))
	ctx := context.Background()

	_, ok, err := s.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, KeyAuthToken, "t1"))
	require.NoError(t, s.Set(ctx, KeyAuthToken, "t2"))

	v, ok, err := s.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "t2", v)

	require.NoError(t, s.Delete(ctx, KeyAuthToken))
	require.NoError(t, s.Delete(ctx, KeyAuthToken), "delete is idempotent")
	_, ok, err = s.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStore_SaveLoadClear(t *testing.T) {
	s := NewSQLiteStore(setupDB(t))
	ctx := context.Background()

	require.NoError(t, Save(ctx, s, Record{Token: "tok", UserID: "u-1"}))

	rec, ok, err := Load(ctx, s)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Record{Token: "tok", UserID: "u-1"}, rec)

	require.NoError(t, Clear(ctx, s))
	_, ok, err = Load(ctx, s)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStore_SaveIsAtomic(t *testing.T) {
	s := NewSQLiteStore(setupDB(t))
	ctx := context.Background()

	err := Save(ctx, s, Record{Token: "tok", UserID: "reject-me"})
	require.Error(t, err)

	_, ok, err := s.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	assert.False(t, ok, "token must not be written when the user id fails")
}

func TestSQLiteStore_ErrorsPropagate(t *testing.T) {
	db := setupDB(t)
	s := NewSQLiteStore(db)
	require.NoError(t, db.Close())
	ctx := context.Background()

	_, _, err := s.Get(ctx, KeyUserID)
	assert.Error(t, err)
	assert.Error(t, s.Set(ctx, KeyUserID, "x"))
	assert.Error(t, s.Delete(ctx, KeyUserID))

	_, ok, err := Load(ctx, s)
	assert.Error(t, err)
	assert.False(t, ok)
}
