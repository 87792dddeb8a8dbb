package matches

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/cupid/internal/client/models"
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
CREATE TABLE matches (
  id                  TEXT PRIMARY KEY,
  user_id             TEXT NOT NULL,
  matched_user_id     TEXT NOT NULL,
  match_date          INTEGER NOT NULL,
  last_message_date   INTEGER,
  has_unread_messages INTEGER NOT NULL DEFAULT 0,
  match_status        TEXT NOT NULL DEFAULT 'active'
);`)
	require.NoError(t, err)
	return db
}

func TestUpsertAndList(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	older := models.NewMatch("me", "a", time.Unix(1700000000, 0).UTC())
	newer := models.NewMatch("me", "b", time.Unix(1700100000, 0).UTC())
	last := time.Unix(1700100500, 0).UTC()
	newer.LastMessageDate = &last
	newer.HasUnreadMessages = true
	other := models.NewMatch("someone", "me", time.Unix(1700000000, 0).UTC())

	for _, m := range []*models.Match{older, newer, other} {
		require.NoError(t, r.Upsert(ctx, m))
	}

	got, err := r.ListByUser(ctx, "me")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, newer, got[0])
	assert.Equal(t, older, got[1])
}

func TestUpsert_UpdatesStatus(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	m := models.NewMatch("me", "a", time.Unix(1700000000, 0).UTC())
	require.NoError(t, r.Upsert(ctx, m))
	m.Status = models.MatchBlocked
	require.NoError(t, r.Upsert(ctx, m))

	got, err := r.ListByUser(ctx, "me")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].IsBlocked())
}

func TestListByUser_RejectsUnknownStatus(t *testing.T) {
	db := setupDB(t)
	_, err := db.Exec(`INSERT INTO matches (id, user_id, matched_user_id, match_date, match_status)
		VALUES ('m', 'me', 'x', 0, 'pending')`)
	require.NoError(t, err)

	_, err = NewSQLiteRepository(db).ListByUser(context.Background(), "me")
	require.ErrorIs(t, err, models.ErrMalformedTransport)
}

func TestDelete(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	m := models.NewMatch("me", "a", time.Now())
	require.NoError(t, r.Upsert(ctx, m))
	require.NoError(t, r.Delete(ctx, m.ID))

	got, err := r.ListByUser(ctx, "me")
	require.NoError(t, err)
	assert.Empty(t, got)
}
