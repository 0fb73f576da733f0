package history

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/musicarchive/internal/models"
	"github.com/dmitrijs2005/musicarchive/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := storage.Open(ctx, ":memory:", time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.ExecContext(ctx, `INSERT INTO profiles (first_name, last_name, email, created_at)
		VALUES ('Alice', 'A', 'alice@example.com', 'x'), ('Bob', 'B', 'bob@example.com', 'x')`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO accounts (profile_id, username, password_hash, salt, role, created_at)
		VALUES (1, 'alice', x'00', x'00', 'admin', 'x'), (2, 'bob', x'00', x'00', 'user', 'x')`)
	require.NoError(t, err)
	return db
}

var t0 = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

func TestAppendAndList(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	entries := []*models.HistoryEntry{
		{ArtefactID: 1, AccountID: 1, Action: models.ActionCreate, Kind: models.KindLyrics, Title: "Song 1", CreatedAt: t0},
		{ArtefactID: 2, AccountID: 1, Action: models.ActionCreate, Kind: models.KindScore, Title: "Song 2", CreatedAt: t0.Add(time.Second)},
		{ArtefactID: 1, AccountID: 1, Action: models.ActionUpdate, Kind: models.KindLyrics, Title: "Song 1", CreatedAt: t0.Add(1500 * time.Millisecond)},
		{ArtefactID: 1, AccountID: 1, Action: models.ActionDelete, Kind: models.KindLyrics, Title: "Song 1", CreatedAt: t0.Add(2 * time.Second)},
	}
	for _, e := range entries {
		require.NoError(t, r.Append(ctx, e))
		assert.NotZero(t, e.ID)
	}

	all, err := r.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, models.ActionCreate, all[0].Action)
	assert.Equal(t, int64(2), all[1].ArtefactID)
	assert.Equal(t, models.ActionUpdate, all[2].Action, "fractional seconds must order after whole seconds")
	assert.Equal(t, "alice", all[0].Username)

	id := int64(1)
	one, err := r.List(ctx, &id)
	require.NoError(t, err)
	require.Len(t, one, 3)
	assert.Equal(t,
		[]models.Action{models.ActionCreate, models.ActionUpdate, models.ActionDelete},
		[]models.Action{one[0].Action, one[1].Action, one[2].Action})
	assert.Equal(t, "Song 1", one[2].Title)
	assert.True(t, one[2].CreatedAt.Equal(t0.Add(2*time.Second)))
}

func TestList_SameTimestampOrdersByID(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	for _, a := range []models.Action{models.ActionCreate, models.ActionUpdate, models.ActionUpdate} {
		require.NoError(t, r.Append(ctx, &models.HistoryEntry{ArtefactID: 5, AccountID: 1, Action: a, Kind: models.KindLyrics, Title: "x", CreatedAt: t0}))
	}
	got, err := r.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Less(t, got[0].ID, got[1].ID)
	assert.Less(t, got[1].ID, got[2].ID)
}

func TestLatest(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	_, ok, err := r.Latest(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.Append(ctx, &models.HistoryEntry{ArtefactID: 1, AccountID: 2, Action: models.ActionCreate, Kind: models.KindLyrics, Title: "x", CreatedAt: t0}))
	require.NoError(t, r.Append(ctx, &models.HistoryEntry{ArtefactID: 1, AccountID: 2, Action: models.ActionUpdate, Kind: models.KindLyrics, Title: "x", CreatedAt: t0.Add(time.Hour)}))

	ts, ok, err := r.Latest(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, ts.Equal(t0.Add(time.Hour)))
}

func TestAppend_UnknownAccountRejected(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	err := r.Append(context.Background(), &models.HistoryEntry{ArtefactID: 1, AccountID: 99, Action: models.ActionCreate, Kind: models.KindLyrics, Title: "x", CreatedAt: t0})
	require.Error(t, err)
}

func TestDBErrors(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	down := errors.New("db down")

	mock.ExpectExec(`^INSERT INTO modification_history`).WillReturnError(down)
	require.ErrorIs(t, r.Append(ctx, &models.HistoryEntry{}), down)

	mock.ExpectQuery(`(?s)^SELECT .* FROM modification_history h`).WillReturnError(down)
	_, err = r.List(ctx, nil)
	require.ErrorIs(t, err, down)

	mock.ExpectQuery(`^SELECT MAX\(created_at\)`).WithArgs(int64(3)).WillReturnError(down)
	_, _, err = r.Latest(ctx, 3)
	require.ErrorIs(t, err, down)

	require.NoError(t, mock.ExpectationsWereMet())
}
