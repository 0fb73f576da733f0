package artefacts

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/musicarchive/internal/common"
	"github.com/dmitrijs2005/musicarchive/internal/cryptox"
	"github.com/dmitrijs2005/musicarchive/internal/dbx"
	"github.com/dmitrijs2005/musicarchive/internal/logging"
	"github.com/dmitrijs2005/musicarchive/internal/models"
	"github.com/dmitrijs2005/musicarchive/internal/repositories/history"
	"github.com/dmitrijs2005/musicarchive/internal/repositories/repomanager"
	"github.com/dmitrijs2005/musicarchive/internal/services/credentials"
	"github.com/dmitrijs2005/musicarchive/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db    *sql.DB
	store *Service
	admin credentials.Principal
	user  credentials.Principal
	logs  *bytes.Buffer
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := storage.Open(ctx, ":memory:", time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var buf bytes.Buffer
	log, err := logging.New(&buf, "debug", logging.FormatJSON)
	require.NoError(t, err)

	rm := repomanager.NewSQLiteRepositoryManager()
	creds, err := credentials.NewService(db, rm, credentials.Options{
		MinPasswordLength: 4,
		SaltLength:        16,
		KDF:               cryptox.KDFParams{Time: 1, MemoryKiB: 8, Threads: 1, KeyLen: 32},
	}, logging.Discard())
	require.NoError(t, err)

	register := func(username, password, email string, role models.Role) credentials.Principal {
		_, err := creds.RegisterAccount(ctx, credentials.RegisterRequest{
			Username: username,
			Password: []byte(password),
			Role:     role,
			Profile:  models.Profile{FirstName: username, LastName: "Test", Email: email},
		})
		require.NoError(t, err)
		p, err := creds.Authenticate(ctx, username, []byte(password))
		require.NoError(t, err)
		return p
	}

	return &fixture{
		db:    db,
		store: NewService(db, rm, log),
		admin: register("alice", "p@ss1", "alice@example.com", models.RoleAdmin),
		user:  register("bob", "hunter2", "bob@example.com", models.RoleUser),
		logs:  &buf,
	}
}

func TestAliceAndBob(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	require.Equal(t, models.RoleAdmin, f.admin.Role())

	id, err := f.store.Store(ctx, f.admin, models.KindLyrics, "Verses", []byte("verse one"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	got, err := f.store.Fetch(ctx, f.user, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("verse one"), got.Payload)

	require.ErrorIs(t, f.store.Delete(ctx, f.user, id), common.ErrorPermissionDenied)
	require.NoError(t, f.store.Delete(ctx, f.admin, id))

	_, err = f.store.Fetch(ctx, f.admin, id)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestStoreFetch_RoundTrip(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	payloads := map[models.ArtefactKind][]byte{
		models.KindRecording: {0x00, 0xff, 0x10, 0x00},
		models.KindLyrics:    []byte("Twinkle, twinkle, little star"),
		models.KindScore:     bytes.Repeat([]byte{0xab}, 4096),
	}
	for kind, payload := range payloads {
		id, err := f.store.Store(ctx, f.admin, kind, "Song", payload)
		require.NoError(t, err)

		got, err := f.store.Fetch(ctx, f.user, id)
		require.NoError(t, err)
		assert.Equal(t, payload, got.Payload)
		assert.Equal(t, kind, got.Kind)
		assert.Equal(t, cryptox.Checksum(payload), got.Checksum)
		assert.Equal(t, int64(len(payload)), got.Size)
		assert.True(t, got.CreatedAt.Equal(got.UpdatedAt))
	}
}

func TestFetch_DetectsCorruption(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	id, err := f.store.Store(ctx, f.admin, models.KindScore, "Song 1", []byte("C D E F G"))
	require.NoError(t, err)

	_, err = f.db.ExecContext(ctx, `UPDATE artefacts SET payload = ? WHERE id = ?`, []byte("C D E F#G"), id)
	require.NoError(t, err)

	got, err := f.store.Fetch(ctx, f.admin, id)
	require.ErrorIs(t, err, common.ErrorIntegrityViolation)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
	assert.Nil(t, got, "altered payload must never be returned")

	assert.Contains(t, f.logs.String(), `"level":"ERROR"`)
	assert.Contains(t, f.logs.String(), "integrity violation")

	metas, err := f.store.List(ctx, f.user, nil)
	require.NoError(t, err)
	assert.Len(t, metas, 1, "listing does not verify checksums")
}

func TestUserRole_CannotWrite(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	id, err := f.store.Store(ctx, f.admin, models.KindLyrics, "Song 1", []byte("la"))
	require.NoError(t, err)

	_, err = f.store.Store(ctx, f.user, models.KindLyrics, "Song 2", []byte("la"))
	require.ErrorIs(t, err, common.ErrorPermissionDenied)
	require.ErrorIs(t, f.store.Update(ctx, f.user, id, []byte("lo")), common.ErrorPermissionDenied)
	require.ErrorIs(t, f.store.Delete(ctx, f.user, id), common.ErrorPermissionDenied)
	_, err = f.store.History(ctx, f.user, nil)
	require.ErrorIs(t, err, common.ErrorPermissionDenied)
	_, err = f.store.Verify(ctx, f.user)
	require.ErrorIs(t, err, common.ErrorPermissionDenied)

	_, err = f.store.Fetch(ctx, f.user, id)
	require.NoError(t, err)
	_, err = f.store.List(ctx, f.user, nil)
	require.NoError(t, err)

	got, err := f.store.Fetch(ctx, f.admin, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("la"), got.Payload, "denied update must not change the payload")
	assert.Contains(t, f.logs.String(), "permission denied")
}

func TestZeroPrincipal_Unauthenticated(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	var nobody credentials.Principal

	_, err := f.store.Store(ctx, nobody, models.KindLyrics, "x", []byte("x"))
	require.ErrorIs(t, err, common.ErrorUnauthenticated)
	_, err = f.store.Fetch(ctx, nobody, 1)
	require.ErrorIs(t, err, common.ErrorUnauthenticated)
	require.ErrorIs(t, f.store.Update(ctx, nobody, 1, []byte("x")), common.ErrorUnauthenticated)
	require.ErrorIs(t, f.store.Delete(ctx, nobody, 1), common.ErrorUnauthenticated)
	_, err = f.store.List(ctx, nobody, nil)
	require.ErrorIs(t, err, common.ErrorUnauthenticated)
	_, err = f.store.History(ctx, nobody, nil)
	require.ErrorIs(t, err, common.ErrorUnauthenticated)
	_, err = f.store.Verify(ctx, nobody)
	require.ErrorIs(t, err, common.ErrorUnauthenticated)
}

func TestStore_Validation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.store.Store(ctx, f.admin, models.ArtefactKind("video"), "x", []byte("x"))
	require.ErrorIs(t, err, common.ErrorValidation)
	_, err = f.store.Store(ctx, f.admin, models.KindLyrics, "  ", []byte("x"))
	require.ErrorIs(t, err, common.ErrorValidation)

	bad := models.ArtefactKind("video")
	_, err = f.store.List(ctx, f.admin, &bad)
	require.ErrorIs(t, err, common.ErrorValidation)
}

func TestStore_EmptyPayloadRoundTrip(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	for name, payload := range map[string][]byte{"empty": {}, "nil": nil} {
		t.Run(name, func(t *testing.T) {
			id, err := f.store.Store(ctx, f.admin, models.KindLyrics, "Silence", payload)
			require.NoError(t, err)

			got, err := f.store.Fetch(ctx, f.user, id)
			require.NoError(t, err)
			assert.Empty(t, got.Payload)
			assert.Equal(t, cryptox.Checksum(nil), got.Checksum)
			assert.Zero(t, got.Size)
		})
	}

	id, err := f.store.Store(ctx, f.admin, models.KindScore, "Coda", []byte("notes"))
	require.NoError(t, err)
	require.NoError(t, f.store.Update(ctx, f.admin, id, nil))
	got, err := f.store.Fetch(ctx, f.user, id)
	require.NoError(t, err)
	assert.Empty(t, got.Payload)
}

func TestUpdate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	id, err := f.store.Store(ctx, f.admin, models.KindLyrics, "Song 1", []byte("first"))
	require.NoError(t, err)

	require.NoError(t, f.store.Update(ctx, f.admin, id, []byte("second")))
	got, err := f.store.Fetch(ctx, f.user, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got.Payload)
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))

	require.ErrorIs(t, f.store.Update(ctx, f.admin, 404, []byte("x")), common.ErrorNotFound)
	require.ErrorIs(t, f.store.Delete(ctx, f.admin, 404), common.ErrorNotFound)
}

func TestHistory_OneEntryPerMutation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	id, err := f.store.Store(ctx, f.admin, models.KindScore, "Song 4", []byte("v1"))
	require.NoError(t, err)
	require.NoError(t, f.store.Update(ctx, f.admin, id, []byte("v2")))
	require.NoError(t, f.store.Update(ctx, f.admin, id, []byte("v3")))
	require.NoError(t, f.store.Delete(ctx, f.admin, id))

	other, err := f.store.Store(ctx, f.admin, models.KindLyrics, "Song 5", []byte("x"))
	require.NoError(t, err)

	entries, err := f.store.History(ctx, f.admin, &id)
	require.NoError(t, err)
	require.Len(t, entries, 4, "history must survive deletion")

	want := []models.Action{models.ActionCreate, models.ActionUpdate, models.ActionUpdate, models.ActionDelete}
	for i, e := range entries {
		assert.Equal(t, want[i], e.Action)
		assert.Equal(t, id, e.ArtefactID)
		assert.Equal(t, f.admin.AccountID(), e.AccountID)
		assert.Equal(t, "alice", e.Username)
		assert.Equal(t, "Song 4", e.Title)
		assert.Equal(t, models.KindScore, e.Kind)
		if i > 0 {
			assert.False(t, e.CreatedAt.Before(entries[i-1].CreatedAt))
		}
	}

	all, err := f.store.History(ctx, f.admin, nil)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, other, all[4].ArtefactID)
}

func TestHistory_ClockGoingBackwards(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	ticks := []time.Time{base, base.Add(-time.Hour), base.Add(-2 * time.Hour)}
	f.store.clock = func() time.Time {
		now := ticks[0]
		if len(ticks) > 1 {
			ticks = ticks[1:]
		}
		return now
	}

	id, err := f.store.Store(ctx, f.admin, models.KindLyrics, "Song", []byte("a"))
	require.NoError(t, err)
	require.NoError(t, f.store.Update(ctx, f.admin, id, []byte("b")))
	require.NoError(t, f.store.Delete(ctx, f.admin, id))

	entries, err := f.store.History(ctx, f.admin, &id)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for _, e := range entries {
		assert.True(t, e.CreatedAt.Equal(base), "timestamp %s must be clamped to %s", e.CreatedAt, base)
	}
}

func TestVerify(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	var ids []int64
	for _, title := range []string{"Song 1", "Song 2", "Song 3"} {
		id, err := f.store.Store(ctx, f.admin, models.KindLyrics, title, []byte(title))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	reports, err := f.store.Verify(ctx, f.admin)
	require.NoError(t, err)
	assert.Empty(t, reports)

	_, err = f.db.ExecContext(ctx, `UPDATE artefacts SET checksum = 'deadbeef' WHERE id = ?`, ids[1])
	require.NoError(t, err)

	reports, err = f.store.Verify(ctx, f.admin)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, ids[1], reports[0].ArtefactID)
	assert.Equal(t, "Song 2", reports[0].Title)
	assert.Equal(t, "deadbeef", reports[0].Stored)
	assert.Equal(t, cryptox.Checksum([]byte("Song 2")), reports[0].Computed)
}

func TestList_FilterByKind(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	for _, k := range []models.ArtefactKind{models.KindLyrics, models.KindScore, models.KindLyrics} {
		_, err := f.store.Store(ctx, f.admin, k, "Song", []byte("x"))
		require.NoError(t, err)
	}

	kind := models.KindLyrics
	metas, err := f.store.List(ctx, f.user, &kind)
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, int64(1), metas[0].ID)
	assert.Equal(t, int64(3), metas[1].ID)
}

// failingHistory wraps the real manager so that history appends fail.
type failingHistory struct {
	repomanager.RepositoryManager
}

type brokenHistoryRepo struct {
	history.Repository
}

func (brokenHistoryRepo) Append(context.Context, *models.HistoryEntry) error {
	return errors.New("history unavailable")
}

func (m failingHistory) History(db dbx.DBTX) history.Repository {
	return brokenHistoryRepo{Repository: m.RepositoryManager.History(db)}
}

func TestMutation_RolledBackWhenHistoryFails(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	id, err := f.store.Store(ctx, f.admin, models.KindLyrics, "Song", []byte("kept"))
	require.NoError(t, err)

	broken := NewService(f.db, failingHistory{repomanager.NewSQLiteRepositoryManager()}, logging.Discard())

	_, err = broken.Store(ctx, f.admin, models.KindLyrics, "Lost", []byte("x"))
	require.ErrorContains(t, err, "history unavailable")
	require.Error(t, broken.Update(ctx, f.admin, id, []byte("changed")))
	require.Error(t, broken.Delete(ctx, f.admin, id))

	metas, err := f.store.List(ctx, f.admin, nil)
	require.NoError(t, err)
	require.Len(t, metas, 1, "failed store must not leave an artefact behind")

	got, err := f.store.Fetch(ctx, f.admin, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("kept"), got.Payload)

	entries, err := f.store.History(ctx, f.admin, nil)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
