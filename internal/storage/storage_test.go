package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/itemquery/internal/common"
	"github.com/Veraticus/itemquery/internal/model"
	"github.com/Veraticus/itemquery/internal/testutil"
)

func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "nested", "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage(" ")
	require.ErrorIs(t, err, ErrEmptyString)
}

func TestMigrate_Idempotent(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Migrate(ctx))

	var version int
	require.NoError(t, store.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version))
	assert.Equal(t, ExpectedSchemaVersion, version)

	var indexCount int
	err := store.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sqlite_master
		WHERE type='index' AND name='idx_stat_entries_stat_id'
	`).Scan(&indexCount)
	require.NoError(t, err)
	assert.Equal(t, 1, indexCount)
}

func TestSaveAndLoadCatalog(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	cat := testutil.Catalog()

	var calls, last int
	snap, created, err := store.SaveCatalog(ctx, cat, "fixture", func(done, total int) {
		calls++
		last = done
		assert.Equal(t, cat.EntryCount(), total)
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Positive(t, snap.ID)
	assert.Equal(t, cat.EntryCount(), calls)
	assert.Equal(t, cat.EntryCount(), last)

	loaded, latest, err := store.LoadCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap.ID, latest.ID)
	assert.Equal(t, "fixture", latest.Source)
	assert.Equal(t, cat, loaded)

	sum, err := Checksum(loaded)
	require.NoError(t, err)
	assert.Equal(t, snap.Checksum, sum)
}

func TestSaveCatalog_Deduplicates(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	first, created, err := store.SaveCatalog(ctx, testutil.Catalog(), "a", nil)
	require.NoError(t, err)
	require.True(t, created)

	again, created, err := store.SaveCatalog(ctx, testutil.Catalog(), "b", nil)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)

	changed := testutil.Catalog()
	changed.Rarities = changed.Rarities[:2]
	third, created, err := store.SaveCatalog(ctx, changed, "c", nil)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Greater(t, third.ID, first.ID)

	snaps, err := store.ListSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, third.ID, snaps[0].ID)
}

func TestSaveCatalog_Invalid(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	_, _, err := store.SaveCatalog(ctx, nil, "x", nil)
	require.ErrorIs(t, err, ErrNilParameter)

	_, _, err = store.SaveCatalog(ctx, &model.Catalog{}, "x", nil)
	require.ErrorIs(t, err, ErrEmptyCatalog)

	bad := &model.Catalog{Groups: []model.StatGroup{{ID: "explicit", Entries: []model.StatEntry{{Text: "x"}}}}}
	_, _, err = store.SaveCatalog(ctx, bad, "x", nil)
	require.ErrorIs(t, err, ErrEmptyString)
}

func TestLoadCatalog_Empty(t *testing.T) {
	store := createTestStorage(t)

	_, _, err := store.LoadCatalog(context.Background())
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = store.LoadSnapshot(context.Background(), 42)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestPruneSnapshots(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		cat := testutil.Catalog()
		cat.Rarities = cat.Rarities[:i+1]
		_, _, err := store.SaveCatalog(ctx, cat, "fixture", nil)
		require.NoError(t, err)
	}

	_, err := store.PruneSnapshots(ctx, 0)
	require.ErrorIs(t, err, common.ErrInvalidConfig)

	removed, err := store.PruneSnapshots(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	var entries int
	require.NoError(t, store.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT snapshot_id) FROM stat_entries`).Scan(&entries))
	assert.Equal(t, 1, entries, "child rows are removed with their snapshot")

	loaded, _, err := store.LoadCatalog(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded.Rarities, 3)
}

func TestClassifyError(t *testing.T) {
	assert.NoError(t, classifyError(nil))

	busy := sqlite3.Error{Code: sqlite3.ErrBusy}
	assert.ErrorIs(t, classifyError(busy), common.ErrDatabaseBusy)
	assert.True(t, common.IsRetryable(classifyError(busy)))

	plain := errors.New("boom")
	assert.Equal(t, plain, classifyError(plain))
}
