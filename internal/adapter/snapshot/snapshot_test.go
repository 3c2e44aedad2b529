package snapshot_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crystalos/internal/adapter/snapshot"
	"crystalos/internal/core/domain"
)

func TestBlob_SaveLoadDelete(t *testing.T) {
	dir := t.TempDir()
	blob := snapshot.New(dir).ForUser("user-1")
	ctx := context.Background()

	_, ok, err := blob.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	saved := domain.Snapshot{
		User:          &domain.User{ID: "user-1", Email: "pilot@crystal.os"},
		ThemeColor:    "#FF006E",
		IsDarkMode:    true,
		Tasks:         []domain.Task{{ID: "t1", Title: "Calibrate", CreatedAt: time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)}},
		LastResetDate: domain.Day{Year: 2025, Month: time.March, Date: 4},
	}
	require.NoError(t, blob.Save(ctx, saved))

	_, err = os.Stat(filepath.Join(dir, snapshot.Key("user-1")))
	require.NoError(t, err)

	loaded, ok, err := snapshot.New(dir).ForUser("user-1").Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, saved, loaded)

	require.NoError(t, blob.Delete(ctx))
	require.NoError(t, blob.Delete(ctx))
	_, ok, err = blob.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBlob_IsolatedPerUser(t *testing.T) {
	store := snapshot.New(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.ForUser("a").Save(ctx, domain.Snapshot{ThemeColor: "#000000"}))

	_, ok, err := store.ForUser("b").Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBlob_CorruptPayload(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, snapshot.Key("user-1")), []byte("{nope"), 0o644))

	_, ok, err := snapshot.New(dir).ForUser("user-1").Load(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
}
