package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/tg-channel-parser/internal/domain/entity"
	"github.com/yourusername/tg-channel-parser/internal/domain/repository"
)

func exerciseCacheStore(t *testing.T, store repository.CacheStore) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, "abc")
	assert.ErrorIs(t, err, repository.ErrCacheMiss)

	ok, err := store.Exists(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, "abc", []byte(`{"v":1}`)))
	require.NoError(t, store.Put(ctx, "abc", []byte(`{"v":2}`)))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, `{"v":2}`, string(got))

	ok, err = store.Exists(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Delete(ctx, "abc"))
	require.NoError(t, store.Delete(ctx, "abc"))
	_, err = store.Get(ctx, "abc")
	assert.ErrorIs(t, err, repository.ErrCacheMiss)
}

func TestFileCacheStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileCacheStore(dir)
	require.NoError(t, err)
	exerciseCacheStore(t, store)

	require.NoError(t, store.Put(context.Background(), "k1", []byte("x")))
	assert.FileExists(t, filepath.Join(dir, "k1.json"))

	_, err = store.Get(context.Background(), "../escape")
	assert.Error(t, err)
}

func TestSQLiteCacheStore(t *testing.T) {
	store, err := NewSQLiteCacheStore(filepath.Join(t.TempDir(), "db", "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	exerciseCacheStore(t, store)
}

func TestMemoryCacheStore(t *testing.T) {
	store, err := NewMemoryCacheStore(2)
	require.NoError(t, err)
	exerciseCacheStore(t, store)

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "a", []byte("1")))
	require.NoError(t, store.Put(ctx, "b", []byte("2")))
	require.NoError(t, store.Put(ctx, "c", []byte("3")))
	ok, _ := store.Exists(ctx, "a")
	assert.False(t, ok, "oldest record evicted")

	_, err = NewMemoryCacheStore(0)
	assert.Error(t, err)
}

func TestFileRequestRepository(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo, err := NewFileRequestRepository(dir)
	require.NoError(t, err)

	reqs := []entity.SearchRequest{
		{ID: "11111111-aaaa", UserID: 1, Username: "u", Keywords: []string{"go"}, Channels: []string{"@a"}, CreatedAt: "2024-03-05T10:00:00.000000"},
		{ID: "22222222-bbbb", UserID: 1, Username: "u", Keywords: []string{"rust"}, Channels: []string{"@b"}, CreatedAt: "2024-03-05T10:00:00.500000"},
		{ID: "33333333-cccc", UserID: 12, Username: "v", Keywords: []string{"java"}, Channels: []string{"@c"}, CreatedAt: "2024-03-05T10:00:00.000000"},
	}
	for _, r := range reqs {
		require.NoError(t, repo.Save(ctx, r))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "request_1_0_broken.json"), []byte("{"), 0o644))

	got, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 2, "same-second requests do not overwrite each other")
	ids := []string{got[0].ID, got[1].ID}
	assert.ElementsMatch(t, []string{"11111111-aaaa", "22222222-bbbb"}, ids)

	none, err := repo.ListByUser(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, none)
}
