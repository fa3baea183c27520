package resource

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfial/atlas-resource-bot/internal/apperrors"
	"github.com/pfial/atlas-resource-bot/internal/logger"
)

func buildTestIndex(t *testing.T) *Index {
	t.Helper()
	b := NewBuilder(logger.New("error"))
	require.NoError(t, b.AddSheet("A1 Grid", testSheetRows()))
	require.NoError(t, b.AddSheet("B2 Grid", [][]string{
		{"", "IslandZ"},
		{"Tin/Zinn", "TRUE"},
	}))
	return b.Build()
}

func TestCache_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	idx := buildTestIndex(t)

	require.NoError(t, SaveCache(dir, idx))

	loaded, err := LoadCache(dir)
	require.NoError(t, err)

	assert.Equal(t, idx.EN, loaded.EN)
	assert.Equal(t, idx.DE, loaded.DE)
	assert.Equal(t, idx.Grids, loaded.Grids)
	assert.Equal(t, idx.Islands, loaded.Islands)
}

func TestLoadCache_MissingBlob(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	idx := buildTestIndex(t)
	require.NoError(t, SaveCache(dir, idx))
	require.NoError(t, os.Remove(filepath.Join(dir, cacheFileGrids)))

	_, err := LoadCache(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadCache_CorruptBlob(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	idx := buildTestIndex(t)
	require.NoError(t, SaveCache(dir, idx))
	require.NoError(t, os.WriteFile(filepath.Join(dir, cacheFileEN), []byte("not zstd"), 0o644))

	_, err := LoadCache(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrCacheCorrupt)
}

func TestLoadCache_EmptyDir(t *testing.T) {
	t.Parallel()

	_, err := LoadCache(t.TempDir())
	require.Error(t, err)
}
