package resource

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/klauspost/compress/zstd"

	"github.com/pfial/atlas-resource-bot/internal/apperrors"
)

// Cache blob file names under the cache directory. The four components
// are persisted separately so a restart can serve queries before the
// first refresh completes.
const (
	cacheFileEN      = "resource_cache_en.dat"
	cacheFileDE      = "resource_cache_de.dat"
	cacheFileIslands = "islands_cache.dat"
	cacheFileGrids   = "grids_cache.dat"
)

// SaveCache persists the four index components as zstd-compressed JSON
// blobs. Each blob is written to a temp file and renamed into place.
func SaveCache(dir string, idx *Index) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	if err := writeBlob(filepath.Join(dir, cacheFileEN), idx.EN); err != nil {
		return err
	}
	if err := writeBlob(filepath.Join(dir, cacheFileDE), idx.DE); err != nil {
		return err
	}
	if err := writeBlob(filepath.Join(dir, cacheFileIslands), idx.Islands); err != nil {
		return err
	}
	return writeBlob(filepath.Join(dir, cacheFileGrids), idx.Grids)
}

// LoadCache restores an index from the cache directory. A missing or
// unreadable blob yields an error wrapping apperrors.ErrCacheCorrupt (or
// fs.ErrNotExist); callers treat either as a soft failure and start with
// an empty index.
func LoadCache(dir string) (*Index, error) {
	idx := NewIndex()

	if err := readBlob(filepath.Join(dir, cacheFileEN), &idx.EN); err != nil {
		return nil, err
	}
	if err := readBlob(filepath.Join(dir, cacheFileDE), &idx.DE); err != nil {
		return nil, err
	}
	if err := readBlob(filepath.Join(dir, cacheFileIslands), &idx.Islands); err != nil {
		return nil, err
	}
	if err := readBlob(filepath.Join(dir, cacheFileGrids), &idx.Grids); err != nil {
		return nil, err
	}

	return idx, nil
}

func writeBlob(path string, v any) error {
	data, err := sonic.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}
	compressed := encoder.EncodeAll(data, nil)
	_ = encoder.Close()

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, compressed, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readBlob(path string, v any) error {
	compressed, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return fmt.Errorf("create zstd reader: %w", err)
	}
	defer decoder.Close()

	data, err := decoder.DecodeAll(compressed, nil)
	if err != nil {
		return fmt.Errorf("decompress %s: %w", filepath.Base(path), apperrors.ErrCacheCorrupt)
	}

	if err := sonic.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), apperrors.ErrCacheCorrupt)
	}
	return nil
}
