package cache

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/cartcompare/backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemFileCache(t *testing.T) (*FileCache, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	cache, err := NewFileCacheFs(fs, "data/offer_cache.json")
	require.NoError(t, err)
	return cache, fs
}

func TestFileCache_SetAndGet(t *testing.T) {
	cache, _ := newMemFileCache(t)
	ctx := context.Background()

	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, cache.Set(ctx, "gaseosa", testEntry(ts, "A", "B")))

	got, err := cache.Get(ctx, "gaseosa")
	require.NoError(t, err)
	assert.True(t, got.Timestamp.Equal(ts))
	require.Len(t, got.Data.Products, 2)
	assert.Equal(t, "B", got.Data.Products[1].Store)
	assert.True(t, decimal.NewFromInt(1100).Equal(got.Data.Products[1].Price))
	assert.Equal(t, 2, got.Data.TotalFound)
}

func TestFileCache_MissingFileIsMiss(t *testing.T) {
	cache, _ := newMemFileCache(t)

	_, err := cache.Get(context.Background(), "leche")
	assert.Equal(t, domain.ErrCacheMiss, err)

	entries, err := cache.Entries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileCache_DocumentFormat(t *testing.T) {
	cache, fs := newMemFileCache(t)
	ctx := context.Background()

	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, cache.Set(ctx, "leche", testEntry(ts, "Coto")))

	data, err := afero.ReadFile(fs, "data/offer_cache.json")
	require.NoError(t, err)

	var doc map[string]struct {
		Timestamp string `json:"timestamp"`
		Data      struct {
			Products   []map[string]interface{} `json:"products"`
			TotalFound int                      `json:"totalFound"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Contains(t, doc, "leche")
	assert.Equal(t, "2026-03-01T10:00:00Z", doc["leche"].Timestamp)
	assert.Equal(t, 1, doc["leche"].Data.TotalFound)
	assert.Equal(t, "Coto", doc["leche"].Data.Products[0]["store"])

	exists, err := afero.Exists(fs, "data/offer_cache.json.tmp")
	require.NoError(t, err)
	assert.False(t, exists, "temp file left behind")
}

func TestFileCache_KeysRewrittenIndependently(t *testing.T) {
	cache, _ := newMemFileCache(t)
	ctx := context.Background()

	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)
	require.NoError(t, cache.Set(ctx, "leche", testEntry(first, "Coto")))
	require.NoError(t, cache.Set(ctx, "pan", testEntry(first, "Dia")))
	require.NoError(t, cache.Set(ctx, "leche", testEntry(second, "Jumbo")))

	entries, err := cache.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries["leche"].Timestamp.Equal(second))
	assert.Equal(t, "Jumbo", entries["leche"].Data.Products[0].Store)
	assert.Equal(t, "Dia", entries["pan"].Data.Products[0].Store)
}

func TestFileCache_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "offers.json")
	ctx := context.Background()

	cache, err := NewFileCache(path)
	require.NoError(t, err)
	require.NoError(t, cache.Set(ctx, "arroz", testEntry(time.Now(), "Coto")))

	reopened, err := NewFileCache(path)
	require.NoError(t, err)

	got, err := reopened.Get(ctx, "arroz")
	require.NoError(t, err)
	assert.Equal(t, "Coto", got.Data.Products[0].Store)
}

func TestFileCache_CorruptFile(t *testing.T) {
	cache, fs := newMemFileCache(t)
	ctx := context.Background()

	require.NoError(t, afero.WriteFile(fs, "data/offer_cache.json", []byte("{not json"), 0o644))

	_, err := cache.Get(ctx, "leche")
	assert.True(t, errors.Is(err, domain.ErrCacheUnavailable), "error = %v", err)

	_, err = cache.Entries(ctx)
	assert.True(t, errors.Is(err, domain.ErrCacheUnavailable), "error = %v", err)

	// Writing replaces the corrupt document
	require.NoError(t, cache.Set(ctx, "leche", testEntry(time.Now(), "Coto")))
	got, err := cache.Get(ctx, "leche")
	require.NoError(t, err)
	assert.Equal(t, "Coto", got.Data.Products[0].Store)
}

func TestFileCache_Delete(t *testing.T) {
	cache, _ := newMemFileCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "leche", testEntry(time.Now(), "Coto")))
	require.NoError(t, cache.Delete(ctx, "leche"))
	require.NoError(t, cache.Delete(ctx, "never-set"))

	_, err := cache.Get(ctx, "leche")
	assert.Equal(t, domain.ErrCacheMiss, err)
}

func TestFileCache_WriteFailure(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	cache := &FileCache{fs: fs, path: "offer_cache.json"}

	err := cache.Set(context.Background(), "leche", testEntry(time.Now(), "Coto"))
	assert.True(t, errors.Is(err, domain.ErrCacheUnavailable), "error = %v", err)
}

func TestNewFileCache_RequiresPath(t *testing.T) {
	_, err := NewFileCacheFs(afero.NewMemMapFs(), "")
	assert.Error(t, err)
}
