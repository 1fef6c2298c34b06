package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/cartcompare/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs only against a real database: CARTCOMPARE_TEST_POSTGRES_URL=postgres://...
func TestPostgresCache_Integration(t *testing.T) {
	url := os.Getenv("CARTCOMPARE_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("CARTCOMPARE_TEST_POSTGRES_URL not set")
	}

	ctx := context.Background()
	cache, err := NewPostgresCache(ctx, url)
	require.NoError(t, err)
	defer cache.Close()

	key := "test-" + time.Now().Format("150405.000000")
	defer cache.Delete(ctx, key)

	_, err = cache.Get(ctx, key)
	assert.Equal(t, domain.ErrCacheMiss, err)

	ts := time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, cache.Set(ctx, key, testEntry(ts, "Coto", "Dia")))
	require.NoError(t, cache.Set(ctx, key, testEntry(ts, "Jumbo")))

	got, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, got.Timestamp.Equal(ts))
	require.Len(t, got.Data.Products, 1)
	assert.Equal(t, "Jumbo", got.Data.Products[0].Store)

	entries, err := cache.Entries(ctx)
	require.NoError(t, err)
	assert.Contains(t, entries, key)

	require.NoError(t, cache.Delete(ctx, key))
	_, err = cache.Get(ctx, key)
	assert.Equal(t, domain.ErrCacheMiss, err)
}
