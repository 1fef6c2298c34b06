package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cartcompare/backend/internal/domain"
	"github.com/spf13/afero"
)

// FileCache keeps all entries in a single JSON document that is read in
// full on every lookup and rewritten in full on every change. The document
// survives process restarts.
type FileCache struct {
	fs    afero.Fs
	path  string
	mutex sync.Mutex
}

// NewFileCache creates a file cache at path on the OS filesystem
func NewFileCache(path string) (*FileCache, error) {
	return NewFileCacheFs(afero.NewOsFs(), path)
}

// NewFileCacheFs creates a file cache at path on fs
func NewFileCacheFs(fs afero.Fs, path string) (*FileCache, error) {
	if path == "" {
		return nil, errors.New("cache file path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}
	return &FileCache{fs: fs, path: path}, nil
}

// Get retrieves an entry from the cache file
func (c *FileCache) Get(ctx context.Context, key string) (*domain.CacheEntry, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entries, err := c.load()
	if err != nil {
		return nil, err
	}

	entry, ok := entries[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return &entry, nil
}

// Set stores an entry and rewrites the cache file
func (c *FileCache) Set(ctx context.Context, key string, entry domain.CacheEntry) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entries, err := c.load()
	if err != nil {
		// An unreadable document is replaced rather than blocking new writes
		entries = make(map[string]domain.CacheEntry)
	}

	entries[key] = entry
	return c.save(entries)
}

// Delete removes an entry and rewrites the cache file
func (c *FileCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entries, err := c.load()
	if err != nil {
		return err
	}
	if _, ok := entries[key]; !ok {
		return nil
	}

	delete(entries, key)
	return c.save(entries)
}

// Entries returns every entry in the cache file
func (c *FileCache) Entries(ctx context.Context) (map[string]domain.CacheEntry, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.load()
}

// load reads the whole document. A missing file is an empty cache.
func (c *FileCache) load() (map[string]domain.CacheEntry, error) {
	data, err := afero.ReadFile(c.fs, c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]domain.CacheEntry), nil
		}
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrCacheUnavailable, c.path, err)
	}

	entries := make(map[string]domain.CacheEntry)
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrCacheUnavailable, c.path, err)
	}
	return entries, nil
}

// save writes the whole document to a temp file and renames it into place
func (c *FileCache) save(entries map[string]domain.CacheEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %v", domain.ErrCacheUnavailable, err)
	}

	tmp := c.path + ".tmp"
	if err := afero.WriteFile(c.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", domain.ErrCacheUnavailable, tmp, err)
	}
	if err := c.fs.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("%w: rename %s: %v", domain.ErrCacheUnavailable, tmp, err)
	}
	return nil
}
