package cache

import (
	"context"
	"sync"
	"time"

	"github.com/cartcompare/backend/internal/domain"
)

// MemoryCache is a thread-safe in-memory offer cache. Entries older than the
// retention window are dropped periodically.
type MemoryCache struct {
	data      map[string]domain.CacheEntry
	mutex     sync.RWMutex
	retention time.Duration
	stop      chan struct{}
	stopOnce  sync.Once
}

// NewMemoryCache creates a new in-memory cache. A retention of zero keeps
// entries until they are overwritten or deleted.
func NewMemoryCache(retention time.Duration) *MemoryCache {
	cache := &MemoryCache{
		data:      make(map[string]domain.CacheEntry),
		retention: retention,
		stop:      make(chan struct{}),
	}

	if retention > 0 {
		go cache.cleanupExpired(10 * time.Minute)
	}

	return cache
}

// Get retrieves an entry from the cache
func (c *MemoryCache) Get(ctx context.Context, key string) (*domain.CacheEntry, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.data[key]
	if !exists {
		return nil, domain.ErrCacheMiss
	}

	entry.Data.Products = cloneOffers(entry.Data.Products)
	return &entry, nil
}

// Set stores an entry in the cache
func (c *MemoryCache) Set(ctx context.Context, key string, entry domain.CacheEntry) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry.Data.Products = cloneOffers(entry.Data.Products)
	c.data[key] = entry
	return nil
}

// Delete removes an entry from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// Entries returns a copy of every stored entry
func (c *MemoryCache) Entries(ctx context.Context) (map[string]domain.CacheEntry, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entries := make(map[string]domain.CacheEntry, len(c.data))
	for key, entry := range c.data {
		entry.Data.Products = cloneOffers(entry.Data.Products)
		entries[key] = entry
	}
	return entries, nil
}

// cleanupExpired removes entries past the retention window periodically
func (c *MemoryCache) cleanupExpired(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case now := <-ticker.C:
			c.removeOlderThan(now.Add(-c.retention))
		}
	}
}

// removeOlderThan drops entries written before cutoff
func (c *MemoryCache) removeOlderThan(cutoff time.Time) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for key, entry := range c.data {
		if entry.Timestamp.Before(cutoff) {
			delete(c.data, key)
		}
	}
}

// Size returns the current number of entries in the cache
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Close stops the cleanup goroutine
func (c *MemoryCache) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	return nil
}

func cloneOffers(offers []domain.Offer) []domain.Offer {
	if offers == nil {
		return nil
	}
	out := make([]domain.Offer, len(offers))
	copy(out, offers)
	return out
}
