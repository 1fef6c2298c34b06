package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cartcompare/backend/internal/domain"
)

// CacheEntryInfo summarizes one cached offer set
type CacheEntryInfo struct {
	Key       string        `json:"key"`
	Timestamp time.Time     `json:"timestamp"`
	Age       time.Duration `json:"-"`
	Offers    int           `json:"offers"`
	Fresh     bool          `json:"fresh"`
}

// CacheService exposes inspection and eviction of the offer cache
type CacheService struct {
	cache    domain.OfferCache
	cacheTTL time.Duration
	now      func() time.Time
}

// NewCacheService creates a cache service judging freshness with ttl
func NewCacheService(cache domain.OfferCache, ttl time.Duration, now func() time.Time) *CacheService {
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	if now == nil {
		now = time.Now
	}
	return &CacheService{cache: cache, cacheTTL: ttl, now: now}
}

// List returns all cache entries sorted by key
func (s *CacheService) List(ctx context.Context) ([]CacheEntryInfo, error) {
	entries, err := s.cache.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	now := s.now()
	infos := make([]CacheEntryInfo, 0, len(entries))
	for key, entry := range entries {
		infos = append(infos, CacheEntryInfo{
			Key:       key,
			Timestamp: entry.Timestamp,
			Age:       entry.Age(now),
			Offers:    len(entry.Data.Products),
			Fresh:     entry.IsFresh(now, s.cacheTTL),
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

// Evict removes a key from the cache
func (s *CacheService) Evict(ctx context.Context, key string) error {
	if key == "" {
		return domain.ErrInvalidRequest
	}
	return s.cache.Delete(ctx, key)
}
