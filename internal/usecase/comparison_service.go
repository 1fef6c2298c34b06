package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cartcompare/backend/internal/domain"
	"github.com/cartcompare/backend/internal/metrics"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultCacheTTL is how long a fetched offer set is served from the cache
const DefaultCacheTTL = time.Hour

// ComparisonServiceConfig holds configuration for the comparison service
type ComparisonServiceConfig struct {
	CacheTTL time.Duration
	// Aliases extends the built-in product name → search term table
	Aliases map[string]string
	// Now overrides the wall clock, mostly for tests
	Now    func() time.Time
	Logger *zerolog.Logger
}

// ComparisonService compares the price of a shopping list across stores
type ComparisonService struct {
	cache    domain.OfferCache
	source   domain.OfferSource
	keyer    *SearchKeyer
	cacheTTL time.Duration
	now      func() time.Time
	logger   zerolog.Logger
}

// NewComparisonService creates a new comparison service with dependencies
func NewComparisonService(
	cache domain.OfferCache,
	source domain.OfferSource,
	config ComparisonServiceConfig,
) *ComparisonService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = DefaultCacheTTL
	}

	now := config.Now
	if now == nil {
		now = time.Now
	}

	logger := log.Logger
	if config.Logger != nil {
		logger = *config.Logger
	}

	return &ComparisonService{
		cache:    cache,
		source:   source,
		keyer:    NewSearchKeyer(config.Aliases),
		cacheTTL: cacheTTL,
		now:      now,
		logger:   logger.With().Str("component", "comparison").Logger(),
	}
}

// Compare fetches offers for every item, one after the other in list order,
// and reduces them into a comparison table. A failing lookup only empties
// that item's row; the only error returned is domain.ErrInvalidRequest.
func (s *ComparisonService) Compare(ctx context.Context, items []domain.RequestedItem) (*domain.ComparisonResult, error) {
	if err := ValidateItems(items); err != nil {
		return nil, err
	}

	// Runs to completion even if the caller goes away
	ctx = context.WithoutCancel(ctx)

	start := time.Now()
	offers := make([][]domain.Offer, len(items))
	for i, item := range items {
		offers[i], _ = s.GetOffers(ctx, s.keyer.Key(item.Name))
	}

	result := Aggregate(items, offers)
	metrics.RecordComparison(time.Since(start))

	s.logger.Info().
		Int("items", len(items)).
		Int("stores", len(result.Stores)).
		Dur("latency", time.Since(start)).
		Msg("comparison complete")

	return result, nil
}

// GetOffers returns the offers for a search key, from the cache when a fresh
// entry exists and from the offer source otherwise. cached reports which.
// Non-empty fetched results are written back to the cache; failures yield
// an empty slice.
func (s *ComparisonService) GetOffers(ctx context.Context, searchKey string) (offers []domain.Offer, cached bool) {
	if entry, ok := s.lookupCache(ctx, searchKey); ok {
		return filterOffers(entry.Data.Products), true
	}

	start := time.Now()
	set, err := s.source.SearchOffers(ctx, searchKey)
	if err != nil {
		metrics.RecordOfferFetch(metrics.FetchError, time.Since(start))
		s.logger.Warn().Err(err).Str("search_key", searchKey).Msg("offer source failed, treating as no offers")
		return []domain.Offer{}, false
	}

	offers = filterOffers(set.Products)
	if len(offers) == 0 {
		metrics.RecordOfferFetch(metrics.FetchEmpty, time.Since(start))
		s.logger.Debug().Str("search_key", searchKey).Msg("no offers found")
		return offers, false
	}
	metrics.RecordOfferFetch(metrics.FetchOK, time.Since(start))

	totalFound := set.TotalFound
	if totalFound < len(offers) {
		totalFound = len(offers)
	}

	entry := domain.CacheEntry{
		Timestamp: s.now(),
		Data:      domain.OfferSet{Products: offers, TotalFound: totalFound},
	}
	if err := s.cache.Set(ctx, searchKey, entry); err != nil {
		s.logger.Warn().Err(err).Str("search_key", searchKey).Msg("failed to write offers to cache")
	}

	return offers, false
}

// SearchKey returns the search term used for a product name
func (s *ComparisonService) SearchKey(name string) string {
	return s.keyer.Key(name)
}

// lookupCache returns a fresh cache entry for key. Read failures and stale
// entries count as misses.
func (s *ComparisonService) lookupCache(ctx context.Context, key string) (*domain.CacheEntry, bool) {
	entry, err := s.cache.Get(ctx, key)
	switch {
	case err == nil && entry != nil:
		if entry.IsFresh(s.now(), s.cacheTTL) {
			metrics.RecordCacheLookup(metrics.CacheHit)
			return entry, true
		}
		metrics.RecordCacheLookup(metrics.CacheStale)
		return nil, false

	case err == nil, errors.Is(err, domain.ErrCacheMiss):
		metrics.RecordCacheLookup(metrics.CacheMiss)
		return nil, false

	default:
		metrics.RecordCacheLookup(metrics.CacheError)
		s.logger.Warn().Err(err).Str("search_key", key).Msg("cache read failed, treating as miss")
		return nil, false
	}
}

// ValidateItems checks a shopping list before any lookup work starts
func ValidateItems(items []domain.RequestedItem) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: products must be a non-empty list", domain.ErrInvalidRequest)
	}

	for i, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			return fmt.Errorf("%w: product %d has no name", domain.ErrInvalidRequest, i)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("%w: product %q has quantity %d", domain.ErrInvalidRequest, item.Name, item.Quantity)
		}
	}

	return nil
}
