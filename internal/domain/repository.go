package domain

import (
	"context"
	"strings"
)

// OfferCache defines the key-value store holding fetched offer sets.
// Stores only keep entries; freshness is decided by the caller from
// CacheEntry.Timestamp.
type OfferCache interface {
	Get(ctx context.Context, key string) (*CacheEntry, error)
	Set(ctx context.Context, key string, entry CacheEntry) error
	Delete(ctx context.Context, key string) error
	Entries(ctx context.Context) (map[string]CacheEntry, error)
}

// OfferSource defines the interface for the external price search API
type OfferSource interface {
	SearchOffers(ctx context.Context, query string) (*OfferSet, error)
}

// ExtractRequest carries the raw user input for list extraction.
// At least one of the fields must be set.
type ExtractRequest struct {
	Text        string
	ImageURL    string // http(s) URL or data: URL
	AudioBase64 string
	AudioFormat string // "wav", "mp3", ...
}

// IsEmpty reports whether the request carries no input at all
func (r ExtractRequest) IsEmpty() bool {
	return strings.TrimSpace(r.Text) == "" && strings.TrimSpace(r.ImageURL) == "" && strings.TrimSpace(r.AudioBase64) == ""
}

// ListExtractor turns free-form user input into a structured shopping list
type ListExtractor interface {
	ExtractList(ctx context.Context, req ExtractRequest) ([]RequestedItem, error)
}
