package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Offer is a single price quotation for a product at one store
type Offer struct {
	Name  string          `json:"name,omitempty"`
	Store string          `json:"store"`
	Price decimal.Decimal `json:"price"`
	Link  string          `json:"link,omitempty"`
	Image string          `json:"image,omitempty"`
}

// OfferSet is the offer list returned for one search key, as stored in the cache
type OfferSet struct {
	Products   []Offer `json:"products"`
	TotalFound int     `json:"totalFound"`
}

// CacheEntry is an offer set together with the time it was fetched
type CacheEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Data      OfferSet  `json:"data"`
}

// Age returns how long ago the entry was written
func (e CacheEntry) Age(now time.Time) time.Duration {
	return now.Sub(e.Timestamp)
}

// IsFresh reports whether the entry is younger than ttl
func (e CacheEntry) IsFresh(now time.Time, ttl time.Duration) bool {
	return e.Age(now) < ttl
}
