package domain

import "errors"

var (
	// ErrInvalidRequest is returned when the submitted product list is missing or malformed
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrOfferSourceUnavailable is returned when the price search API cannot be reached
	// or answers with something that is not an offer list
	ErrOfferSourceUnavailable = errors.New("offer source unavailable")

	// ErrInvalidPrice is returned when a scraped price cannot be turned into a positive amount
	ErrInvalidPrice = errors.New("invalid price")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when the cache store cannot be read or written
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrExtractorUnavailable is returned when no list extraction service is configured
	ErrExtractorUnavailable = errors.New("list extractor not configured")

	// ErrExtractionFailed is returned when the list extraction service fails or replies with garbage
	ErrExtractionFailed = errors.New("list extraction failed")
)
