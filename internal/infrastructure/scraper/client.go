package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cartcompare/backend/internal/domain"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Defaults for the price search API
const (
	DefaultSearchPath  = "/api/search"
	DefaultQueryParam  = "q"
	DefaultTimeout     = 10 * time.Second
	DefaultMinInterval = time.Second
)

// Config holds the price search API client settings
type Config struct {
	BaseURL    string
	SearchPath string
	QueryParam string
	// Timeout bounds a single HTTP call, connect and response included
	Timeout time.Duration
	// MinInterval is the minimum spacing between two outgoing requests
	MinInterval time.Duration
	// MaxAttempts is the number of tries for network errors and 5xx replies
	MaxAttempts int
	Logger      *zerolog.Logger
}

// Client handles communication with the supermarket price search API
type Client struct {
	httpClient  *http.Client
	searchURL   string
	queryParam  string
	maxAttempts int
	rateLimiter *rate.Limiter
	logger      zerolog.Logger
}

// NewClient creates a new price search API client
func NewClient(config Config) *Client {
	searchPath := config.SearchPath
	if searchPath == "" {
		searchPath = DefaultSearchPath
	}
	queryParam := config.QueryParam
	if queryParam == "" {
		queryParam = DefaultQueryParam
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	interval := config.MinInterval
	if interval <= 0 {
		interval = DefaultMinInterval
	}
	maxAttempts := config.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	logger := log.Logger
	if config.Logger != nil {
		logger = *config.Logger
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		searchURL:   strings.TrimRight(config.BaseURL, "/") + "/" + strings.TrimLeft(searchPath, "/"),
		queryParam:  queryParam,
		maxAttempts: maxAttempts,
		// One request per interval, no burst: every call after the first
		// waits for the previous one to be interval old.
		rateLimiter: rate.NewLimiter(rate.Every(interval), 1),
		logger:      logger.With().Str("component", "scraper").Logger(),
	}
}

// searchResponse is the body returned by the price search API
type searchResponse struct {
	Products       *[]rawProduct `json:"products"`
	FailedScrapers []string      `json:"failedScrapers"`
}

// rawProduct is one scraped product; price may be a number or a string
type rawProduct struct {
	Name   string          `json:"name"`
	Price  json.RawMessage `json:"price"`
	Source string          `json:"source"`
	Link   string          `json:"link"`
	Image  string          `json:"image"`
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "CartCompare/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOfferSourceUnavailable, err)
	}

	return resp, nil
}

// SearchOffers queries the price search API for a free-text term
func (c *Client) SearchOffers(ctx context.Context, query string) (*domain.OfferSet, error) {
	params := url.Values{}
	params.Set(c.queryParam, query)
	reqURL := c.searchURL + "?" + params.Encode()

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrOfferSourceUnavailable, err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			c.logger.Debug().Err(err).Int("attempt", attempt).Str("query", query).Msg("request failed")
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("%w: read body: %v", domain.ErrOfferSourceUnavailable, err)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("%w: status %d", domain.ErrOfferSourceUnavailable, resp.StatusCode)
			c.logger.Debug().Int("status", resp.StatusCode).Int("attempt", attempt).Str("query", query).Msg("unexpected status")
			if resp.StatusCode < http.StatusInternalServerError {
				return nil, lastErr
			}
			continue
		}

		var searchResp searchResponse
		if err := json.Unmarshal(body, &searchResp); err != nil {
			return nil, fmt.Errorf("%w: decode response: %v", domain.ErrOfferSourceUnavailable, err)
		}
		if searchResp.Products == nil {
			return nil, fmt.Errorf("%w: response has no products array", domain.ErrOfferSourceUnavailable)
		}

		if len(searchResp.FailedScrapers) > 0 {
			c.logger.Warn().Strs("failed_scrapers", searchResp.FailedScrapers).Str("query", query).Msg("some scrapers failed")
		}

		set := MapToOfferSet(*searchResp.Products)
		c.logger.Debug().Int("offers", len(set.Products)).Int("raw", set.TotalFound).Str("query", query).Msg("offers fetched")
		return set, nil
	}

	return nil, lastErr
}
