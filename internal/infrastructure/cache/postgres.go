package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cartcompare/backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createOfferCacheTable = `
CREATE TABLE IF NOT EXISTS offer_cache (
	search_key TEXT PRIMARY KEY,
	fetched_at TIMESTAMPTZ NOT NULL,
	payload    JSONB NOT NULL
)`

// PostgresCache stores offer sets in a PostgreSQL table, one row per key
type PostgresCache struct {
	pool *pgxpool.Pool
}

// NewPostgresCache connects to databaseURL and makes sure the cache table exists
func NewPostgresCache(ctx context.Context, databaseURL string) (*PostgresCache, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, createOfferCacheTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create offer_cache table: %w", err)
	}

	return &PostgresCache{pool: pool}, nil
}

// Get retrieves an entry by search key
func (c *PostgresCache) Get(ctx context.Context, key string) (*domain.CacheEntry, error) {
	var entry domain.CacheEntry
	var payload []byte

	err := c.pool.QueryRow(ctx,
		`SELECT fetched_at, payload FROM offer_cache WHERE search_key = $1`, key,
	).Scan(&entry.Timestamp, &payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	if err := json.Unmarshal(payload, &entry.Data); err != nil {
		return nil, fmt.Errorf("%w: decode payload for %q: %v", domain.ErrCacheUnavailable, key, err)
	}
	return &entry, nil
}

// Set inserts or replaces the entry for key
func (c *PostgresCache) Set(ctx context.Context, key string, entry domain.CacheEntry) error {
	payload, err := json.Marshal(entry.Data)
	if err != nil {
		return fmt.Errorf("%w: encode payload: %v", domain.ErrCacheUnavailable, err)
	}

	_, err = c.pool.Exec(ctx, `
		INSERT INTO offer_cache (search_key, fetched_at, payload)
		VALUES ($1, $2, $3)
		ON CONFLICT (search_key) DO UPDATE
		SET fetched_at = EXCLUDED.fetched_at, payload = EXCLUDED.payload`,
		key, entry.Timestamp, payload,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return nil
}

// Delete removes the entry for key
func (c *PostgresCache) Delete(ctx context.Context, key string) error {
	if _, err := c.pool.Exec(ctx, `DELETE FROM offer_cache WHERE search_key = $1`, key); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return nil
}

// Entries returns every stored entry
func (c *PostgresCache) Entries(ctx context.Context) (map[string]domain.CacheEntry, error) {
	rows, err := c.pool.Query(ctx, `SELECT search_key, fetched_at, payload FROM offer_cache`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	defer rows.Close()

	entries := make(map[string]domain.CacheEntry)
	for rows.Next() {
		var key string
		var payload []byte
		var entry domain.CacheEntry
		if err := rows.Scan(&key, &entry.Timestamp, &payload); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
		}
		if err := json.Unmarshal(payload, &entry.Data); err != nil {
			return nil, fmt.Errorf("%w: decode payload for %q: %v", domain.ErrCacheUnavailable, key, err)
		}
		entries[key] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	return entries, nil
}

// Close closes the connection pool
func (c *PostgresCache) Close() error {
	c.pool.Close()
	return nil
}
