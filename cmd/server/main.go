package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cartcompare/backend/config"
	httpDelivery "github.com/cartcompare/backend/internal/delivery/http"
	"github.com/cartcompare/backend/internal/domain"
	"github.com/cartcompare/backend/internal/infrastructure/cache"
	"github.com/cartcompare/backend/internal/infrastructure/nlu"
	"github.com/cartcompare/backend/internal/infrastructure/scraper"
	"github.com/cartcompare/backend/internal/logging"
	"github.com/cartcompare/backend/internal/usecase"
	"github.com/rs/zerolog"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logging: %v\n", err)
		os.Exit(1)
	}

	logger.Info().
		Str("version", httpDelivery.Version).
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("cache_type", cfg.Cache.Type).
		Dur("cache_ttl", cfg.Cache.TTL).
		Msg("starting cartcompare backend")

	// Initialize infrastructure dependencies
	offerCache, err := newOfferCache(cfg.Cache)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialise offer cache")
	}
	if closer, ok := offerCache.(io.Closer); ok {
		defer closer.Close()
	}

	scraperLogger := logger.With().Str("component", "scraper").Logger()
	scraperClient := scraper.NewClient(scraper.Config{
		BaseURL:     cfg.Scraper.BaseURL,
		SearchPath:  cfg.Scraper.SearchPath,
		QueryParam:  cfg.Scraper.QueryParam,
		Timeout:     cfg.Scraper.Timeout,
		MinInterval: cfg.Scraper.MinInterval,
		MaxAttempts: cfg.Scraper.MaxAttempts,
		Logger:      &scraperLogger,
	})
	logger.Info().
		Str("base_url", cfg.Scraper.BaseURL).
		Dur("min_interval", cfg.Scraper.MinInterval).
		Msg("offer source configured")

	var extractor domain.ListExtractor
	if cfg.NLU.APIKey != "" {
		extractor = nlu.NewClient(nlu.Config{
			APIKey:  cfg.NLU.APIKey,
			BaseURL: cfg.NLU.BaseURL,
			Model:   cfg.NLU.Model,
			Timeout: cfg.NLU.Timeout,
		})
		logger.Info().Str("model", cfg.NLU.Model).Msg("list extraction enabled")
	} else {
		logger.Warn().Msg("nlu.api_key not set, list extraction disabled")
	}

	// Initialize usecase layer
	comparisonService := usecase.NewComparisonService(
		offerCache,
		scraperClient,
		usecase.ComparisonServiceConfig{
			CacheTTL: cfg.Cache.TTL,
			Aliases:  cfg.Search.Aliases,
			Logger:   &logger,
		},
	)
	cacheService := usecase.NewCacheService(offerCache, cfg.Cache.TTL, nil)
	listService := usecase.NewListService(extractor)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(comparisonService, cacheService, listService)
	router := httpDelivery.SetupRouter(cfg, handler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Fatal().Err(err).Msg("server failed")
		}
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdown(server, cfg.Server.ShutdownTimeout, logger)
}

// newOfferCache builds the offer store selected by cache.type
func newOfferCache(cfg config.CacheConfig) (domain.OfferCache, error) {
	switch cfg.Type {
	case config.CacheTypeMemory:
		// Entries past the TTL are never served, drop them after a while
		return cache.NewMemoryCache(2 * cfg.TTL), nil
	case config.CacheTypePostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return cache.NewPostgresCache(ctx, cfg.PostgresURL)
	case config.CacheTypeFile, "":
		return cache.NewFileCache(cfg.FilePath)
	default:
		return nil, fmt.Errorf("unknown cache type %q", cfg.Type)
	}
}

func shutdown(server *http.Server, timeout time.Duration, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		return
	}
	logger.Info().Msg("server stopped")
}
