package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	Scraper ScraperConfig
	Cache   CacheConfig
	NLU     NLUConfig
	Log     LogConfig
	Search  SearchConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// ScraperConfig holds the price search API configuration
type ScraperConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	SearchPath  string        `mapstructure:"search_path"`
	QueryParam  string        `mapstructure:"query_param"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MinInterval time.Duration `mapstructure:"min_interval"`
	MaxAttempts int           `mapstructure:"max_attempts"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type        string        `mapstructure:"type"` // "file", "memory" or "postgres"
	FilePath    string        `mapstructure:"file_path"`
	PostgresURL string        `mapstructure:"postgres_url"`
	TTL         time.Duration `mapstructure:"ttl"`
}

// NLUConfig holds the list extraction API configuration
type NLUConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "text"
	Output string `mapstructure:"output"` // "stdout", "stderr" or a file path
}

// SearchConfig holds search-key derivation settings
type SearchConfig struct {
	// Aliases extends the built-in product name → search term table
	Aliases map[string]string `mapstructure:"aliases"`
}

// Cache types
const (
	CacheTypeFile     = "file"
	CacheTypeMemory   = "memory"
	CacheTypePostgres = "postgres"
)

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/cartcompare/")

	// Environment variable settings
	v.SetEnvPrefix("CARTCOMPARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env into the process environment when present.
// Variables already set in the environment are not overridden.
func loadEnvFile() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// setDefaults sets default configuration values. Every key needs a default
// so AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("server.shutdown_timeout", "15s")

	// Scraper defaults
	v.SetDefault("scraper.base_url", "http://localhost:3001")
	v.SetDefault("scraper.search_path", "/api/search")
	v.SetDefault("scraper.query_param", "q")
	v.SetDefault("scraper.timeout", "10s")
	v.SetDefault("scraper.min_interval", "1s")
	v.SetDefault("scraper.max_attempts", 1)

	// Cache defaults
	v.SetDefault("cache.type", CacheTypeFile)
	v.SetDefault("cache.file_path", "data/offer_cache.json")
	v.SetDefault("cache.postgres_url", "")
	v.SetDefault("cache.ttl", "1h")

	// NLU defaults
	v.SetDefault("nlu.api_key", "")
	v.SetDefault("nlu.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("nlu.model", "google/gemini-2.0-flash-001")
	v.SetDefault("nlu.timeout", "60s")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("search.aliases", map[string]string{})
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Scraper.BaseURL == "" {
		return fmt.Errorf("scraper base URL is required (set CARTCOMPARE_SCRAPER_BASE_URL)")
	}

	if config.Scraper.Timeout <= 0 {
		return fmt.Errorf("scraper timeout must be positive, got: %s", config.Scraper.Timeout)
	}

	if config.Scraper.MinInterval <= 0 {
		return fmt.Errorf("scraper min interval must be positive, got: %s", config.Scraper.MinInterval)
	}

	if config.Scraper.MaxAttempts < 1 {
		return fmt.Errorf("scraper max attempts must be at least 1, got: %d", config.Scraper.MaxAttempts)
	}

	switch config.Cache.Type {
	case CacheTypeFile:
		if config.Cache.FilePath == "" {
			return fmt.Errorf("cache file path is required when cache type is 'file'")
		}
	case CacheTypeMemory:
	case CacheTypePostgres:
		if config.Cache.PostgresURL == "" {
			return fmt.Errorf("postgres URL is required when cache type is 'postgres'")
		}
	default:
		return fmt.Errorf("cache type must be 'file', 'memory' or 'postgres', got: %s", config.Cache.Type)
	}

	if config.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive, got: %s", config.Cache.TTL)
	}

	if config.Log.Format != "json" && config.Log.Format != "text" {
		return fmt.Errorf("log format must be 'json' or 'text', got: %s", config.Log.Format)
	}

	return nil
}
