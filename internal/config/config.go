package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	CORS       CORSConfig
	Backend    BackendConfig
	MarketData MarketDataConfig
	Sync       SyncConfig
	Refresh    RefreshConfig
	Log        LogConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string `env:"SERVER_PORT" envDefault:"5001"`
	Host string `env:"SERVER_HOST" envDefault:"localhost"`
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string `env:"DB_PATH" envDefault:"./data/stock_picker.db"`
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost"`
}

// BackendConfig points at the portfolio backend that stores positions,
// values the portfolio and generates recommendations.
type BackendConfig struct {
	URL     string        `env:"BACKEND_URL" envDefault:"http://127.0.0.1:5000"`
	Token   string        `env:"BACKEND_TOKEN"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"15s"`
}

// MarketDataConfig holds the Alpha Vantage settings.
type MarketDataConfig struct {
	APIKey         string        `env:"ALPHAVANTAGE_API_KEY"`
	BaseURL        string        `env:"ALPHAVANTAGE_BASE_URL" envDefault:"https://www.alphavantage.co/query"`
	Timeout        time.Duration `env:"ALPHAVANTAGE_TIMEOUT" envDefault:"10s"`
	SearchCacheTTL time.Duration `env:"SYMBOL_CACHE_TTL" envDefault:"10m"`
}

// SyncConfig controls how selections are committed. A MaxConcurrent of 0
// issues every add at once.
type SyncConfig struct {
	MaxConcurrent int `env:"COMMIT_CONCURRENCY" envDefault:"4"`
}

// RefreshConfig controls the scheduled catalog price refresh.
type RefreshConfig struct {
	Enabled  bool          `env:"PRICE_REFRESH_ENABLED" envDefault:"true"`
	Schedule string        `env:"PRICE_REFRESH_SCHEDULE" envDefault:"@every 1h"`
	Timeout  time.Duration `env:"PRICE_REFRESH_TIMEOUT" envDefault:"2m"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level       string `env:"LOG_LEVEL" envDefault:"info"`
	Development bool   `env:"LOG_DEVELOPMENT" envDefault:"false"`
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if config.Sync.MaxConcurrent < 0 {
		return nil, fmt.Errorf("COMMIT_CONCURRENCY must not be negative, got %d", config.Sync.MaxConcurrent)
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}
