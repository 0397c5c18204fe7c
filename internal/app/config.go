package app

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":3000"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	DataDir   string `envconfig:"DATA_DIR" default:"./data"`
	AssetsDir string `envconfig:"ASSETS_DIR" default:"./assets"`

	// PersistTimeout bounds the durable write that closes every checkout
	// transaction. A write that exceeds it fails the transaction.
	PersistTimeout time.Duration `envconfig:"PERSIST_TIMEOUT" default:"5s"`

	RedisAddr      string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	ReportCacheTTL time.Duration `envconfig:"REPORT_CACHE_TTL" default:"1m"`
	IdempotencyTTL time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"24h"`

	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"120"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.DataDir == "" {
		return nil, errors.New("data directory must be provided")
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// CatalogPath returns the location of the product catalog file.
func (c *Config) CatalogPath() string {
	return filepath.Join(c.DataDir, "products.json")
}

// LedgerPath returns the location of the stock ledger file.
func (c *Config) LedgerPath() string {
	return filepath.Join(c.DataDir, "stock.json")
}

// JournalPath returns the location of the sales journal file.
func (c *Config) JournalPath() string {
	return filepath.Join(c.DataDir, "sales.json")
}
