package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Catalog  CatalogConfig
	Snapshot SnapshotConfig
	Redis    RedisConfig
	Checkout CheckoutConfig
	Auth     AuthConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Catalog.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"STOREFRONT_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// CatalogConfig points the product accessor at its upstream source.
type CatalogConfig struct {
	BaseURL  string        `envconfig:"STOREFRONT_CATALOG_BASE_URL" default:"https://fakestoreapi.com"`
	Timeout  time.Duration `envconfig:"STOREFRONT_CATALOG_TIMEOUT" default:"10s"`
	CacheTTL time.Duration `envconfig:"STOREFRONT_CATALOG_CACHE_TTL" default:"5m"`
}

func (c CatalogConfig) validate() error {
	parsed, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid catalog base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("catalog base url must be absolute, got %q", c.BaseURL)
	}
	return nil
}

// SnapshotConfig locates the local key-value snapshot file.
type SnapshotConfig struct {
	Path        string `envconfig:"STOREFRONT_SNAPSHOT_PATH" default:"storefront.db"`
	AutoMigrate bool   `envconfig:"STOREFRONT_AUTO_MIGRATE" default:"false"`
}

// RedisConfig is optional; an empty URL selects the in-memory catalog cache.
type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis cache should be wired at all.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}

// CheckoutConfig tunes the simulated order submitter.
type CheckoutConfig struct {
	SubmitLatency time.Duration `envconfig:"STOREFRONT_CHECKOUT_SUBMIT_LATENCY" default:"1500ms"`
}

// AuthConfig points the thin auth client at its remote API.
type AuthConfig struct {
	APIBaseURL string        `envconfig:"STOREFRONT_AUTH_API_BASE_URL" default:"http://localhost:3000/api"`
	Timeout    time.Duration `envconfig:"STOREFRONT_AUTH_TIMEOUT" default:"10s"`
}
