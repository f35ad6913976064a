package translator

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime configuration for the translator core.
// Values come from the environment (MMT_* variables); the CLI layers
// flag overrides on top.
type Config struct {
	// Primary provider.
	APIKey          string `env:"MMT_API_KEY"`
	PrimaryEndpoint string `env:"MMT_PRIMARY_ENDPOINT" envDefault:"https://api.minimax.chat/v1/text/translation"`

	// Secondary provider.
	SecondaryEndpoint string `env:"MMT_SECONDARY_ENDPOINT" envDefault:"https://translate.googleapis.com/translate_a/single"`

	// Default language pair.
	SourceLang string `env:"MMT_SOURCE_LANG" envDefault:"en"`
	TargetLang string `env:"MMT_TARGET_LANG" envDefault:"zh"`

	// Translation cache.
	CacheCapacity int    `env:"MMT_CACHE_CAPACITY" envDefault:"500"`
	CachePath     string `env:"MMT_CACHE_PATH" envDefault:"translations.json"`

	// Sync queue.
	QueuePath string `env:"MMT_QUEUE_PATH" envDefault:"pending.json"`

	// Asset cache.
	AssetDir     string `env:"MMT_ASSET_DIR" envDefault:"assetcache"`
	ManifestPath string `env:"MMT_MANIFEST" envDefault:"manifest.yaml"`
	Origin       string `env:"MMT_ORIGIN" envDefault:"http://localhost:8080"`

	// Network behavior.
	AttemptTimeout time.Duration `env:"MMT_ATTEMPT_TIMEOUT" envDefault:"15s"`
	ProbeURL       string        `env:"MMT_PROBE_URL" envDefault:"https://clients3.google.com/generate_204"`
	ProbeInterval  time.Duration `env:"MMT_PROBE_INTERVAL" envDefault:"30s"`

	// Local proxy.
	ListenAddr string `env:"MMT_LISTEN" envDefault:"127.0.0.1:8787"`
}

// LoadConfig reads configuration from the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks invariants the env layer cannot express.
func (c *Config) Validate() error {
	if c.CacheCapacity < 0 {
		return fmt.Errorf("cache capacity must be >= 0, got %d", c.CacheCapacity)
	}
	if c.AttemptTimeout < 0 {
		return fmt.Errorf("attempt timeout must be >= 0, got %s", c.AttemptTimeout)
	}
	if c.PrimaryEndpoint == "" {
		return fmt.Errorf("primary endpoint must not be empty")
	}
	return nil
}

// Configured reports whether a primary credential is present.
func (c *Config) Configured() bool {
	return c.APIKey != ""
}
