package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the relay server configuration.
type Config struct {
	// Upstream design API
	SiviAPIURL       string        `env:"SIVI_API_URL"`
	SiviAPIKey       string        `env:"SIVI_API_KEY"`
	SiviAPIKeyHeader string        `env:"SIVI_API_KEY_HEADER" envDefault:"sivi-api-key"`
	UpstreamTimeout  time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"30s"`

	// Server
	Port        string `env:"PORT" envDefault:"4000"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:4000"`

	Otel OtelConfig `envPrefix:"OTEL_"`
}

type OtelConfig struct {
	Enabled     bool   `env:"ENABLED"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"design-relay"`
	Endpoint    string `env:"EXPORTER_OTLP_ENDPOINT"`
	Insecure    bool   `env:"EXPORTER_OTLP_INSECURE"`
}

func Load() (*Config, error) {
	return LoadFromEnviron(os.Environ())
}

// LoadFromEnviron parses the relay configuration from a KEY=VALUE list.
func LoadFromEnviron(environ []string) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: env.ToMap(environ)}); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.SiviAPIURL == "" {
		return fmt.Errorf("SIVI_API_URL is required")
	}
	if c.SiviAPIKey == "" {
		return fmt.Errorf("SIVI_API_KEY is required")
	}
	if strings.TrimSpace(c.SiviAPIKeyHeader) == "" {
		return fmt.Errorf("SIVI_API_KEY_HEADER must not be blank")
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive")
	}
	return nil
}

// History backends understood by ClientConfig.History.Backend.
const (
	BackendMemory          = "memory"
	BackendFile            = "file"
	BackendRedis           = "redis"
	BackendSQLite          = "sqlite"
	BackendPostgres        = "postgres"
	BackendSupabaseStorage = "supabase-storage"
	BackendSupabaseTable   = "supabase-table"
)

// ClientConfig configures designctl: where the relay lives, where history
// is persisted and how status polling is paced.
type ClientConfig struct {
	RelayURL     string        `env:"RELAY_URL" envDefault:"http://localhost:4000"`
	RelayTimeout time.Duration `env:"RELAY_TIMEOUT" envDefault:"30s"`
	Environment  string        `env:"ENVIRONMENT" envDefault:"development"`

	History  HistoryConfig  `envPrefix:"HISTORY_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	Supabase SupabaseConfig `envPrefix:"SUPABASE_"`
	Poll     PollConfig     `envPrefix:"POLL_"`

	DatabaseURL string `env:"DATABASE_URL"`
}

type HistoryConfig struct {
	Backend    string `env:"BACKEND" envDefault:"file"`
	Dir        string `env:"DIR"`
	Key        string `env:"KEY" envDefault:"sivi_api_history"`
	MaxItems   int    `env:"MAX_ITEMS" envDefault:"50"`
	SQLitePath string `env:"SQLITE_PATH"`
}

type RedisConfig struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB"`
}

type SupabaseConfig struct {
	URL            string `env:"URL"`
	PublishableKey string `env:"PUBLISHABLE_KEY"`
	StorageBucket  string `env:"STORAGE_BUCKET" envDefault:"design-history"`
	HistoryTable   string `env:"HISTORY_TABLE" envDefault:"history_blobs"`
}

type PollConfig struct {
	InitialDelay time.Duration `env:"INITIAL_DELAY" envDefault:"5s"`
	SecondDelay  time.Duration `env:"SECOND_DELAY" envDefault:"45s"`
	ThirdDelay   time.Duration `env:"THIRD_DELAY" envDefault:"20s"`
	Interval     time.Duration `env:"INTERVAL" envDefault:"10s"`
}

func LoadClient() (*ClientConfig, error) {
	return LoadClientFromEnviron(os.Environ())
}

func LoadClientFromEnviron(environ []string) (*ClientConfig, error) {
	var cfg ClientConfig
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: env.ToMap(environ)}); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if cfg.History.Dir == "" {
		cfg.History.Dir = defaultHistoryDir()
	}
	if cfg.History.SQLitePath == "" {
		cfg.History.SQLitePath = filepath.Join(cfg.History.Dir, "history.db")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *ClientConfig) Validate() error {
	if c.RelayURL == "" {
		return fmt.Errorf("RELAY_URL is required")
	}
	if c.History.MaxItems <= 0 {
		return fmt.Errorf("HISTORY_MAX_ITEMS must be positive")
	}
	if c.History.Key == "" {
		return fmt.Errorf("HISTORY_KEY must not be empty")
	}

	switch c.History.Backend {
	case BackendMemory, BackendFile, BackendSQLite:
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis history backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres history backend")
		}
	case BackendSupabaseStorage, BackendSupabaseTable:
		if c.Supabase.URL == "" {
			return fmt.Errorf("SUPABASE_URL is required for the %s history backend", c.History.Backend)
		}
		if c.Supabase.PublishableKey == "" {
			return fmt.Errorf("SUPABASE_PUBLISHABLE_KEY is required for the %s history backend", c.History.Backend)
		}
	default:
		return fmt.Errorf("unknown HISTORY_BACKEND %q", c.History.Backend)
	}

	for name, d := range map[string]time.Duration{
		"POLL_INITIAL_DELAY": c.Poll.InitialDelay,
		"POLL_SECOND_DELAY":  c.Poll.SecondDelay,
		"POLL_THIRD_DELAY":   c.Poll.ThirdDelay,
		"POLL_INTERVAL":      c.Poll.Interval,
	} {
		if d < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	return nil
}

func defaultHistoryDir() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "designctl")
	}
	return ".designctl"
}
