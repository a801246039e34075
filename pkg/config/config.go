// Package config loads the settings of the inertia server and CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/inertia"
	"github.com/aretw0/inertia/internal/logging"
	"github.com/aretw0/inertia/pkg/partials/middleware"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the decoded configuration file.
type Config struct {
	Addr           string   `mapstructure:"addr"`
	LogLevel       string   `mapstructure:"log_level"`
	LogFormat      string   `mapstructure:"log_format"`
	Version        string   `mapstructure:"version"`
	EncryptHistory bool     `mapstructure:"encrypt_history"`
	ClearHistory   bool     `mapstructure:"clear_history"`
	ErrorBag       bool     `mapstructure:"error_bag"`
	RootID         string   `mapstructure:"root_id"`
	Layout         string   `mapstructure:"layout"`
	PartialsDir    string   `mapstructure:"partials_dir"`
	Redact         []string `mapstructure:"redact"`

	Cache   CacheConfig   `mapstructure:"cache"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// CacheConfig controls the partial payload cache.
type CacheConfig struct {
	// Driver is "none", "memory" or "redis".
	Driver string        `mapstructure:"driver"`
	TTL    time.Duration `mapstructure:"ttl"`

	// EncryptionKey, when set, encrypts cached payloads. Must be 32 bytes.
	EncryptionKey string   `mapstructure:"encryption_key"`
	FallbackKeys  []string `mapstructure:"fallback_keys"`
}

// RedisConfig holds the connection settings of the Redis cache driver.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Addr:      ":8080",
		LogLevel:  "info",
		LogFormat: "text",
		RootID:    "app",
		Cache: CacheConfig{
			Driver: "none",
			TTL:    5 * time.Minute,
		},
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "inertia:partial:",
		},
		Metrics: MetricsConfig{
			Path: "/metrics",
		},
	}
}

// Load reads a configuration file (YAML or JSON) on top of the defaults.
// A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	raw := make(map[string]any)
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &raw)
	} else {
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	if err := Decode(raw, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Decode merges raw into cfg. Durations accept strings such as "30s".
func Decode(raw map[string]any, cfg *Config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Validate checks the values a file cannot express by type alone.
func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalid, c.LogFormat)
	}
	switch c.Cache.Driver {
	case "none", "memory":
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("%w: redis.addr is required for the redis cache", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown cache.driver %q", ErrInvalid, c.Cache.Driver)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("%w: cache.ttl must not be negative", ErrInvalid)
	}
	if c.Cache.EncryptionKey != "" && len(c.Cache.EncryptionKey) != 32 {
		return fmt.Errorf("%w: cache.encryption_key must be 32 bytes", ErrInvalid)
	}
	if _, err := middleware.CompilePatterns(c.Redact); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("%w: metrics.path must start with '/'", ErrInvalid)
	}
	return nil
}

// Logger builds the logger described by log_level and log_format, writing to stderr.
func (c Config) Logger() *slog.Logger {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	return logging.NewWithFormat(os.Stderr, level, c.LogFormat)
}

// EngineOptions maps the page settings to engine options.
// Cache and redaction middlewares are wired by the caller, which owns their backends.
func (c Config) EngineOptions() []inertia.Option {
	opts := []inertia.Option{
		inertia.WithVersion(c.Version),
		inertia.WithEncryptHistory(c.EncryptHistory),
		inertia.WithClearHistory(c.ClearHistory),
		inertia.WithErrorBag(c.ErrorBag),
	}
	if c.PartialsDir != "" {
		opts = append(opts, inertia.WithPartialsDir(c.PartialsDir))
	}
	return opts
}
