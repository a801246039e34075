package config_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/inertia"
	"github.com/aretw0/inertia/internal/testutils"
	"github.com/aretw0/inertia/pkg/config"
	"github.com/aretw0/inertia/pkg/domain"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	cfg, err = config.Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteFiles(t, dir, map[string]string{
		"inertia.yaml": `
addr: ":9000"
log_format: json
version: "2024.1"
error_bag: true
redact: ["^password$"]
cache:
  driver: redis
  ttl: 30s
redis:
  addr: "cache:6379"
  db: 2
metrics:
  enabled: true
`,
	})

	cfg, err := config.Load(filepath.Join(dir, "inertia.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "2024.1", cfg.Version)
	assert.True(t, cfg.ErrorBag)
	assert.Equal(t, []string{"^password$"}, cfg.Redact)
	assert.Equal(t, "redis", cfg.Cache.Driver)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "inertia:partial:", cfg.Redis.Prefix, "unset keys keep their default")
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_JSON(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteFiles(t, dir, map[string]string{
		"inertia.json": `{"root_id": "root", "clear_history": true}`,
	})

	cfg, err := config.Load(filepath.Join(dir, "inertia.json"))
	require.NoError(t, err)
	assert.Equal(t, "root", cfg.RootID)
	assert.True(t, cfg.ClearHistory)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"unknown key":     "colour: blue\n",
		"bad level":       "log_level: loud\n",
		"bad format":      "log_format: xml\n",
		"bad driver":      "cache:\n  driver: memcached\n",
		"short key":       "cache:\n  encryption_key: short\n",
		"negative ttl":    "cache:\n  ttl: -1s\n",
		"relative path":   "metrics:\n  enabled: true\n  path: metrics\n",
		"redis sans addr": "cache:\n  driver: redis\nredis:\n  addr: \"\"\n",
		"bad redaction":   "redact:\n  - \"(password\"\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			testutils.WriteFiles(t, dir, map[string]string{"c.yaml": content})

			_, err := config.Load(filepath.Join(dir, "c.yaml"))
			assert.ErrorIs(t, err, config.ErrInvalid)
		})
	}
}

func TestConfig_EngineOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Version = "v9"
	cfg.EncryptHistory = true
	cfg.ErrorBag = true

	engine, err := inertia.New(cfg.EngineOptions()...)
	require.NoError(t, err)
	assert.Equal(t, "v9", engine.Version())

	page, err := engine.Render(context.Background(), domain.PageMeta{Component: "Home"}, domain.FullReload(), nil)
	require.NoError(t, err)
	assert.True(t, page.EncryptHistory)
	assert.False(t, page.ClearHistory)

	_, ok := page.Props.Get("errors")
	assert.True(t, ok)
}
