package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000/api", cfg.Remote.BaseURL)
	assert.Equal(t, 5, cfg.Sync.Concurrency)
	assert.Equal(t, 50, cfg.Sync.ProgressEvery)
	assert.Equal(t, 200*time.Millisecond, cfg.Sync.Backoff())
	assert.False(t, cfg.Sync.DryRun)
	assert.Equal(t, "demo123", cfg.Remote.UserPassword)
	assert.Equal(t, "customer", cfg.Remote.UserRole)
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.False(t, cfg.Database.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("SYNC_CONCURRENCY", "12")
	t.Setenv("SYNC_DRY_RUN", "true")
	t.Setenv("REMOTE_BASE_URL", "https://tickets.example.com/api")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Sync.Concurrency)
	assert.True(t, cfg.Sync.DryRun)
	assert.Equal(t, "https://tickets.example.com/api", cfg.Remote.BaseURL)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	// Overload writes the process environment; register cleanups first.
	t.Setenv("SYNC_BACKOFF_MS", "")
	t.Setenv("SYNC_TIMEZONE", "")
	err := os.WriteFile(filepath.Join(dir, ".env"), []byte("SYNC_BACKOFF_MS=750\nSYNC_TIMEZONE=Europe/Berlin\n"), 0o600)
	require.NoError(t, err)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 750*time.Millisecond, cfg.Sync.Backoff())
	loc, err := cfg.Sync.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Remote: RemoteConfig{BaseURL: "http://localhost:3000/api"},
			Sync:   SyncConfig{Concurrency: 5, Timezone: "UTC"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"Valid", func(c *Config) {}, ""},
		{"ZeroConcurrency", func(c *Config) { c.Sync.Concurrency = 0 }, "concurrency"},
		{"BadTimezone", func(c *Config) { c.Sync.Timezone = "Mars/Olympus" }, "timezone"},
		{"RelativeURL", func(c *Config) { c.Remote.BaseURL = "/api" }, "absolute"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
