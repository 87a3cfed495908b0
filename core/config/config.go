package config

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"time"

	"ticketsync/core/database"
	"ticketsync/core/logger"
	"ticketsync/core/server"
	"ticketsync/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Remote holds configuration for the remote ticket API.
	Remote RemoteConfig `mapstructure:"remote"`
	// Sync holds configuration for a synchronization run.
	Sync SyncConfig `mapstructure:"sync"`
	// Server holds configuration for the stub HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the run-history database.
	Database database.Config `mapstructure:"database"`
}

// RemoteConfig describes how to reach the remote ticket API.
type RemoteConfig struct {
	// BaseURL is the API root every endpoint is resolved against.
	BaseURL string `mapstructure:"base_url" default:"http://localhost:3000/api"`
	// TimeoutSeconds is the per-request timeout.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"15"`
	// MaxRetries is the number of transport retries for read requests.
	MaxRetries int `mapstructure:"max_retries" default:"3"`
	// UserPassword is the initial password given to users created upstream.
	UserPassword string `mapstructure:"user_password" default:"demo123"`
	// UserRole is the role given to users created upstream.
	UserRole string `mapstructure:"user_role" default:"customer"`
}

// SyncConfig controls a synchronization run.
type SyncConfig struct {
	// Dataset is a local path or an s3://bucket/object URI.
	Dataset string `mapstructure:"dataset" default:"supportTicketsDataset.json"`
	// DryRun disables every mutating remote call.
	DryRun bool `mapstructure:"dry_run" default:"false"`
	// Concurrency is the number of workers draining the dataset.
	Concurrency int `mapstructure:"concurrency" default:"5"`
	// ProgressEvery is the number of completed records between progress logs.
	ProgressEvery int `mapstructure:"progress_every" default:"50"`
	// BackoffMS is the pause after a failed record, in milliseconds.
	BackoffMS int `mapstructure:"backoff_ms" default:"200"`
	// Timezone is the location calendar days are computed in.
	Timezone string `mapstructure:"timezone" default:"UTC"`
	// ReportObject is the object name the summary is uploaded to; empty disables upload.
	ReportObject string `mapstructure:"report_object" default:""`
}

// Backoff returns the per-record failure pause.
func (s SyncConfig) Backoff() time.Duration {
	if s.BackoffMS < 0 {
		return 0
	}
	return time.Duration(s.BackoffMS) * time.Millisecond
}

// Location loads the configured timezone.
func (s SyncConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(s.Timezone)
	if name == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}

// Timeout returns the per-request timeout.
func (r RemoteConfig) Timeout() time.Duration {
	if r.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// Validate checks values that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	if c.Sync.Concurrency <= 0 {
		return fmt.Errorf("sync.concurrency must be positive, got %d", c.Sync.Concurrency)
	}
	if _, err := c.Sync.Location(); err != nil {
		return fmt.Errorf("sync.timezone: %w", err)
	}
	u, err := url.Parse(c.Remote.BaseURL)
	if err != nil {
		return fmt.Errorf("remote.base_url: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("remote.base_url must be an absolute URL, got %q", c.Remote.BaseURL)
	}
	return nil
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SYNC_DRY_RUN -> sync.dry_run)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
