// Package config loads service and CLI settings from defaults, an optional
// YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/howstheair/dashboard/internal/backend"
	"github.com/howstheair/dashboard/internal/database"
)

// Activity store kinds.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// DevSigningKey is used when JWT_SIGNING_KEY is not set outside production.
const DevSigningKey = "local-dev-signing-key-change-in-production"

// Config is the complete application configuration.
type Config struct {
	Env      string
	Port     string
	LogLevel zerolog.Level
	Timezone *time.Location

	Backend   BackendConfig
	Dashboard DashboardConfig
	Auth      AuthConfig
	Activity  ActivityConfig
	Database  database.Config
	Telemetry TelemetryConfig
	PubSub    PubSubConfig
	Sync      SyncConfig
}

// BackendConfig configures the air-quality backend client.
type BackendConfig struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries uint64
}

// DashboardConfig tunes the views.
type DashboardConfig struct {
	Freshness      time.Duration
	SearchDebounce time.Duration
	TrendDays      int
}

// AuthConfig configures operator tokens.
type AuthConfig struct {
	SigningKey string
	Issuer     string
	TokenTTL   time.Duration
}

// ActivityConfig selects where the activity log lives.
type ActivityConfig struct {
	Store    string
	Capacity int
}

// TelemetryConfig configures OpenTelemetry export.
type TelemetryConfig struct {
	Enabled  bool
	Endpoint string
}

// PubSubConfig configures the worker's Pub/Sub trigger subscription.
type PubSubConfig struct {
	Enabled      bool
	ProjectID    string
	Subscription string
}

// SyncConfig configures scheduled syncs in the worker.
type SyncConfig struct {
	Schedule string
	Timeout  time.Duration
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func setDefaults(v *viper.Viper) {
	db := database.DefaultConfig()

	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.timezone", "UTC")
	v.SetDefault("log.level", "info")

	v.SetDefault("backend.base_url", backend.DefaultBaseURL)
	v.SetDefault("backend.timeout", "10s")
	v.SetDefault("backend.max_retries", 2)

	v.SetDefault("sync.freshness", "15m")
	v.SetDefault("search.debounce", "800ms")
	v.SetDefault("trend.days", 14)

	v.SetDefault("jwt.signing_key", "")
	v.SetDefault("jwt.issuer", "howstheair-dashboard")
	v.SetDefault("jwt.token_ttl", "12h")

	v.SetDefault("activity.store", StoreMemory)
	v.SetDefault("activity.capacity", 1000)

	v.SetDefault("db.host", db.Host)
	v.SetDefault("db.port", db.Port)
	v.SetDefault("db.user", db.User)
	v.SetDefault("db.password", db.Password)
	v.SetDefault("db.name", db.Database)
	v.SetDefault("db.ssl_mode", db.SSLMode)
	v.SetDefault("db.max_open_conns", db.MaxOpenConns)
	v.SetDefault("db.max_idle_conns", db.MaxIdleConns)
	v.SetDefault("db.conn_max_lifetime", db.ConnMaxLifetime.String())

	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.exporter_otlp_endpoint", "localhost:4317")

	v.SetDefault("pubsub.enabled", false)
	v.SetDefault("pubsub.project_id", "")
	v.SetDefault("pubsub.subscription", "dashboard-sync-triggers")

	v.SetDefault("sync.schedule", "*/5 * * * *")
	v.SetDefault("sync.timeout", "2m")
}

// New returns a viper instance with defaults and environment binding.
// Keys map to env vars by upper-casing and replacing dots, so "db.host" is
// read from DB_HOST.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration. path is an optional YAML file; an empty path looks
// for config.yaml in the working directory and ignores it if missing.
func Load(path string) (*Config, error) {
	v := New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	return FromViper(v)
}

// FromViper builds a Config from an initialised viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	level, err := zerolog.ParseLevel(v.GetString("log.level"))
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	tz, err := time.LoadLocation(v.GetString("app.timezone"))
	if err != nil {
		return nil, fmt.Errorf("app timezone: %w", err)
	}

	cfg := &Config{
		Env:      v.GetString("app.env"),
		Port:     v.GetString("app.port"),
		LogLevel: level,
		Timezone: tz,
		Backend: BackendConfig{
			BaseURL:    v.GetString("backend.base_url"),
			Timeout:    v.GetDuration("backend.timeout"),
			MaxRetries: v.GetUint64("backend.max_retries"),
		},
		Dashboard: DashboardConfig{
			Freshness:      v.GetDuration("sync.freshness"),
			SearchDebounce: v.GetDuration("search.debounce"),
			TrendDays:      v.GetInt("trend.days"),
		},
		Auth: AuthConfig{
			SigningKey: v.GetString("jwt.signing_key"),
			Issuer:     v.GetString("jwt.issuer"),
			TokenTTL:   v.GetDuration("jwt.token_ttl"),
		},
		Activity: ActivityConfig{
			Store:    strings.ToLower(v.GetString("activity.store")),
			Capacity: v.GetInt("activity.capacity"),
		},
		Database: database.Config{
			Host:            v.GetString("db.host"),
			Port:            v.GetInt("db.port"),
			User:            v.GetString("db.user"),
			Password:        v.GetString("db.password"),
			Database:        v.GetString("db.name"),
			SSLMode:         v.GetString("db.ssl_mode"),
			MaxOpenConns:    v.GetInt("db.max_open_conns"),
			MaxIdleConns:    v.GetInt("db.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("db.conn_max_lifetime"),
		},
		Telemetry: TelemetryConfig{
			Enabled:  v.GetBool("otel.enabled"),
			Endpoint: v.GetString("otel.exporter_otlp_endpoint"),
		},
		PubSub: PubSubConfig{
			Enabled:      v.GetBool("pubsub.enabled"),
			ProjectID:    v.GetString("pubsub.project_id"),
			Subscription: v.GetString("pubsub.subscription"),
		},
		Sync: SyncConfig{
			Schedule: v.GetString("sync.schedule"),
			Timeout:  v.GetDuration("sync.timeout"),
		},
	}

	if cfg.Auth.SigningKey == "" && !cfg.IsProduction() {
		cfg.Auth.SigningKey = DevSigningKey
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	var errs []error

	if c.Backend.BaseURL == "" {
		errs = append(errs, errors.New("backend base URL is required"))
	}
	if c.Backend.Timeout <= 0 {
		errs = append(errs, errors.New("backend timeout must be positive"))
	}
	if c.Dashboard.Freshness <= 0 {
		errs = append(errs, errors.New("sync freshness must be positive"))
	}
	if c.Dashboard.TrendDays <= 0 {
		errs = append(errs, errors.New("trend days must be positive"))
	}
	if c.Auth.SigningKey == "" {
		errs = append(errs, errors.New("JWT_SIGNING_KEY is required in production"))
	}
	switch c.Activity.Store {
	case StoreMemory:
	case StorePostgres:
		if err := c.Database.Validate(); err != nil {
			errs = append(errs, err)
		}
	default:
		errs = append(errs, fmt.Errorf("unknown activity store %q", c.Activity.Store))
	}
	if c.PubSub.Enabled && c.PubSub.ProjectID == "" {
		errs = append(errs, errors.New("PUBSUB_PROJECT_ID is required when Pub/Sub is enabled"))
	}

	return errors.Join(errs...)
}
