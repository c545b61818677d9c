package runtimeconfig

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

var (
	ErrServerAddrRequired       = errors.New("parish config: server address is required")
	ErrDatabaseDriverUnknown    = errors.New("parish config: database driver is invalid")
	ErrDatabaseDSNRequired      = errors.New("parish config: database dsn is required")
	ErrStorageRootRequired      = errors.New("parish config: storage root is required")
	ErrStorageLimitInvalid      = errors.New("parish config: storage limits must be positive")
	ErrSessionSecretTooShort    = errors.New("parish config: session secret must be at least 32 bytes")
	ErrDefaultLocaleUnsupported = errors.New("parish config: default locale must be one of the configured locales")
	ErrRateLimitInvalid         = errors.New("parish config: rate limit must be positive when enabled")
	ErrLoggingProviderUnknown   = errors.New("parish config: logging provider is invalid")
	ErrLoggingLevelInvalid      = errors.New("parish config: logging level is invalid")
	ErrLoggingFormatInvalid     = errors.New("parish config: logging format is invalid")
)

// Config aggregates every runtime setting of the parish server.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Storage   StorageConfig
	Auth      AuthConfig
	I18N      I18NConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Addr            string
	BaseURL         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig selects the SQL backend. Driver is "sqlite" or "postgres".
type DatabaseConfig struct {
	Driver      string
	DSN         string
	Debug       bool
	AutoMigrate bool
}

type StorageConfig struct {
	Root               string
	PublicPrefix       string
	MaxImageBytes      int64
	MaxAudioBytes      int64
	MaxAttachmentBytes int64
	ImageMaxDimension  int
	JPEGQuality        int
}

type AuthConfig struct {
	SessionSecret     string
	CookieName        string
	CookieSecure      bool
	SessionMaxAge     time.Duration
	MinPasswordLength int
}

type I18NConfig struct {
	DefaultLocale string
	Locales       []string
}

type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// RateLimitConfig throttles the public form endpoints and sign-in per client IP.
type RateLimitConfig struct {
	Enabled   bool
	PerMinute int
	Burst     int
}

type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns a configuration suitable for local development: a
// sqlite file next to the binary and uploads under ./storage.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			BaseURL:         "http://localhost:8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			RequestTimeout:  20 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:      "sqlite",
			DSN:         "file:parish.db?cache=shared&_fk=1",
			AutoMigrate: true,
		},
		Storage: StorageConfig{
			Root:               "storage",
			PublicPrefix:       "/media",
			MaxImageBytes:      10 << 20,
			MaxAudioBytes:      50 << 20,
			MaxAttachmentBytes: 10 << 20,
			ImageMaxDimension:  1920,
			JPEGQuality:        80,
		},
		Auth: AuthConfig{
			SessionSecret:     "change-me-change-me-change-me-change-me",
			CookieName:        "parish_session",
			SessionMaxAge:     7 * 24 * time.Hour,
			MinPasswordLength: 8,
		},
		I18N: I18NConfig{
			DefaultLocale: "fr",
			Locales:       []string{"fr", "pl"},
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     time.Minute,
		},
		RateLimit: RateLimitConfig{
			Enabled:   true,
			PerMinute: 10,
			Burst:     5,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate checks the configuration for values the server cannot start with.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return ErrServerAddrRequired
	}
	switch normalize(cfg.Database.Driver) {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("%w: %s", ErrDatabaseDriverUnknown, cfg.Database.Driver)
	}
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return ErrDatabaseDSNRequired
	}
	if strings.TrimSpace(cfg.Storage.Root) == "" {
		return ErrStorageRootRequired
	}
	if cfg.Storage.MaxImageBytes <= 0 || cfg.Storage.MaxAudioBytes <= 0 || cfg.Storage.MaxAttachmentBytes <= 0 {
		return ErrStorageLimitInvalid
	}
	if len(cfg.Auth.SessionSecret) < 32 {
		return ErrSessionSecretTooShort
	}
	if !slices.Contains(cfg.I18N.Locales, normalize(cfg.I18N.DefaultLocale)) {
		return fmt.Errorf("%w: %s", ErrDefaultLocaleUnsupported, cfg.I18N.DefaultLocale)
	}
	if cfg.RateLimit.Enabled && (cfg.RateLimit.PerMinute <= 0 || cfg.RateLimit.Burst <= 0) {
		return ErrRateLimitInvalid
	}

	provider := normalize(cfg.Logging.Provider)
	switch provider {
	case "console", "gologger":
	default:
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	switch normalize(cfg.Logging.Level) {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, cfg.Logging.Level)
	}
	if provider == "gologger" {
		switch normalize(cfg.Logging.Format) {
		case "", "json", "console", "pretty":
		default:
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, cfg.Logging.Format)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
