package runtimeconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// PARISH_DATABASE_DSN or PARISH_AUTH_SESSION_SECRET.
const EnvPrefix = "PARISH"

// LoadOptions controls where Load reads settings from. Empty paths are skipped.
type LoadOptions struct {
	ConfigFile string
	EnvFiles   []string
}

// Load layers defaults, an optional config file (yaml, toml or json), .env
// files and PARISH_* variables, then validates the result.
func Load(opts LoadOptions) (Config, error) {
	for _, file := range opts.EnvFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("parish config: load %s: %w", file, err)
		}
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := strings.TrimSpace(opts.ConfigFile); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("parish config: read %s: %w", path, err)
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.base_url", cfg.Server.BaseURL)
	v.SetDefault("server.read_timeout", cfg.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", cfg.Server.WriteTimeout)
	v.SetDefault("server.request_timeout", cfg.Server.RequestTimeout)
	v.SetDefault("server.shutdown_timeout", cfg.Server.ShutdownTimeout)

	v.SetDefault("database.driver", cfg.Database.Driver)
	v.SetDefault("database.dsn", cfg.Database.DSN)
	v.SetDefault("database.debug", cfg.Database.Debug)
	v.SetDefault("database.auto_migrate", cfg.Database.AutoMigrate)

	v.SetDefault("storage.root", cfg.Storage.Root)
	v.SetDefault("storage.public_prefix", cfg.Storage.PublicPrefix)
	v.SetDefault("storage.max_image_bytes", cfg.Storage.MaxImageBytes)
	v.SetDefault("storage.max_audio_bytes", cfg.Storage.MaxAudioBytes)
	v.SetDefault("storage.max_attachment_bytes", cfg.Storage.MaxAttachmentBytes)
	v.SetDefault("storage.image_max_dimension", cfg.Storage.ImageMaxDimension)
	v.SetDefault("storage.jpeg_quality", cfg.Storage.JPEGQuality)

	v.SetDefault("auth.session_secret", cfg.Auth.SessionSecret)
	v.SetDefault("auth.cookie_name", cfg.Auth.CookieName)
	v.SetDefault("auth.cookie_secure", cfg.Auth.CookieSecure)
	v.SetDefault("auth.session_max_age", cfg.Auth.SessionMaxAge)
	v.SetDefault("auth.min_password_length", cfg.Auth.MinPasswordLength)

	v.SetDefault("i18n.default_locale", cfg.I18N.DefaultLocale)
	v.SetDefault("i18n.locales", cfg.I18N.Locales)

	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.ttl", cfg.Cache.TTL)

	v.SetDefault("rate_limit.enabled", cfg.RateLimit.Enabled)
	v.SetDefault("rate_limit.per_minute", cfg.RateLimit.PerMinute)
	v.SetDefault("rate_limit.burst", cfg.RateLimit.Burst)

	v.SetDefault("logging.provider", cfg.Logging.Provider)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.add_source", cfg.Logging.AddSource)
	v.SetDefault("logging.focus", cfg.Logging.Focus)
}

func fromViper(v *viper.Viper) Config {
	return Config{
		Server: ServerConfig{
			Addr:            v.GetString("server.addr"),
			BaseURL:         strings.TrimRight(v.GetString("server.base_url"), "/"),
			ReadTimeout:     v.GetDuration("server.read_timeout"),
			WriteTimeout:    v.GetDuration("server.write_timeout"),
			RequestTimeout:  v.GetDuration("server.request_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Database: DatabaseConfig{
			Driver:      normalize(v.GetString("database.driver")),
			DSN:         v.GetString("database.dsn"),
			Debug:       v.GetBool("database.debug"),
			AutoMigrate: v.GetBool("database.auto_migrate"),
		},
		Storage: StorageConfig{
			Root:               v.GetString("storage.root"),
			PublicPrefix:       v.GetString("storage.public_prefix"),
			MaxImageBytes:      v.GetInt64("storage.max_image_bytes"),
			MaxAudioBytes:      v.GetInt64("storage.max_audio_bytes"),
			MaxAttachmentBytes: v.GetInt64("storage.max_attachment_bytes"),
			ImageMaxDimension:  v.GetInt("storage.image_max_dimension"),
			JPEGQuality:        v.GetInt("storage.jpeg_quality"),
		},
		Auth: AuthConfig{
			SessionSecret:     v.GetString("auth.session_secret"),
			CookieName:        v.GetString("auth.cookie_name"),
			CookieSecure:      v.GetBool("auth.cookie_secure"),
			SessionMaxAge:     v.GetDuration("auth.session_max_age"),
			MinPasswordLength: v.GetInt("auth.min_password_length"),
		},
		I18N: I18NConfig{
			DefaultLocale: normalize(v.GetString("i18n.default_locale")),
			Locales:       v.GetStringSlice("i18n.locales"),
		},
		Cache: CacheConfig{
			Enabled: v.GetBool("cache.enabled"),
			TTL:     v.GetDuration("cache.ttl"),
		},
		RateLimit: RateLimitConfig{
			Enabled:   v.GetBool("rate_limit.enabled"),
			PerMinute: v.GetInt("rate_limit.per_minute"),
			Burst:     v.GetInt("rate_limit.burst"),
		},
		Logging: LoggingConfig{
			Provider:  v.GetString("logging.provider"),
			Level:     v.GetString("logging.level"),
			Format:    v.GetString("logging.format"),
			AddSource: v.GetBool("logging.add_source"),
			Focus:     v.GetStringSlice("logging.focus"),
		},
	}
}
