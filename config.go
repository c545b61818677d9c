package parish

import "github.com/goliatone/go-parish/internal/runtimeconfig"

var (
	ErrServerAddrRequired       = runtimeconfig.ErrServerAddrRequired
	ErrDatabaseDriverUnknown    = runtimeconfig.ErrDatabaseDriverUnknown
	ErrDatabaseDSNRequired      = runtimeconfig.ErrDatabaseDSNRequired
	ErrStorageRootRequired      = runtimeconfig.ErrStorageRootRequired
	ErrStorageLimitInvalid      = runtimeconfig.ErrStorageLimitInvalid
	ErrSessionSecretTooShort    = runtimeconfig.ErrSessionSecretTooShort
	ErrDefaultLocaleUnsupported = runtimeconfig.ErrDefaultLocaleUnsupported
	ErrRateLimitInvalid         = runtimeconfig.ErrRateLimitInvalid
	ErrLoggingProviderUnknown   = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid      = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid     = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config          = runtimeconfig.Config
	ServerConfig    = runtimeconfig.ServerConfig
	DatabaseConfig  = runtimeconfig.DatabaseConfig
	StorageConfig   = runtimeconfig.StorageConfig
	AuthConfig      = runtimeconfig.AuthConfig
	I18NConfig      = runtimeconfig.I18NConfig
	CacheConfig     = runtimeconfig.CacheConfig
	RateLimitConfig = runtimeconfig.RateLimitConfig
	LoggingConfig   = runtimeconfig.LoggingConfig
	LoadOptions     = runtimeconfig.LoadOptions
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads defaults, an optional config file, .env files and
// PARISH_* variables.
func LoadConfig(opts LoadOptions) (Config, error) {
	return runtimeconfig.Load(opts)
}
