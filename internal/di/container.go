package di

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/spf13/afero"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-parish/internal/articles"
	"github.com/goliatone/go-parish/internal/audio"
	"github.com/goliatone/go-parish/internal/audit"
	"github.com/goliatone/go-parish/internal/auth"
	"github.com/goliatone/go-parish/internal/contact"
	"github.com/goliatone/go-parish/internal/faq"
	parishhttp "github.com/goliatone/go-parish/internal/http"
	"github.com/goliatone/go-parish/internal/i18n"
	"github.com/goliatone/go-parish/internal/links"
	"github.com/goliatone/go-parish/internal/logging"
	"github.com/goliatone/go-parish/internal/logging/console"
	"github.com/goliatone/go-parish/internal/logging/gologger"
	"github.com/goliatone/go-parish/internal/markdown"
	"github.com/goliatone/go-parish/internal/media"
	"github.com/goliatone/go-parish/internal/migrations"
	"github.com/goliatone/go-parish/internal/pages"
	"github.com/goliatone/go-parish/internal/records"
	"github.com/goliatone/go-parish/internal/richtext"
	"github.com/goliatone/go-parish/internal/routes"
	"github.com/goliatone/go-parish/internal/runtimeconfig"
	"github.com/goliatone/go-parish/internal/schedules"
	"github.com/goliatone/go-parish/internal/seed"
	"github.com/goliatone/go-parish/internal/team"
	"github.com/goliatone/go-parish/pkg/activity"
	"github.com/goliatone/go-parish/pkg/interfaces"
)

// Container wires the parish services from a runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	db             *bun.DB
	ownsDB         bool
	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger
	cacheService   repocache.CacheService
	keySerializer  repocache.KeySerializer
	fs             afero.Fs
	hooks          []activity.Hook
	now            func() time.Time

	storage  *media.Storage
	services parishhttp.Services
	sessions *auth.Sessions
	server   *parishhttp.Server
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB reuses an open database instead of opening Config.Database. The
// caller keeps ownership and closes it.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.db = db
	}
}

// WithLoggerProvider overrides the provider selected by Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithCache overrides the default go-repository-cache service.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithFilesystem stores uploads on fs instead of Config.Storage.Root.
func WithFilesystem(fs afero.Fs) Option {
	return func(c *Container) {
		c.fs = fs
	}
}

// WithActivityHooks receives every activity event next to the database log.
func WithActivityHooks(hooks ...activity.Hook) Option {
	return func(c *Container) {
		c.hooks = append(c.hooks, hooks...)
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Container) {
		if now != nil {
			c.now = now
		}
	}
}

// NewContainer validates cfg and builds every service. The database is opened
// here unless WithBunDB supplied one; migrations are applied when
// Config.Database.AutoMigrate is set.
func NewContainer(ctx context.Context, cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{Config: cfg, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	if err := c.configureDatabase(ctx); err != nil {
		return nil, err
	}
	if err := c.configureStorage(); err != nil {
		c.Close()
		return nil, err
	}
	c.configureServices()
	if err := c.configureServer(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider == nil {
		switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
		case "gologger":
			provider, err := gologger.NewProvider(gologger.Config{
				Level:     c.Config.Logging.Level,
				Format:    c.Config.Logging.Format,
				AddSource: c.Config.Logging.AddSource,
				Focus:     c.Config.Logging.Focus,
			})
			if err != nil {
				return err
			}
			c.loggerProvider = provider
		default:
			opts := console.Options{}
			if level, ok := console.ParseLevel(c.Config.Logging.Level); ok {
				opts.MinLevel = &level
			}
			c.loggerProvider = console.NewProvider(opts)
		}
	}
	c.logger = logging.ModuleLogger(c.loggerProvider, "parish.di")
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}
	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.Config.Cache.TTL > 0 {
			cfg.TTL = c.Config.Cache.TTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			c.logger.Warn("cache.disabled", "error", err)
			return
		}
		c.cacheService = service
	}
	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureDatabase(ctx context.Context) error {
	if c.db == nil {
		db, err := OpenDatabase(ctx, c.Config.Database)
		if err != nil {
			return err
		}
		c.db = db
		c.ownsDB = true
	}
	if c.Config.Database.Debug {
		c.db.AddQueryHook(queryLogger{logger: logging.ModuleLogger(c.loggerProvider, "parish.db")})
	}
	if c.Config.Database.AutoMigrate {
		applied, err := c.Migrate(ctx)
		if err != nil {
			c.Close()
			return err
		}
		c.logger.Info("db.migrated", "driver", c.Config.Database.Driver, "applied", len(applied))
	}
	return nil
}

func (c *Container) configureStorage() error {
	limits := c.Config.Storage
	if c.fs != nil {
		c.storage = media.NewStorage(c.fs, limits.PublicPrefix)
		return nil
	}
	storage, err := media.NewDiskStorage(limits.Root, limits.PublicPrefix)
	if err != nil {
		return err
	}
	c.storage = storage
	return nil
}

func (c *Container) caching() records.Caching {
	return records.Caching{Service: c.cacheService, Serializer: c.keySerializer}
}

func (c *Container) configureServices() {
	activityLog := audit.NewLog(audit.NewBunStore(c.db))
	recorder := audit.NewRecorder(activityLog, logging.ModuleLogger(c.loggerProvider, "parish.activity"), c.hooks...)
	sanitizer := richtext.NewSanitizer()
	cache := c.caching()

	serviceOpts := func(resource string) []records.ServiceOption {
		return []records.ServiceOption{
			records.WithClock(c.now),
			records.WithActivity(recorder),
			records.WithLogger(logging.ResourceLogger(c.loggerProvider, resource)),
		}
	}

	storageCfg := c.Config.Storage
	mediaSvc := media.NewService(c.storage,
		media.WithLimits(media.Limits{
			MaxImageBytes:      storageCfg.MaxImageBytes,
			MaxAudioBytes:      storageCfg.MaxAudioBytes,
			MaxAttachmentBytes: storageCfg.MaxAttachmentBytes,
			ImageMaxDimension:  storageCfg.ImageMaxDimension,
			JPEGQuality:        storageCfg.JPEGQuality,
		}),
		media.WithLogger(logging.ModuleLogger(c.loggerProvider, "parish.media")),
	)

	c.services = parishhttp.Services{
		Articles:  articles.NewService(articles.NewBunStore(c.db, cache), sanitizer, serviceOpts(articles.Resource)...),
		Pages:     pages.NewService(pages.NewBunStore(c.db, cache), sanitizer, serviceOpts(pages.Resource)...),
		Team:      team.NewService(team.NewBunStore(c.db, cache), sanitizer, serviceOpts(team.Resource)...),
		Schedules: schedules.NewService(schedules.NewBunStore(c.db, cache), serviceOpts(schedules.Resource)...),
		FAQ:       faq.NewService(faq.NewBunStore(c.db, cache), sanitizer, serviceOpts(faq.Resource)...),
		Audio: audio.NewService(audio.NewBunStore(c.db, cache), mediaSvc,
			logging.ResourceLogger(c.loggerProvider, audio.Resource), serviceOpts(audio.Resource)...),
		Links: links.NewService(links.NewBunStores(c.db, cache), serviceOpts("links")...),
		Contact: contact.NewService(contact.NewBunStores(c.db), mediaSvc,
			logging.ModuleLogger(c.loggerProvider, "parish.contact"), serviceOpts("contact")...),
		Auth: auth.NewService(auth.NewBunUserStore(c.db), auth.NewBunRoleStore(c.db),
			auth.WithMinPasswordLength(c.Config.Auth.MinPasswordLength),
			auth.WithClock(c.now),
			auth.WithActivity(recorder),
			auth.WithLogger(logging.ModuleLogger(c.loggerProvider, "parish.auth")),
		),
		Media:     mediaSvc,
		Storage:   c.storage,
		Legal:     markdown.NewService(nil),
		Activity:  activityLog,
		Sanitizer: sanitizer,
		URLs:      routes.New(c.Config.Server.BaseURL),
	}

	c.sessions = auth.NewSessions(auth.SessionConfig{
		Secret:     c.Config.Auth.SessionSecret,
		CookieName: c.Config.Auth.CookieName,
		Secure:     c.Config.Auth.CookieSecure,
		MaxAge:     c.Config.Auth.SessionMaxAge,
	})
}

func (c *Container) configureServer() error {
	locales := i18n.Config{
		DefaultLocale: c.Config.I18N.DefaultLocale,
		Locales:       c.Config.I18N.Locales,
	}
	catalog, err := i18n.DefaultCatalog()
	if err != nil {
		return fmt.Errorf("di: load catalog: %w", err)
	}

	opts := []parishhttp.Option{
		parishhttp.WithLogger(logging.ModuleLogger(c.loggerProvider, "parish.http")),
		parishhttp.WithLocales(i18n.NewNegotiator(locales), i18n.NewTranslator(catalog, locales)),
		parishhttp.WithRequestTimeout(c.Config.Server.RequestTimeout),
		parishhttp.WithClock(c.now),
		parishhttp.WithSecureCookies(c.Config.Auth.CookieSecure),
	}
	if rl := c.Config.RateLimit; rl.Enabled {
		opts = append(opts, parishhttp.WithRateLimiter(parishhttp.NewRateLimiter(rl.PerMinute, rl.Burst)))
	}
	c.server = parishhttp.NewServer(c.services, c.sessions, opts...)
	return nil
}

// Migrate applies pending migrations and returns their names.
func (c *Container) Migrate(ctx context.Context) ([]string, error) {
	runner, err := migrations.NewRunner(c.db)
	if err != nil {
		return nil, err
	}
	return runner.Up(ctx)
}

// Migrations exposes the runner for the migrate command.
func (c *Container) Migrations() (*migrations.Runner, error) {
	return migrations.NewRunner(c.db)
}

// Seed loads fx through the services so every row is validated.
func (c *Container) Seed(ctx context.Context, fx seed.Fixture) (seed.Result, error) {
	return seed.Run(ctx, seed.Services{
		Schedules: c.services.Schedules,
		FAQ:       c.services.FAQ,
		Links:     c.services.Links,
		Pages:     c.services.Pages,
	}, fx, logging.ModuleLogger(c.loggerProvider, "parish.seed"))
}

func (c *Container) Services() parishhttp.Services {
	return c.services
}

func (c *Container) DB() *bun.DB {
	return c.db
}

// Logger returns a named logger from the configured provider.
func (c *Container) Logger(name string) interfaces.Logger {
	return logging.ModuleLogger(c.loggerProvider, name)
}

func (c *Container) Handler() http.Handler {
	return c.server.Handler()
}

// HTTPServer returns a server bound to Config.Server.Addr.
func (c *Container) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              c.Config.Server.Addr,
		Handler:           c.Handler(),
		ReadTimeout:       c.Config.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      c.Config.Server.WriteTimeout,
	}
}

// Close releases the database when the container opened it.
func (c *Container) Close() error {
	if c.db == nil || !c.ownsDB {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}
