package parish

import (
	"context"
	"io/fs"
	"net/http"

	"github.com/goliatone/go-parish/internal/di"
	parishhttp "github.com/goliatone/go-parish/internal/http"
	"github.com/goliatone/go-parish/internal/migrations"
	"github.com/goliatone/go-parish/internal/seed"
)

// Services exports the service set behind the HTTP API.
type Services = parishhttp.Services

// SeedResult counts the rows written by Seed.
type SeedResult = seed.Result

// Module is the top level runtime façade: services, HTTP handler, schema
// and seed data.
type Module struct {
	container *di.Container
}

// New constructs a parish module using the provided configuration and
// optional DI overrides.
func New(ctx context.Context, cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

func (m *Module) Services() Services {
	return m.container.Services()
}

// Handler serves the public site, auth and admin APIs.
func (m *Module) Handler() http.Handler {
	return m.container.Handler()
}

// Seed loads the embedded default fixture. Reseeding updates rows in place.
func (m *Module) Seed(ctx context.Context) (SeedResult, error) {
	fx, err := seed.Default()
	if err != nil {
		return SeedResult{}, err
	}
	return m.container.Seed(ctx, fx)
}

func (m *Module) Close() error {
	return m.container.Close()
}

// MigrationsFS returns the embedded SQL migrations for hosts running their
// own migrator.
func MigrationsFS() fs.FS {
	return migrations.FS()
}
