package di_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/spf13/afero"

	"github.com/goliatone/go-parish/internal/articles"
	"github.com/goliatone/go-parish/internal/di"
	"github.com/goliatone/go-parish/internal/logging/gologger"
	"github.com/goliatone/go-parish/internal/runtimeconfig"
	"github.com/goliatone/go-parish/internal/seed"
	"github.com/goliatone/go-parish/pkg/activity"
	"github.com/goliatone/go-parish/pkg/testsupport"
)

func testConfig() runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Database.DSN = "unused"
	cfg.RateLimit.Enabled = false
	cfg.Logging.Level = "error"
	return cfg
}

func newContainer(t *testing.T, cfg runtimeconfig.Config, opts ...di.Option) *di.Container {
	t.Helper()
	opts = append([]di.Option{
		di.WithBunDB(testsupport.NewBunDB(t)),
		di.WithFilesystem(afero.NewMemMapFs()),
	}, opts...)
	container, err := di.NewContainer(context.Background(), cfg, opts...)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })
	return container
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.SessionSecret = "short"

	_, err := di.NewContainer(context.Background(), cfg)
	if !errors.Is(err, runtimeconfig.ErrSessionSecretTooShort) {
		t.Fatalf("expected ErrSessionSecretTooShort, got %v", err)
	}
}

func TestContainerMigratesAndServesSeededSite(t *testing.T) {
	container := newContainer(t, testConfig())
	ctx := context.Background()

	runner, err := container.Migrations()
	if err != nil {
		t.Fatalf("migrations: %v", err)
	}
	_, pending, err := runner.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected auto-migrate to apply everything, pending %v", pending)
	}

	fx, err := seed.Default()
	if err != nil {
		t.Fatalf("default fixture: %v", err)
	}
	res, err := container.Seed(ctx, fx)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if res.Schedules == 0 || res.FAQ == 0 {
		t.Fatalf("expected seeded schedules and faq, got %+v", res)
	}

	srv := httptest.NewServer(container.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/faq?lang=pl")
	if err != nil {
		t.Fatalf("get faq: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", resp.StatusCode, body)
	}
	var entries []map[string]any
	if err := json.Unmarshal(body, &entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != res.FAQ {
		t.Fatalf("expected %d faq entries, got %d", res.FAQ, len(entries))
	}
}

func TestContainerForwardsActivityToHooks(t *testing.T) {
	var (
		mu     sync.Mutex
		events []activity.Event
	)
	hook := activity.HookFunc(func(_ context.Context, event activity.Event) error {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, event)
		return nil
	})
	container := newContainer(t, testConfig(), di.WithActivityHooks(hook))
	ctx := context.Background()

	saved, err := container.Services().Articles.Save(ctx, &articles.Article{Title: "Kermesse paroissiale", AutoSlug: true})
	if err != nil {
		t.Fatalf("save article: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(events) != 1 {
		t.Fatalf("expected one activity event, got %d", len(events))
	}
	if events[0].ObjectType != articles.Resource || events[0].ObjectID != saved.ID.String() {
		t.Fatalf("unexpected event %+v", events[0])
	}

	entries, total, err := container.Services().Activity.Recent(ctx, 10, 0)
	if err != nil {
		t.Fatalf("recent activity: %v", err)
	}
	if total != 1 || len(entries) != 1 {
		t.Fatalf("expected the database log to hold one entry, got %d", total)
	}
}

func TestConfigureLoggerProviderUsesGoLoggerAdapter(t *testing.T) {
	cfg := testConfig()
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "json"

	container := newContainer(t, cfg)
	if container.Logger("parish.test") == nil {
		t.Fatal("expected logger from go-logger provider, got nil")
	}
}

func TestWithLoggerProviderOverridesConfig(t *testing.T) {
	provider, err := gologger.NewProvider(gologger.Config{Level: "debug", Format: "console"})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	cfg := testConfig()
	cfg.Logging.Provider = "console"

	container := newContainer(t, cfg, di.WithLoggerProvider(provider))
	if container.Logger("parish.test") == nil {
		t.Fatal("expected logger from the supplied provider, got nil")
	}
}
