package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	parish "github.com/goliatone/go-parish"
	"github.com/goliatone/go-parish/internal/di"
	"github.com/goliatone/go-parish/internal/seed"
)

var containerBuilder = di.NewContainer

type cli struct {
	Config  string   `short:"c" type:"path" env:"PARISH_CONFIG" help:"Config file (yaml, toml or json)."`
	EnvFile []string `name:"env-file" default:".env" help:"Dotenv files loaded before PARISH_* variables."`

	Serve       serveCmd       `cmd:"" default:"1" help:"Run the HTTP server."`
	Migrate     migrateCmd     `cmd:"" help:"Manage the database schema."`
	Seed        seedCmd        `cmd:"" help:"Load default schedules, FAQ, links and legal pages."`
	CreateAdmin createAdminCmd `cmd:"" name:"create-admin" help:"Create a user and grant the admin role."`
}

// app is bound into every command's Run method.
type app struct {
	ctx    context.Context
	cli    *cli
	stdout io.Writer
}

// container loads the configuration and builds the services. Schema
// commands pass migrate=false so nothing is applied behind their back.
func (a *app) container(migrate bool) (*di.Container, error) {
	cfg, err := parish.LoadConfig(parish.LoadOptions{
		ConfigFile: a.cli.Config,
		EnvFiles:   a.cli.EnvFile,
	})
	if err != nil {
		return nil, err
	}
	if !migrate {
		cfg.Database.AutoMigrate = false
	}
	return containerBuilder(a.ctx, cfg)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("parish: %v", err)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	var root cli
	parser, err := kong.New(&root,
		kong.Name("parish"),
		kong.Description("Parish website and back office server."),
		kong.Writers(stdout, stdout),
		kong.UsageOnError(),
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	return kctx.Run(&app{ctx: ctx, cli: &root, stdout: stdout})
}

type serveCmd struct {
	Addr string `help:"Override server.addr."`
}

func (cmd *serveCmd) Run(a *app) error {
	container, err := a.container(true)
	if err != nil {
		return err
	}
	defer container.Close()

	srv := container.HTTPServer()
	if cmd.Addr != "" {
		srv.Addr = cmd.Addr
	}
	logger := container.Logger("parish.server")

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server.listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-a.ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), container.Config.Server.ShutdownTimeout)
	defer cancel()
	logger.Info("server.shutdown")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

type migrateCmd struct {
	Up     migrateUpCmd     `cmd:"" default:"1" help:"Apply pending migrations."`
	Down   migrateDownCmd   `cmd:"" help:"Roll back the last migration group."`
	Status migrateStatusCmd `cmd:"" help:"List applied and pending migrations."`
}

type migrateUpCmd struct{}

func (migrateUpCmd) Run(a *app) error {
	container, err := a.container(false)
	if err != nil {
		return err
	}
	defer container.Close()

	applied, err := container.Migrate(a.ctx)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		fmt.Fprintln(a.stdout, "database is up to date")
		return nil
	}
	fmt.Fprintf(a.stdout, "applied: %s\n", strings.Join(applied, ", "))
	return nil
}

type migrateDownCmd struct{}

func (migrateDownCmd) Run(a *app) error {
	container, err := a.container(false)
	if err != nil {
		return err
	}
	defer container.Close()

	runner, err := container.Migrations()
	if err != nil {
		return err
	}
	rolled, err := runner.Down(a.ctx)
	if err != nil {
		return err
	}
	if len(rolled) == 0 {
		fmt.Fprintln(a.stdout, "nothing to roll back")
		return nil
	}
	fmt.Fprintf(a.stdout, "rolled back: %s\n", strings.Join(rolled, ", "))
	return nil
}

type migrateStatusCmd struct{}

func (migrateStatusCmd) Run(a *app) error {
	container, err := a.container(false)
	if err != nil {
		return err
	}
	defer container.Close()

	runner, err := container.Migrations()
	if err != nil {
		return err
	}
	applied, pending, err := runner.Status(a.ctx)
	if err != nil {
		return err
	}
	for _, name := range applied {
		fmt.Fprintf(a.stdout, "applied  %s\n", name)
	}
	for _, name := range pending {
		fmt.Fprintf(a.stdout, "pending  %s\n", name)
	}
	return nil
}

type seedCmd struct {
	File string `type:"existingfile" help:"Fixture JSON. Defaults to the embedded fixture."`
}

func (cmd *seedCmd) Run(a *app) error {
	fx, err := cmd.fixture()
	if err != nil {
		return err
	}
	container, err := a.container(true)
	if err != nil {
		return err
	}
	defer container.Close()

	res, err := container.Seed(a.ctx, fx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func (cmd *seedCmd) fixture() (seed.Fixture, error) {
	if cmd.File == "" {
		return seed.Default()
	}
	raw, err := os.ReadFile(cmd.File)
	if err != nil {
		return seed.Fixture{}, err
	}
	return seed.Parse(raw)
}

type createAdminCmd struct {
	Email    string `required:"" help:"Sign-in email."`
	Password string `required:"" env:"PARISH_ADMIN_PASSWORD" help:"Initial password."`
	Name     string `help:"Display name."`
}

// Run creates the user when missing and grants admin either way.
func (cmd *createAdminCmd) Run(a *app) error {
	container, err := a.container(true)
	if err != nil {
		return err
	}
	defer container.Close()

	user, err := container.Services().Auth.EnsureAdmin(a.ctx, cmd.Email, cmd.Password, cmd.Name)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "admin %s ready (%s)\n", user.Email, user.ID)
	return nil
}
