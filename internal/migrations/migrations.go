package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

//go:embed sql/*.sql
var sqlFiles embed.FS

// FS returns the embedded SQL migrations.
func FS() fs.FS {
	sub, err := fs.Sub(sqlFiles, "sql")
	if err != nil {
		panic(err)
	}
	return sub
}

// Collection returns the bun migration set discovered from FS.
func Collection() (*migrate.Migrations, error) {
	migs := migrate.NewMigrations()
	if err := migs.Discover(FS()); err != nil {
		return nil, fmt.Errorf("migrations: discover: %w", err)
	}
	return migs, nil
}

// Runner applies and rolls back the schema.
type Runner struct {
	migrator *migrate.Migrator
}

func NewRunner(db *bun.DB) (*Runner, error) {
	migs, err := Collection()
	if err != nil {
		return nil, err
	}
	return &Runner{migrator: migrate.NewMigrator(db, migs)}, nil
}

// Up creates the bookkeeping tables and applies pending migrations. It
// returns the names applied in this run.
func (r *Runner) Up(ctx context.Context) ([]string, error) {
	if err := r.migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("migrations: init: %w", err)
	}
	if err := r.migrator.Lock(ctx); err != nil {
		return nil, fmt.Errorf("migrations: lock: %w", err)
	}
	defer r.migrator.Unlock(ctx) //nolint:errcheck

	group, err := r.migrator.Migrate(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrations: migrate: %w", err)
	}
	return names(group), nil
}

// Down rolls back the last applied group.
func (r *Runner) Down(ctx context.Context) ([]string, error) {
	if err := r.migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("migrations: init: %w", err)
	}
	if err := r.migrator.Lock(ctx); err != nil {
		return nil, fmt.Errorf("migrations: lock: %w", err)
	}
	defer r.migrator.Unlock(ctx) //nolint:errcheck

	group, err := r.migrator.Rollback(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrations: rollback: %w", err)
	}
	return names(group), nil
}

// Status lists applied and pending migration names.
func (r *Runner) Status(ctx context.Context) (applied, pending []string, err error) {
	if err := r.migrator.Init(ctx); err != nil {
		return nil, nil, fmt.Errorf("migrations: init: %w", err)
	}
	ms, err := r.migrator.MigrationsWithStatus(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("migrations: status: %w", err)
	}
	for _, m := range ms {
		if m.IsApplied() {
			applied = append(applied, m.Name)
		} else {
			pending = append(pending, m.Name)
		}
	}
	return applied, pending, nil
}

func names(group *migrate.MigrationGroup) []string {
	if group == nil || group.IsZero() {
		return nil
	}
	out := make([]string, 0, len(group.Migrations))
	for _, m := range group.Migrations {
		out = append(out, m.Name)
	}
	return out
}
