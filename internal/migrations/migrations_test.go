package migrations_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-parish/internal/migrations"
	"github.com/goliatone/go-parish/pkg/testsupport"
)

func TestRunnerUpIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := testsupport.NewBunDB(t)

	runner, err := migrations.NewRunner(db)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	applied, err := runner.Up(ctx)
	if err != nil {
		t.Fatalf("Up: %v", err)
	}
	if len(applied) != 3 {
		t.Fatalf("expected 3 migrations applied, got %v", applied)
	}

	again, err := runner.Up(ctx)
	if err != nil {
		t.Fatalf("second Up: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("expected nothing pending, got %v", again)
	}

	for _, table := range []string{"articles", "pages", "team_members", "schedules", "faq_entries", "audio_files", "footer_links", "social_links", "contact_messages", "newsletter_subscribers", "users", "user_roles", "activity_log"} {
		if n := testsupport.CountRows(t, db, table); n != 0 {
			t.Fatalf("expected empty %s, got %d rows", table, n)
		}
	}

	applied, pending, err := runner.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(applied) != 3 || len(pending) != 0 {
		t.Fatalf("unexpected status applied=%v pending=%v", applied, pending)
	}
}

func TestRunnerDownRollsBackLastGroup(t *testing.T) {
	ctx := context.Background()
	db := testsupport.NewBunDB(t)
	runner, err := migrations.NewRunner(db)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	if _, err := runner.Up(ctx); err != nil {
		t.Fatalf("Up: %v", err)
	}
	rolled, err := runner.Down(ctx)
	if err != nil {
		t.Fatalf("Down: %v", err)
	}
	if len(rolled) != 3 {
		t.Fatalf("expected the single group of 3 migrations rolled back, got %v", rolled)
	}
	if _, err := db.NewSelect().Table("articles").Count(ctx); err == nil {
		t.Fatal("expected articles table to be dropped")
	}
}
