package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	config := fmt.Sprintf(`database:
  driver: sqlite
  dsn: "file:%s?_fk=1"
storage:
  root: %q
logging:
  level: error
rate_limit:
  enabled: false
`, filepath.Join(dir, "parish.db"), filepath.Join(dir, "storage"))
	path := filepath.Join(dir, "parish.yaml")
	if err := os.WriteFile(path, []byte(config), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, config string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	args = append([]string{"--config", config}, args...)
	if err := run(context.Background(), args, &out); err != nil {
		t.Fatalf("parish %s: %v", strings.Join(args[2:], " "), err)
	}
	return out.String()
}

func TestMigrateCommands(t *testing.T) {
	config := writeConfig(t)

	if out := runCLI(t, config, "migrate", "status"); !strings.Contains(out, "pending") || strings.Contains(out, "applied ") {
		t.Fatalf("expected only pending migrations on a fresh database, got:\n%s", out)
	}
	if out := runCLI(t, config, "migrate", "up"); !strings.HasPrefix(out, "applied:") {
		t.Fatalf("expected applied migrations, got %q", out)
	}
	if out := runCLI(t, config, "migrate"); !strings.Contains(out, "up to date") {
		t.Fatalf("expected up-to-date message, got %q", out)
	}
	if out := runCLI(t, config, "migrate", "down"); !strings.HasPrefix(out, "rolled back:") {
		t.Fatalf("expected rollback, got %q", out)
	}
}

func TestSeedAndCreateAdmin(t *testing.T) {
	config := writeConfig(t)

	out := runCLI(t, config, "seed")
	var res struct {
		Schedules int `json:"schedules"`
		FAQ       int `json:"faq"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode seed output %q: %v", out, err)
	}
	if res.Schedules == 0 || res.FAQ == 0 {
		t.Fatalf("expected seeded rows, got %+v", res)
	}

	args := []string{"create-admin", "--email", "Cure@Paroisse.example", "--password", "s3cret-pass", "--name", "Père Jan"}
	first := runCLI(t, config, args...)
	if !strings.Contains(first, "admin cure@paroisse.example ready") {
		t.Fatalf("unexpected create-admin output %q", first)
	}
	// Running it again grants the role without creating a second account.
	if second := runCLI(t, config, args...); second != first {
		t.Fatalf("expected idempotent create-admin, got %q then %q", first, second)
	}
}

func TestCreateAdminRequiresEmail(t *testing.T) {
	config := writeConfig(t)
	var out bytes.Buffer
	err := run(context.Background(), []string{"--config", config, "create-admin", "--password", "s3cret-pass"}, &out)
	if err == nil {
		t.Fatal("expected a missing --email flag to fail")
	}
}
