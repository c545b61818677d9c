package console_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-parish/internal/logging"
	"github.com/goliatone/go-parish/internal/logging/console"
)

func TestConsoleLoggerWritesSortedFields(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2025, 6, 29, 10, 30, 0, 0, time.UTC)

	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return now },
	})

	ctx := logging.ContextWithFields(context.Background(), map[string]any{"request_id": "req-42"})
	logger := provider.GetLogger("parish.content").
		WithContext(ctx)
	logger = logging.WithFields(logger, map[string]any{"resource": "articles"})

	id := uuid.MustParse("5f1d3c1e-7b1a-4a5e-9d0e-2a8c4b6f1e01")
	logger.Info("record.saved", "record_id", id, "title", "Messe de Pâques")

	got := strings.TrimSpace(buf.String())
	want := `2025-06-29T10:30:00Z INFO record.saved logger=parish.content record_id=5f1d3c1e-7b1a-4a5e-9d0e-2a8c4b6f1e01 request_id=req-42 resource=articles title="Messe de Pâques"`
	if got != want {
		t.Fatalf("unexpected entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestConsoleLoggerRespectsMinLevel(t *testing.T) {
	var buf bytes.Buffer
	level := console.LevelWarn
	logger := console.NewProvider(console.Options{Writer: &buf, MinLevel: &level}).GetLogger("parish")

	logger.Info("dropped")
	logger.Error("kept", "err", errors.New("boom"))

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("info entry should be filtered: %s", out)
	}
	if !strings.Contains(out, "ERROR kept") || !strings.Contains(out, "err=boom") {
		t.Fatalf("expected error entry, got %s", out)
	}
}

func TestConsoleLoggerKeepsOddArgument(t *testing.T) {
	var buf bytes.Buffer
	logger := console.NewProvider(console.Options{Writer: &buf}).GetLogger("parish")
	logger.Debug("odd", "key", 1, "orphan")

	if !strings.Contains(buf.String(), "arg_2=orphan") {
		t.Fatalf("expected orphan argument to be kept, got %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]console.Level{
		"trace":   console.LevelTrace,
		"DEBUG":   console.LevelDebug,
		"":        console.LevelInfo,
		"warning": console.LevelWarn,
		"error":   console.LevelError,
	}
	for in, want := range cases {
		got, ok := console.ParseLevel(in)
		if !ok || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", in, got, ok, want)
		}
	}
	if _, ok := console.ParseLevel("loud"); ok {
		t.Fatal("expected unknown level to be rejected")
	}
}
