package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-parish/pkg/interfaces"
)

type recordingLogger struct {
	fields []map[string]any
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	r.fields = append(r.fields, fields)
	return r
}

func (r *recordingLogger) WithContext(context.Context) interfaces.Logger { return r }

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerWithoutProviderIsNoOp(t *testing.T) {
	logger := ModuleLogger(nil, HTTPModule)
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noop logger, got %T", logger)
	}
	logger.WithContext(context.Background()).Info("ignored")
}

func TestModuleLoggerAnnotatesModule(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	ModuleLogger(provider, AuthModule)

	if len(provider.requested) != 1 || provider.requested[0] != AuthModule {
		t.Fatalf("expected %s to be requested, got %v", AuthModule, provider.requested)
	}
	if len(rec.fields) != 1 || rec.fields[0]["module"] != AuthModule {
		t.Fatalf("expected module field, got %v", rec.fields)
	}
}

func TestModuleLoggerDefaultsToRoot(t *testing.T) {
	provider := &stubProvider{logger: &recordingLogger{}}
	ModuleLogger(provider, "  ")
	if provider.requested[0] != RootModule {
		t.Fatalf("expected %s, got %v", RootModule, provider.requested)
	}
}

func TestResourceLoggerAddsResourceField(t *testing.T) {
	rec := &recordingLogger{}
	ResourceLogger(&stubProvider{logger: rec}, "articles")

	if len(rec.fields) != 2 {
		t.Fatalf("expected module and resource fields, got %v", rec.fields)
	}
	if rec.fields[1]["resource"] != "articles" {
		t.Fatalf("expected resource=articles, got %v", rec.fields[1])
	}
}

func TestWithOperationSkipsEmptyValues(t *testing.T) {
	rec := &recordingLogger{}
	WithOperation(rec, "save", "")
	if len(rec.fields) != 1 {
		t.Fatalf("expected one WithFields call, got %d", len(rec.fields))
	}
	if _, ok := rec.fields[0]["record_id"]; ok {
		t.Fatalf("empty record id should be skipped: %v", rec.fields[0])
	}

	rec = &recordingLogger{}
	WithOperation(rec, " ", "")
	if len(rec.fields) != 0 {
		t.Fatalf("expected no fields, got %v", rec.fields)
	}
}

func TestContextFieldsMerge(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"request_id": "a"})
	ctx = ContextWithFields(ctx, map[string]any{"user_id": "b"})

	fields := ContextFields(ctx)
	if fields["request_id"] != "a" || fields["user_id"] != "b" {
		t.Fatalf("unexpected fields %v", fields)
	}
	fields["request_id"] = "mutated"
	if ContextFields(ctx)["request_id"] != "a" {
		t.Fatal("ContextFields must return a copy")
	}
}
