package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-parish/pkg/interfaces"
)

const (
	RootModule     = "parish"
	HTTPModule     = "parish.http"
	AuthModule     = "parish.auth"
	ContentModule  = "parish.content"
	ContactModule  = "parish.contact"
	MediaModule    = "parish.media"
	ActivityModule = "parish.activity"
	SeedModule     = "parish.seed"
)

const (
	fieldModule    = "module"
	fieldResource  = "resource"
	fieldRecordID  = "record_id"
	fieldOperation = "operation"
)

// ModuleLogger returns a logger for module with the module name attached as a
// field. A nil provider yields NoOp.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	module = strings.TrimSpace(module)
	if module == "" {
		module = RootModule
	}

	var logger interfaces.Logger = noopLogger{}
	if provider != nil {
		if named := provider.GetLogger(module); named != nil {
			logger = named
		}
	}
	return WithFields(logger, map[string]any{fieldModule: module})
}

// ResourceLogger scopes a content module logger to one admin resource, e.g.
// "parish.content" + "articles".
func ResourceLogger(provider interfaces.LoggerProvider, resource string) interfaces.Logger {
	logger := ModuleLogger(provider, ContentModule)
	if resource = strings.TrimSpace(resource); resource == "" {
		return logger
	}
	return WithFields(logger, map[string]any{fieldResource: resource})
}

// WithOperation annotates a logger with the operation being performed and the
// record it touches. Empty values are skipped.
func WithOperation(logger interfaces.Logger, operation, recordID string) interfaces.Logger {
	fields := map[string]any{}
	if op := strings.TrimSpace(operation); op != "" {
		fields[fieldOperation] = op
	}
	if id := strings.TrimSpace(recordID); id != "" {
		fields[fieldRecordID] = id
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that discards everything.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var (
	_ interfaces.Logger       = noopLogger{}
	_ interfaces.FieldsLogger = noopLogger{}
)

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger  { return n }
func (n noopLogger) WithContext(context.Context) interfaces.Logger { return n }
