package commands

import (
	"strings"

	"github.com/goliatone/go-parish/internal/logging"
	"github.com/goliatone/go-parish/pkg/interfaces"
)

const moduleRoot = "parish.commands"

// CommandLogger returns a logger for the command handlers of module.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := logging.ModuleLogger(provider, moduleRoot+"."+name)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
