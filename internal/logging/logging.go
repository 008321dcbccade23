// Package logging builds the debug logger. The TUI owns the terminal, so
// logs only ever go to a file the user asked for; everything else gets a nop
// logger.
package logging

import (
	"strings"

	"go.uber.org/zap"
)

// New returns a logger appending JSON lines to path, or a nop logger when
// path is empty or unusable. Logging must never take the widget down.
func New(path string) *zap.Logger {
	path = strings.TrimSpace(path)
	if path == "" {
		return zap.NewNop()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	lg, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return lg
}
