// Package logging builds the hclog loggers used by the server and the CLI.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// New creates a named logger. An unknown level falls back to info; a nil
// writer means stderr.
func New(name, level string, json bool, w io.Writer) hclog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      ParseLevel(level),
		JSONFormat: json,
		Output:     w,
	})
}

// ParseLevel converts a level name to hclog.Level, defaulting to info.
func ParseLevel(level string) hclog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "TRACE":
		return hclog.Trace
	case "DEBUG":
		return hclog.Debug
	case "WARN", "WARNING":
		return hclog.Warn
	case "ERROR":
		return hclog.Error
	case "OFF":
		return hclog.Off
	default:
		return hclog.Info
	}
}
