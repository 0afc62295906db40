package main

import (
	"fmt"
	"os"
	"time"

	"github.com/r3e-network/neo-vm-go/internal/nvmlog"
)

// cliLogger renders the CLI's own status lines (run banner, final state)
// through one of nvmlog's formatters, separate from the engine's
// slog-based structured logging -- this is the human-facing progress
// report a caller watches, not the per-module trace stream.
type cliLogger struct {
	formatter nvmlog.LogFormatter
	minLevel  nvmlog.LogLevel
}

// newCLILogger picks a formatter by name (text, json, or color, defaulting
// to text on anything else) and a minimum level derived from the same
// 0-5 verbosity scale the engine's slog level uses.
func newCLILogger(format string, verbosity int) *cliLogger {
	var f nvmlog.LogFormatter
	switch format {
	case "json":
		f = &nvmlog.JSONFormatter{}
	case "color":
		f = &nvmlog.ColorFormatter{}
	default:
		f = &nvmlog.TextFormatter{}
	}

	level := nvmlog.INFO
	switch {
	case verbosity <= 1:
		level = nvmlog.ERROR
	case verbosity == 2:
		level = nvmlog.WARN
	case verbosity >= 4:
		level = nvmlog.DEBUG
	}

	return &cliLogger{formatter: f, minLevel: level}
}

func (c *cliLogger) log(level nvmlog.LogLevel, msg string, fields map[string]interface{}) {
	if level < c.minLevel {
		return
	}
	entry := nvmlog.LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   msg,
		Fields:    fields,
	}
	fmt.Fprintln(os.Stderr, c.formatter.Format(entry))
}

func (c *cliLogger) Info(msg string, fields map[string]interface{}) {
	c.log(nvmlog.INFO, msg, fields)
}

func (c *cliLogger) Error(msg string, fields map[string]interface{}) {
	c.log(nvmlog.ERROR, msg, fields)
}
