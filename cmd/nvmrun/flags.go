package main

import (
	"flag"
	"log/slog"
)

// config holds the resolved CLI configuration for one run.
type config struct {
	Script     string
	ScriptFile string
	RVCount    int
	Verbosity  int
	WithHost   bool
	MaxStack   int
	LogFormat  string
}

func defaultConfig() config {
	return config{
		RVCount:   -1,
		Verbosity: 3,
		MaxStack:  2048,
		LogFormat: "text",
	}
}

// newFlagSet creates a flag.FlagSet that binds all CLI flags to cfg. It uses
// ContinueOnError so callers control the error handling behavior.
func newFlagSet(cfg *config) *flag.FlagSet {
	fs := flag.NewFlagSet("nvmrun", flag.ContinueOnError)
	fs.StringVar(&cfg.Script, "script", cfg.Script, "hex-encoded script bytes")
	fs.StringVar(&cfg.ScriptFile, "file", cfg.ScriptFile, "path to a file of hex-encoded script bytes")
	fs.IntVar(&cfg.RVCount, "rvcount", cfg.RVCount, "expected number of return values on HALT (-1 disables the check)")
	fs.IntVar(&cfg.Verbosity, "verbosity", cfg.Verbosity, "log level 0-5 (0-1=error, 2=warn, 3=info, 4-5=debug)")
	fs.BoolVar(&cfg.WithHost, "with-host", cfg.WithHost, "mount the example host (SYSCALL Sha3256 id=1)")
	fs.IntVar(&cfg.MaxStack, "max-stack", cfg.MaxStack, "maximum total reachable stack items")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "CLI status line format: text, json, or color")
	return fs
}

// verbosityToLevel maps the 0-5 verbosity scale (0-1=error, 2=warn,
// 3=info, 4-5=debug) to a slog level, clamping out-of-range input to the
// nearest end.
func verbosityToLevel(v int) slog.Level {
	switch {
	case v <= 1:
		return slog.LevelError
	case v == 2:
		return slog.LevelWarn
	case v == 3:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
