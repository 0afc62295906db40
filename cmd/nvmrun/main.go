// Command nvmrun loads a NeoVM-style script and executes it to completion.
//
// Usage:
//
//	nvmrun -script <hex>
//	nvmrun -file <path> [-rvcount N] [-with-host] [-verbosity 0-5]
//
// Flags:
//
//	-script      hex-encoded script bytes
//	-file        path to a file of hex-encoded script bytes
//	-rvcount     expected return values on HALT (default: -1, no check)
//	-with-host   mount the example host (SYSCALL Sha3256 id=1)
//	-verbosity   log level 0-5 (default: 3)
//	-max-stack   maximum total reachable stack items (default: 2048)
//	-log-format  CLI status line format: text, json, or color (default: text)
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/r3e-network/neo-vm-go/internal/nvmlog"
	"github.com/r3e-network/neo-vm-go/vm"
)

// Build-time version info, overridable with ldflags:
//
//	go build -ldflags "-X main.version=v0.2.0 -X main.commit=abc1234"
var (
	version = "v0.1.0-dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is the actual entry point, returning an exit code. Accepts CLI
// arguments (without the program name) so it can be tested in isolation.
func run(args []string) int {
	cfg, exit, exitCode := parseFlags(args)
	if exit {
		return exitCode
	}

	nvmlog.SetDefault(nvmlog.New(verbosityToLevel(cfg.Verbosity)))
	cli := newCLILogger(cfg.LogFormat, cfg.Verbosity)

	code, err := loadCode(cfg)
	if err != nil {
		cli.Error("failed to load script", map[string]interface{}{"error": err})
		return 1
	}

	cli.Info("nvmrun starting", map[string]interface{}{
		"version":      version,
		"script_bytes": len(code),
		"rvcount":      cfg.RVCount,
		"with_host":    cfg.WithHost,
		"max_stack":    cfg.MaxStack,
	})

	limits := vm.DefaultLimits()
	limits.MaxStackSize = cfg.MaxStack

	script, err := vm.NewScriptWithMode(code, true)
	if err != nil {
		cli.Error("invalid script", map[string]interface{}{"error": err})
		return 1
	}

	var host vm.Host
	if cfg.WithHost {
		h := vm.NewBasicHost()
		vm.RegisterSha3256(h)
		host = h
	}

	engine := vm.NewEngine(limits, host)
	if err := engine.LoadScript(script, cfg.RVCount); err != nil {
		cli.Error("failed to load script into engine", map[string]interface{}{"error": err})
		return 1
	}

	state := engine.Execute()
	cli.Info("final state", map[string]interface{}{"state": state.String()})

	if state == vm.StateFault {
		if exc := engine.UncaughtException(); exc != nil {
			fmt.Fprintf(os.Stderr, "uncaught exception: %s\n", exc)
		}
		return 1
	}

	result := engine.ResultStack()
	fmt.Printf("result stack (%d items):\n", result.Count())
	for i := 0; i < result.Count(); i++ {
		item, err := result.Peek(i)
		if err != nil {
			break
		}
		fmt.Printf("  [%d] %s %s\n", i, item.Type(), item)
	}

	return 0
}

// loadCode resolves cfg.Script/cfg.ScriptFile into raw script bytes.
func loadCode(cfg config) ([]byte, error) {
	switch {
	case cfg.Script != "":
		return hex.DecodeString(strings.TrimSpace(cfg.Script))
	case cfg.ScriptFile != "":
		raw, err := os.ReadFile(cfg.ScriptFile)
		if err != nil {
			return nil, err
		}
		return hex.DecodeString(strings.TrimSpace(string(raw)))
	default:
		return nil, fmt.Errorf("one of -script or -file is required")
	}
}

// parseFlags parses CLI arguments into a config. Returns the config, whether
// the caller should exit immediately, and the exit code.
func parseFlags(args []string) (config, bool, int) {
	cfg := defaultConfig()
	fs := newFlagSet(&cfg)

	showVersion := fs.Bool("version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return cfg, true, 2
	}

	if *showVersion {
		fmt.Printf("nvmrun %s (commit %s)\n", version, commit)
		return cfg, true, 0
	}

	return cfg, false, 0
}
