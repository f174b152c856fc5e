// Package cmd wires up the CLI flags and starts the chat server.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"chatserve/config"
	"chatserve/internal/console"
	"chatserve/internal/core"
	"chatserve/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X chatserve/cmd.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// Execute parses args and runs the server until ctx is cancelled.
func Execute(ctx context.Context, args []string) error {
	cfg := config.Default()
	config.LoadFromEnv(cfg)

	fs := flag.NewFlagSet("chatserve", flag.ContinueOnError)

	// ── endpoint ─────────────────────────────────────────────────
	fs.StringVarP(&cfg.Host, "bind", "b", cfg.Host, "Address to bind")

	// ── protocol ─────────────────────────────────────────────────
	fs.IntVar(&cfg.MaxFrameSize, "max-frame", cfg.MaxFrameSize, "Largest message read at once, in bytes")
	handshakeSec := int(cfg.HandshakeTimeout / time.Second)
	fs.IntVarP(&handshakeSec, "handshake-timeout", "w", handshakeSec, "Seconds to wait for the client hello (0 = forever)")

	// ── console ──────────────────────────────────────────────────
	fs.StringVar(&cfg.Handle, "handle", cfg.Handle, "Operator handle shown in the prompt")
	fs.BoolVar(&cfg.NoBanner, "no-banner", cfg.NoBanner, "Do not print the startup banner")

	// ── output ───────────────────────────────────────────────────
	envVerbose := cfg.Verbose // CountVarP resets its target to zero
	fs.CountVarP(&cfg.Verbose, "verbose", "v", "Increase verbosity (repeatable)")

	var showVersion, showHelp, dryRun bool
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")
	fs.BoolVar(&dryRun, "dry-run", false, "Validate configuration and exit")

	fs.Usage = func() { printUsage(fs) }

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return err
	}

	if showHelp {
		printUsage(fs)
		return nil
	}
	if showVersion {
		fmt.Printf("chatserve %s\n", version)
		return nil
	}

	cfg.HandshakeTimeout = time.Duration(handshakeSec) * time.Second
	if cfg.Verbose == 0 {
		cfg.Verbose = envVerbose
	}

	// ── positional arguments ─────────────────────────────────────
	if err := parsePositional(cfg, fs.Args()); err != nil {
		return err
	}

	// ── validate ─────────────────────────────────────────────────
	if err := cfg.Validate(); err != nil {
		return err
	}
	if dryRun {
		fmt.Fprintf(os.Stderr, "configuration OK: would listen on %s\n", cfg.Address())
		return nil
	}

	// ── build components ─────────────────────────────────────────
	logger := util.NewLogger(cfg.Verbose)
	mode, err := core.Build(cfg, console.Stdio(cfg.Prompt()), logger)
	if err != nil {
		return err
	}
	return mode.Run(ctx)
}

// ── helpers ──────────────────────────────────────────────────────────

func parsePositional(cfg *config.Config, remaining []string) error {
	switch len(remaining) {
	case 0:
		// CHATSERVE_PORT may have supplied it; Validate reports if not.
		return nil
	case 1:
		port, err := config.ParsePort(remaining[0])
		if err != nil {
			return err
		}
		cfg.Port = port
		return nil
	default:
		return fmt.Errorf("too many arguments: expected a single port")
	}
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `chatserve – one-at-a-time TCP chat server v%s

Usage:
  chatserve [options] <port>

Options:
`, version)
	fs.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Examples:
  chatserve 30020                       Serve on every interface
  chatserve -b 127.0.0.1 30020          Loopback only
  chatserve --handle alice -v 30020     Custom prompt, verbose logs
`)
}
