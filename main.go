// shepard-terminal - attended access-control terminal for ShepardOS.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/jeranaias/shepard-terminal/internal/authority"
	"github.com/jeranaias/shepard-terminal/internal/config"
	"github.com/jeranaias/shepard-terminal/internal/logging"
	"github.com/jeranaias/shepard-terminal/internal/terminal"
	"github.com/jeranaias/shepard-terminal/internal/ui/console"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// options are the parsed command-line flags.
type options struct {
	configPath   string
	authorityURL string
	logLevel     string
	initConfig   bool
	version      bool
	help         bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, flagSet, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	switch {
	case opts.help:
		printHelp(flagSet, stderr)
		return nil
	case opts.version:
		fmt.Fprintf(stdout, "shepard-terminal %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
		return nil
	case opts.initConfig:
		return initConfig(opts.configPath, stdout)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("shepard-terminal must be run on an interactive terminal")
	}

	logPath := cfg.Log.Path
	if logPath == "" {
		if logPath, err = config.DefaultLogPath(); err != nil {
			return err
		}
	}
	logger, levelVar, closeLog, err := logging.OpenFile(logPath, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer closeLog()

	return runTerminal(cfg, opts, logger, levelVar)
}

// parseFlags parses args. --help is reported through opts rather than as
// an error.
func parseFlags(args []string, stderr io.Writer) (options, *pflag.FlagSet, error) {
	var opts options
	flagSet := pflag.NewFlagSet("shepard-terminal", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&opts.configPath, "config", "", "path to the config file (default: ~/.shepard/config.toml)")
	flagSet.StringVar(&opts.authorityURL, "authority-url", "", "authority base URL (overrides config)")
	flagSet.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	flagSet.BoolVar(&opts.initConfig, "init-config", false, "write a default config file and exit")
	flagSet.BoolVar(&opts.version, "version", false, "print version and exit")
	flagSet.BoolVarP(&opts.help, "help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			opts.help = true
			return opts, flagSet, nil
		}
		return opts, flagSet, err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return opts, flagSet, fmt.Errorf("unexpected argument: %s", rest[0])
	}
	return opts, flagSet, nil
}

// loadConfig reads the config file and applies flag overrides on top.
func loadConfig(opts options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	applyOverrides(opts, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

// applyOverrides puts flag values over a loaded or reloaded config.
func applyOverrides(opts options, cfg *config.Config) {
	if opts.authorityURL != "" {
		cfg.Authority.URL = opts.authorityURL
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	cfg.SetDefaults()
}

// initConfig writes the defaults unless a file already exists.
func initConfig(path string, stdout io.Writer) error {
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if err := config.SaveTOML(config.Default(), path); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Wrote default config to %s\n", path)
	return nil
}

// runTerminal builds the session and runs the Bubble Tea program until the
// operator quits or a termination signal arrives.
func runTerminal(cfg *config.Config, opts options, logger *slog.Logger, levelVar *slog.LevelVar) error {
	client := authority.NewClient(cfg.Authority.URL,
		authority.WithTimeout(cfg.Authority.Timeout()),
		authority.WithMaxRetries(cfg.Authority.MaxRetries),
		authority.WithUserAgent(cfg.Authority.UserAgent+"/"+Version),
		authority.WithLogger(logger),
	)
	sess := terminal.New(client, terminal.WithLogger(logger))

	var reloads <-chan config.Reload
	configPath := opts.configPath
	if configPath == "" {
		if p, err := config.DefaultPath(); err == nil {
			configPath = p
		}
	}
	if watcher, err := config.NewWatcher(configPath, config.ReloadDebounce, logger); err != nil {
		logger.Warn("config hot reload disabled", "error", err)
	} else {
		defer watcher.Close()
		reloads = watcher.Changes()
	}

	overrides := func(c *config.Config) { applyOverrides(opts, c) }
	model := console.New(console.Options{
		Session:   sess,
		Config:    cfg,
		Reloads:   reloads,
		LogLevel:  levelVar,
		Logger:    logger,
		Overrides: overrides,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()
	go func() {
		<-ctx.Done()
		program.Send(console.ShutdownMsg{})
	}()

	logger.Info("terminal started",
		"version", Version,
		"authority", client.BaseURL(),
		"session_id", model.SessionID(),
	)
	_, err := program.Run()
	logger.Info("terminal stopped")
	return err
}

func printHelp(flagSet *pflag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, `ShepardOS attended access-control terminal.

Operators log in with their badge and password, then verify or process
badge scans, transfer currency, and look up users against the authority
service.

Usage:
  shepard-terminal [flags]

Examples:
  # Run against the configured authority
  shepard-terminal

  # Point at a different authority for this session
  shepard-terminal --authority-url https://authority.example:8000

  # Create ~/.shepard/config.toml with defaults
  shepard-terminal --init-config

Flags:
`)
	flagSet.SetOutput(w)
	flagSet.PrintDefaults()
}
