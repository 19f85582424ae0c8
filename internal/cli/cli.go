// Package cli parses the taskboard command line and runs a subcommand.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/taskboard/internal/app"
	"github.com/nhle/taskboard/internal/listing"
	"github.com/nhle/taskboard/internal/logging"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/seed"
	"github.com/nhle/taskboard/internal/server"
	"github.com/nhle/taskboard/internal/store"
)

// Exit codes.
const (
	Success      = 0
	UserError    = 1
	ConfigError  = 2
	RuntimeError = 3
)

const usage = `usage: taskboard [-config path] <command> [flags]

commands:
  serve   run the HTTP API (flags: -addr)
  tui     browse tasks in the terminal (default)
  seed    add sample tasks to an empty database
`

// env is everything a subcommand needs once configuration is loaded.
type env struct {
	cfg     *model.AppConfig
	cfgPath string
	logger  *zap.Logger
	store   *store.SQLiteStore
	listing *listing.Service
	out     io.Writer
}

type command func(ctx context.Context, e *env, args []string) error

var commands = map[string]command{
	"serve": runServe,
	"tui":   runTUI,
	"seed":  runSeed,
}

// Run parses args, dispatches to a subcommand, and returns the exit code.
func Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("taskboard", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configPath := fs.String("config", model.DefaultConfigPath(), "path to config.yaml")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprint(out, usage)
			return Success
		}
		fmt.Fprintf(errOut, "error: %v\n%s", err, usage)
		return UserError
	}

	name, rest := "tui", fs.Args()
	if len(rest) > 0 {
		name, rest = rest[0], rest[1:]
	}
	if name == "help" {
		fmt.Fprint(out, usage)
		return Success
	}
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n%s", name, usage)
		return UserError
	}

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return ConfigError
	}

	// The terminal belongs to the TUI; only file logging is kept there.
	logger := zap.NewNop()
	if name != "tui" || strings.EqualFold(cfg.Logging.Output, "file") {
		logger, err = logging.New(cfg.Logging)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return ConfigError
		}
	}
	defer func() { _ = logger.Sync() }()

	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		logger.Error("opening store", zap.String("path", cfg.Database.Path), zap.Error(err))
		fmt.Fprintf(errOut, "error: %v\n", err)
		return RuntimeError
	}
	defer st.Close()

	e := &env{
		cfg:     cfg,
		cfgPath: *configPath,
		logger:  logger,
		store:   st,
		listing: listing.NewService(st, cfg.Listing.PageSize, cfg.Listing.MaxPagesShown, logger),
		out:     out,
	}

	if err := cmd(ctx, e, rest); err != nil {
		var ue usageError
		if errors.As(err, &ue) {
			fmt.Fprintf(errOut, "error: %v\n%s", err, usage)
			return UserError
		}
		logger.Error("command failed", zap.String("command", name), zap.Error(err))
		fmt.Fprintf(errOut, "error: %v\n", err)
		return RuntimeError
	}
	return Success
}

// usageError marks bad subcommand arguments.
type usageError struct{ err error }

func (u usageError) Error() string { return u.err.Error() }

func parseFlags(fs *flag.FlagSet, args []string) error {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return usageError{err: err}
	}
	if fs.NArg() > 0 {
		return usageError{err: fmt.Errorf("unexpected argument %q", fs.Arg(0))}
	}
	return nil
}

func runServe(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", e.cfg.Server.Address, "listen address")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	srvCfg := e.cfg.Server
	srvCfg.Address = *addr
	return server.New(e.store, e.listing, e.logger, server.NewMetrics()).Run(ctx, srvCfg)
}

func runTUI(ctx context.Context, e *env, args []string) error {
	if err := parseFlags(flag.NewFlagSet("tui", flag.ContinueOnError), args); err != nil {
		return err
	}

	p := tea.NewProgram(
		app.New(e.store, e.listing, e.logger).WithSettings(e.cfgPath, e.cfg),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}

func runSeed(ctx context.Context, e *env, args []string) error {
	if err := parseFlags(flag.NewFlagSet("seed", flag.ContinueOnError), args); err != nil {
		return err
	}

	n, err := seed.Seed(ctx, e.store, time.Now().UTC())
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Fprintln(e.out, "database already has tasks; nothing seeded")
		return nil
	}
	e.logger.Info("seeded sample tasks", zap.Int("count", n))
	fmt.Fprintf(e.out, "added %d sample tasks\n", n)
	return nil
}
