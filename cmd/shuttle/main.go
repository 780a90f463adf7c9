package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/evanschultz/shuttle/internal/board"
	"github.com/evanschultz/shuttle/internal/config"
	"github.com/evanschultz/shuttle/internal/domain"
	"github.com/evanschultz/shuttle/internal/platform"
	"github.com/evanschultz/shuttle/internal/seed"
	"github.com/evanschultz/shuttle/internal/tui"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// version is stamped at build time.
var version = "dev"

// program is the part of tea.Program the CLI drives.
type program interface {
	Run() (tea.Model, error)
}

// programFactory builds the TUI program; tests swap it out.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

// executeCommand runs the root command; tests swap in plain cobra execution.
var executeCommand = func(ctx context.Context, cmd *cobra.Command) error {
	return fang.Execute(ctx, cmd, fang.WithVersion(version))
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// run builds the command tree and executes args against it.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	return executeCommand(ctx, root)
}

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	seedPath   string
	appName    string
	devMode    bool
}

// newRootCommand wires the root TUI command and its subcommands.
func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{appName: "shuttle", devMode: version == "dev"}
	if envDev, ok := parseBoolEnv("SHUTTLE_DEV_MODE"); ok {
		opts.devMode = envDev
	}
	if envApp := strings.TrimSpace(os.Getenv("SHUTTLE_APP_NAME")); envApp != "" {
		opts.appName = envApp
	}

	root := &cobra.Command{
		Use:           "shuttle",
		Short:         "Move project cards between two lists",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBoard(cmd.Context(), opts, stderr)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to config TOML")
	flags.StringVar(&opts.seedPath, "seed", "", "path to seed YAML")
	flags.StringVar(&opts.appName, "app", opts.appName, "application name for config/data path resolution")
	flags.BoolVar(&opts.devMode, "dev", opts.devMode, "use dev mode paths (<app>-dev)")

	root.AddCommand(
		newPathsCommand(opts),
		newSeedCommand(opts, stderr),
		newConfigCommand(opts, stderr),
	)
	return root
}

// newPathsCommand prints the resolved per-user paths.
func newPathsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config and data paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths, err := resolvePaths(opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "app: %s\n", opts.appName)
			_, _ = fmt.Fprintf(out, "dev_mode: %t\n", opts.devMode)
			_, _ = fmt.Fprintf(out, "config: %s\n", paths.ConfigPath)
			_, _ = fmt.Fprintf(out, "data_dir: %s\n", paths.DataDir)
			_, _ = fmt.Fprintf(out, "seed: %s\n", paths.SeedPath)
			return nil
		},
	}
}

// newSeedCommand prints the effective startup records as seed YAML.
func newSeedCommand(opts *rootOptions, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Print the records the board would start with",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(opts, stderr, false)
			if err != nil {
				return err
			}
			defer s.close(stderr)

			s.logger.Info("command flow start", "command", "seed")
			records, err := s.loadRecords()
			if err != nil {
				s.logger.Error("command flow failed", "command", "seed", "err", err)
				return err
			}
			if err := seed.Encode(cmd.OutOrStdout(), records); err != nil {
				return fmt.Errorf("write seed: %w", err)
			}
			s.logger.Info("command flow complete", "command", "seed", "records", len(records))
			return nil
		},
	}
}

// newConfigCommand prints the effective configuration as TOML.
func newConfigCommand(opts *rootOptions, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(opts, stderr, false)
			if err != nil {
				return err
			}
			defer s.close(stderr)

			out, err := s.cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

// runBoard loads the records and runs the TUI until the user quits.
func runBoard(ctx context.Context, opts *rootOptions, stderr io.Writer) error {
	s, err := openSession(opts, stderr, true)
	if err != nil {
		return err
	}
	defer s.close(stderr)

	records, err := s.loadRecords()
	if err != nil {
		s.logger.Error("seed load failed", "seed_path", s.cfg.Seed.Path, "err", err)
		return err
	}

	logger := s.logger
	m := tui.NewModel(records,
		tui.WithTitle(s.cfg.Board.Title),
		tui.WithShowCounts(s.cfg.Board.ShowCounts),
		tui.WithPopoverOffset(s.cfg.Popover.OffsetX, s.cfg.Popover.InsetY),
		tui.WithDevMode(opts.devMode),
		tui.WithMoveObserver(func(ev board.MoveEvent) {
			logger.Info("record moved", "id", ev.ProjectID, "from", ev.From, "to", ev.To)
		}),
	)
	if err := ctx.Err(); err != nil {
		return err
	}

	logger.Info("starting tui program loop", "records", len(records))
	if _, err := programFactory(m).Run(); err != nil {
		logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	logger.Info("command flow complete", "command", "tui")
	return nil
}

// session is the resolved runtime state shared by commands that read config.
type session struct {
	paths          platform.Paths
	configPath     string
	cfg            config.Config
	seedOverridden bool
	logger         *runtimeLogger
}

// openSession resolves paths, loads config and opens the runtime logger.
// With tuiMode set the console sink is muted before the first log line.
func openSession(opts *rootOptions, stderr io.Writer, tuiMode bool) (*session, error) {
	paths, err := resolvePaths(opts)
	if err != nil {
		return nil, err
	}

	configPath := strings.TrimSpace(opts.configPath)
	if configPath == "" {
		if envPath := strings.TrimSpace(os.Getenv("SHUTTLE_CONFIG")); envPath != "" {
			configPath = envPath
		} else {
			configPath = paths.ConfigPath
		}
	}
	seedPath := strings.TrimSpace(opts.seedPath)
	if seedPath == "" {
		seedPath = strings.TrimSpace(os.Getenv("SHUTTLE_SEED"))
	}

	cfg, err := config.Load(configPath, config.Default(paths.SeedPath))
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", configPath, err)
	}
	if seedPath != "" {
		cfg.Seed.Path = seedPath
	}

	logger, err := newRuntimeLogger(stderr, opts.appName, opts.devMode, cfg.Logging, time.Now)
	if err != nil {
		return nil, fmt.Errorf("configure runtime logger: %w", err)
	}
	if tuiMode {
		// Runtime logs go to the dev-file sink only while the board owns the terminal.
		logger.SetConsoleEnabled(false)
	}
	s := &session{
		paths:          paths,
		configPath:     configPath,
		cfg:            cfg,
		seedOverridden: seedPath != "",
		logger:         logger,
	}

	logger.Info("startup configuration resolved", "app", opts.appName, "dev_mode", opts.devMode)
	logger.Debug("runtime paths resolved", "config_path", configPath, "data_dir", paths.DataDir, "seed_path", cfg.Seed.Path)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}
	return s, nil
}

// close releases the dev log sink, warning on the console when it is still enabled.
func (s *session) close(stderr io.Writer) {
	if err := s.logger.Close(); err != nil && s.logger.shouldLogToSink(s.logger.consoleSink) {
		_, _ = fmt.Fprintf(stderr, "warning: close runtime log sink: %v\n", err)
	}
}

// loadRecords returns the startup records. The per-user seed file is optional;
// a seed path given by flag, env or config must exist.
func (s *session) loadRecords() ([]*domain.Project, error) {
	path := strings.TrimSpace(s.cfg.Seed.Path)
	if path == "" {
		s.logger.Info("using built-in seed")
		return seed.Default()
	}
	if !s.seedOverridden && path == s.paths.SeedPath {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			s.logger.Info("using built-in seed", "missing", path)
			return seed.Default()
		}
	}
	records, err := seed.LoadFile(path, uuid.NewString)
	if err != nil {
		return nil, err
	}
	s.logger.Info("seed loaded", "seed_path", path, "records", len(records))
	return records, nil
}

// resolvePaths resolves per-user paths for the chosen app name and mode.
func resolvePaths(opts *rootOptions) (platform.Paths, error) {
	return platform.DefaultPathsWithOptions(platform.Options{
		AppName: opts.appName,
		DevMode: opts.devMode,
	})
}

// parseBoolEnv reads a boolean env var, reporting whether it was set and valid.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
