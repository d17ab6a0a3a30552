package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/evanschultz/lists/internal/adapters/storage/jsonfile"
	"github.com/evanschultz/lists/internal/adapters/storage/sqlite"
	"github.com/evanschultz/lists/internal/app"
	"github.com/evanschultz/lists/internal/config"
	"github.com/evanschultz/lists/internal/domain"
	"github.com/evanschultz/lists/internal/export"
	"github.com/evanschultz/lists/internal/platform"
	"github.com/evanschultz/lists/internal/tui"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// version is stamped at build time.
var version = "dev"

// program is the part of tea.Program that run drives.
type program interface {
	Run() (tea.Model, error)
}

// programFactory builds the TUI program; tests swap it for a scripted one.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	dataPath   string
	backend    string
	devMode    bool
}

// run builds the command tree and executes it with args. fang prints any
// returned error to stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	root.SetIn(os.Stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return fang.Execute(ctx, root, fang.WithVersion(version))
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}
	defaultDevMode := version == "dev"
	if envDev, ok := parseBoolEnv("LISTS_DEV_MODE"); ok {
		defaultDevMode = envDev
	}

	root := &cobra.Command{
		Use:           "lists",
		Short:         "Keep named checklists in the terminal",
		Long:          "lists is a keyboard-driven terminal app for named checklists. Every change is saved immediately.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), opts, stderr)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config TOML (env LISTS_CONFIG)")
	root.PersistentFlags().StringVar(&opts.dataPath, "data", "", "path to the lists file or database (env LISTS_DATA_PATH)")
	root.PersistentFlags().StringVar(&opts.backend, "backend", "", "storage backend: json or sqlite")
	root.PersistentFlags().BoolVar(&opts.devMode, "dev", defaultDevMode, "use dev mode paths (lists-dev)")

	root.AddCommand(
		newPathsCommand(opts, stdout),
		newShowCommand(opts, stdout, stderr),
		newSummaryCommand(opts, stdout, stderr),
		newExportCommand(opts, stdout, stderr),
	)
	return root
}

func newPathsCommand(opts *rootOptions, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config and storage paths",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			rc, err := resolveRuntime(opts)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(stdout, "dev_mode: %t\n", opts.devMode)
			_, _ = fmt.Fprintf(stdout, "config: %s\n", rc.configPath)
			_, _ = fmt.Fprintf(stdout, "data_dir: %s\n", rc.paths.DataDir)
			_, _ = fmt.Fprintf(stdout, "backend: %s\n", rc.cfg.Storage.Backend)
			_, _ = fmt.Fprintf(stdout, "storage: %s\n", rc.cfg.Storage.Path)
			return nil
		},
	}
}

func newShowCommand(opts *rootOptions, stdout, stderr io.Writer) *cobra.Command {
	var (
		plain bool
		width int
	)
	cmd := &cobra.Command{
		Use:   "show [list]",
		Short: "Print lists as markdown checklists",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLists(cmd.Context(), opts, stderr, "show", func(lists []domain.List) error {
				if len(args) == 1 {
					idx := domain.ListIndex(lists, args[0])
					if idx < 0 {
						return fmt.Errorf("list %q not found", args[0])
					}
					lists = lists[idx : idx+1]
				}
				markdown := export.Markdown(lists...)
				if plain {
					_, err := io.WriteString(stdout, markdown)
					return err
				}
				var renderer export.MarkdownRenderer
				_, err := fmt.Fprintln(stdout, renderer.Render(markdown, width))
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print raw markdown without terminal styling")
	cmd.Flags().IntVar(&width, "width", 80, "wrap width for styled output")
	return cmd
}

func newSummaryCommand(opts *rootOptions, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print a completion table for every list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLists(cmd.Context(), opts, stderr, "summary", func(lists []domain.List) error {
				_, err := fmt.Fprintln(stdout, export.Summary(lists))
				return err
			})
		},
	}
}

func newExportCommand(opts *rootOptions, stdout, stderr io.Writer) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every list as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLists(cmd.Context(), opts, stderr, "export", func(lists []domain.List) error {
				data, err := export.JSON(lists)
				if err != nil {
					return fmt.Errorf("encode export: %w", err)
				}
				if strings.TrimSpace(out) == "" || out == "-" {
					_, err = stdout.Write(data)
					return err
				}
				if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
					return fmt.Errorf("create export dir: %w", err)
				}
				if err := os.WriteFile(out, data, 0o644); err != nil {
					return fmt.Errorf("write export file: %w", err)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file path ('-' for stdout)")
	return cmd
}

// runtimeConfig is the resolved paths and config for one invocation.
type runtimeConfig struct {
	paths      platform.Paths
	configPath string
	cfg        config.Config
}

// resolveRuntime applies flags, then env vars, then config file values, then
// platform defaults.
func resolveRuntime(opts *rootOptions) (runtimeConfig, error) {
	paths, err := platform.DefaultPathsWithOptions(platform.Options{
		AppName: platform.DefaultAppName,
		DevMode: opts.devMode,
	})
	if err != nil {
		return runtimeConfig{}, err
	}

	configPath := strings.TrimSpace(opts.configPath)
	if configPath == "" {
		if envPath := strings.TrimSpace(os.Getenv("LISTS_CONFIG")); envPath != "" {
			configPath = envPath
		} else {
			configPath = paths.ConfigPath
		}
	}
	dataPath := strings.TrimSpace(opts.dataPath)
	if dataPath == "" {
		dataPath = strings.TrimSpace(os.Getenv("LISTS_DATA_PATH"))
	}

	cfg, err := config.Load(configPath, config.Default(""))
	if err != nil {
		return runtimeConfig{}, fmt.Errorf("load config %q: %w", configPath, err)
	}
	if backend := strings.TrimSpace(opts.backend); backend != "" {
		cfg.Storage.Backend = config.Backend(strings.ToLower(backend))
	}
	if dataPath != "" {
		cfg.Storage.Path = dataPath
	}
	cfg.Storage.Path = cfg.StoragePath(paths)
	if err := cfg.Validate(); err != nil {
		return runtimeConfig{}, err
	}
	return runtimeConfig{paths: paths, configPath: configPath, cfg: cfg}, nil
}

// session is an open logger and store for one command.
type session struct {
	runtimeConfig
	logger     *runtimeLogger
	store      app.Store
	closeStore func() error
	stderr     io.Writer
}

// openSession resolves config, starts logging and opens the configured store.
// quiet mutes the console sink so logs never draw over the TUI.
func openSession(opts *rootOptions, stderr io.Writer, command string, quiet bool) (*session, error) {
	rc, err := resolveRuntime(opts)
	if err != nil {
		return nil, err
	}
	logger, err := newRuntimeLogger(stderr, platform.DefaultAppName, opts.devMode, rc.cfg.Logging, uuid.NewString(), time.Now)
	if err != nil {
		return nil, fmt.Errorf("configure runtime logger: %w", err)
	}
	if quiet {
		logger.SetConsoleEnabled(false)
	}

	logger.Info("startup configuration resolved", "version", version, "dev_mode", opts.devMode, "command", command)
	logger.Debug("runtime paths resolved", "config_path", rc.configPath, "data_dir", rc.paths.DataDir)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}

	store, closeStore, err := openStore(rc.cfg.Storage)
	if err != nil {
		logger.Error("storage open failed", "backend", rc.cfg.Storage.Backend, "path", rc.cfg.Storage.Path, "err", err)
		_ = logger.Close()
		return nil, err
	}
	logger.Info("storage ready", "backend", rc.cfg.Storage.Backend, "path", rc.cfg.Storage.Path)
	return &session{
		runtimeConfig: rc,
		logger:        logger,
		store:         store,
		closeStore:    closeStore,
		stderr:        stderr,
	}, nil
}

// Close releases the store and the dev log file.
func (s *session) Close() {
	if err := s.closeStore(); err != nil {
		s.logger.Warn("storage close failed", "path", s.cfg.Storage.Path, "err", err)
	}
	if err := s.logger.Close(); err != nil && s.logger.ConsoleEnabled() {
		_, _ = fmt.Fprintf(s.stderr, "warning: close runtime log sink: %v\n", err)
	}
}

// openStore builds the adapter for the configured backend.
func openStore(cfg config.StorageConfig) (app.Store, func() error, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		repo, err := sqlite.Open(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite repository: %w", err)
		}
		return repo, repo.Close, nil
	case config.BackendJSON:
		return jsonfile.New(cfg.Path), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
}

// withLists loads the collection the same way the TUI does and hands it to fn.
func withLists(ctx context.Context, opts *rootOptions, stderr io.Writer, command string, fn func([]domain.List) error) error {
	s, err := openSession(opts, stderr, command, false)
	if err != nil {
		return err
	}
	defer s.Close()

	state, err := app.Open(ctx, s.store, app.WithLogger(s.logger))
	if err != nil {
		s.logger.Error("load lists failed", "command", command, "err", err)
		return fmt.Errorf("open lists: %w", err)
	}
	if err := fn(state.Lists()); err != nil {
		s.logger.Error("command flow failed", "command", command, "err", err)
		return fmt.Errorf("run %s command: %w", command, err)
	}
	s.logger.Info("command flow complete", "command", command)
	return nil
}

// runTUI opens the store and runs the interactive program until quit.
func runTUI(ctx context.Context, opts *rootOptions, stderr io.Writer) error {
	s, err := openSession(opts, stderr, "tui", true)
	if err != nil {
		return err
	}
	defer s.Close()

	state, err := app.Open(ctx, s.store, app.WithLogger(s.logger))
	if err != nil {
		s.logger.Error("load lists failed", "err", err)
		return fmt.Errorf("open lists: %w", err)
	}

	m := tui.NewModel(
		state,
		tui.WithLogger(s.logger),
		tui.WithContext(ctx),
		tui.WithUIConfig(tui.UIConfig{
			ListPanelPercent: s.cfg.UI.ListPanelPercent,
			DoneGlyph:        s.cfg.UI.DoneGlyph,
			PendingGlyph:     s.cfg.UI.PendingGlyph,
		}),
	)
	s.logger.Info("starting tui program loop")
	final, err := programFactory(m).Run()
	if err != nil {
		s.logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	if fm, ok := final.(tui.Model); ok {
		if err := fm.Err(); err != nil {
			if errors.Is(err, app.ErrPersist) {
				s.logger.Error("tui stopped after a failed save", "err", err)
			}
			return fmt.Errorf("run tui program: %w", err)
		}
	}
	s.logger.Info("command flow complete", "command", "tui")
	return nil
}

// parseBoolEnv reports the boolean value of an env var and whether it was set.
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
