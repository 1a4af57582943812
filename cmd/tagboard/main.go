package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	charmLog "github.com/charmbracelet/log"
	serveradapter "github.com/evanschultz/tagboard/internal/adapters/server"
	"github.com/evanschultz/tagboard/internal/adapters/storage/memory"
	"github.com/evanschultz/tagboard/internal/adapters/storage/sqlite"
	"github.com/evanschultz/tagboard/internal/app"
	"github.com/evanschultz/tagboard/internal/board"
	"github.com/evanschultz/tagboard/internal/config"
	"github.com/evanschultz/tagboard/internal/domain"
	"github.com/evanschultz/tagboard/internal/platform"
	"github.com/evanschultz/tagboard/internal/tui"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// version is stamped at build time.
var version = "dev"

// program is the part of tea.Program the CLI drives.
type program interface {
	Run() (tea.Model, error)
}

// programFactory builds the TUI program; tests replace it.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

// serveCommandRunner starts the HTTP+MCP serve flow.
var serveCommandRunner = func(ctx context.Context, cfg serveradapter.Config, deps serveradapter.Dependencies) error {
	return serveradapter.Run(ctx, cfg, deps)
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// rootOptions holds persistent flag values shared by every command.
type rootOptions struct {
	configPath string
	appName    string
	devMode    bool
	seedPath   string
	store      string
	logLevel   string
}

// run builds the command tree and executes it through fang.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return fang.Execute(ctx, root, fang.WithVersion(version), fang.WithNotifySignal(os.Interrupt))
}

// newRootCmd wires the tagboard command tree.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}

	defaultDevMode := version == "dev"
	if envDev, ok := parseBoolEnv("TAGBOARD_DEV_MODE"); ok {
		defaultDevMode = envDev
	}
	defaultApp := "tagboard"
	if envApp := strings.TrimSpace(os.Getenv("TAGBOARD_APP_NAME")); envApp != "" {
		defaultApp = envApp
	}

	cmd := &cobra.Command{
		Use:          "tagboard",
		Short:        "Kanban board with tag filtering, drag and drop, and an HTTP/MCP server",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		Example: strings.TrimSpace(`
  # Open the board
  tagboard

  # Open a board seeded from a snapshot
  tagboard --seed board.json

  # Serve the REST API and MCP endpoint
  tagboard serve --http 127.0.0.1:8080
`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), opts, stderr)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to config TOML")
	flags.StringVar(&opts.appName, "app", defaultApp, "application name for config/data path resolution")
	flags.BoolVar(&opts.devMode, "dev", defaultDevMode, "use dev mode paths (<app>-dev)")
	flags.StringVar(&opts.seedPath, "seed", "", "snapshot JSON file to load into the board at startup")
	flags.StringVar(&opts.store, "store", "", "task store driver (memory|sqlite)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug|info|warn|error|fatal)")

	cmd.AddCommand(newServeCmd(opts, stderr))
	cmd.AddCommand(newPathsCmd(opts, stdout))
	cmd.AddCommand(newExportCmd(opts, stdout, stderr))
	return cmd
}

// newServeCmd builds `tagboard serve`.
func newServeCmd(opts *rootOptions, stderr io.Writer) *cobra.Command {
	var (
		httpBind    string
		apiEndpoint string
		mcpEndpoint string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the REST API and MCP endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openRuntime(cmd.Context(), opts, stderr, "serve")
			if err != nil {
				return err
			}
			defer rt.close()

			cfg := serveradapter.Config{
				HTTPBind:      rt.cfg.Server.HTTPBind,
				APIEndpoint:   rt.cfg.Server.APIEndpoint,
				MCPEndpoint:   rt.cfg.Server.MCPEndpoint,
				ServerName:    opts.appName,
				ServerVersion: version,
			}
			if cmd.Flags().Changed("http") {
				cfg.HTTPBind = httpBind
			}
			if cmd.Flags().Changed("api-endpoint") {
				cfg.APIEndpoint = apiEndpoint
			}
			if cmd.Flags().Changed("mcp-endpoint") {
				cfg.MCPEndpoint = mcpEndpoint
			}

			rt.logger.Info("command flow start", "command", "serve", "http", cfg.HTTPBind, "api", cfg.APIEndpoint, "mcp", cfg.MCPEndpoint)
			err = serveCommandRunner(cmd.Context(), cfg, serveradapter.Dependencies{
				Board:  rt.board,
				Tasks:  rt.svc,
				Logger: rt.logger,
			})
			if err != nil {
				rt.logger.Error("command flow failed", "command", "serve", "err", err)
				return fmt.Errorf("run serve command: %w", err)
			}
			rt.logger.Info("command flow complete", "command", "serve")
			return nil
		},
	}
	cmd.Flags().StringVar(&httpBind, "http", "127.0.0.1:8080", "HTTP listen address")
	cmd.Flags().StringVar(&apiEndpoint, "api-endpoint", "/api/v1", "REST API mount path")
	cmd.Flags().StringVar(&mcpEndpoint, "mcp-endpoint", "/mcp", "MCP endpoint path")
	return cmd
}

// newPathsCmd builds `tagboard paths`.
func newPathsCmd(opts *rootOptions, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config and data paths",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			paths, err := platform.DefaultPathsWithOptions(platform.Options{
				AppName: opts.appName,
				DevMode: opts.devMode,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(stdout, "app: %s\n", opts.appName)
			_, _ = fmt.Fprintf(stdout, "dev_mode: %t\n", opts.devMode)
			_, _ = fmt.Fprintf(stdout, "config: %s\n", resolveConfigPath(opts.configPath, paths))
			_, _ = fmt.Fprintf(stdout, "data_dir: %s\n", paths.DataDir)
			_, _ = fmt.Fprintf(stdout, "log_dir: %s\n", paths.LogDir)
			return nil
		},
	}
}

// newExportCmd builds `tagboard export`.
func newExportCmd(opts *rootOptions, stdout, stderr io.Writer) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the (seeded) board as a snapshot JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openRuntime(cmd.Context(), opts, stderr, "export")
			if err != nil {
				return err
			}
			defer rt.close()

			if err := runExport(cmd.Context(), rt.svc, outPath, stdout); err != nil {
				rt.logger.Error("command flow failed", "command", "export", "err", err)
				return fmt.Errorf("run export command: %w", err)
			}
			rt.logger.Info("command flow complete", "command", "export")
			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "-", "output file path ('-' for stdout)")
	return cmd
}

// runTUI launches the interactive board.
func runTUI(ctx context.Context, opts *rootOptions, stderr io.Writer) error {
	rt, err := openRuntime(ctx, opts, stderr, "tui")
	if err != nil {
		return err
	}
	defer rt.close()

	m := tui.NewModel(
		rt.board,
		tui.WithTitle(opts.appName),
		tui.WithCardConfig(tui.CardConfig{
			TitleLimit: rt.cfg.Board.TitleLimit,
			TagsLimit:  rt.cfg.Board.TagsLimit,
		}),
	)
	rt.logger.Info("starting tui program loop")
	if _, err := programFactory(m).Run(); err != nil {
		rt.logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	rt.logger.Info("command flow complete", "command", "tui")
	return nil
}

// boardRuntime bundles the resolved configuration with the live board.
type boardRuntime struct {
	cfg     config.Config
	logger  *runtimeLogger
	svc     *app.Service
	board   *board.Board
	closers []func() error
}

// close releases the store and log sinks in reverse order.
func (rt *boardRuntime) close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			rt.logger.Warn("runtime close failed", "err", err)
		}
	}
	if err := rt.logger.Close(); err != nil && rt.logger.shouldLogToSink(rt.logger.consoleSink) {
		rt.logger.Warn("close runtime log sink", "err", err)
	}
}

// openRuntime resolves config, logging, storage, seed data, and the board for one command.
func openRuntime(ctx context.Context, opts *rootOptions, stderr io.Writer, command string) (*boardRuntime, error) {
	paths, err := platform.DefaultPathsWithOptions(platform.Options{
		AppName: opts.appName,
		DevMode: opts.devMode,
	})
	if err != nil {
		return nil, err
	}
	configPath := resolveConfigPath(opts.configPath, paths)

	cfg, err := config.Load(configPath, config.Default())
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", configPath, err)
	}
	if store := strings.TrimSpace(opts.store); store != "" {
		cfg.Store.Driver = config.StoreDriver(strings.ToLower(store))
	}
	if level := strings.TrimSpace(opts.logLevel); level != "" {
		cfg.Logging.Level = strings.ToLower(level)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	logger, err := newRuntimeLogger(stderr, opts.appName, opts.devMode, cfg.Logging, paths.LogDir, time.Now)
	if err != nil {
		return nil, fmt.Errorf("configure runtime logger: %w", err)
	}
	if command == "tui" {
		logger.SetConsoleEnabled(false)
	}
	rt := &boardRuntime{cfg: cfg, logger: logger}

	logger.Info("startup configuration resolved", "app", opts.appName, "dev_mode", opts.devMode, "command", command)
	logger.Debug("runtime paths resolved", "config_path", configPath, "data_dir", paths.DataDir)
	logger.Info("configuration loaded", "config_path", configPath, "store", cfg.Store.Driver, "log_level", cfg.Logging.Level)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}

	repo, err := openRepository(cfg.Store.Driver)
	if err != nil {
		logger.Error("task store open failed", "driver", cfg.Store.Driver, "err", err)
		rt.close()
		return nil, fmt.Errorf("open task store: %w", err)
	}
	if closer, ok := repo.(io.Closer); ok {
		rt.closers = append(rt.closers, closer.Close)
	}
	logger.Info("task store ready", "driver", cfg.Store.Driver)

	rt.svc = app.NewService(repo, newTaskID, nil)
	if path := strings.TrimSpace(opts.seedPath); path != "" {
		if err := loadSeed(ctx, rt.svc, path); err != nil {
			logger.Error("seed import failed", "path", path, "err", err)
			rt.close()
			return nil, fmt.Errorf("load seed: %w", err)
		}
		logger.Info("seed imported", "path", path)
	}

	hidden, err := hiddenStatuses(cfg)
	if err != nil {
		rt.close()
		return nil, err
	}
	rt.board = board.New(rt.svc, board.WithLogger(logger), board.WithHiddenColumns(hidden...))
	return rt, nil
}

// resolveConfigPath picks the flag, then TAGBOARD_CONFIG, then the platform default.
func resolveConfigPath(flagValue string, paths platform.Paths) string {
	if path := strings.TrimSpace(flagValue); path != "" {
		return path
	}
	if envPath := strings.TrimSpace(os.Getenv("TAGBOARD_CONFIG")); envPath != "" {
		return envPath
	}
	return paths.ConfigPath
}

// openRepository opens the configured task repository.
func openRepository(driver config.StoreDriver) (app.Repository, error) {
	switch driver {
	case config.StoreDriverSQLite:
		return sqlite.OpenInMemory()
	case config.StoreDriverMemory, "":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
}

// hiddenStatuses maps configured hidden column ids to statuses.
func hiddenStatuses(cfg config.Config) ([]domain.Status, error) {
	ids := cfg.HiddenColumnIDs()
	out := make([]domain.Status, 0, len(ids))
	for _, id := range ids {
		status, err := domain.ParseStatus(id)
		if err != nil {
			return nil, fmt.Errorf("board.hidden_columns: %w", err)
		}
		out = append(out, status)
	}
	return out, nil
}

// newTaskID returns a time-ordered task id.
func newTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// loadSeed imports one snapshot file into the service.
func loadSeed(ctx context.Context, svc *app.Service, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var snap app.Snapshot
	if err := json.Unmarshal(content, &snap); err != nil {
		return fmt.Errorf("decode snapshot json: %w", err)
	}
	if err := svc.ImportSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("import snapshot: %w", err)
	}
	return nil
}

// runExport writes the current collection as indented snapshot JSON.
func runExport(ctx context.Context, svc *app.Service, outPath string, stdout io.Writer) error {
	snap, err := svc.ExportSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("export snapshot: %w", err)
	}
	encoded, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot json: %w", err)
	}
	encoded = append(encoded, '\n')

	if outPath == "" || outPath == "-" {
		if _, err := stdout.Write(encoded); err != nil {
			return fmt.Errorf("write snapshot to stdout: %w", err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create export output dir: %w", err)
	}
	if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return nil
}

// parseBoolEnv reads one boolean environment variable.
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

// runtimeLogger fans log events to a styled console sink and an optional dev-file sink.
type runtimeLogger struct {
	sinks          []*charmLog.Logger
	consoleSink    *charmLog.Logger
	consoleEnabled bool
	closeFile      func() error
	devLog         string
}

// newRuntimeLogger configures runtime log sinks from CLI/config state.
// logDir receives dev logs when a relative dev_file.dir has no workspace to anchor to.
func newRuntimeLogger(stderr io.Writer, appName string, devMode bool, cfg config.LoggingConfig, logDir string, now func() time.Time) (*runtimeLogger, error) {
	level, err := charmLog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse logging level %q: %w", cfg.Level, err)
	}
	if now == nil {
		now = time.Now
	}
	if stderr == nil {
		stderr = io.Discard
	}

	consoleLogger := charmLog.NewWithOptions(stderr, charmLog.Options{
		Level:           level,
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.TextFormatter,
	})

	logger := &runtimeLogger{
		sinks:          []*charmLog.Logger{consoleLogger},
		consoleSink:    consoleLogger,
		consoleEnabled: true,
	}
	if !devMode || !cfg.DevFile.Enabled {
		return logger, nil
	}

	devLogPath, err := devLogFilePath(cfg.DevFile.Dir, logDir, appName, now().UTC())
	if err != nil {
		return nil, fmt.Errorf("resolve dev log file path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(devLogPath), 0o755); err != nil {
		return nil, fmt.Errorf("create dev log dir: %w", err)
	}
	logFile, err := os.OpenFile(devLogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open dev log file: %w", err)
	}

	fileLogger := charmLog.NewWithOptions(logFile, charmLog.Options{
		Level:           level,
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.LogfmtFormatter,
	})
	logger.sinks = append(logger.sinks, fileLogger)
	logger.closeFile = logFile.Close
	logger.devLog = devLogPath
	return logger, nil
}

// DevLogPath returns the active dev log file path.
func (l *runtimeLogger) DevLogPath() string {
	if l == nil {
		return ""
	}
	return l.devLog
}

// Close closes the optional dev-file sink.
func (l *runtimeLogger) Close() error {
	if l == nil || l.closeFile == nil {
		return nil
	}
	err := l.closeFile()
	l.closeFile = nil
	return err
}

// SetConsoleEnabled toggles whether the console sink receives runtime events.
func (l *runtimeLogger) SetConsoleEnabled(enabled bool) {
	if l == nil {
		return
	}
	l.consoleEnabled = enabled
}

// shouldLogToSink reports whether one sink should receive runtime output.
func (l *runtimeLogger) shouldLogToSink(sink *charmLog.Logger) bool {
	if l == nil || sink == nil {
		return false
	}
	if sink == l.consoleSink && !l.consoleEnabled {
		return false
	}
	return true
}

// each sends one event to every enabled sink.
func (l *runtimeLogger) each(fn func(*charmLog.Logger)) {
	if l == nil {
		return
	}
	for _, sink := range l.sinks {
		if l.shouldLogToSink(sink) {
			fn(sink)
		}
	}
}

// Debug logs a debug event to all configured sinks.
func (l *runtimeLogger) Debug(msg any, keyvals ...any) {
	l.each(func(s *charmLog.Logger) { s.Debug(msg, keyvals...) })
}

// Info logs an informational event to all configured sinks.
func (l *runtimeLogger) Info(msg any, keyvals ...any) {
	l.each(func(s *charmLog.Logger) { s.Info(msg, keyvals...) })
}

// Warn logs a warning event to all configured sinks.
func (l *runtimeLogger) Warn(msg any, keyvals ...any) {
	l.each(func(s *charmLog.Logger) { s.Warn(msg, keyvals...) })
}

// Error logs an error event to all configured sinks.
func (l *runtimeLogger) Error(msg any, keyvals ...any) {
	l.each(func(s *charmLog.Logger) { s.Error(msg, keyvals...) })
}

// devLogFilePath resolves the dev log file path for the current run day. Relative dirs
// anchor to the enclosing workspace, or to fallbackDir outside of one.
func devLogFilePath(configDir, fallbackDir, appName string, now time.Time) (string, error) {
	baseDir := strings.TrimSpace(configDir)
	if baseDir == "" {
		baseDir = ".tagboard/log"
	}
	if !filepath.IsAbs(baseDir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working dir: %w", err)
		}
		root, found := workspaceRootFrom(cwd)
		switch {
		case found:
			baseDir = filepath.Join(root, baseDir)
		case strings.TrimSpace(fallbackDir) != "":
			baseDir = fallbackDir
		default:
			baseDir = filepath.Join(cwd, baseDir)
		}
	}
	fileName := fmt.Sprintf("%s-%s.log", sanitizeLogFileStem(appName), now.Format("20060102"))
	return filepath.Join(filepath.Clean(baseDir), fileName), nil
}

// workspaceRootFrom resolves the nearest ancestor holding a workspace marker.
func workspaceRootFrom(start string) (string, bool) {
	start = strings.TrimSpace(start)
	if start == "" {
		return ".", false
	}
	dir := filepath.Clean(start)
	for {
		if hasWorkspaceMarker(dir) {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return filepath.Clean(start), false
		}
		dir = parent
	}
}

// hasWorkspaceMarker reports whether a directory looks like a project workspace root.
func hasWorkspaceMarker(dir string) bool {
	for _, marker := range []string{"go.mod", ".git"} {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}

// sanitizeLogFileStem normalizes app names into safe file-name segments.
func sanitizeLogFileStem(appName string) string {
	replacer := strings.NewReplacer("/", "-", "\\", "-", ":", "-", " ", "-")
	stem := strings.Trim(replacer.Replace(strings.TrimSpace(appName)), "-")
	if stem == "" {
		return "tagboard"
	}
	return stem
}
