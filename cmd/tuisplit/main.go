// Package main provides the CLI entrypoint for tuisplit.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/tuisplit/internal/config"
	"github.com/verte-zerg/tuisplit/internal/model"
	"github.com/verte-zerg/tuisplit/internal/splits"
	"github.com/verte-zerg/tuisplit/internal/stats"
	"github.com/verte-zerg/tuisplit/internal/statsui"
	"github.com/verte-zerg/tuisplit/internal/store"
	"github.com/verte-zerg/tuisplit/internal/timer"
	"github.com/verte-zerg/tuisplit/internal/tui"
)

const (
	defaultComparison  = "pb"
	defaultTickMs      = 16
	defaultCurveWindow = 5
	defaultLogLevel    = "info"
	splitsExt          = ".yaml"
)

var (
	runSplits        string
	runComparison    string
	runFrameRounding bool
	runTickMs        int

	newGame     string
	newCategory string
	newOffset   time.Duration
	newSplits   []string
	newForce    bool

	statsSplits      string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsTUI         bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuisplit [splits]",
		Short:         "TUI speedrun split timer",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTimerCmd,
	}

	rootCmd.Flags().StringVar(&runSplits, "splits", "", "split file path or name in the splits directory")
	rootCmd.Flags().StringVar(&runComparison, "comparison", defaultComparison, "comparison: average, pb, golds or none")
	rootCmd.Flags().BoolVar(&runFrameRounding, "frame-rounding", false, "round displayed times to 30fps frames")
	rootCmd.Flags().IntVar(&runTickMs, "tick-ms", defaultTickMs, "poll interval in milliseconds")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newNewCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func runTimerCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if len(args) == 1 && !cmd.Flags().Changed("splits") {
		if err := cmd.Flags().Set("splits", args[0]); err != nil {
			return err
		}
	}
	applyStringConfig(cmd, "splits", &runSplits, fileCfg.Timer.Splits)
	applyStringConfig(cmd, "comparison", &runComparison, fileCfg.Timer.Comparison)
	applyBoolConfig(cmd, "frame-rounding", &runFrameRounding, fileCfg.Timer.FrameRounding)
	applyIntConfig(cmd, "tick-ms", &runTickMs, fileCfg.Timer.TickMs)

	cfg := model.Config{
		SplitsPath:    resolveSplitsPath(runSplits),
		Comparison:    runComparison,
		FrameRounding: runFrameRounding,
		TickMs:        runTickMs,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	comparison, err := timer.ParseComparison(cfg.Comparison)
	if err != nil {
		return fmt.Errorf("invalid --comparison: %w", err)
	}

	run, err := splits.Load(cfg.SplitsPath)
	if err != nil {
		return splitsLoadError(cfg.SplitsPath, err)
	}

	logger, closeLog, err := newFileLogger(config.StringOr(fileCfg.Log.Level, defaultLogLevel), config.StringOr(fileCfg.Log.File, config.DefaultLogPath()))
	if err != nil {
		return err
	}
	defer closeLog()

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Error("failed to close db", "error", cerr)
		}
	}()

	logger.Info("starting timer", "run", run.Key(), "splits", cfg.SplitsPath, "comparison", comparison)
	state := timer.New(run, timer.NewSystemClock(), comparison)
	m := tui.NewModel(state, st, logger, tui.Options{
		SplitsPath:    cfg.SplitsPath,
		FrameRounding: cfg.FrameRounding,
		Tick:          time.Duration(cfg.TickMs) * time.Millisecond,
		Keys:          keyConfig(fileCfg.Keys),
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// newFileLogger builds a logger that writes to path, keeping the alternate
// screen clean while the TUI runs.
func newFileLogger(level, path string) (*log.Logger, func(), error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		Prefix:          "tuisplit",
	})
	return logger, func() {
		if cerr := f.Close(); cerr != nil {
			log.Error("failed to close log file", "error", cerr)
		}
	}, nil
}

func keyConfig(keys config.KeysConfig) tui.KeyConfig {
	return tui.KeyConfig{
		Split:          config.StringOr(keys.Split, ""),
		Pause:          config.StringOr(keys.Pause, ""),
		Skip:           config.StringOr(keys.Skip, ""),
		Unsplit:        config.StringOr(keys.Unsplit, ""),
		Reset:          config.StringOr(keys.Reset, ""),
		NextComparison: config.StringOr(keys.NextComparison, ""),
		PrevComparison: config.StringOr(keys.PrevComparison, ""),
		Quit:           config.StringOr(keys.Quit, ""),
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List split files in the splits directory",
		Args:  cobra.NoArgs,
		RunE:  runListCmd,
	}
}

func runListCmd(cmd *cobra.Command, _ []string) error {
	dir := config.DefaultSplitsDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("no split files found; create one with: tuisplit new", "dir", dir)
			return fmt.Errorf("splits directory does not exist")
		}
		return fmt.Errorf("failed to read splits directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != splitsExt {
			continue
		}
		names = append(names, entry.Name())
	}
	if len(names) == 0 {
		log.Warn("no split files found; create one with: tuisplit new", "dir", dir)
		return fmt.Errorf("no split files found")
	}
	sort.Strings(names)
	for _, name := range names {
		run, err := splits.Load(filepath.Join(dir, name))
		if err != nil {
			log.Warn("skipping unreadable split file", "file", name, "error", err)
			continue
		}
		line := fmt.Sprintf("%-24s %s (%d splits)", strings.TrimSuffix(name, splitsExt), run.Key(), run.Len())
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newNewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new [path]",
		Short: "Create a split file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runNewCmd,
	}
	cmd.Flags().StringVar(&newGame, "game", "", "game title")
	cmd.Flags().StringVar(&newCategory, "category", "", "run category")
	cmd.Flags().DurationVar(&newOffset, "offset", 0, "start countdown, e.g. 1.5s")
	cmd.Flags().StringArrayVar(&newSplits, "split", nil, "split name (repeat for each split)")
	cmd.Flags().BoolVar(&newForce, "force", false, "overwrite an existing file")
	return cmd
}

func runNewCmd(cmd *cobra.Command, args []string) error {
	if strings.TrimSpace(newGame) == "" {
		return fmt.Errorf("--game must not be empty")
	}
	if newOffset < 0 {
		return fmt.Errorf("--offset must be >= 0")
	}
	run, err := splits.New(newGame, newCategory, uint64(newOffset.Milliseconds()), newSplits)
	if err != nil {
		if errors.Is(err, splits.ErrNoSplits) {
			return fmt.Errorf("at least one --split is required")
		}
		return err
	}

	path := filepath.Join(config.DefaultSplitsDir(), slug(newGame, newCategory)+splitsExt)
	if len(args) == 1 {
		path = args[0]
	}
	if !newForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("split file already exists: %s (use --force to overwrite)", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat split file: %w", err)
		}
	}
	if err := splits.Save(path, run); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [splits]",
		Short: "Show attempt history for a run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSplits, "splits", "", "split file path or name in the splits directory")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N attempts")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsTUI, "tui", false, "browse stats interactively")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if len(args) == 1 {
		statsSplits = args[0]
	}
	if statsSplits == "" {
		statsSplits = config.StringOr(fileCfg.Timer.Splits, "")
	}
	if statsSplits == "" {
		return fmt.Errorf("--splits must not be empty")
	}
	path := resolveSplitsPath(statsSplits)
	run, err := splits.Load(path)
	if err != nil {
		return splitsLoadError(path, err)
	}

	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow <= 0 {
		return fmt.Errorf("--curve-window must be > 0")
	}

	cfg := model.StatsConfig{
		RunKey:      run.Key(),
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.Error("failed to close db", "error", cerr)
		}
	}()

	if statsTUI {
		program := tea.NewProgram(statsui.NewModel(st, run, cfg), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run stats TUI: %w", err)
		}
		return nil
	}

	report, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, run, report.Attempts); err != nil {
		return err
	}
	if err := stats.RenderSplitTable(out, run, report.SplitAggs); err != nil {
		return err
	}
	return stats.RenderCurve(out, report.Attempts, cfg.CurveWindow, terminalWidth())
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// resolveSplitsPath maps a bare name to a file in the splits directory.
func resolveSplitsPath(value string) string {
	if value == "" || strings.ContainsRune(value, os.PathSeparator) || filepath.Ext(value) != "" {
		return value
	}
	if _, err := os.Stat(value); err == nil {
		return value
	}
	return filepath.Join(config.DefaultSplitsDir(), value+splitsExt)
}

func slug(parts ...string) string {
	var b strings.Builder
	dash := false
	for _, part := range parts {
		for _, r := range strings.ToLower(part) {
			switch {
			case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
				b.WriteRune(r)
				dash = false
			case b.Len() > 0 && !dash:
				b.WriteByte('-')
				dash = true
			}
		}
		if b.Len() > 0 && !dash {
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "run"
	}
	return out
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuisplit configuration
# Uncomment a value to enable it. CLI flags override config values.

[timer]
# splits = "celeste-any"     # Split file path or name in the splits directory
# comparison = %q          # average, pb, golds or none
# frame-rounding = false     # Round displayed times to 30fps frames
# tick-ms = %d               # Poll interval in milliseconds

[keys]
# Comma-separated key names.
# split = "space"
# pause = "p"
# skip = "s"
# unsplit = "backspace"
# reset = "r"
# next-comparison = "right"
# prev-comparison = "left"
# quit = "q,ctrl+c"

[log]
# level = %q             # debug, info, warn or error
# file = %q
`,
		defaultComparison,
		defaultTickMs,
		defaultLogLevel,
		config.DefaultLogPath(),
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.SplitsPath == "" {
		return fmt.Errorf("--splits must not be empty")
	}
	if cfg.TickMs <= 0 {
		return fmt.Errorf("--tick-ms must be > 0")
	}
	return nil
}

func splitsLoadError(path string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load splits: %v", err),
		fmt.Sprintf("expected split file at: %s", path),
		"List: tuisplit list",
		"Create: tuisplit new --game <title> --category <name> --split <name> ...",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}
