// Package main provides the CLI entrypoint for catchme.
package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/catchme/internal/config"
	"github.com/verte-zerg/catchme/internal/game"
	"github.com/verte-zerg/catchme/internal/generator"
	"github.com/verte-zerg/catchme/internal/model"
	"github.com/verte-zerg/catchme/internal/stats"
	"github.com/verte-zerg/catchme/internal/statsui"
	"github.com/verte-zerg/catchme/internal/store"
	"github.com/verte-zerg/catchme/internal/tui"
)

const (
	defaultProfile     = "local"
	defaultCurveWindow = 10
)

var (
	playDuration  int
	playProfile   string
	playEphemeral bool
	playSeed      int64

	statsProfile     string
	statsDuration    int
	statsLast        int
	statsCurveWindow int
	statsPlain       bool

	resetProfile string
	resetRounds  bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "catchme",
		Short:         "Catch the target before the clock runs out",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().IntVar(&playDuration, "duration", game.DefaultDuration, "round length in seconds (15, 30 or 60)")
	rootCmd.Flags().StringVar(&playProfile, "profile", defaultProfile, "profile holding the record and preferences")
	rootCmd.Flags().BoolVar(&playEphemeral, "ephemeral", false, "do not read or write the record")
	rootCmd.Flags().Int64Var(&playSeed, "seed", 0, "seed for target positions (0 = random)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "duration", &playDuration, fileCfg.Game.Duration)
	applyStringConfig(cmd, "profile", &playProfile, fileCfg.Game.Profile)
	applyBoolConfig(cmd, "ephemeral", &playEphemeral, fileCfg.Game.Ephemeral)

	cfg := model.Config{
		Duration:  playDuration,
		Profile:   playProfile,
		Ephemeral: playEphemeral,
		Seed:      playSeed,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	// The TUI owns the terminal; controller warnings are printed once it exits.
	var logBuf bytes.Buffer
	logger := log.NewWithOptions(&logBuf, log.Options{Prefix: "catchme"})

	gen := generator.New()
	if cfg.Seed != 0 {
		gen = generator.NewWithSeed(cfg.Seed)
	}
	kv := st.KV(cfg.Profile)
	opts := game.Options{
		Persist:   !cfg.Ephemeral,
		Duration:  cfg.Duration,
		Profile:   cfg.Profile,
		Generator: gen,
		Logger:    logger,
	}
	if !cfg.Ephemeral {
		opts.Journal = kv
	}
	sched := tui.NewScheduler()
	ctrl := game.New(kv, sched, opts)

	m := tui.NewModel(ctrl, sched, lipgloss.DefaultRenderer())
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, runErr := program.Run()
	ctrl.Stop()
	if logBuf.Len() > 0 {
		logErrf("%s", logBuf.String())
	}
	if runErr != nil {
		return fmt.Errorf("failed to run TUI: %w", runErr)
	}
	return nil
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
	if err := writeConfigTemplate(path); err != nil {
		return err
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

// writeConfigTemplate creates the config file unless it already exists.
func writeConfigTemplate(path string) error {
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
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats of completed rounds",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsProfile, "profile", defaultProfile, "profile to report on")
	cmd.Flags().IntVar(&statsDuration, "duration", 0, "only rounds of this length (15, 30 or 60)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N rounds")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the interactive view")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg := model.StatsConfig{
		Profile:     statsProfile,
		Duration:    statsDuration,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}
	if err := validateStatsConfig(cfg); err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsPlain {
		return printStats(cmd, st, cfg)
	}

	m := statsui.NewModel(st, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func printStats(cmd *cobra.Command, st *store.Store, cfg model.StatsConfig) error {
	report, err := stats.BuildReport(cmd.Context(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report.Rounds); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := fmt.Fprintf(out, "Record: %d\n\n", report.Record); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderCurve(out, report.Rounds, cfg.CurveWindow, stats.CurveWidth(out)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderRoundTable(out, report.Rounds); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear the record, history and preferences of a profile",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().StringVar(&resetProfile, "profile", defaultProfile, "profile to reset")
	cmd.Flags().BoolVar(&resetRounds, "rounds", false, "also delete the round journal")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	if strings.TrimSpace(resetProfile) == "" {
		return fmt.Errorf("--profile must not be empty")
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	removed, err := st.DeleteProfile(cmd.Context(), resetProfile, resetRounds)
	if err != nil {
		return fmt.Errorf("failed to reset profile: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries for profile %q\n", removed, resetProfile); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
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
	return fmt.Sprintf(`# catchme configuration
# Uncomment a value to enable it. CLI flags override config values.

[game]
# duration = %d           # Round length in seconds (15, 30 or 60)
# profile = %q       # Profile holding the record and preferences
# ephemeral = false       # Do not read or write the record

[serve]
# host = %q             # SSH listen address
# port = %d             # SSH listen port
# host-key = %q
`,
		game.DefaultDuration,
		defaultProfile,
		defaultServeHost,
		defaultServePort,
		config.DefaultHostKeyPath(),
	)
}

func validateConfig(cfg model.Config) error {
	if !game.ValidDuration(cfg.Duration) {
		return fmt.Errorf("--duration: %w", game.ErrInvalidDuration)
	}
	if strings.TrimSpace(cfg.Profile) == "" {
		return fmt.Errorf("--profile must not be empty")
	}
	return nil
}

func validateStatsConfig(cfg model.StatsConfig) error {
	if cfg.Duration != 0 && !game.ValidDuration(cfg.Duration) {
		return fmt.Errorf("--duration: %w", game.ErrInvalidDuration)
	}
	if cfg.Last < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if cfg.CurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}
	if strings.TrimSpace(cfg.Profile) == "" {
		return fmt.Errorf("--profile must not be empty")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
