// Package main provides the CLI entrypoint for pawtrail.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/pawtrail/internal/ai"
	"github.com/verte-zerg/pawtrail/internal/applog"
	"github.com/verte-zerg/pawtrail/internal/config"
	"github.com/verte-zerg/pawtrail/internal/location"
	"github.com/verte-zerg/pawtrail/internal/model"
	"github.com/verte-zerg/pawtrail/internal/stats"
	"github.com/verte-zerg/pawtrail/internal/store"
	"github.com/verte-zerg/pawtrail/internal/tui"
	"github.com/verte-zerg/pawtrail/internal/walk"
)

const (
	sourceGpsd     = "gpsd"
	sourceSimulate = "simulate"

	defaultSource  = sourceGpsd
	defaultHomeLat = 51.5074
	defaultHomeLng = -0.1278

	gpsdTimeout = 10 * time.Second
	simInterval = 2 * time.Second
)

var (
	trackSource   string
	trackGpsdAddr string
	trackHomeLat  float64
	trackHomeLng  float64
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pawtrail",
		Short:         "TUI pet care companion",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runAppCmd,
	}

	rootCmd.Flags().StringVar(&trackSource, "source", defaultSource, "location source: gpsd or simulate")
	rootCmd.Flags().StringVar(&trackGpsdAddr, "gpsd-address", location.DefaultGpsdAddr, "gpsd host:port")
	rootCmd.Flags().Float64Var(&trackHomeLat, "home-lat", defaultHomeLat, "simulator home latitude")
	rootCmd.Flags().Float64Var(&trackHomeLng, "home-lng", defaultHomeLng, "simulator home longitude")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newExportCmd())

	return rootCmd
}

func runAppCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "source", &trackSource, fileCfg.Tracking.Source)
	applyStringConfig(cmd, "gpsd-address", &trackGpsdAddr, fileCfg.Tracking.GpsdAddress)
	applyFloatConfig(cmd, "home-lat", &trackHomeLat, fileCfg.Tracking.HomeLat)
	applyFloatConfig(cmd, "home-lng", &trackHomeLng, fileCfg.Tracking.HomeLng)

	if trackSource != sourceGpsd && trackSource != sourceSimulate {
		return fmt.Errorf("--source must be %q or %q", sourceGpsd, sourceSimulate)
	}

	logger, logCloser, err := applog.Open(config.DefaultLogPath())
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer func() {
		if cerr := logCloser.Close(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}()

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	var source walk.LocationSource
	if trackSource == sourceSimulate {
		home := model.GeoPoint{Lat: trackHomeLat, Lng: trackHomeLng}
		source = location.NewSimulator(home, simInterval, time.Now().UnixNano())
	} else {
		source = location.NewGpsd(trackGpsdAddr, gpsdTimeout, logger)
	}

	apiKey := ""
	if fileCfg.AI.APIKey != nil {
		apiKey = *fileCfg.AI.APIKey
	}
	aiModel := ""
	if fileCfg.AI.Model != nil {
		aiModel = *fileCfg.AI.Model
	}

	session := walk.NewSession(walk.SystemClock{}, source, logger)
	stores := tui.Stores{
		Walks:    store.NewWalkStore(st, logger),
		Expenses: store.NewExpenseStore(st, logger),
		Medical:  store.NewMedicalStore(st, logger),
		Analyses: store.NewAnalysisStore(st, logger),
		Weights:  store.NewWeightStore(st, logger),
		Posts:    store.NewPostStore(st, logger),
		Alerts:   store.NewAlertStore(st, logger),
		Matches:  store.NewMatchStore(st, logger),
		Services: store.NewServiceStore(st, logger),
		Journal:  store.NewJournalStore(st, logger),
	}
	app := tui.NewModel(session, stores, ai.NewClient(apiKey, aiModel, logger), logger)
	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
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

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show lifetime walk stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	st, logger, closeAll, err := openQuiet()
	if err != nil {
		return err
	}
	defer closeAll()

	walks := store.NewWalkStore(st, logger).List(context.Background())
	lifetime := stats.Aggregate(walks)

	out := cmd.OutOrStdout()
	lines := []string{
		fmt.Sprintf("Walks:          %d", lifetime.Walks),
		fmt.Sprintf("Total distance: %.2f km", lifetime.TotalDistanceKm),
		fmt.Sprintf("Total time:     %s", stats.FormatDurationShort(lifetime.TotalDurationSec)),
		fmt.Sprintf("Avg speed:      %.1f km/h", lifetime.OverallAvgSpeedKmh),
	}

	series := stats.DistanceSeries(walks)
	if len(series) > 1 {
		width := 80
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 20 {
			width = w
		}
		if len(series) > width {
			series = series[len(series)-width:]
		}
		lines = append(lines, "", "Distance per walk (oldest to newest):", stats.Sparkline(series))
	}
	if _, err := fmt.Fprintln(out, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export walk history as JSON",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	st, logger, closeAll, err := openQuiet()
	if err != nil {
		return err
	}
	defer closeAll()

	walks := store.NewWalkStore(st, logger).List(context.Background())
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(walks); err != nil {
		return fmt.Errorf("failed to encode walks: %w", err)
	}
	return nil
}

// openQuiet opens the database and log for non-interactive subcommands.
func openQuiet() (*store.Store, zerolog.Logger, func(), error) {
	logger, logCloser, err := applog.Open(config.DefaultLogPath())
	if err != nil {
		return nil, zerolog.Nop(), nil, fmt.Errorf("failed to open log: %w", err)
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		if cerr := logCloser.Close(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
		return nil, zerolog.Nop(), nil, fmt.Errorf("failed to open db: %w", err)
	}
	closeAll := func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
		if cerr := logCloser.Close(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}
	return st, logger, closeAll, nil
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

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# pawtrail configuration
# Uncomment a value to enable it. CLI flags override config values.

[tracking]
# source = %q          # Location source: gpsd or simulate
# gpsd-address = %q    # gpsd endpoint
# home-lat = %.4f      # Simulator home latitude
# home-lng = %.4f      # Simulator home longitude

[ai]
# api-key = ""         # Gemini API key (enables Health and Training AI features)
# model = %q           # Gemini model
`,
		defaultSource,
		location.DefaultGpsdAddr,
		defaultHomeLat,
		defaultHomeLng,
		ai.DefaultModel,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
