package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/csheth/paperlens/internal/bridge"
	"github.com/csheth/paperlens/internal/config"
	"github.com/csheth/paperlens/internal/history"
	"github.com/csheth/paperlens/internal/logging"
	"github.com/csheth/paperlens/internal/prefs"
	"github.com/csheth/paperlens/internal/tui"
	"github.com/csheth/paperlens/internal/viz"
)

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	logFile, err := tea.LogToFile(cfg.Log.File, "paperlens")
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logging.SetOutput(logFile)
	logging.SetLevel(cfg.Log.Level)
	logging.Infof("[main] paperlens %s starting (bridge=%s, state=%s)", version, cfg.Bridge.Endpoint, cfg.State.Backend)

	client, err := bridge.New(cfg.BridgeClientConfig())
	if err != nil {
		return err
	}

	store, err := prefs.Open(cfg.PrefsConfig())
	if err != nil {
		logging.Warnf("[prefs] %v; falling back to memory", err)
		fmt.Fprintf(os.Stderr, "warning: %v; settings will not persist this session\n", err)
		store = prefs.NewMemoryStore()
	}
	defer store.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	model := tui.New(newTUIConfig(ctx, cfg, client, store, time.Now()))
	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	noAltScreen, _ := cmd.Flags().GetBool("no-alt-screen")
	if cfg.UI.AltScreen && !noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

// newTUIConfig wires the configured collaborators into the program.
func newTUIConfig(ctx context.Context, cfg config.Config, client bridge.Bridge, store prefs.Store, now time.Time) tui.Config {
	pipeline := viz.NewPipeline(viz.Options{MinLength: cfg.Viz.MinFragmentLength})
	slots := pipeline.Slots()
	capabilities := cfg.Viz.Capabilities
	return tui.Config{
		Bridge:   client,
		Prefs:    store,
		History:  history.Load(ctx, store),
		Pipeline: pipeline,
		NewDashboard: func(dark bool) tui.Dashboard {
			return viz.NewDocument(viz.DocumentOptions{Slots: slots, Capabilities: capabilities, Dark: dark})
		},
		DashboardDir: cfg.Viz.OutputDir,
		Defaults: tui.SearchDefaults{
			Source:     cfg.Search.DefaultSource,
			SearchType: cfg.Search.DefaultType,
			MaxResults: cfg.Search.DefaultMaxResults,
			FromYear:   cfg.DefaultFromYear(now),
		},
		StatusTTL: tui.DefaultStatusTTL,
	}
}
