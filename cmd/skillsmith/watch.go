package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/skillsmith/skillsmith/pkg/presenter"
	"github.com/skillsmith/skillsmith/pkg/watcher"
)

// WatchConfig holds configuration for the watch command
type WatchConfig struct {
	Interval   int
	StaleHours int
	StateFile  string
}

// NewWatchConfig creates a new WatchConfig with default values
func NewWatchConfig() *WatchConfig {
	return &WatchConfig{
		Interval:   30,
		StaleHours: 4,
		StateFile:  filepath.Join(".agent", "STATE.md"),
	}
}

// Validate validates the WatchConfig and returns an error if invalid
func (c *WatchConfig) Validate() error {
	if c.Interval < 1 {
		return fmt.Errorf("interval must be at least 1 second, got %d", c.Interval)
	}
	if c.StaleHours < 1 {
		return fmt.Errorf("stale-hours must be at least 1, got %d", c.StaleHours)
	}
	return nil
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch for context drift and keep your agent state fresh",
	Long: `Continuously monitor the project for drift: skills appearing or
disappearing, git branch switches, and a STATE.md older than the staleness
threshold. Runs until interrupted.`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		config := getWatchConfigFromFlags(cmd)
		if err := config.Validate(); err != nil {
			presenter.Error(err, "Invalid configuration")
			os.Exit(1)
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			presenter.Info("Watch stopped.")
			cancel()
		}()

		cwd, err := os.Getwd()
		if err != nil {
			presenter.Error(err, "Failed to resolve working directory")
			os.Exit(1)
		}

		wcfg := watcher.NewConfig()
		wcfg.Interval = time.Duration(config.Interval) * time.Second
		wcfg.StaleThreshold = time.Duration(config.StaleHours) * time.Hour
		wcfg.StateFile = config.StateFile

		presenter.Info(fmt.Sprintf("Monitoring %s (interval: %ds)", filepath.Base(cwd), config.Interval))

		events := make(chan watcher.Event, 16)
		w := watcher.New(cwd, wcfg)
		go presentDriftEvents(events)

		if err := w.Run(ctx, events); err != nil {
			presenter.Error(err, "Watcher failed")
			os.Exit(1)
		}
	},
}

func init() {
	defaults := NewWatchConfig()
	watchCmd.Flags().Int("interval", defaults.Interval, "Polling interval in seconds")
	watchCmd.Flags().Int("stale-hours", defaults.StaleHours, "Warn when STATE.md is older than N hours")
	watchCmd.Flags().String("state-file", defaults.StateFile, "Path to STATE.md")
}

// getWatchConfigFromFlags extracts watch configuration from command flags
func getWatchConfigFromFlags(cmd *cobra.Command) *WatchConfig {
	config := NewWatchConfig()

	if interval, err := cmd.Flags().GetInt("interval"); err == nil {
		config.Interval = interval
	}
	if staleHours, err := cmd.Flags().GetInt("stale-hours"); err == nil {
		config.StaleHours = staleHours
	}
	if stateFile, err := cmd.Flags().GetString("state-file"); err == nil {
		config.StateFile = stateFile
	}

	return config
}

func presentDriftEvents(events <-chan watcher.Event) {
	for ev := range events {
		switch ev.Type {
		case watcher.EventSkillAdded:
			presenter.Success(fmt.Sprintf("New skill added: %s", ev.Detail))
		case watcher.EventSkillRemoved:
			presenter.Warning(fmt.Sprintf("Skill removed: %s", ev.Detail))
		case watcher.EventBranchSwitched:
			presenter.Warning(fmt.Sprintf("Branch switched: %s", ev.Detail))
			presenter.Info("Action: update STATE.md with new branch goals.")
		case watcher.EventStaleState:
			presenter.Warning(fmt.Sprintf("Context may be drifting: %s", ev.Detail))
		}
	}
}
