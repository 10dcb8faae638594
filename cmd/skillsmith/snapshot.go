package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/skillsmith/skillsmith/pkg/presenter"
	"github.com/skillsmith/skillsmith/pkg/snapshot"
)

// SnapshotConfig holds configuration for the snapshot command
type SnapshotConfig struct {
	Note    string
	List    bool
	Restore string
}

// NewSnapshotConfig creates a new SnapshotConfig with default values
func NewSnapshotConfig() *SnapshotConfig {
	return &SnapshotConfig{}
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save or restore a snapshot of your .agent/ context",
	Run: func(cmd *cobra.Command, _ []string) {
		config := getSnapshotConfigFromFlags(cmd)
		m := snapshot.NewManager(agentDir())

		switch {
		case config.List:
			infos, err := m.List()
			if err != nil {
				presenter.Error(err, "Failed to list snapshots")
				os.Exit(1)
			}
			if len(infos) == 0 {
				presenter.Info("No snapshots found.")
				return
			}
			rows := make([][]string, 0, len(infos))
			for _, info := range infos {
				rows = append(rows, []string{info.Name, fmt.Sprintf("%d KB", info.SizeBytes/1024), info.Note})
			}
			presenter.Table("Available Snapshots", []string{"Name", "Size", "Note"}, rows)
		case config.Restore != "":
			if err := m.Restore(config.Restore); err != nil {
				presenter.Error(err, "Failed to restore snapshot")
				os.Exit(1)
			}
			presenter.Success(fmt.Sprintf("Restored snapshot: %s", config.Restore))
		default:
			name, err := m.Create(config.Note)
			if err != nil {
				presenter.Error(err, "Failed to create snapshot")
				os.Exit(1)
			}
			presenter.Success(fmt.Sprintf("Saved snapshot to .agent/snapshots/%s", name))
		}
	},
}

func init() {
	defaults := NewSnapshotConfig()
	snapshotCmd.Flags().String("note", defaults.Note, "Memo to save with the snapshot")
	snapshotCmd.Flags().Bool("list", defaults.List, "List all available snapshots")
	snapshotCmd.Flags().String("restore", defaults.Restore, "Snapshot filename to restore")
}

// getSnapshotConfigFromFlags extracts snapshot configuration from command flags
func getSnapshotConfigFromFlags(cmd *cobra.Command) *SnapshotConfig {
	config := NewSnapshotConfig()

	if note, err := cmd.Flags().GetString("note"); err == nil {
		config.Note = note
	}
	if list, err := cmd.Flags().GetBool("list"); err == nil {
		config.List = list
	}
	if restore, err := cmd.Flags().GetString("restore"); err == nil {
		config.Restore = restore
	}

	return config
}

// agentDir is the .agent directory the skills directory lives under.
func agentDir() string {
	return filepath.Dir(skillsRoot())
}
