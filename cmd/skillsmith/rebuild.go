package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillsmith/skillsmith/pkg/catalog"
	"github.com/skillsmith/skillsmith/pkg/presenter"
)

// RebuildConfig holds configuration for the rebuild command
type RebuildConfig struct {
	Dir    string
	Output string
}

// NewRebuildConfig creates a new RebuildConfig with default values
func NewRebuildConfig() *RebuildConfig {
	return &RebuildConfig{}
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the skill catalog from the skills directory",
	Long: `Scan a skills directory and regenerate skill_catalog.json from scratch.
Defaults to the library skills tree; use --dir and --output to rebuild a
project catalog instead.`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		config := getRebuildConfigFromFlags(cmd)

		lib := skillLibrary()
		dir := config.Dir
		if dir == "" {
			dir = lib.SkillsRoot()
		}
		output := config.Output
		if output == "" {
			output = lib.CatalogPath()
		}

		c, err := catalog.Build(ctx, dir)
		if err != nil {
			presenter.Error(err, "Failed to scan skills directory")
			os.Exit(1)
		}
		if skipped := c.Skipped(); skipped != nil {
			presenter.Warning(fmt.Sprintf("Some skills were skipped: %v", skipped))
		}

		if err := c.Save(output); err != nil {
			presenter.Error(err, "Failed to write catalog")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Successfully rebuilt catalog with %d skills at %s", len(c.Records), output))
	},
}

func init() {
	defaults := NewRebuildConfig()
	rebuildCmd.Flags().String("dir", defaults.Dir, "Directory to scan for skills")
	rebuildCmd.Flags().String("output", defaults.Output, "Output path for skill_catalog.json")
}

// getRebuildConfigFromFlags extracts rebuild configuration from command flags
func getRebuildConfigFromFlags(cmd *cobra.Command) *RebuildConfig {
	config := NewRebuildConfig()

	if dir, err := cmd.Flags().GetString("dir"); err == nil {
		config.Dir = dir
	}
	if output, err := cmd.Flags().GetString("output"); err == nil {
		config.Output = output
	}

	return config
}
