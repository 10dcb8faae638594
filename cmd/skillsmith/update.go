package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillsmith/skillsmith/pkg/presenter"
	"github.com/skillsmith/skillsmith/pkg/updater"
)

// UpdateConfig holds configuration for the update command
type UpdateConfig struct {
	Diff   bool
	DryRun bool
}

// NewUpdateConfig creates a new UpdateConfig with default values
func NewUpdateConfig() *UpdateConfig {
	return &UpdateConfig{}
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update installed skills to match the library",
	Long: `Refresh installed skills whose library version is newer. With --diff,
print a unified diff of each updated SKILL.md; with --dry-run, only report
what would change.`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		config := getUpdateConfigFromFlags(cmd)

		results, err := updater.Update(ctx, skillsRoot(), skillLibrary(), updater.Options{
			Diff:   config.Diff,
			DryRun: config.DryRun,
		})
		if err != nil {
			presenter.Error(err, "Update failed")
			os.Exit(1)
		}

		rows := make([][]string, 0, len(results))
		updated := 0
		for _, r := range results {
			if r.Status == updater.StatusUpdated {
				updated++
			}
			rows = append(rows, []string{r.Folder, string(r.Status), r.Summary()})
		}
		presenter.Table("Skill Updates", []string{"Skill", "Status", "Action"}, rows)

		if config.Diff {
			for _, r := range results {
				if r.Diff != "" {
					presenter.Section(r.Folder)
					fmt.Println(r.Diff)
				}
			}
		}

		if updated > 0 {
			presenter.Success(fmt.Sprintf("Successfully updated %d skills.", updated))
		} else {
			presenter.Info("All skills are up to date.")
		}
	},
}

func init() {
	defaults := NewUpdateConfig()
	updateCmd.Flags().Bool("diff", defaults.Diff, "Show unified diffs of updated skills")
	updateCmd.Flags().Bool("dry-run", defaults.DryRun, "Report what would change without writing")
}

// getUpdateConfigFromFlags extracts update configuration from command flags
func getUpdateConfigFromFlags(cmd *cobra.Command) *UpdateConfig {
	config := NewUpdateConfig()

	if diff, err := cmd.Flags().GetBool("diff"); err == nil {
		config.Diff = diff
	}
	if dryRun, err := cmd.Flags().GetBool("dry-run"); err == nil {
		config.DryRun = dryRun
	}

	return config
}
