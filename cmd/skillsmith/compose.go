package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skillsmith/skillsmith/pkg/presenter"
	"github.com/skillsmith/skillsmith/pkg/query"
	"github.com/skillsmith/skillsmith/pkg/workflow"
)

// ComposeConfig holds configuration for the compose command
type ComposeConfig struct {
	MaxSkills int
	Output    string
}

// NewComposeConfig creates a new ComposeConfig with default values
func NewComposeConfig() *ComposeConfig {
	return &ComposeConfig{MaxSkills: workflow.DefaultMaxSkills}
}

var composeCmd = &cobra.Command{
	Use:   "compose <goal...>",
	Short: "Compose a workflow from the skills most relevant to a goal",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		config := getComposeConfigFromFlags(cmd)
		goal := strings.Join(args, " ")

		svc := query.NewService(skillsRoot())
		rendered, err := svc.ComposeWorkflow(ctx, goal, config.MaxSkills)
		if err != nil {
			presenter.Error(err, "Failed to compose workflow")
			os.Exit(1)
		}

		if config.Output != "" {
			if err := os.WriteFile(config.Output, []byte(rendered), 0o644); err != nil {
				presenter.Error(err, "Failed to write workflow")
				os.Exit(1)
			}
			presenter.Success(fmt.Sprintf("Workflow written to %s", config.Output))
			return
		}
		fmt.Println(rendered)
	},
}

func init() {
	defaults := NewComposeConfig()
	composeCmd.Flags().Int("max-skills", defaults.MaxSkills, "Maximum skills to include")
	composeCmd.Flags().String("output", defaults.Output, "Output file (default: stdout)")
}

// getComposeConfigFromFlags extracts compose configuration from command flags
func getComposeConfigFromFlags(cmd *cobra.Command) *ComposeConfig {
	config := NewComposeConfig()

	if maxSkills, err := cmd.Flags().GetInt("max-skills"); err == nil {
		config.MaxSkills = maxSkills
	}
	if output, err := cmd.Flags().GetString("output"); err == nil {
		config.Output = output
	}

	return config
}
