package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillsmith/skillsmith/pkg/presenter"
	"github.com/skillsmith/skillsmith/pkg/scaffold"
)

// InitConfig holds configuration for the init command
type InitConfig struct {
	Minimal      bool
	AgentsMDOnly bool
	All          bool
	Category     string
	Tag          string
}

// NewInitConfig creates a new InitConfig with default values
func NewInitConfig() *InitConfig {
	return &InitConfig{}
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize .agent and AGENTS.md structure",
	Long: `Scaffold the project for agent skills: AGENTS.md, per-platform rule files,
the .agent/ state files, and an initial skill set installed from the local
library. Default mode installs the core skill set; use --all, --category,
or --tag to install a different selection.`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		config := getInitConfigFromFlags(cmd)

		cwd, err := os.Getwd()
		if err != nil {
			presenter.Error(err, "Failed to resolve working directory")
			os.Exit(1)
		}

		s := scaffold.New(skillLibrary(), cwd)
		actions, err := s.Init(ctx, scaffold.Options{
			Minimal:      config.Minimal,
			AgentsMDOnly: config.AgentsMDOnly,
			All:          config.All,
			Category:     config.Category,
			Tag:          config.Tag,
		})
		presentInitActions(actions)
		if err != nil {
			presenter.Error(err, "Initialization failed")
			os.Exit(1)
		}
		presenter.Success("Successfully initialized .agent structure!")
	},
}

func init() {
	defaults := NewInitConfig()
	initCmd.Flags().Bool("minimal", defaults.Minimal, "Create minimal structure without skills")
	initCmd.Flags().Bool("agents-md-only", defaults.AgentsMDOnly, "Only create AGENTS.md and platform rule files")
	initCmd.Flags().Bool("all", defaults.All, "Install ALL available skills (warning: large)")
	initCmd.Flags().String("category", defaults.Category, "Install all skills from a specific category (e.g. 'data-ai')")
	initCmd.Flags().String("tag", defaults.Tag, "Install all skills with a specific tag (e.g. 'python')")
}

// getInitConfigFromFlags extracts init configuration from command flags
func getInitConfigFromFlags(cmd *cobra.Command) *InitConfig {
	config := NewInitConfig()

	if minimal, err := cmd.Flags().GetBool("minimal"); err == nil {
		config.Minimal = minimal
	}
	if agentsMDOnly, err := cmd.Flags().GetBool("agents-md-only"); err == nil {
		config.AgentsMDOnly = agentsMDOnly
	}
	if all, err := cmd.Flags().GetBool("all"); err == nil {
		config.All = all
	}
	if category, err := cmd.Flags().GetString("category"); err == nil {
		config.Category = category
	}
	if tag, err := cmd.Flags().GetString("tag"); err == nil {
		config.Tag = tag
	}

	return config
}

func presentInitActions(actions []scaffold.Action) {
	for _, a := range actions {
		switch a.Kind {
		case scaffold.ActionCreated:
			presenter.Success(fmt.Sprintf("Created %s", a.Path))
		case scaffold.ActionAppended:
			presenter.Success(fmt.Sprintf("Appended skillsmith config to %s (%s)", a.Path, a.Detail))
		case scaffold.ActionInstalled:
			presenter.Info(fmt.Sprintf("Added skill: %s", a.Path))
		case scaffold.ActionWarning:
			presenter.Warning(fmt.Sprintf("%s: %s", a.Path, a.Detail))
		case scaffold.ActionSkipped:
			if !presenter.IsQuiet() {
				presenter.Info(fmt.Sprintf("Skipped %s (%s)", a.Path, a.Detail))
			}
		}
	}
}
