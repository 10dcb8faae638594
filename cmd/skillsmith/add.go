package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/skillsmith/skillsmith/pkg/library"
	"github.com/skillsmith/skillsmith/pkg/presenter"
	"github.com/skillsmith/skillsmith/pkg/remote"
)

var addCmd = &cobra.Command{
	Use:   "add <name|url>",
	Short: "Add a skill from the local library or a GitHub URL",
	Long: `Copy one skill into .agent/skills/. The argument is either a skill name
looked up in the local library, or a github.com tree URL fetched via the
GitHub contents API.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		nameOrURL := args[0]
		destRoot := skillsRoot()

		if err := os.MkdirAll(destRoot, 0o755); err != nil {
			presenter.Error(err, "Failed to create skills directory")
			os.Exit(1)
		}

		if library.IsSkillURL(nameOrURL) {
			ref, err := remote.ParseURL(nameOrURL)
			if err != nil {
				presenter.Error(err, "Invalid skill URL")
				os.Exit(1)
			}
			target := filepath.Join(destRoot, ref.Name())
			if err := remote.NewClient().DownloadDir(ctx, nameOrURL, target); err != nil {
				presenter.Error(err, "Failed to download skill")
				os.Exit(1)
			}
			presenter.Success(fmt.Sprintf("Added skill: %s (from GitHub)", ref.Name()))
			return
		}

		target := filepath.Join(destRoot, nameOrURL)
		if _, err := os.Stat(target); err == nil {
			presenter.Warning(fmt.Sprintf("Skill '%s' already exists in %s", nameOrURL, destRoot))
			return
		}

		if _, err := skillLibrary().InstallSkill(nameOrURL, destRoot); err != nil {
			presenter.Error(err, "Use 'skillsmith list' to see available skills")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Added skill: %s", nameOrURL))
	},
}
