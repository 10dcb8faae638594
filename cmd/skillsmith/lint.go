package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skillsmith/skillsmith/pkg/catalog"
	"github.com/skillsmith/skillsmith/pkg/presenter"
	"github.com/skillsmith/skillsmith/pkg/skills"
)

// LintConfig holds configuration for the lint command
type LintConfig struct {
	Basic bool
	Dir   string
}

// NewLintConfig creates a new LintConfig with default values
func NewLintConfig() *LintConfig {
	return &LintConfig{}
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate skill structures and metadata",
	Long: `Validate every installed skill against the full standard: required
metadata, description length, semver version, recommended tags and globs,
and a substantive body. Exits non-zero when any skill fails.`,
	Run: func(cmd *cobra.Command, _ []string) {
		config := getLintConfigFromFlags(cmd)
		dir := config.Dir
		if dir == "" {
			dir = skillsRoot()
		}

		if _, err := os.Stat(dir); err != nil {
			presenter.Error(err, "Skills directory not found")
			os.Exit(1)
		}

		entries, err := catalog.Discover(dir)
		if err != nil {
			presenter.Error(err, "Failed to scan skills directory")
			os.Exit(1)
		}
		if len(entries) == 0 {
			presenter.Warning("No skills found to lint.")
			return
		}

		failed := 0
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			result := lintOne(e.Path, config.Basic)
			status := "PASS"
			if !result.Valid {
				status = "FAIL"
				failed++
			}
			rows = append(rows, []string{e.Folder, status, strings.Join(result.Messages(), ", ")})
		}

		presenter.Table("Skill Linter", []string{"Skill", "Status", "Messages"}, rows)
		if failed > 0 {
			presenter.Error(fmt.Errorf("%d of %d skills failed validation", failed, len(entries)), "Lint failed")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("All %d skills passed.", len(entries)))
	},
}

func init() {
	defaults := NewLintConfig()
	lintCmd.Flags().Bool("basic", defaults.Basic, "Only check that name, description, and version are present")
	lintCmd.Flags().String("dir", defaults.Dir, "Directory to lint (defaults to the project skills directory)")
}

// getLintConfigFromFlags extracts lint configuration from command flags
func getLintConfigFromFlags(cmd *cobra.Command) *LintConfig {
	config := NewLintConfig()

	if basic, err := cmd.Flags().GetBool("basic"); err == nil {
		config.Basic = basic
	}
	if dir, err := cmd.Flags().GetString("dir"); err == nil {
		config.Dir = dir
	}

	return config
}

func lintOne(path string, basic bool) skills.Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return skills.Result{Valid: false, Errors: []string{fmt.Sprintf("missing %s", filepath.Base(path))}}
	}
	if basic {
		return skills.ValidateBasic(string(data))
	}
	return skills.Validate(string(data))
}
