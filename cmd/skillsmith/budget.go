package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillsmith/skillsmith/pkg/budget"
	"github.com/skillsmith/skillsmith/pkg/presenter"
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Estimate the context token cost of your agent files",
	Long: `Analyze the token budget consumed by platform rule files, .agent/ state
files, and installed skills. Estimates use ~4 characters per token.`,
	Run: func(_ *cobra.Command, _ []string) {
		cwd, err := os.Getwd()
		if err != nil {
			presenter.Error(err, "Failed to resolve working directory")
			os.Exit(1)
		}

		report, err := budget.Analyze(cwd)
		if err != nil {
			presenter.Error(err, "Failed to analyze token budget")
			os.Exit(1)
		}

		rows := make([][]string, 0, len(report.Items)+1)
		for _, item := range report.Items {
			rows = append(rows, []string{item.Path, fmt.Sprintf("%d", item.Tokens)})
		}
		rows = append(rows, []string{"skills (all)", fmt.Sprintf("%d", report.SkillTokens)})
		presenter.Table("Context Token Budget", []string{"File", "Tokens"}, rows)

		presenter.Info(fmt.Sprintf("Total: ~%d tokens", report.Total))

		switch {
		case report.Critical():
			presenter.Error(fmt.Errorf("~%d tokens exceeds many model context limits", report.Total),
				"Critical context size")
			os.Exit(1)
		case report.Warn():
			presenter.Warning("Large context may slow responses or get truncated. Consider trimming unused skills.")
		default:
			presenter.Success("Context budget looks healthy.")
		}
	},
}
