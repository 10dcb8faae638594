package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillsmith/skillsmith/pkg/presenter"
	"github.com/skillsmith/skillsmith/pkg/query"
)

var getCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Print one skill document",
	Long: `Print the full SKILL.md for one installed skill. The name may be the
folder name, the metadata name, or any unique partial match.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		svc := query.NewService(skillsRoot())

		content, err := svc.GetSkill(ctx, args[0])
		if err != nil {
			presenter.Error(err, "Could not resolve skill")
			os.Exit(1)
		}
		fmt.Print(content)
	},
}
