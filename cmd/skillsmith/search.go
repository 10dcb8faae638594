package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skillsmith/skillsmith/pkg/presenter"
	"github.com/skillsmith/skillsmith/pkg/query"
)

// SearchConfig holds configuration for the search command
type SearchConfig struct {
	MaxResults int
}

// NewSearchConfig creates a new SearchConfig with default values
func NewSearchConfig() *SearchConfig {
	return &SearchConfig{MaxResults: query.DefaultMaxResults}
}

var searchCmd = &cobra.Command{
	Use:   "search <keywords...>",
	Short: "Search installed skills by keyword relevance",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		config := getSearchConfigFromFlags(cmd)
		queryText := strings.Join(args, " ")

		svc := query.NewService(skillsRoot())
		hits, err := svc.SearchSkills(ctx, queryText, config.MaxResults)
		if err != nil {
			presenter.Error(err, "Search failed")
			os.Exit(1)
		}

		if len(hits) == 0 {
			presenter.Warning(fmt.Sprintf("No skills matched '%s'. Try broader keywords.", queryText))
			return
		}

		rows := make([][]string, 0, len(hits))
		for _, h := range hits {
			rows = append(rows, []string{
				strconv.Itoa(h.RelevanceScore),
				h.Folder,
				truncate(h.Description, 80),
				strings.Join(h.Tags, ", "),
			})
		}
		presenter.Table(fmt.Sprintf("Search Results for '%s'", queryText),
			[]string{"Score", "Skill", "Description", "Tags"}, rows)
	},
}

func init() {
	defaults := NewSearchConfig()
	searchCmd.Flags().Int("max-results", defaults.MaxResults, "Maximum results to show")
}

// getSearchConfigFromFlags extracts search configuration from command flags
func getSearchConfigFromFlags(cmd *cobra.Command) *SearchConfig {
	config := NewSearchConfig()

	if maxResults, err := cmd.Flags().GetInt("max-results"); err == nil {
		config.MaxResults = maxResults
	}

	return config
}
