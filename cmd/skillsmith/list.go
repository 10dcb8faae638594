package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"

	"github.com/skillsmith/skillsmith/pkg/catalog"
	"github.com/skillsmith/skillsmith/pkg/presenter"
	"github.com/skillsmith/skillsmith/pkg/skills"
)

// ListConfig holds configuration for the list command
type ListConfig struct {
	Category   string
	Tag        string
	Categories bool
}

// NewListConfig creates a new ListConfig with default values
func NewListConfig() *ListConfig {
	return &ListConfig{}
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available skills from the catalog",
	Long: `List the skills in the library catalog. Category and tag filters accept
wildcard patterns ('data-*', 'py*') and match case-insensitively. Falls back
to a live scan of the library when no catalog file exists.`,
	Run: func(cmd *cobra.Command, _ []string) {
		config := getListConfigFromFlags(cmd)

		metas, err := loadLibraryMetas(cmd)
		if err != nil {
			presenter.Error(err, "Run 'skillsmith rebuild' to create the catalog")
			os.Exit(1)
		}

		if config.Categories {
			presentCategories(metas)
			return
		}

		categoryGlob, err := compileFilter(config.Category)
		if err != nil {
			presenter.Error(err, "Invalid --category pattern")
			os.Exit(1)
		}
		tagGlob, err := compileFilter(config.Tag)
		if err != nil {
			presenter.Error(err, "Invalid --tag pattern")
			os.Exit(1)
		}

		var rows [][]string
		for _, m := range metas {
			if categoryGlob != nil && !categoryGlob.Match(strings.ToLower(m.Category)) {
				continue
			}
			if tagGlob != nil && !matchesAnyTag(tagGlob, m.Tags) {
				continue
			}
			rows = append(rows, []string{m.Name, m.Version, m.Category, truncate(m.Description, 80)})
		}

		presenter.Table(fmt.Sprintf("Available Skills (%d)", len(metas)),
			[]string{"Name", "Version", "Category", "Description"}, rows)
		presenter.Info(fmt.Sprintf("Showing %d matching skills.", len(rows)))
	},
}

func init() {
	defaults := NewListConfig()
	listCmd.Flags().String("category", defaults.Category, "Filter by category (wildcards allowed)")
	listCmd.Flags().String("tag", defaults.Tag, "Filter by tag (wildcards allowed)")
	listCmd.Flags().Bool("categories", defaults.Categories, "List all categories and skill counts")
}

// getListConfigFromFlags extracts list configuration from command flags
func getListConfigFromFlags(cmd *cobra.Command) *ListConfig {
	config := NewListConfig()

	if category, err := cmd.Flags().GetString("category"); err == nil {
		config.Category = category
	}
	if tag, err := cmd.Flags().GetString("tag"); err == nil {
		config.Tag = tag
	}
	if categories, err := cmd.Flags().GetBool("categories"); err == nil {
		config.Categories = categories
	}

	return config
}

// loadLibraryMetas prefers the prebuilt catalog file and falls back to a
// live scan of the library skills tree.
func loadLibraryMetas(cmd *cobra.Command) ([]skills.Metadata, error) {
	lib := skillLibrary()
	if metas, err := catalog.Load(lib.CatalogPath()); err == nil {
		return metas, nil
	}

	c, err := catalog.Build(cmd.Context(), lib.SkillsRoot())
	if err != nil {
		return nil, err
	}
	metas := make([]skills.Metadata, 0, len(c.Records))
	for _, r := range c.Records {
		metas = append(metas, r.Meta)
	}
	return metas, nil
}

func presentCategories(metas []skills.Metadata) {
	counts := map[string]int{}
	for _, m := range metas {
		cat := m.Category
		if cat == "" {
			cat = "uncategorized"
		}
		counts[cat]++
	}

	cats := make([]string, 0, len(counts))
	for cat := range counts {
		cats = append(cats, cat)
	}
	sort.Strings(cats)

	rows := make([][]string, 0, len(cats))
	for _, cat := range cats {
		rows = append(rows, []string{cat, strconv.Itoa(counts[cat])})
	}
	presenter.Table("Skill Categories", []string{"Category", "Count"}, rows)
}

func compileFilter(pattern string) (glob.Glob, error) {
	if pattern == "" {
		return nil, nil
	}
	return glob.Compile(strings.ToLower(pattern))
}

func matchesAnyTag(g glob.Glob, tags []string) bool {
	for _, t := range tags {
		if g.Match(strings.ToLower(t)) {
			return true
		}
	}
	return false
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
