// Package budget estimates how many context tokens a project's agent files
// consume: platform rule files, .agent/ state files, and installed skills.
package budget

import (
	"os"
	"path/filepath"

	"github.com/skillsmith/skillsmith/pkg/catalog"
)

// Rough estimate used across the tool: ~4 characters per token.
const charsPerToken = 4

// Warning thresholds against common context window sizes.
const (
	WarnTokens     = 20000
	CriticalTokens = 100000
)

// platformFiles are the rule files every AI tool loads into context.
var platformFiles = []string{
	"AGENTS.md",
	"GEMINI.md",
	"CLAUDE.md",
	".cursorrules",
	".windsurfrules",
	filepath.Join(".github", "copilot-instructions.md"),
}

var stateFiles = []string{
	filepath.Join(".agent", "PROJECT.md"),
	filepath.Join(".agent", "ROADMAP.md"),
	filepath.Join(".agent", "STATE.md"),
}

// skillExtensions are the file types counted inside skill folders.
var skillExtensions = map[string]bool{
	".md":   true,
	".py":   true,
	".sh":   true,
	".json": true,
}

// Item is one counted file or group.
type Item struct {
	Path   string
	Tokens int
}

// Report is the full budget breakdown for one project.
type Report struct {
	Items       []Item
	SkillTokens int
	Total       int
}

// Warn reports whether the total is large enough to cause latency or
// truncation.
func (r Report) Warn() bool {
	return r.Total > WarnTokens
}

// Critical reports whether the total exceeds many model context limits.
func (r Report) Critical() bool {
	return r.Total > CriticalTokens
}

// EstimateTokens estimates the token count of a text.
func EstimateTokens(text string) int {
	return len(text) / charsPerToken
}

// Analyze walks the project root and totals estimated tokens. Missing files
// are simply not counted.
func Analyze(root string) (Report, error) {
	var report Report

	for _, group := range [][]string{platformFiles, stateFiles} {
		for _, name := range group {
			data, err := os.ReadFile(filepath.Join(root, name))
			if err != nil {
				continue
			}
			tokens := EstimateTokens(string(data))
			report.Items = append(report.Items, Item{Path: name, Tokens: tokens})
			report.Total += tokens
		}
	}

	skillsDir := filepath.Join(root, ".agent", "skills")
	entries, err := catalog.Discover(skillsDir)
	if err != nil {
		return report, err
	}
	for _, e := range entries {
		report.SkillTokens += skillDirTokens(e.Dir)
	}
	report.Total += report.SkillTokens

	return report, nil
}

func skillDirTokens(dir string) int {
	total := 0
	_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if !skillExtensions[filepath.Ext(path)] {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		total += EstimateTokens(string(data))
		return nil
	})
	return total
}
