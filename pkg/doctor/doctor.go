// Package doctor checks the health of a skillsmith setup: core files,
// per-platform rule files, .agent/ state files, and installed skills.
package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/skillsmith/skillsmith/pkg/catalog"
	"github.com/skillsmith/skillsmith/pkg/scaffold"
)

// StaleStateThreshold is how old STATE.md may get before doctor flags it.
const StaleStateThreshold = 24 * time.Hour

// Status is the outcome of one check.
type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
	StatusInfo Status = "info"
)

// Check is one health check result.
type Check struct {
	Section string
	Name    string
	Status  Status
	Detail  string
}

// Report aggregates all checks for one project.
type Report struct {
	Checks []Check
}

// Healthy reports whether no check failed or warned. Informational checks
// never affect health.
func (r Report) Healthy() bool {
	for _, c := range r.Checks {
		if c.Status == StatusFail || c.Status == StatusWarn {
			return false
		}
	}
	return true
}

// Run performs every health check against the project root.
func Run(root string) Report {
	var r Report
	r.checkCoreFiles(root)
	r.checkPlatformFiles(root)
	r.checkStateFiles(root)
	r.checkSkills(root)
	r.detectPlatforms(root)
	return r
}

func (r *Report) add(c Check) {
	r.Checks = append(r.Checks, c)
}

func (r *Report) checkCoreFiles(root string) {
	const section = "Core Files"
	content, err := os.ReadFile(filepath.Join(root, "AGENTS.md"))
	switch {
	case err != nil:
		r.add(Check{section, "AGENTS.md", StatusFail, "missing, run: skillsmith init"})
	case strings.Contains(string(content), "Search-then-GSD"):
		r.add(Check{section, "AGENTS.md", StatusOK, "protocol: Search-then-GSD"})
	default:
		r.add(Check{section, "AGENTS.md", StatusWarn, "legacy protocol, run: skillsmith init"})
	}
}

func (r *Report) checkPlatformFiles(root string) {
	const section = "Platform Rule Files"
	for _, pf := range scaffold.PlatformFiles {
		content, err := os.ReadFile(filepath.Join(root, pf.Dest))
		switch {
		case err != nil:
			r.add(Check{section, pf.Dest, StatusFail, fmt.Sprintf("missing (%s), run: skillsmith init", pf.Label)})
		case strings.Contains(string(content), scaffold.Marker):
			r.add(Check{section, pf.Dest, StatusOK, pf.Label})
		default:
			r.add(Check{section, pf.Dest, StatusWarn, "exists but missing skillsmith config, run: skillsmith init"})
		}
	}
}

func (r *Report) checkStateFiles(root string) {
	const section = "State Files"
	descriptions := map[string]string{
		"PROJECT.md": "tech stack & vision",
		"ROADMAP.md": "strategic milestones",
		"STATE.md":   "current task context",
	}
	for _, name := range scaffold.StateFiles {
		rel := filepath.Join(".agent", name)
		fi, err := os.Stat(filepath.Join(root, rel))
		if err != nil {
			r.add(Check{section, rel, StatusFail, "missing, run: skillsmith init"})
			continue
		}
		if name == "STATE.md" {
			if age := time.Since(fi.ModTime()); age > StaleStateThreshold {
				r.add(Check{section, rel, StatusWarn, fmt.Sprintf("stale (%.0fh old), update it to prevent context rot", age.Hours())})
				continue
			}
		}
		r.add(Check{section, rel, StatusOK, descriptions[name]})
	}
}

func (r *Report) checkSkills(root string) {
	const section = "Skills"
	skillsDir := filepath.Join(root, ".agent", "skills")
	if _, err := os.Stat(skillsDir); err != nil {
		r.add(Check{section, ".agent/skills", StatusFail, "not found, run: skillsmith init"})
		return
	}
	entries, err := catalog.Discover(skillsDir)
	if err != nil {
		r.add(Check{section, ".agent/skills", StatusFail, err.Error()})
		return
	}
	r.add(Check{section, ".agent/skills", StatusOK, fmt.Sprintf("%d skills installed", len(entries))})
}

// detectPlatforms reports which AI tools appear to be in use. Purely
// informational.
func (r *Report) detectPlatforms(root string) {
	const section = "Platform Detection"
	home, _ := os.UserHomeDir()
	detections := []struct {
		name  string
		paths []string
	}{
		{"Gemini CLI", []string{filepath.Join(root, "GEMINI.md"), filepath.Join(home, ".gemini")}},
		{"Claude Code", []string{filepath.Join(root, "CLAUDE.md"), filepath.Join(home, ".claude")}},
		{"Cursor", []string{filepath.Join(root, ".cursorrules"), filepath.Join(root, ".cursor")}},
		{"Windsurf", []string{filepath.Join(root, ".windsurfrules"), filepath.Join(root, ".windsurf")}},
		{"GitHub Copilot", []string{filepath.Join(root, ".github", "copilot-instructions.md")}},
	}
	for _, d := range detections {
		detected := false
		for _, p := range d.paths {
			if _, err := os.Stat(p); err == nil {
				detected = true
				break
			}
		}
		detail := "not detected"
		if detected {
			detail = "detected"
		}
		r.add(Check{section, d.name, StatusInfo, detail})
	}
}
