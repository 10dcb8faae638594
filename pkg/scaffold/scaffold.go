// Package scaffold creates the .agent/ project structure: AGENTS.md,
// per-platform rule files, state files, and the initial skill set installed
// from the local library.
package scaffold

import (
	"context"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/skillsmith/skillsmith/pkg/catalog"
	"github.com/skillsmith/skillsmith/pkg/library"
	"github.com/skillsmith/skillsmith/pkg/logger"
)

//go:embed templates
var templates embed.FS

// Marker identifies skillsmith-managed content inside platform rule files.
// Files already carrying the marker are never touched again.
const Marker = "<!-- Skillsmith -->"

// PlatformFile maps an embedded rule template to the path the AI tool
// auto-reads it from.
type PlatformFile struct {
	Key    string
	Source string
	Dest   string
	Label  string
}

// PlatformFiles lists every supported AI platform rule file, in the order
// init processes them.
var PlatformFiles = []PlatformFile{
	{Key: "gemini", Source: "GEMINI.md", Dest: "GEMINI.md", Label: "Gemini CLI"},
	{Key: "claude", Source: "CLAUDE.md", Dest: "CLAUDE.md", Label: "Claude Code"},
	{Key: "cursor", Source: "cursorrules", Dest: ".cursorrules", Label: "Cursor (legacy)"},
	{Key: "cursor_mdc", Source: "skillsmith.mdc", Dest: filepath.Join(".cursor", "rules", "skillsmith.mdc"), Label: "Cursor (modern .mdc)"},
	{Key: "windsurf", Source: "windsurfrules", Dest: ".windsurfrules", Label: "Windsurf"},
	{Key: "copilot", Source: "copilot-instructions.md", Dest: filepath.Join(".github", "copilot-instructions.md"), Label: "GitHub Copilot"},
}

// CoreSkills is the default skill set installed by init when no filter
// flags are given.
var CoreSkills = []string{
	"software_lifecycle",
	"prompt_engineering",
	"how_to_research",
	"how_to_create_skills",
	"how_to_create_implementation_plan",
	"code_review",
	"debugging",
	"git_workflow",
	"software_architecture",
	"ui_ux_design",
}

// StateFiles are the .agent/ context documents seeded by init.
var StateFiles = []string{"PROJECT.md", "ROADMAP.md", "STATE.md"}

// Options control what init creates.
type Options struct {
	Minimal      bool
	AgentsMDOnly bool
	All          bool
	Category     string
	Tag          string
}

// ActionKind classifies what init did to one path.
type ActionKind string

const (
	ActionCreated   ActionKind = "created"
	ActionAppended  ActionKind = "appended"
	ActionSkipped   ActionKind = "skipped"
	ActionInstalled ActionKind = "installed"
	ActionWarning   ActionKind = "warning"
)

// Action records one init step for presentation.
type Action struct {
	Kind   ActionKind
	Path   string
	Detail string
}

// Scaffolder initializes a project directory from the skill library.
type Scaffolder struct {
	lib    *library.Library
	target string
}

// New creates a Scaffolder installing into target from lib.
func New(lib *library.Library, target string) *Scaffolder {
	return &Scaffolder{lib: lib, target: target}
}

// Init creates the project scaffolding and returns the actions taken.
func (s *Scaffolder) Init(ctx context.Context, opts Options) ([]Action, error) {
	var actions []Action

	action, err := s.ensureAgentsMD()
	if err != nil {
		return actions, err
	}
	actions = append(actions, action)

	platformActions, err := s.ensurePlatformFiles()
	if err != nil {
		return actions, err
	}
	actions = append(actions, platformActions...)

	if opts.AgentsMDOnly {
		return actions, nil
	}

	stateActions, err := s.ensureStateFiles()
	if err != nil {
		return actions, err
	}
	actions = append(actions, stateActions...)

	if opts.Minimal {
		return actions, nil
	}

	installActions, err := s.installSkills(ctx, opts)
	if err != nil {
		return actions, err
	}
	actions = append(actions, installActions...)

	return actions, nil
}

func (s *Scaffolder) ensureAgentsMD() (Action, error) {
	dest := filepath.Join(s.target, "AGENTS.md")
	if _, err := os.Stat(dest); err == nil {
		return Action{Kind: ActionSkipped, Path: "AGENTS.md", Detail: "already exists"}, nil
	}

	content, err := templates.ReadFile("templates/AGENTS.md")
	if err != nil {
		return Action{}, errors.Wrap(err, "failed to read AGENTS.md template")
	}
	if err := os.WriteFile(dest, content, 0o644); err != nil {
		return Action{}, errors.Wrap(err, "failed to create AGENTS.md")
	}
	return Action{Kind: ActionCreated, Path: "AGENTS.md"}, nil
}

func (s *Scaffolder) ensurePlatformFiles() ([]Action, error) {
	var actions []Action
	for _, pf := range PlatformFiles {
		content, err := templates.ReadFile("templates/platforms/" + pf.Source)
		if err != nil {
			return actions, errors.Wrapf(err, "failed to read template for %s", pf.Key)
		}

		dest := filepath.Join(s.target, pf.Dest)
		existing, err := os.ReadFile(dest)
		switch {
		case err == nil && strings.Contains(string(existing), Marker):
			actions = append(actions, Action{Kind: ActionSkipped, Path: pf.Dest, Detail: "already has skillsmith config"})
		case err == nil:
			block := fmt.Sprintf("\n\n%s\n%s", Marker, content)
			if err := appendFile(dest, block); err != nil {
				return actions, errors.Wrapf(err, "failed to append to %s", pf.Dest)
			}
			actions = append(actions, Action{Kind: ActionAppended, Path: pf.Dest, Detail: pf.Label})
		default:
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return actions, errors.Wrapf(err, "failed to create directory for %s", pf.Dest)
			}
			block := fmt.Sprintf("%s\n%s", Marker, content)
			if err := os.WriteFile(dest, []byte(block), 0o644); err != nil {
				return actions, errors.Wrapf(err, "failed to create %s", pf.Dest)
			}
			actions = append(actions, Action{Kind: ActionCreated, Path: pf.Dest, Detail: pf.Label})
		}
	}
	return actions, nil
}

func (s *Scaffolder) ensureStateFiles() ([]Action, error) {
	agentDir := filepath.Join(s.target, ".agent")
	if err := os.MkdirAll(agentDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create .agent directory")
	}

	var actions []Action
	for _, name := range StateFiles {
		dest := filepath.Join(agentDir, name)
		rel := filepath.Join(".agent", name)
		if _, err := os.Stat(dest); err == nil {
			actions = append(actions, Action{Kind: ActionSkipped, Path: rel, Detail: "already exists"})
			continue
		}
		content, err := templates.ReadFile("templates/agent/" + name)
		if err != nil {
			return actions, errors.Wrapf(err, "failed to read template for %s", name)
		}
		if err := os.WriteFile(dest, content, 0o644); err != nil {
			return actions, errors.Wrapf(err, "failed to create %s", rel)
		}
		actions = append(actions, Action{Kind: ActionCreated, Path: rel})
	}
	return actions, nil
}

// installSkills selects skills from the library and copies them into the
// project. Default mode installs the core set, falling back to every skill
// only when the library holds none of the core names. Explicit filters
// always mean exactly the filtered set; an empty result is a warning, never
// a silent widening.
func (s *Scaffolder) installSkills(ctx context.Context, opts Options) ([]Action, error) {
	c, err := catalog.Build(ctx, s.lib.SkillsRoot())
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan skill library")
	}
	if skipped := c.Skipped(); skipped != nil {
		logger.G(ctx).WithError(skipped).Warn("some library skills could not be parsed")
	}

	selected := selectRecords(c.Records, opts)
	if len(selected) == 0 {
		detail := "library has no skills"
		if opts.Category != "" {
			detail = fmt.Sprintf("no library skills in category '%s'", opts.Category)
		} else if opts.Tag != "" {
			detail = fmt.Sprintf("no library skills with tag '%s'", opts.Tag)
		}
		return []Action{{Kind: ActionWarning, Path: ".agent/skills", Detail: detail}}, nil
	}

	destRoot := filepath.Join(s.target, ".agent", "skills")
	var actions []Action
	for _, r := range selected {
		// Nested skills keep their path relative to the library root.
		rel, err := filepath.Rel(s.lib.SkillsRoot(), r.Dir)
		if err != nil {
			return actions, errors.Wrapf(err, "failed to resolve path for skill '%s'", r.Folder)
		}
		dest := filepath.Join(destRoot, rel)
		if _, err := os.Stat(dest); err == nil {
			actions = append(actions, Action{Kind: ActionSkipped, Path: rel, Detail: "skill already installed"})
			continue
		}
		if err := library.CopyTree(r.Dir, dest); err != nil {
			return actions, errors.Wrapf(err, "failed to install skill '%s'", r.Folder)
		}
		actions = append(actions, Action{Kind: ActionInstalled, Path: rel})
	}
	return actions, nil
}

func selectRecords(records []catalog.Record, opts Options) []catalog.Record {
	defaultMode := !opts.All && opts.Category == "" && opts.Tag == ""

	hasCore := false
	if defaultMode {
		for _, r := range records {
			if isCoreSkill(r.Folder) {
				hasCore = true
				break
			}
		}
	}

	var selected []catalog.Record
	for _, r := range records {
		include := false
		switch {
		case opts.All:
			include = true
		case opts.Category != "":
			include = r.Meta.Category == opts.Category
		case opts.Tag != "":
			include = hasTag(r.Meta.Tags, opts.Tag)
		default:
			include = isCoreSkill(r.Folder) || !hasCore
		}
		if include {
			selected = append(selected, r)
		}
	}
	return selected
}

func isCoreSkill(folder string) bool {
	base := filepath.Base(folder)
	for _, core := range CoreSkills {
		if base == core {
			return true
		}
	}
	return false
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func appendFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(content)
	return err
}
