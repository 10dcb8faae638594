package workflow

import (
	"strings"
	"testing"

	"github.com/skillsmith/skillsmith/pkg/catalog"
	"github.com/skillsmith/skillsmith/pkg/skills"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(folder, name, desc string, tags []string, body string) catalog.Record {
	return catalog.Record{
		Folder: folder,
		Meta: skills.Metadata{
			Name:        name,
			Description: desc,
			Tags:        tags,
		},
		Body: body,
	}
}

func TestComposeSelectsByScore(t *testing.T) {
	records := []catalog.Record{
		record("debugging", "debugging", "build and fix software", nil, ""),
		record("software_lifecycle", "software_lifecycle", "saas mvp build playbook", nil, ""),
		record("ui_design", "ui_design", "visual polish", nil, ""),
	}

	c := Compose("build a saas mvp", 1, records)
	require.Len(t, c.Steps, 1)
	assert.Equal(t, "software_lifecycle", c.Steps[0].Folder)
	assert.Equal(t, 3, c.Steps[0].Score)
	assert.Equal(t, 2, c.Matched)
}

func TestComposeExcludesZeroScores(t *testing.T) {
	records := []catalog.Record{
		record("unrelated", "unrelated", "nothing in common", nil, "totally different topic"),
	}

	c := Compose("kubernetes deployment", 7, records)
	assert.True(t, c.Empty())
	assert.Zero(t, c.Matched)
}

func TestComposeTieBreaksByDiscoveryOrder(t *testing.T) {
	records := []catalog.Record{
		record("first", "first", "testing guide", nil, ""),
		record("second", "second", "testing guide", nil, ""),
	}

	c := Compose("testing", 7, records)
	require.Len(t, c.Steps, 2)
	assert.Equal(t, "first", c.Steps[0].Folder)
	assert.Equal(t, "second", c.Steps[1].Folder)
}

func TestComposeDefaultsMaxSkills(t *testing.T) {
	var records []catalog.Record
	for _, folder := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"} {
		records = append(records, record(folder, folder, "testing skills", nil, ""))
	}

	c := Compose("testing", 0, records)
	assert.Len(t, c.Steps, DefaultMaxSkills)
	assert.Equal(t, 9, c.Matched)
}

func TestRenderIsDeterministic(t *testing.T) {
	records := []catalog.Record{
		record("git_workflow", "git-workflow", "branching and releases", []string{"git"}, "rebase etiquette"),
	}

	c := Compose("git branching", 7, records)
	first := Render(c)
	second := Render(Compose("git branching", 7, records))
	assert.Equal(t, first, second)
}

func TestRenderLayout(t *testing.T) {
	records := []catalog.Record{
		record("git_workflow", "git-workflow", "branching and releases", []string{"git"}, ""),
		record("code_review", "code_review", "review git changes well", nil, ""),
	}

	out := Render(Compose("git branching review", 7, records))

	assert.True(t, strings.HasPrefix(out, "# Workflow: Git Branching Review\n"))
	assert.Contains(t, out, "> Generated by skillsmith from 2 skills.")
	assert.Contains(t, out, "## Step 1: Git Workflow")
	assert.Contains(t, out, "**Skill:** `git_workflow`")
	assert.Contains(t, out, "**Purpose:** branching and releases")
	assert.Contains(t, out, "Use get_skill('git_workflow') to read full instructions.")
	assert.Contains(t, out, "- [ ] Step 1 complete")
	assert.Contains(t, out, "## Step 2: Code_review")
	assert.Contains(t, out, "## Notes")
	assert.Contains(t, out, "- Generated for goal: **git branching review**")
	assert.Contains(t, out, "- 2 skills matched, top 2 selected by relevance")
}

func TestRenderNoMatches(t *testing.T) {
	out := Render(Compose("nothing relevant", 7, nil))
	assert.Equal(t, "No skills matched the goal: 'nothing relevant'. Try broader keywords.", out)
}
