package updater

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillsmith/skillsmith/pkg/library"
)

func writeSkill(t *testing.T, dir, name, version, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	content := "---\nname: " + name + "\ndescription: a skill\nversion: " + version + "\n---\n\n" + body
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(content), 0o644))
}

func setup(t *testing.T) (string, *library.Library) {
	t.Helper()
	libRoot := t.TempDir()
	writeSkill(t, filepath.Join(libRoot, ".agent", "skills", "debugging"), "debugging", "2.0.0", "# Debugging v2\n")
	writeSkill(t, filepath.Join(libRoot, ".agent", "skills", "git_workflow"), "git-workflow", "1.0.0", "# Git\n")

	skillsDir := filepath.Join(t.TempDir(), ".agent", "skills")
	writeSkill(t, filepath.Join(skillsDir, "debugging"), "debugging", "1.0.0", "# Debugging v1\n")
	writeSkill(t, filepath.Join(skillsDir, "git_workflow"), "git-workflow", "1.0.0", "# Git\n")
	writeSkill(t, filepath.Join(skillsDir, "homegrown"), "homegrown", "1.0.0", "# Mine\n")

	return skillsDir, library.New(libRoot)
}

func resultFor(t *testing.T, results []Result, folder string) Result {
	t.Helper()
	for _, r := range results {
		if r.Folder == folder {
			return r
		}
	}
	t.Fatalf("no result for %s", folder)
	return Result{}
}

func TestUpdateRefreshesOutdatedSkill(t *testing.T) {
	skillsDir, lib := setup(t)

	results, err := Update(context.Background(), skillsDir, lib, Options{})
	require.NoError(t, err)
	require.Len(t, results, 3)

	updated := resultFor(t, results, "debugging")
	assert.Equal(t, StatusUpdated, updated.Status)
	assert.Equal(t, "1.0.0", updated.LocalVersion)
	assert.Equal(t, "2.0.0", updated.LibraryVersion)

	content, err := os.ReadFile(filepath.Join(skillsDir, "debugging", "SKILL.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "# Debugging v2")
}

func TestUpdateLeavesCurrentSkillsAlone(t *testing.T) {
	skillsDir, lib := setup(t)

	results, err := Update(context.Background(), skillsDir, lib, Options{})
	require.NoError(t, err)

	current := resultFor(t, results, "git_workflow")
	assert.Equal(t, StatusUpToDate, current.Status)
	assert.Equal(t, "up to date (1.0.0)", current.Summary())
}

func TestUpdateReportsSkillsGoneFromLibrary(t *testing.T) {
	skillsDir, lib := setup(t)

	results, err := Update(context.Background(), skillsDir, lib, Options{})
	require.NoError(t, err)

	gone := resultFor(t, results, "homegrown")
	assert.Equal(t, StatusGone, gone.Status)
}

func TestUpdateDiffRecordsUnifiedDiff(t *testing.T) {
	skillsDir, lib := setup(t)

	results, err := Update(context.Background(), skillsDir, lib, Options{Diff: true})
	require.NoError(t, err)

	updated := resultFor(t, results, "debugging")
	assert.Contains(t, updated.Diff, "-")
	assert.Contains(t, updated.Diff, "# Debugging v1")
	assert.Contains(t, updated.Diff, "# Debugging v2")
}

func TestUpdateDryRunDoesNotTouchFiles(t *testing.T) {
	skillsDir, lib := setup(t)

	results, err := Update(context.Background(), skillsDir, lib, Options{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, StatusUpdated, resultFor(t, results, "debugging").Status)

	content, err := os.ReadFile(filepath.Join(skillsDir, "debugging", "SKILL.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "# Debugging v1")
}

func TestUpdateMissingSkillsDir(t *testing.T) {
	_, lib := setup(t)

	_, err := Update(context.Background(), filepath.Join(t.TempDir(), "absent"), lib, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "skillsmith init")
}

func TestCompareVersionsIsNumeric(t *testing.T) {
	assert.Equal(t, 1, compareVersions("0.10.0", "0.9.0"))
	assert.Equal(t, -1, compareVersions("1.2.3", "1.2.10"))
	assert.Equal(t, 0, compareVersions("1.0.0", "1.0.0"))
	assert.Equal(t, 1, compareVersions("2.0.0", "bogus"))
}
