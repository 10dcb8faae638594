package doctor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillsmith/skillsmith/pkg/library"
	"github.com/skillsmith/skillsmith/pkg/scaffold"
)

func initProject(t *testing.T) string {
	t.Helper()
	libRoot := t.TempDir()
	dir := filepath.Join(libRoot, ".agent", "skills", "debugging")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"),
		[]byte("---\nname: debugging\ndescription: find and fix bugs\nversion: 1.0.0\n---\n\n# Debugging\n\nA reasonable body for linting purposes.\n"), 0o644))

	target := t.TempDir()
	s := scaffold.New(library.New(libRoot), target)
	_, err := s.Init(context.Background(), scaffold.Options{})
	require.NoError(t, err)
	return target
}

func findCheck(t *testing.T, r Report, name string) Check {
	t.Helper()
	for _, c := range r.Checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("check %q not found", name)
	return Check{}
}

func TestRunHealthyAfterInit(t *testing.T) {
	root := initProject(t)

	r := Run(root)
	assert.True(t, r.Healthy())
	assert.Equal(t, StatusOK, findCheck(t, r, "AGENTS.md").Status)
	assert.Equal(t, StatusOK, findCheck(t, r, ".agent/skills").Status)
	assert.Contains(t, findCheck(t, r, ".agent/skills").Detail, "1 skills installed")
}

func TestRunEmptyDirectoryFails(t *testing.T) {
	r := Run(t.TempDir())

	assert.False(t, r.Healthy())
	assert.Equal(t, StatusFail, findCheck(t, r, "AGENTS.md").Status)
	assert.Equal(t, StatusFail, findCheck(t, r, ".agent/skills").Status)
}

func TestRunFlagsStaleState(t *testing.T) {
	root := initProject(t)
	statePath := filepath.Join(root, ".agent", "STATE.md")
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(statePath, old, old))

	r := Run(root)
	assert.False(t, r.Healthy())
	check := findCheck(t, r, filepath.Join(".agent", "STATE.md"))
	assert.Equal(t, StatusWarn, check.Status)
	assert.Contains(t, check.Detail, "stale")
}

func TestRunFlagsPlatformFileWithoutMarker(t *testing.T) {
	root := initProject(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "CLAUDE.md"), []byte("# my own rules\n"), 0o644))

	r := Run(root)
	assert.False(t, r.Healthy())
	assert.Equal(t, StatusWarn, findCheck(t, r, "CLAUDE.md").Status)
}

func TestRunFlagsLegacyAgentsMD(t *testing.T) {
	root := initProject(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "AGENTS.md"), []byte("# AGENTS.md\n\nold protocol\n"), 0o644))

	r := Run(root)
	assert.Equal(t, StatusWarn, findCheck(t, r, "AGENTS.md").Status)
}

func TestPlatformDetectionIsInformational(t *testing.T) {
	root := initProject(t)

	r := Run(root)
	require.True(t, r.Healthy())
	check := findCheck(t, r, "Claude Code")
	assert.Equal(t, StatusInfo, check.Status)
	assert.Equal(t, "detected", check.Detail)
}
