package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSkill(t *testing.T, dir, frontmatter, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	content := fmt.Sprintf("---\n%s---\n\n%s", frontmatter, body)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(content), 0o644))
}

func TestDiscoverOrderIsDeterministic(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, filepath.Join(root, "zeta"), "name: zeta\n", "body content for zeta skill, long enough.")
	writeSkill(t, filepath.Join(root, "alpha"), "name: alpha\n", "body content for alpha skill, long enough.")
	writeSkill(t, filepath.Join(root, "backend", "fastapi"), "name: fastapi\n", "body content for fastapi skill, long enough.")

	first, err := Discover(root)
	require.NoError(t, err)
	second, err := Discover(root)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Len(t, first, 3)
	assert.Equal(t, "alpha", first[0].Folder)
	assert.Equal(t, "fastapi", first[1].Folder)
	assert.Equal(t, "zeta", first[2].Folder)
}

func TestDiscoverSkipsMatchedSubtree(t *testing.T) {
	root := t.TempDir()
	outer := filepath.Join(root, "outer")
	writeSkill(t, outer, "name: outer\n", "outer body, definitely long enough to count.")
	// A SKILL.md nested inside an already-matched skill is part of that
	// skill, not a sibling.
	writeSkill(t, filepath.Join(outer, "examples", "inner"), "name: inner\n", "inner body text.")
	writeSkill(t, filepath.Join(root, "collection", "nested"), "name: nested\n", "nested body, long enough for validation.")

	entries, err := Discover(root)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "nested", entries[0].Folder)
	assert.Equal(t, "outer", entries[1].Folder)
}

func TestDiscoverMissingRoot(t *testing.T) {
	entries, err := Discover(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBuildNormalizesRecords(t *testing.T) {
	root := t.TempDir()
	// No name: folder identity becomes the name.
	writeSkill(t, filepath.Join(root, "unnamed_skill"), "description: something useful here\nversion: 1.0.0\n", "body text, long enough to be a real skill body.")
	// Parent directory becomes the category.
	writeSkill(t, filepath.Join(root, "data-ai", "pandas"), "name: pandas\ndescription: dataframes\nversion: 2.0.0\n", "body text, long enough to be a real skill body.")
	// Direct child of the root gets no inferred category.
	writeSkill(t, filepath.Join(root, "toplevel"), "name: toplevel\ndescription: top level\nversion: 1.0.0\n", "body text, long enough to be a real skill body.")

	c, err := Build(context.Background(), root)
	require.NoError(t, err)
	require.NoError(t, c.Skipped())
	require.Len(t, c.Records, 3)

	byFolder := map[string]Record{}
	for _, r := range c.Records {
		byFolder[r.Folder] = r
	}

	assert.Equal(t, "unnamed_skill", byFolder["unnamed_skill"].Meta.Name)
	assert.Equal(t, "data-ai", byFolder["pandas"].Meta.Category)
	assert.Empty(t, byFolder["toplevel"].Meta.Category)
	assert.Contains(t, byFolder["pandas"].Body, "body text")
}

func TestBuildSkipsBrokenDocuments(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, filepath.Join(root, "good"), "name: good\ndescription: a fine skill\nversion: 1.0.0\n", "body text, long enough to be a real skill body.")

	brokenDir := filepath.Join(root, "broken")
	require.NoError(t, os.MkdirAll(brokenDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(brokenDir, "SKILL.md"), []byte("no frontmatter here"), 0o644))

	c, err := Build(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, c.Records, 1)
	assert.Equal(t, "good", c.Records[0].Folder)
	assert.Error(t, c.Skipped())
	assert.Contains(t, c.Skipped().Error(), "broken")
}

func TestBuildRejectsDuplicateFolderIdentity(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, filepath.Join(root, "a", "dup"), "name: first\ndescription: one\nversion: 1.0.0\n", "body text, long enough to be a real skill body.")
	writeSkill(t, filepath.Join(root, "b", "dup"), "name: second\ndescription: two\nversion: 1.0.0\n", "body text, long enough to be a real skill body.")

	c, err := Build(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, c.Records, 1)
	assert.Equal(t, "first", c.Records[0].Meta.Name)
	assert.Error(t, c.Skipped())
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, filepath.Join(root, "git_workflow"), "name: git_workflow\ndescription: branching done right\nversion: 1.1.0\ntags:\n  - git\nauthor: someone\n", "body text, long enough to be a real skill body.")

	c, err := Build(context.Background(), root)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "skill_catalog.json")
	require.NoError(t, c.Save(path))

	records, err := Load(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "git_workflow", records[0].Name)
	assert.Equal(t, []string{"git"}, records[0].Tags)
	assert.Equal(t, "someone", records[0].Extra["author"])
}

func TestRebuildIsDeterministic(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, filepath.Join(root, "one"), "name: one\ndescription: first skill\nversion: 1.0.0\n", "body text, long enough to be a real skill body.")
	writeSkill(t, filepath.Join(root, "two"), "name: two\ndescription: second skill\nversion: 1.0.0\n", "body text, long enough to be a real skill body.")

	path1 := filepath.Join(t.TempDir(), "catalog.json")
	path2 := filepath.Join(t.TempDir(), "catalog.json")

	c1, err := Build(context.Background(), root)
	require.NoError(t, err)
	require.NoError(t, c1.Save(path1))

	c2, err := Build(context.Background(), root)
	require.NoError(t, err)
	require.NoError(t, c2.Save(path2))

	b1, err := os.ReadFile(path1)
	require.NoError(t, err)
	b2, err := os.ReadFile(path2)
	require.NoError(t, err)
	assert.Equal(t, b1, b2)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
